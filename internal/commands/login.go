package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/intellibrowse/internal/auth"
	apierrors "github.com/diogo/intellibrowse/internal/errors"
	"github.com/diogo/intellibrowse/internal/models"
)

// ErrLoginRequired is returned by guarded commands that could not render
var ErrLoginRequired = errors.New("login required")

// NewLoginCmd creates the login command
func NewLoginCmd(deps *Dependencies) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to your account",
		Long: `Sign in with your email and password. The password is read from the
terminal without echo. On success the session token is stored in
~/.intellibrowse/storage.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), deps, email)
		},
	}

	cmd.Flags().StringVarP(&email, "username", "u", "", "Account email")
	return cmd
}

// NewSignupCmd creates the signup command
func NewSignupCmd(deps *Dependencies) *cobra.Command {
	var req models.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignup(cmd.Context(), deps, req)
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "Display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	return cmd
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(deps.Out, successStyle.Render("✓ Logged out"))
			return nil
		},
	}
}

func runLogin(ctx context.Context, deps *Dependencies, email string) error {
	creds := models.Credentials{Identifier: strings.TrimSpace(email)}

	var err error
	if creds.Identifier == "" {
		if creds.Identifier, err = deps.Prompter.ReadLine("Email: "); err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}
	if creds.Secret, err = deps.Prompter.ReadPassword("Password: "); err != nil {
		return err
	}

	if err := deps.Session.Login(ctx, creds); err != nil {
		return err
	}

	fmt.Fprintln(deps.Out, successStyle.Render("✓ Login successful"))
	fmt.Fprintln(deps.Out, dimStyle.Render("Run 'intellibrowse dashboard' or 'intellibrowse chat' to continue."))
	return nil
}

func runSignup(ctx context.Context, deps *Dependencies, req models.SignupRequest) error {
	var err error
	if strings.TrimSpace(req.Username) == "" {
		if req.Username, err = deps.Prompter.ReadLine("Username: "); err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}
	if strings.TrimSpace(req.Email) == "" {
		if req.Email, err = deps.Prompter.ReadLine("Email: "); err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}
	if req.Password, err = deps.Prompter.ReadPassword("Password: "); err != nil {
		return err
	}

	if err := auth.ValidateSignup(req); err != nil {
		return err
	}
	if err := deps.Client.Signup(ctx, req); err != nil {
		return fmt.Errorf("signup: %w", err)
	}

	fmt.Fprintln(deps.Out, successStyle.Render("✓ Signup successful"))

	if !deps.Prompter.Interactive() {
		fmt.Fprintln(deps.Out, dimStyle.Render("Run 'intellibrowse login' to sign in."))
		return nil
	}
	fmt.Fprintln(deps.Out, dimStyle.Render("Sign in with your new account."))
	return runLogin(ctx, deps, req.Email)
}

// guard runs the session check for a protected command. It returns true
// when the command may render; otherwise the redirect has been handled and
// err is what the command should return.
func guard(ctx context.Context, deps *Dependencies) (bool, error) {
	outcome := deps.Guard.Check(ctx)
	if outcome.Decision == auth.DecisionRender {
		return true, nil
	}
	return false, redirectToLogin(ctx, deps, outcome)
}

// redirectToLogin is the terminal form of navigating to /login. On a
// terminal the login prompt runs in place; otherwise the command fails.
func redirectToLogin(ctx context.Context, deps *Dependencies, outcome auth.Outcome) error {
	deps.Logger.Debug("redirect", "route", outcome.Redirect, "reason", outcome.Reason)

	if outcome.NoToken() {
		fmt.Fprintln(deps.Err, warnStyle.Render("You are not logged in."))
	} else {
		fmt.Fprintln(deps.Err, warnStyle.Render("Your session could not be verified."))
		printError(deps.Err, outcome.Reason)
	}

	if !deps.Prompter.Interactive() {
		return fmt.Errorf("%w: %w", ErrLoginRequired, reasonOrNoToken(outcome.Reason))
	}

	if err := runLogin(ctx, deps, ""); err != nil {
		return err
	}
	fmt.Fprintln(deps.Err, dimStyle.Render("Run the command again to continue."))
	return nil
}

func reasonOrNoToken(err error) error {
	if err == nil {
		return apierrors.ErrNoToken
	}
	return err
}
