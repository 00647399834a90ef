// Package commands provides CLI commands for intellibrowse.
package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/intellibrowse/internal/auth"
	"github.com/diogo/intellibrowse/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// NewRootCmd builds the command tree over deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}

	var opts setupOptions

	cmd := &cobra.Command{
		Use:   "intellibrowse",
		Short: "Terminal client for the IntelliBrowse assistant",
		Long: `intellibrowse is a terminal client for the IntelliBrowse research
assistant. Sign in with your account, then chat with the assistant or
export your conversation history.

Examples:
  intellibrowse signup                  Create an account
  intellibrowse login -u me@example.com Sign in
  intellibrowse chat                    Start interactive chat
  intellibrowse ask "What is Go?"       Send a single message
  intellibrowse history -o chats.md     Export the conversation`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return deps.setup(opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Out, "intellibrowse %s (built %s)\n", Version, BuildTime)
				return nil
			}
			if err := cmd.Help(); err != nil {
				return err
			}
			fmt.Fprintln(deps.Out)
			fmt.Fprintln(deps.Out, sessionHint(deps.Session, time.Now()))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "Backend base URL (overrides config)")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.SetOut(deps.Out)
	cmd.SetErr(deps.Err)

	cmd.AddCommand(NewLoginCmd(deps))
	cmd.AddCommand(NewSignupCmd(deps))
	cmd.AddCommand(NewLogoutCmd(deps))
	cmd.AddCommand(NewDashboardCmd(deps))
	cmd.AddCommand(NewChatCmd(deps))
	cmd.AddCommand(NewAskCmd(deps))
	cmd.AddCommand(NewHistoryCmd(deps))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// sessionHint describes the stored session without contacting the backend
func sessionHint(session *auth.Controller, now time.Time) string {
	token, ok := session.Token()
	if !ok {
		return dimStyle.Render("Not logged in. Run 'intellibrowse login' or 'intellibrowse signup'.")
	}

	claims, err := auth.DecodeClaims(token)
	switch {
	case err != nil:
		return dimStyle.Render("A session token is stored. Run 'intellibrowse dashboard' to check it.")
	case claims.Expired(now):
		return warnStyle.Render(fmt.Sprintf("Session for %s has expired. Run 'intellibrowse login'.", claims.Username))
	default:
		return successStyle.Render(fmt.Sprintf("Signed in as %s.", claims.Username))
	}
}

func printError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, tui.FormatError(err))
}
