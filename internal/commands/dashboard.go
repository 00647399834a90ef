package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/intellibrowse/internal/auth"
	"github.com/diogo/intellibrowse/internal/models"
)

// NewDashboardCmd creates the dashboard command
func NewDashboardCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the signed-in account",
		Long: `Verify the stored session with the backend and show the account it
belongs to. An invalid or missing session leads to the login prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := guard(cmd.Context(), deps)
			if !ok {
				return err
			}

			token, _ := deps.Session.Token()
			claims, err := auth.DecodeClaims(token)
			if err != nil {
				deps.Logger.Debug("token payload unreadable", "error", err)
			}
			return writeDashboard(deps.Out, claims, time.Now())
		},
	}
}

func writeDashboard(w io.Writer, claims models.Claims, now time.Time) error {
	fmt.Fprintln(w, labelStyle.Render("Welcome to your dashboard"))
	fmt.Fprintln(w, successStyle.Render("You are now logged in."))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if claims.Username != "" {
		_, _ = fmt.Fprintf(tw, "Username:\t%s\n", claims.Username)
	}
	if claims.UserID != "" {
		_, _ = fmt.Fprintf(tw, "User ID:\t%s\n", claims.UserID)
	}
	if !claims.ExpiresAt.IsZero() {
		_, _ = fmt.Fprintf(tw, "Session expires:\t%s (in %s)\n",
			claims.ExpiresAt.Local().Format("2006-01-02 15:04"),
			claims.ExpiresAt.Sub(now).Round(time.Minute))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, dimStyle.Render("intellibrowse chat     open the assistant"))
	fmt.Fprintln(w, dimStyle.Render("intellibrowse logout   sign out"))
	return nil
}
