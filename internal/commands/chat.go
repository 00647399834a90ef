package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/diogo/intellibrowse/internal/auth"
	"github.com/diogo/intellibrowse/internal/config"
	"github.com/diogo/intellibrowse/internal/render"
	"github.com/diogo/intellibrowse/internal/tui"
)

// NewChatCmd creates the chat command
func NewChatCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the IntelliBrowse assistant.

The session is verified before anything is shown and your previous
conversation is loaded from the server. Type 'exit', 'quit', or press
Ctrl+C to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies) error {
	cfg := *deps.Config

	if cfg.TUITheme != "" && !render.SetTUITheme(cfg.TUITheme) {
		deps.Logger.Warn("unknown tui theme, keeping default", "theme", cfg.TUITheme)
	}
	tui.UpdateTheme()

	logOut, closeLog := tuiLogWriter(cfg.Verbose)
	restore := deps.redirectLogs(logOut)
	result, err := deps.TUI.RunChat(tui.ChatOptions{
		Guard:    deps.Guard,
		History:  deps.Client,
		Sender:   deps.Client,
		Config:   cfg,
		Username: storedUsername(deps.Session),
		Logger:   deps.Logger,
		Context:  cmd.Context(),
		Copy:     deps.Copy,
	})
	restore()
	closeLog()

	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	if result.Redirected {
		return redirectToLogin(cmd.Context(), deps, result.Outcome)
	}
	return nil
}

// tuiLogWriter returns where log lines go while the TUI owns the terminal
func tuiLogWriter(verbose bool) (io.Writer, func()) {
	if !verbose {
		return io.Discard, func() {}
	}
	dir, err := config.EnsureConfigDir()
	if err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "tui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { _ = f.Close() }
}

// storedUsername reads the display name from the stored token, if any
func storedUsername(session *auth.Controller) string {
	token, ok := session.Token()
	if !ok {
		return ""
	}
	claims, err := auth.DecodeClaims(token)
	if err != nil {
		return ""
	}
	return claims.Username
}
