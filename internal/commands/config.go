package commands

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/intellibrowse/internal/config"
	"github.com/diogo/intellibrowse/internal/render"
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change intellibrowse settings stored in
~/.intellibrowse/config.json. INTELLIBROWSE_* environment variables and a
.env file in the working directory override the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(deps)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(deps)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: `Change one setting. Keys: base_url, html_policy (sanitize, strip, raw),
send_failure_policy (retain, discard), timeout_seconds, verbose,
copy_to_clipboard, tui_theme, markdown.style.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfig(deps, args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Out, path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "themes",
		Short: "List markdown and TUI themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(deps.Out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "MARKDOWN STYLE\tDESCRIPTION")
			for _, t := range render.AvailableThemes() {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Description)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(deps.Out)
			fmt.Fprintf(deps.Out, "TUI themes: %s\n", strings.Join(render.TUIThemeNames(), ", "))
			return nil
		},
	})

	return cmd
}

func showConfig(deps *Dependencies) error {
	cfg := deps.Config

	timeout := "transport default"
	if cfg.TimeoutSeconds > 0 {
		timeout = strconv.Itoa(cfg.TimeoutSeconds) + "s"
	}

	w := tabwriter.NewWriter(deps.Out, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"base_url", cfg.BaseURL},
		{"html_policy", cfg.HTMLPolicy},
		{"send_failure_policy", cfg.SendFailurePolicy},
		{"timeout_seconds", timeout},
		{"verbose", strconv.FormatBool(cfg.Verbose)},
		{"copy_to_clipboard", strconv.FormatBool(cfg.CopyToClipboard)},
		{"tui_theme", cfg.TUITheme},
		{"markdown.style", cfg.Markdown.Style},
	}
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", r[0], r[1])
	}
	return w.Flush()
}

func setConfig(deps *Dependencies, key, value string) error {
	// env overrides are for this process only and must not be persisted
	cfg, err := config.LoadFileConfig()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if key == "tui_theme" {
		if _, ok := render.GetTUIThemeByName(value); !ok {
			return fmt.Errorf("unknown tui theme %q (available: %s)", value, strings.Join(render.TUIThemeNames(), ", "))
		}
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	// keep the process's env overrides on top of the new value
	_ = deps.Config.Set(key, value)
	fmt.Fprintln(deps.Out, successStyle.Render(fmt.Sprintf("✓ %s = %s", key, value)))
	return nil
}
