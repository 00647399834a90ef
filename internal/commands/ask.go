package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/diogo/intellibrowse/internal/chat"
	"github.com/diogo/intellibrowse/internal/render"
)

type askOptions struct {
	output string
	file   string
	raw    bool
}

// NewAskCmd creates the one-shot ask command
func NewAskCmd(deps *Dependencies) *cobra.Command {
	var opts askOptions

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Send a single message to the assistant",
		Long: `Send one message and print the assistant's reply.

The message comes from the argument, from --file, or from stdin.

Examples:
  intellibrowse ask "Find flights from Lisbon to Porto"
  intellibrowse ask -f prompt.md -o reply.md
  echo "hello" | intellibrowse ask --raw`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := readMessage(cmd.InOrStdin(), args, opts.file)
			if err != nil {
				return err
			}
			return runAsk(cmd, deps, message, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save response to file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read message from file")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print the response without rendering")
	return cmd
}

func readMessage(stdin io.Reader, args []string, file string) (string, error) {
	switch {
	case len(args) > 0:
		return args[0], nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func runAsk(cmd *cobra.Command, deps *Dependencies, message string, opts askOptions) error {
	ctx := cmd.Context()
	cfg := *deps.Config

	policy, err := chat.ParseFailurePolicy(cfg.SendFailurePolicy)
	if err != nil {
		return err
	}
	loop := chat.NewLoop(deps.Client, chat.WithFailurePolicy(policy))
	loop.SetInput(strings.TrimSpace(message))
	if _, err := loop.Begin(); err != nil {
		return err
	}

	ok, err := guard(ctx, deps)
	if !ok {
		return err
	}

	decorate := !opts.raw && deps.Prompter.Interactive()
	spin := startProgress(decorate, deps.Err, "Waiting for IntelliBrowse")
	turn, err := loop.Submit(ctx)
	if err != nil {
		spin.fail()
		return err
	}
	spin.success("Done")

	text := turn.Response
	if !opts.raw {
		text = render.ToMarkdown(text, render.OptionsFromConfig(cfg).HTML)
	}

	if cfg.CopyToClipboard {
		copyFn := deps.Copy
		if copyFn == nil {
			copyFn = clipboard.WriteAll
		}
		if err := copyFn(text); err != nil {
			fmt.Fprintln(deps.Err, warnStyle.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(deps.Err, successStyle.Render("✓ Copied to clipboard"))
		}
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintln(deps.Err, successStyle.Render(fmt.Sprintf("✓ Response saved to %s", opts.output)))
		return nil
	}

	if opts.raw {
		fmt.Fprint(deps.Out, text)
		return nil
	}

	if !decorate {
		fmt.Fprintln(deps.Out, strings.TrimRight(text, "\n"))
		return nil
	}

	bubbleWidth := min(max(getTerminalWidth()-4, 40), 120)
	contentWidth := bubbleWidth - 4

	rendered, err := render.Markdown(text, render.OptionsFromConfig(cfg).WithWidth(contentWidth))
	if err != nil {
		rendered = text
	}
	rendered = strings.TrimRight(rendered, "\n")

	fmt.Fprintln(deps.Out, labelStyle.Render("✦ IntelliBrowse"))
	fmt.Fprintln(deps.Out, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
	return nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
