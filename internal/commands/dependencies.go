package commands

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/diogo/intellibrowse/internal/api"
	"github.com/diogo/intellibrowse/internal/auth"
	"github.com/diogo/intellibrowse/internal/config"
	"github.com/diogo/intellibrowse/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(o tui.ChatOptions) (tui.Result, error)
}

// Prompter reads interactive input for the login and signup commands.
type Prompter interface {
	ReadLine(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	// Interactive reports whether a person is at the terminal
	Interactive() bool
}

// Dependencies holds the external dependencies for the commands.
// Nil fields are filled in from the environment before a command runs,
// so tests set only what they need.
type Dependencies struct {
	Config  *config.Config
	Client  api.ClientInterface
	Tokens  auth.TokenStore
	Session *auth.Controller
	Guard   *auth.Guard

	TUI      TUIInterface
	Prompter Prompter

	Out    io.Writer
	Err    io.Writer
	Logger *slog.Logger

	// Copy writes text to the clipboard; nil uses the system clipboard
	Copy func(text string) error

	logs *logSink
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(o tui.ChatOptions) (tui.Result, error) {
	return tui.RunChat(o)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:      &DefaultTUI{},
		Prompter: newTermPrompter(os.Stdin, os.Stderr),
		Out:      os.Stdout,
		Err:      os.Stderr,
	}
}

// setupOptions carries the persistent flag values
type setupOptions struct {
	baseURL string
	verbose bool
}

// setup fills every nil dependency. It is idempotent.
func (d *Dependencies) setup(o setupOptions) error {
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Err == nil {
		d.Err = os.Stderr
	}
	if d.TUI == nil {
		d.TUI = &DefaultTUI{}
	}
	if d.Prompter == nil {
		d.Prompter = newTermPrompter(os.Stdin, d.Err)
	}

	if d.Config == nil {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		d.Config = &cfg
	}
	if o.baseURL != "" {
		d.Config.BaseURL = strings.TrimRight(o.baseURL, "/")
	}
	if o.verbose {
		d.Config.Verbose = true
	}

	if d.Logger == nil {
		level := slog.LevelInfo
		if d.Config.Verbose {
			level = slog.LevelDebug
		}
		d.logs = &logSink{w: d.Err}
		d.Logger = slog.New(slog.NewTextHandler(d.logs, &slog.HandlerOptions{Level: level}))
	}

	if d.Tokens == nil {
		store, err := config.DefaultTokenStore()
		if err != nil {
			return fmt.Errorf("failed to open session storage: %w", err)
		}
		d.Tokens = store
	}

	if d.Client == nil {
		opts := []api.ClientOption{api.WithLogger(d.Logger)}
		if d.Config.TimeoutSeconds > 0 {
			opts = append(opts, api.WithTimeout(time.Duration(d.Config.TimeoutSeconds)*time.Second))
		}
		client, err := api.NewClient(d.Config.BaseURL, d.Tokens, opts...)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}
		d.Client = client
	}

	if d.Session == nil {
		d.Session = auth.NewController(d.Tokens, d.Client, auth.WithLogger(d.Logger))
	}
	if d.Guard == nil {
		d.Guard = auth.NewGuard(d.Session)
	}
	return nil
}

// redirectLogs sends log output to w until the returned func is called.
// It is a no-op when the logger was injected.
func (d *Dependencies) redirectLogs(w io.Writer) func() {
	if d.logs == nil {
		return func() {}
	}
	prev := d.logs.swap(w)
	return func() { d.logs.swap(prev) }
}

// logSink is a swappable log destination. The chat TUI owns the terminal
// while it runs, so log lines go to a file during that time.
type logSink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *logSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *logSink) swap(w io.Writer) io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.w
	s.w = w
	return prev
}

// termPrompter reads from the process terminal
type termPrompter struct {
	in     *os.File
	reader *bufio.Reader
	out    io.Writer
}

func newTermPrompter(in *os.File, out io.Writer) *termPrompter {
	return &termPrompter{in: in, reader: bufio.NewReader(in), out: out}
}

func (p *termPrompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *termPrompter) ReadPassword(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.Interactive() {
		return p.ReadLine("")
	}
	b, err := term.ReadPassword(int(p.in.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

func (p *termPrompter) Interactive() bool {
	return term.IsTerminal(int(p.in.Fd()))
}
