package commands

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/diogo/intellibrowse/internal/api"
	"github.com/diogo/intellibrowse/internal/config"
	"github.com/diogo/intellibrowse/internal/tui"
)

// scriptedPrompter answers prompts from fixed lists
type scriptedPrompter struct {
	lines       []string
	passwords   []string
	interactive bool
	prompts     []string
}

func (p *scriptedPrompter) ReadLine(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func (p *scriptedPrompter) ReadPassword(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.passwords) == 0 {
		return "", io.EOF
	}
	pw := p.passwords[0]
	p.passwords = p.passwords[1:]
	return pw, nil
}

func (p *scriptedPrompter) Interactive() bool {
	return p.interactive
}

// fakeTUI records the options it was started with
type fakeTUI struct {
	opts   tui.ChatOptions
	calls  int
	result tui.Result
	err    error
}

func (f *fakeTUI) RunChat(o tui.ChatOptions) (tui.Result, error) {
	f.calls++
	f.opts = o
	return f.result, f.err
}

type testEnv struct {
	deps     *Dependencies
	mock     *api.MockClient
	tokens   *config.TokenStore
	prompter *scriptedPrompter
	tui      *fakeTUI
	out      *bytes.Buffer
	errOut   *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cfg := config.DefaultConfig()
	env := &testEnv{
		mock:     &api.MockClient{},
		tokens:   config.NewTokenStore(config.NewMemoryStorage()),
		prompter: &scriptedPrompter{},
		tui:      &fakeTUI{},
		out:      &bytes.Buffer{},
		errOut:   &bytes.Buffer{},
	}
	env.deps = &Dependencies{
		Config:   &cfg,
		Client:   env.mock,
		Tokens:   env.tokens,
		TUI:      env.tui,
		Prompter: env.prompter,
		Out:      env.out,
		Err:      env.errOut,
		Logger:   slog.New(slog.DiscardHandler),
		Copy:     func(string) error { return nil },
	}
	return env
}

// run executes the command tree with args and empty stdin
func (e *testEnv) run(args ...string) error {
	return e.runWithInput("", args...)
}

func (e *testEnv) runWithInput(stdin string, args ...string) error {
	cmd := NewRootCmd(e.deps)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	return cmd.Execute()
}

// login stores a token for username
func (e *testEnv) login(t *testing.T, username string) string {
	t.Helper()
	token := mintToken(t, username, 7, time.Now().Add(time.Hour))
	if err := e.tokens.Set(token); err != nil {
		t.Fatalf("store token: %v", err)
	}
	return token
}

func mintToken(t *testing.T, username string, userID int, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"subject": map[string]any{"username": username, "userid": userID},
		"exp":     exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func futureExp() time.Time {
	return time.Now().Add(time.Hour)
}
