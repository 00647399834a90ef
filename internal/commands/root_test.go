package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/diogo/intellibrowse/internal/auth"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd(newTestEnv(t).deps)

	want := []string{"login", "signup", "logout", "dashboard", "chat", "ask", "history", "config"}
	for _, name := range want {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if cmd.PersistentFlags().Lookup("base-url") == nil {
		t.Error("missing --base-url flag")
	}
	if cmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("missing --verbose flag")
	}
}

func TestRoot_Landing(t *testing.T) {
	t.Run("logged out", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run(); err != nil {
			t.Fatalf("run: %v", err)
		}
		out := env.out.String()
		if !strings.Contains(out, "intellibrowse") {
			t.Errorf("expected help text, got: %s", out)
		}
		if !strings.Contains(out, "Not logged in") {
			t.Errorf("expected logged-out hint, got: %s", out)
		}
	})

	t.Run("stored session", func(t *testing.T) {
		env := newTestEnv(t)
		env.login(t, "ada")
		if err := env.run(); err != nil {
			t.Fatalf("run: %v", err)
		}
		if !strings.Contains(env.out.String(), "Signed in as ada") {
			t.Errorf("expected signed-in hint, got: %s", env.out.String())
		}
		if _, _, verify, _, _ := env.mock.Calls(); verify != 0 {
			t.Errorf("landing made %d verification calls", verify)
		}
	})
}

func TestRoot_Version(t *testing.T) {
	env := newTestEnv(t)
	if err := env.run("--version"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(env.out.String(), "intellibrowse "+Version) {
		t.Errorf("unexpected version output: %s", env.out.String())
	}
}

func TestRoot_BaseURLFlag(t *testing.T) {
	env := newTestEnv(t)
	if err := env.run("--base-url", "https://api.example.com/", "config", "show"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if env.deps.Config.BaseURL != "https://api.example.com" {
		t.Errorf("BaseURL = %q", env.deps.Config.BaseURL)
	}
}

func TestSessionHint(t *testing.T) {
	env := newTestEnv(t)
	ctrl := auth.NewController(env.tokens, env.mock)
	now := time.Now()

	if got := sessionHint(ctrl, now); !strings.Contains(got, "Not logged in") {
		t.Errorf("no token: %q", got)
	}

	_ = env.tokens.Set("not-a-jwt")
	if got := sessionHint(ctrl, now); !strings.Contains(got, "session token is stored") {
		t.Errorf("opaque token: %q", got)
	}

	_ = env.tokens.Set(mintToken(t, "ada", 1, now.Add(-time.Minute)))
	if got := sessionHint(ctrl, now); !strings.Contains(got, "expired") {
		t.Errorf("expired token: %q", got)
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("nil error printed %q", buf.String())
	}

	printError(&buf, ErrLoginRequired)
	if !strings.Contains(buf.String(), "login required") {
		t.Errorf("got %q", buf.String())
	}
}
