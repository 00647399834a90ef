package commands

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apierrors "github.com/diogo/intellibrowse/internal/errors"
	"github.com/diogo/intellibrowse/internal/models"
)

func TestAsk_Success(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ada")
	env.mock.ChatReply = "<p>Hello <strong>there</strong></p>"

	if err := env.run("ask", "  find flights  "); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if env.mock.LastMessage != "find flights" {
		t.Errorf("sent %q", env.mock.LastMessage)
	}
	if got := env.out.String(); !strings.Contains(got, "Hello **there**") {
		t.Errorf("output: %q", got)
	}
}

func TestAsk_Raw(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ada")
	env.mock.ChatReply = "<p>Hello</p>"

	if err := env.run("ask", "--raw", "hi"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if got := env.out.String(); got != "<p>Hello</p>" {
		t.Errorf("raw output = %q", got)
	}
}

func TestAsk_Stdin(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ada")
	env.mock.ChatReply = "ok"

	if err := env.runWithInput("from stdin\n", "ask"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if env.mock.LastMessage != "from stdin" {
		t.Errorf("sent %q", env.mock.LastMessage)
	}
}

func TestAsk_OutputFile(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ada")
	env.mock.ChatReply = "saved reply"
	path := filepath.Join(t.TempDir(), "reply.md")

	if err := env.run("ask", "-o", path, "hi"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "saved reply" {
		t.Errorf("file = %q", data)
	}
	if env.out.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", env.out.String())
	}
}

func TestAsk_BlankMessageSendsNothing(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ada")

	err := env.run("ask", "   ")
	if !apierrors.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Kindly enter some text!!") {
		t.Errorf("err = %v", err)
	}
	if _, _, verify, _, chat := env.mock.Calls(); verify != 0 || chat != 0 {
		t.Errorf("verify=%d chat=%d, want no requests", verify, chat)
	}
}

func TestAsk_SendFailure(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ada")
	env.mock.ChatErr = apierrors.NewNetworkError("chat", models.EndpointChat, errors.New("connection reset"))

	err := env.run("ask", "hi")
	if !apierrors.IsNetworkError(err) {
		t.Fatalf("expected network error, got %v", err)
	}
	if _, ok := env.tokens.Get(); !ok {
		t.Error("a chat failure should not log out")
	}
}

func TestAsk_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("ask", "hi")
	if !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("err = %v", err)
	}
	if _, _, _, _, chat := env.mock.Calls(); chat != 0 {
		t.Errorf("chat calls = %d, want 0", chat)
	}
}

func TestAsk_CopyToClipboard(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ada")
	env.deps.Config.CopyToClipboard = true
	env.mock.ChatReply = "copy me"

	var copied string
	env.deps.Copy = func(s string) error {
		copied = s
		return nil
	}

	if err := env.run("ask", "hi"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if copied != "copy me" {
		t.Errorf("copied %q", copied)
	}
	if !strings.Contains(env.errOut.String(), "Copied to clipboard") {
		t.Errorf("stderr: %s", env.errOut.String())
	}
}

func TestReadMessage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.md")
	if err := os.WriteFile(path, []byte("from file"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		args  []string
		file  string
		stdin string
		want  string
	}{
		{"argument wins", []string{"arg"}, path, "stdin", "arg"},
		{"file", nil, path, "stdin", "from file"},
		{"stdin", nil, "", "stdin", "stdin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readMessage(strings.NewReader(tt.stdin), tt.args, tt.file)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := readMessage(strings.NewReader(""), nil, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for a missing file")
	}
}
