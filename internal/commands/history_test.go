package commands

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apierrors "github.com/diogo/intellibrowse/internal/errors"
	"github.com/diogo/intellibrowse/internal/models"
)

var sampleTurns = []models.ChatTurn{
	{Request: "find flights to Porto", Response: "<p>Found <strong>3</strong> flights</p>"},
	{Request: "cheapest?", Response: "TP1940 at 49 EUR"},
}

func TestHistory_Markdown(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ada")
	env.mock.Chats = sampleTurns

	if err := env.run("history"); err != nil {
		t.Fatalf("history: %v", err)
	}
	out := env.out.String()
	for _, want := range []string{"## You (1)", "find flights to Porto", "Found **3** flights", "## You (2)", "**Turns:** 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got: %s", want, out)
		}
	}
	if strings.Contains(out, "<strong>") {
		t.Errorf("markup should be converted: %s", out)
	}
}

func TestHistory_JSONToFile(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ada")
	env.mock.Chats = sampleTurns
	path := filepath.Join(t.TempDir(), "chats.json")

	if err := env.run("history", "--format", "json", "-o", path); err != nil {
		t.Fatalf("history: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Turns []struct {
			Request  string `json:"user_request"`
			Response string `json:"crew_response"`
		} `json:"turns"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(doc.Turns) != 2 || doc.Turns[1].Request != "cheapest?" {
		t.Errorf("turns = %+v", doc.Turns)
	}
	if !strings.Contains(env.errOut.String(), "Exported 2 turns") {
		t.Errorf("stderr: %s", env.errOut.String())
	}
}

func TestHistory_Search(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ada")
	env.mock.Chats = sampleTurns

	if err := env.run("history", "--search", "tp1940"); err != nil {
		t.Fatalf("history: %v", err)
	}
	out := env.out.String()
	if !strings.Contains(out, "TURN") || !strings.Contains(out, "response") || !strings.Contains(out, "TP1940") {
		t.Errorf("output: %s", out)
	}

	env.out.Reset()
	if err := env.run("history", "--search", "nothing like this"); err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(env.out.String(), "No matching turns") {
		t.Errorf("output: %s", env.out.String())
	}
}

func TestHistory_Empty(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ada")

	if err := env.run("history"); err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(env.out.String(), "No conversation history") {
		t.Errorf("output: %s", env.out.String())
	}
}

func TestHistory_FetchErrorKeepsSession(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ada")
	env.mock.GetChatsErr = apierrors.NewNetworkError("history", models.EndpointHistory, errors.New("timeout"))

	err := env.run("history")
	if !apierrors.IsNetworkError(err) {
		t.Fatalf("expected network error, got %v", err)
	}
	if _, ok := env.tokens.Get(); !ok {
		t.Error("history failure should not log out")
	}
}

func TestHistory_BadFormatMakesNoRequest(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ada")

	if err := env.run("history", "--format", "xml"); err == nil {
		t.Fatal("expected error")
	}
	if _, _, verify, chats, _ := env.mock.Calls(); verify != 0 || chats != 0 {
		t.Errorf("verify=%d chats=%d, want none", verify, chats)
	}
}
