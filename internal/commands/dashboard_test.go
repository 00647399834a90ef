package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	apierrors "github.com/diogo/intellibrowse/internal/errors"
	"github.com/diogo/intellibrowse/internal/models"
)

func TestDashboard_Verified(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ada")

	if err := env.run("dashboard"); err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	out := env.out.String()
	for _, want := range []string{"Welcome to your dashboard", "ada", "7", "Session expires"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got: %s", want, out)
		}
	}
	if _, _, verify, _, _ := env.mock.Calls(); verify != 1 {
		t.Errorf("verify calls = %d, want 1", verify)
	}
}

func TestDashboard_Redirects(t *testing.T) {
	tests := []struct {
		name       string
		withToken  bool
		verifyErr  error
		wantVerify int
		wantReason error
	}{
		{
			name:       "no token skips the request",
			wantVerify: 0,
			wantReason: apierrors.ErrNoToken,
		},
		{
			name:       "rejected token",
			withToken:  true,
			verifyErr:  apierrors.NewAuthErrorWithStatus(401, models.EndpointVerify, "Could not validate credentials"),
			wantVerify: 1,
			wantReason: apierrors.ErrAuthFailed,
		},
		{
			name:       "backend unreachable",
			withToken:  true,
			verifyErr:  apierrors.NewNetworkError("verify", models.EndpointVerify, errors.New("connection refused")),
			wantVerify: 1,
			wantReason: apierrors.ErrNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.withToken {
				env.login(t, "ada")
			}
			env.mock.VerifyErr = tt.verifyErr

			err := env.run("dashboard")
			if !errors.Is(err, ErrLoginRequired) {
				t.Fatalf("err = %v, want ErrLoginRequired", err)
			}
			if !errors.Is(err, tt.wantReason) {
				t.Errorf("err = %v, want reason %v", err, tt.wantReason)
			}
			if _, _, verify, _, _ := env.mock.Calls(); verify != tt.wantVerify {
				t.Errorf("verify calls = %d, want %d", verify, tt.wantVerify)
			}
			if _, ok := env.tokens.Get(); ok {
				t.Error("failed verification should clear the token")
			}
			if strings.Contains(env.out.String(), "dashboard") {
				t.Errorf("protected content rendered: %s", env.out.String())
			}
		})
	}
}

func TestWriteDashboard_MissingClaims(t *testing.T) {
	var buf bytes.Buffer
	if err := writeDashboard(&buf, models.Claims{}, time.Now()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "Username:") || strings.Contains(out, "Session expires") {
		t.Errorf("empty claims should omit rows, got: %s", out)
	}
	if !strings.Contains(out, "You are now logged in.") {
		t.Errorf("output: %s", out)
	}
}
