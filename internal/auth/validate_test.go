package auth

import (
	"errors"
	"strings"
	"testing"

	apierrors "github.com/diogo/intellibrowse/internal/errors"
	"github.com/diogo/intellibrowse/internal/models"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name      string
		creds     models.Credentials
		wantField string
	}{
		{"valid", models.Credentials{Identifier: "a@b.co", Secret: "x"}, ""},
		{"padded email", models.Credentials{Identifier: "  a@b.co ", Secret: "x"}, ""},
		{"empty email", models.Credentials{Identifier: "", Secret: "x"}, "email"},
		{"bad email", models.Credentials{Identifier: "aryan", Secret: "x"}, "email"},
		{"blank password", models.Credentials{Identifier: "a@b.co", Secret: "  "}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentials(tt.creds)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var verr *apierrors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %s, want %s", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateSignup(t *testing.T) {
	long := strings.Repeat("u", 65)

	tests := []struct {
		name      string
		req       models.SignupRequest
		wantField string
		wantMsg   string
	}{
		{"valid", models.SignupRequest{Username: "aryan", Email: "a@b.co", Password: "pw"}, "", ""},
		{"no username", models.SignupRequest{Username: " ", Email: "a@b.co", Password: "pw"}, "username", "cannot be empty"},
		{"long username", models.SignupRequest{Username: long, Email: "a@b.co", Password: "pw"}, "username", "at most 64"},
		{"bad email", models.SignupRequest{Username: "u", Email: "nope", Password: "pw"}, "email", "valid email"},
		{"no password", models.SignupRequest{Username: "u", Email: "a@b.co", Password: ""}, "password", "cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignup(tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var verr *apierrors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField || !strings.Contains(verr.Message, tt.wantMsg) {
				t.Errorf("got %s: %s", verr.Field, verr.Message)
			}
		})
	}
}
