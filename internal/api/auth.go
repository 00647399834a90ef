package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/intellibrowse/internal/errors"
	"github.com/diogo/intellibrowse/internal/models"
)

// Login exchanges credentials for a bearer token. The body is
// form-urlencoded with the identifier sent as "username".
func (c *Client) Login(ctx context.Context, creds models.Credentials) (string, error) {
	form := url.Values{}
	form.Set("username", creds.Identifier)
	form.Set("password", creds.Secret)

	body, err := c.do(ctx, request{
		method:      http.MethodPost,
		endpoint:    models.EndpointLogin,
		operation:   "login",
		body:        form.Encode(),
		contentType: "application/x-www-form-urlencoded",
		// 400 is returned for blank fields, 422 for a malformed form
		authStatuses: []int{http.StatusBadRequest, http.StatusUnprocessableEntity},
	})
	if err != nil {
		return "", err
	}

	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError(models.EndpointLogin, "response is not valid JSON")
	}

	token := gjson.GetBytes(body, PathAccessToken).String()
	if strings.TrimSpace(token) == "" {
		return "", apierrors.NewParseError(models.EndpointLogin, "missing access_token")
	}

	if tt := gjson.GetBytes(body, PathTokenType); tt.Exists() && !strings.EqualFold(tt.String(), "bearer") {
		return "", apierrors.NewParseError(models.EndpointLogin, fmt.Sprintf("unsupported token_type %q", tt.String()))
	}

	return token, nil
}

// Signup creates an account. Any 2xx is success.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal signup request: %w", err)
	}

	_, err = c.do(ctx, request{
		method:      http.MethodPost,
		endpoint:    models.EndpointSignup,
		operation:   "signup",
		body:        string(payload),
		contentType: "application/json",
	})
	return err
}

// VerifyToken asks the backend whether the stored token is still valid
func (c *Client) VerifyToken(ctx context.Context) error {
	_, err := c.do(ctx, request{
		method:    http.MethodGet,
		endpoint:  models.EndpointVerify,
		operation: "verify token",
		auth:      true,
	})
	return err
}
