package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/intellibrowse/internal/errors"
	"github.com/diogo/intellibrowse/internal/models"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 4 << 20

// HTTPDoer is the part of tls_client.HttpClient the client relies on
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource yields the current bearer token. It is consulted on every
// authenticated call and never cached by the client.
type TokenSource interface {
	Get() (string, bool)
}

// ClientInterface is the backend surface used by the session controller,
// the chat loop and the commands
type ClientInterface interface {
	Login(ctx context.Context, creds models.Credentials) (string, error)
	Signup(ctx context.Context, req models.SignupRequest) error
	VerifyToken(ctx context.Context) error
	GetChats(ctx context.Context) ([]models.ChatTurn, error)
	SendChat(ctx context.Context, message string) (string, error)
}

// Client talks to the authentication/chat backend
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	tokens     TokenSource
	logger     *slog.Logger
	timeout    time.Duration
	requestID  func() string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the transport, mostly for tests
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout bounds each request. Zero keeps the transport default.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRequestIDFunc overrides how X-Request-ID values are generated
func WithRequestIDFunc(fn func() string) ClientOption {
	return func(c *Client) {
		c.requestID = fn
	}
}

// NewClient creates a Client for baseURL. tokens may be nil when only the
// unauthenticated endpoints (login, signup) are used.
func NewClient(baseURL string, tokens TokenSource, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}

	client := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		tokens:    tokens,
		logger:    slog.New(slog.DiscardHandler),
		requestID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}
		if client.timeout > 0 {
			options = append(options, tls_client.WithTimeoutSeconds(int(client.timeout/time.Second)))
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the backend root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// bearer reads the token at call time
func (c *Client) bearer() (string, error) {
	if c.tokens == nil {
		return "", fmt.Errorf("%w: %w", apierrors.ErrAuthFailed, apierrors.ErrNoToken)
	}
	token, ok := c.tokens.Get()
	if !ok {
		return "", fmt.Errorf("%w: %w", apierrors.ErrAuthFailed, apierrors.ErrNoToken)
	}
	return token, nil
}

// request describes one call to the backend
type request struct {
	method      string
	endpoint    string
	operation   string
	body        string
	contentType string
	auth        bool
	// authStatuses are statuses reported as AuthError instead of APIError
	authStatuses []int
}

// do performs req and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", r.operation, err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	requestID := c.requestID()
	req.Header.Set("X-Request-ID", requestID)

	if r.auth {
		token, err := c.bearer()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			"operation", r.operation,
			"endpoint", r.endpoint,
			"request_id", requestID,
			"error", err,
		)
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return nil, apierrors.NewNetworkError(r.operation, r.endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, apierrors.NewNetworkError(r.operation, r.endpoint, fmt.Errorf("read body: %w", err))
	}

	c.logger.Debug("request completed",
		"operation", r.operation,
		"endpoint", r.endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(r, resp.StatusCode, data)
	}

	return data, nil
}

// statusError maps a non-2xx response onto the error taxonomy
func statusError(r request, status int, body []byte) error {
	message := detailMessage(body)
	if message == "" {
		message = fmt.Sprintf("%s failed with status %d", r.operation, status)
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return apierrors.NewAuthErrorWithStatus(status, r.endpoint, message)
	}
	for _, s := range r.authStatuses {
		if s == status {
			return apierrors.NewAuthErrorWithStatus(status, r.endpoint, message)
		}
	}
	return apierrors.NewAPIError(status, r.endpoint, message)
}

// detailMessage extracts the backend's human-readable error detail.
// detail is a string for HTTPException and a list of {msg} for validation errors.
func detailMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	detail := gjson.GetBytes(body, PathDetail)
	switch {
	case detail.Type == gjson.String:
		return detail.String()
	case detail.IsArray():
		var msgs []string
		for _, item := range detail.Array() {
			if msg := item.Get(PathDetailMsg).String(); msg != "" {
				msgs = append(msgs, msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
