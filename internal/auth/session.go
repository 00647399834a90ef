// Package auth holds the client-side session state machine and the route
// guard that gates protected surfaces behind a backend verification.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	apierrors "github.com/diogo/intellibrowse/internal/errors"
	"github.com/diogo/intellibrowse/internal/models"
)

// State is the session state
type State int

const (
	StateLoggedOut State = iota
	StateLoggedIn
)

func (s State) String() string {
	switch s {
	case StateLoggedIn:
		return "logged-in"
	default:
		return "logged-out"
	}
}

// TokenStore is the durable home of the bearer token
type TokenStore interface {
	Get() (string, bool)
	Set(token string) error
	Clear() error
}

// Authenticator is the backend surface the controller drives
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (string, error)
	VerifyToken(ctx context.Context) error
}

// Controller owns the LoggedOut/LoggedIn state. The token itself lives only
// in the TokenStore; the controller keeps the flag in step with it.
type Controller struct {
	mu     sync.Mutex
	store  TokenStore
	auth   Authenticator
	state  State
	logger *slog.Logger
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithLogger sets the logger used for state transitions
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController returns a controller in the LoggedOut state
func NewController(store TokenStore, auth Authenticator, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:  store,
		auth:   auth,
		state:  StateLoggedOut,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsAuthenticated reports whether the session is LoggedIn
func (c *Controller) IsAuthenticated() bool {
	return c.State() == StateLoggedIn
}

// Token returns the stored token, if any
func (c *Controller) Token() (string, bool) {
	return c.store.Get()
}

// Establish moves to LoggedIn and persists token. Calling it again with the
// same token leaves the same state.
func (c *Controller) Establish(token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Set(token); err != nil {
		c.logoutLocked("token persist failed")
		return err
	}
	c.transitionLocked(StateLoggedIn, "established")
	return nil
}

// Logout clears the token and moves to LoggedOut. Idempotent.
func (c *Controller) Logout() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.logoutLocked("logout")
}

func (c *Controller) logoutLocked(reason string) error {
	err := c.store.Clear()
	c.transitionLocked(StateLoggedOut, reason)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (c *Controller) transitionLocked(to State, reason string) {
	if c.state != to {
		c.logger.Debug("session transition", "from", c.state.String(), "to", to.String(), "reason", reason)
	}
	c.state = to
}

// Login validates creds, exchanges them for a token and establishes the
// session. Validation failures return before any request and leave the state
// untouched; any other failure logs the session out.
func (c *Controller) Login(ctx context.Context, creds models.Credentials) error {
	if err := ValidateCredentials(creds); err != nil {
		return err
	}

	token, err := c.auth.Login(ctx, creds)
	if err != nil {
		c.mu.Lock()
		_ = c.logoutLocked("login failed")
		c.mu.Unlock()
		return fmt.Errorf("login: %w", err)
	}

	return c.Establish(token)
}

// Verify checks the stored token against the backend. With no token it
// logs out and returns ErrNoToken without a request. Any failure logs out.
func (c *Controller) Verify(ctx context.Context) error {
	if _, ok := c.store.Get(); !ok {
		c.mu.Lock()
		_ = c.logoutLocked("no token")
		c.mu.Unlock()
		return apierrors.ErrNoToken
	}

	if err := c.auth.VerifyToken(ctx); err != nil {
		c.mu.Lock()
		_ = c.logoutLocked("verification failed")
		c.mu.Unlock()
		if errors.Is(err, apierrors.ErrNoToken) {
			return apierrors.ErrNoToken
		}
		return fmt.Errorf("verify session: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// The token may have been cleared while the request was in flight
	if _, ok := c.store.Get(); !ok {
		c.transitionLocked(StateLoggedOut, "token cleared during verification")
		return apierrors.ErrNoToken
	}
	c.transitionLocked(StateLoggedIn, "verified")
	return nil
}
