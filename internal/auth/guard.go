package auth

import (
	"context"
	"errors"

	apierrors "github.com/diogo/intellibrowse/internal/errors"
	"github.com/diogo/intellibrowse/internal/models"
)

// Decision is what a protected surface should do after its check
type Decision int

const (
	DecisionRender Decision = iota
	DecisionRedirect
)

func (d Decision) String() string {
	if d == DecisionRender {
		return "render"
	}
	return "redirect"
}

// Outcome is the result of one guard check
type Outcome struct {
	Decision Decision
	// Redirect is the route to navigate to when Decision is DecisionRedirect
	Redirect string
	// Reason explains a redirect
	Reason error
}

// NoToken reports whether the redirect happened before any request
func (o Outcome) NoToken() bool {
	return errors.Is(o.Reason, apierrors.ErrNoToken)
}

// Guard gates a protected route. Each Check makes at most one verification
// request and never retries; every failure redirects.
type Guard struct {
	session    *Controller
	loginRoute string
}

// NewGuard returns a guard that redirects to the login route
func NewGuard(session *Controller) *Guard {
	return &Guard{session: session, loginRoute: models.RouteLogin}
}

// Session returns the controller the guard drives
func (g *Guard) Session() *Controller {
	return g.session
}

// Check verifies the session for a mount of a protected route
func (g *Guard) Check(ctx context.Context) Outcome {
	if err := g.session.Verify(ctx); err != nil {
		return Outcome{Decision: DecisionRedirect, Redirect: g.loginRoute, Reason: err}
	}
	return Outcome{Decision: DecisionRender}
}

// GateStatus is the loading-gate state of a protected view
type GateStatus int

const (
	GatePending GateStatus = iota
	GateOpen
	GateClosed
)

// Gate holds protected content back until verification resolves.
// The zero value is pending.
type Gate struct {
	status  GateStatus
	outcome Outcome
}

// Resolve records the guard outcome. Only the first call has effect.
func (g *Gate) Resolve(o Outcome) {
	if g.status != GatePending {
		return
	}
	g.outcome = o
	if o.Decision == DecisionRender {
		g.status = GateOpen
	} else {
		g.status = GateClosed
	}
}

// Status returns the gate state
func (g *Gate) Status() GateStatus {
	return g.status
}

// Outcome returns the resolved outcome; meaningful once not pending
func (g *Gate) Outcome() Outcome {
	return g.outcome
}

// Open reports whether protected content may be shown
func (g *Gate) Open() bool {
	return g.status == GateOpen
}

// Render returns content() when the gate is open and "" otherwise.
// content is not evaluated unless the gate is open.
func (g *Gate) Render(content func() string) string {
	if !g.Open() {
		return ""
	}
	return content()
}
