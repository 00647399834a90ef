package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	apierrors "github.com/diogo/intellibrowse/internal/errors"
	"github.com/diogo/intellibrowse/internal/models"
)

// EmptyMessage is reported when the input is blank
const EmptyMessage = "Kindly enter some text!!"

// Sender delivers one chat message and returns the response
type Sender interface {
	SendChat(ctx context.Context, message string) (string, error)
}

// FailurePolicy decides what happens to the input when a send fails
type FailurePolicy string

const (
	// FailureRetain keeps the message in the input so it can be resent
	FailureRetain FailurePolicy = "retain"
	// FailureDiscard clears the input
	FailureDiscard FailurePolicy = "discard"
)

// ParseFailurePolicy parses a policy name; empty means FailureRetain
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", FailureRetain:
		return FailureRetain, nil
	case FailureDiscard:
		return FailureDiscard, nil
	default:
		return "", fmt.Errorf("unknown send failure policy %q (want retain or discard)", s)
	}
}

// Loop owns the transcript and the pending input of a chat view.
//
// Sends are split in two phases so the caller can run the request
// elsewhere: Begin validates the input and returns the message, and the
// caller later reports Complete or Fail. Submit does both synchronously.
type Loop struct {
	mu         sync.Mutex
	sender     Sender
	policy     FailurePolicy
	transcript Transcript
	input      string
	onScroll   func(index int)
	closed     bool
}

// Option configures a Loop
type Option func(*Loop)

// WithFailurePolicy sets the input handling for failed sends
func WithFailurePolicy(p FailurePolicy) Option {
	return func(l *Loop) {
		l.policy = p
	}
}

// WithScrollHook registers fn to receive the newest turn index after
// every transcript mutation
func WithScrollHook(fn func(index int)) Option {
	return func(l *Loop) {
		l.onScroll = fn
	}
}

// NewLoop returns an empty loop that sends through sender
func NewLoop(sender Sender, opts ...Option) *Loop {
	l := &Loop{sender: sender, policy: FailureRetain}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetInput replaces the pending input
func (l *Loop) SetInput(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.input = s
}

// Input returns the pending input
func (l *Loop) Input() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.input
}

// Policy returns the failure policy in effect
func (l *Loop) Policy() FailurePolicy {
	return l.policy
}

// Begin validates the pending input and returns the message to send.
// A blank input yields a ValidationError and nothing should be sent.
func (l *Loop) Begin() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return "", apierrors.NewValidationError("", "chat is closed")
	}
	if strings.TrimSpace(l.input) == "" {
		return "", apierrors.NewValidationError("", EmptyMessage)
	}
	return l.input, nil
}

// Complete appends the finished turn, clears the input and scrolls to it.
// It reports false when the loop was closed before the response arrived.
func (l *Loop) Complete(message, response string) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	idx := l.transcript.Append(models.ChatTurn{Request: message, Response: response})
	l.input = ""
	hook := l.onScroll
	l.mu.Unlock()

	if hook != nil {
		hook(idx)
	}
	return true
}

// Fail records a failed send. The transcript is left unchanged and the
// input follows the failure policy. The error is returned for reporting.
func (l *Loop) Fail(message string, err error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.closed && l.policy == FailureDiscard && l.input == message {
		l.input = ""
	}
	return err
}

// Send delivers message through the loop's sender without touching state.
// Callers report the result with Complete or Fail.
func (l *Loop) Send(ctx context.Context, message string) (string, error) {
	return l.sender.SendChat(ctx, message)
}

// Submit runs a whole send synchronously
func (l *Loop) Submit(ctx context.Context) (models.ChatTurn, error) {
	message, err := l.Begin()
	if err != nil {
		return models.ChatTurn{}, err
	}

	response, err := l.Send(ctx, message)
	if err != nil {
		return models.ChatTurn{}, l.Fail(message, err)
	}

	l.Complete(message, response)
	return models.ChatTurn{Request: message, Response: response}, nil
}

// LoadHistory replaces the transcript with server history
func (l *Loop) LoadHistory(turns []models.ChatTurn) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.transcript.Replace(turns)
	n := l.transcript.Len()
	hook := l.onScroll
	l.mu.Unlock()

	if hook != nil && n > 0 {
		hook(n - 1)
	}
	return true
}

// Reset clears the on-screen transcript and the input
func (l *Loop) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transcript.Clear()
	l.input = ""
}

// Close stops the loop; later completions and history loads are dropped
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

// Closed reports whether Close was called
func (l *Loop) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Len returns the number of turns
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transcript.Len()
}

// Turns returns a copy of the transcript
func (l *Loop) Turns() []models.ChatTurn {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transcript.Turns()
}

// Last returns the newest turn
func (l *Loop) Last() (models.ChatTurn, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transcript.Last()
}
