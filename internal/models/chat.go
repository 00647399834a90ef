package models

import "time"

// Credentials are the transient login inputs. Identifier is the account
// email; the backend expects it in the "username" form field.
type Credentials struct {
	Identifier string `validate:"required,email"`
	Secret     string `validate:"required"`
}

// SignupRequest is the JSON body of the signup endpoint
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// ChatTurn is one request/response pair of the transcript.
// Response may carry HTML markup.
type ChatTurn struct {
	Request  string `json:"user_request"`
	Response string `json:"crew_response"`
}

// Claims is the display-only view of a bearer token's payload.
// It is decoded without signature verification and never grants access.
type Claims struct {
	Username  string
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the token's exp is in the past. A zero
// ExpiresAt means the token carried no expiry.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
