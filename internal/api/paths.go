// Package api provides the intellibrowse backend client implementation.
package api

// GJSON paths for extracting values from backend responses
const (
	// Login response: {"access_token": "...", "token_type": "bearer"}
	PathAccessToken = "access_token"
	PathTokenType   = "token_type"

	// Error bodies: {"detail": "..."} or {"detail": [{"msg": "..."}]}
	PathDetail    = "detail"
	PathDetailMsg = "msg"

	// Chat history items and chat responses
	PathUserRequest  = "user_request"
	PathCrewResponse = "crew_response"
)
