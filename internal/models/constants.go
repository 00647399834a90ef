// Package models contains data types and constants for the intellibrowse API.
package models

// Endpoint paths, relative to the configured base URL
const (
	EndpointLogin   = "/auth/login"
	EndpointSignup  = "/auth/signup"
	EndpointVerify  = "/auth/verify_jwt"
	EndpointHistory = "/gettingChats"
	EndpointChat    = "/chat"
)

// Client-side routes. Each maps to a CLI subcommand.
const (
	RouteLanding   = "/"
	RouteLogin     = "/login"
	RouteSignup    = "/signup"
	RouteDashboard = "/dashboard"
	RouteChat      = "/chat"
)

// ProtectedRoutes lists the routes gated behind session verification
var ProtectedRoutes = []string{RouteDashboard, RouteChat}

// IsProtected reports whether route requires a verified session
func IsProtected(route string) bool {
	for _, r := range ProtectedRoutes {
		if r == route {
			return true
		}
	}
	return false
}

// DefaultHeaders returns the headers sent with every request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":     "application/json",
		"User-Agent": "intellibrowse-cli/0.1",
	}
}
