// Package common contains shared constants and sentinel errors used across
// clubevent components.
package common

const (
	// AuthorizationHeaderName carries the bearer token on HTTP requests and
	// in gRPC metadata.
	AuthorizationHeaderName = "authorization"

	// BearerScheme prefixes the token inside the authorization header.
	BearerScheme = "Bearer "

	// DefaultClubName is assigned when a promotion does not name a club.
	DefaultClubName = "General Club"
)
