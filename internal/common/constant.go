// Package common contains shared constants and sentinel errors used across
// blogsync components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer
// credential on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the credential in the Authorization header value.
const BearerPrefix = "Bearer "

// Durable keys of the persisted session. Both are written and cleared together.
const (
	SessionTokenKey = "token"
	SessionUserKey  = "user"
)
