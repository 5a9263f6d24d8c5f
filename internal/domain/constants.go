package domain

import "time"

// ==== WebSocket Constants ====

// MaxMessageSize is the maximum allowed WebSocket message size in bytes
const MaxMessageSize = 8192

// ==== Auth Constants ====

// TokenTTL is the default auth token time-to-live
const TokenTTL = 24 * time.Hour

// DefaultColor is assigned when a user registers without one
const DefaultColor = "#888888"

// ==== Upload Constants ====

// MaxUploadSize is the default cap for voice/file uploads in bytes
const MaxUploadSize = 10 << 20

// ==== Rate Limit Constants ====

const (
	// DefaultRateLimitAPI is the default rate limit for API endpoints (requests/sec)
	DefaultRateLimitAPI = 10

	// DefaultRateLimitWS is the default rate limit for WebSocket connections (req/sec)
	DefaultRateLimitWS = 5

	// DefaultRateLimitStrict is the stricter rate limit for auth endpoints
	DefaultRateLimitStrict = 2
)
