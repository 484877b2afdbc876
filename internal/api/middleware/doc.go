// Package middleware provides the HTTP middleware stack for the file service.
//
// Middleware stack includes:
//   - RequestID: Correlation IDs (ULID) echoed in X-Request-ID
//   - Logger: Structured zap access log per request
//   - Recovery: Panic recovery with a failure envelope
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting
//   - Caller: Resolves the caller role from a request header
//
// Rate Limiting:
//   - Per-IP tracking with idle cleanup
//   - Token bucket algorithm
//   - Configurable RPS and burst capacity
//   - Global rate limiting option
//
// Example Usage:
//
//	router.Use(middleware.RequestID())
//	router.Use(middleware.Logger(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
//	router.Use(middleware.Caller(middleware.DefaultRoleConfig()))
package middleware
