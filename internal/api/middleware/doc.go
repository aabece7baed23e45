// Package middleware provides the gin middleware stack: request ids,
// request logging, CORS and per-client rate limiting.
package middleware
