// Package browser provides the live window/tab surface that sessions are
// captured from and restored into.
//
// Two implementations:
//   - Bridge: HTTP client for a browser-side bridge (resty + retryablehttp
//     transport, rate limited, behind a circuit breaker)
//   - Memory: in-process surface for development and tests
package browser
