// Package auth provides API key authentication for golfcoach-server.
//
// APIKeyInterceptor and APIKeyStreamInterceptor guard the gRPC health
// listener; HTTPMiddleware guards the admin REST routes (level changes,
// event history). All three read the key from the configured header and
// compare it in constant time.
//
// When mode != "apikey" or key == "", everything passes through (useful for
// local development with auth disabled).
package auth
