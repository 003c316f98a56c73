// Package types defines the roster and analysis records shared by the
// repository backends, the HTTP API and the event hub.
package types
