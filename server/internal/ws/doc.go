// Package ws implements the WebSocket hub for golfcoach-server.
//
// Hub broadcasts the roster to every connected client on a configurable
// interval (default 5s) and pushes analysis and level change events as they
// happen.
//
// New(src, interval) creates a Hub.
// Hub.Run(ctx) starts the broadcast ticker and blocks until ctx is cancelled,
// then closes all active connections.
// Hub.Publish(event, data) pushes one event to every client immediately.
// Hub.ServeHTTP upgrades an HTTP connection to WebSocket and sends the roster
// immediately on connect.
//
// Message format sent to clients:
//
//	{"event": "roster",        "data": {"users": [...], "generated_at": "..."}}
//	{"event": "analysis",      "data": { /* POST /api/v1/analyze response */ }}
//	{"event": "level_changed", "data": { /* user */ }}
//
// The upgrader accepts all origins. The server mounts the hub at /ws/stream.
package ws
