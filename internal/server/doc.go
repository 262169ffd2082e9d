// Package server runs the application's HTTP server.
//
// It owns the server lifecycle: startup, signal handling, and a graceful
// shutdown that drains in-flight requests before running the registered
// shutdown hooks (pending reset mail, background workers, connections).
package server
