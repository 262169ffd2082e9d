package server

import "context"

// Server defines the lifecycle contract of the application server.
//
// RunServer blocks until a termination signal arrives and shutdown has
// completed. Shutdown stops serving and runs the shutdown hooks.
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown(ctx context.Context)
}

// ShutdownHook releases one resource during shutdown. Hooks run in
// registration order after the HTTP server has stopped accepting requests.
type ShutdownHook struct {
	Name string
	Fn   func(ctx context.Context) error
}
