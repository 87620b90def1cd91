package server

// Server runs the development change feed.
//
// RunServer blocks until the process is asked to terminate and the feed has
// drained. Shutdown may be called from another goroutine to stop it early.
type Server interface {
	RunServer()
	Shutdown()

	// Addr is the listen address of the feed API.
	Addr() string
}
