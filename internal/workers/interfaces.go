// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// starting and stopping multiple workers in a unified way.
package workers

import (
	"context"
	"time"
)

// Worker is the interface that must be implemented by any background worker.
//
// Start must not block: implementations spawn their goroutines and return.
// Stop blocks until everything started by Start has exited.
//
// Example implementation:
//
//	type MyWorker struct{ cancel context.CancelFunc }
//
//	func (w *MyWorker) Start(ctx context.Context) {
//	    // start background processing
//	}
//
//	func (w *MyWorker) Stop() {}
type Worker interface {
	Start(ctx context.Context)
	Stop()
}

// Ticker is a periodic job that takes its interval at start, such as the
// sync job and the network monitor.
type Ticker interface {
	Start(ctx context.Context, interval time.Duration)
	Stop()
}
