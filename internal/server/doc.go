// Package server runs the development feed server.
//
// It owns the HTTP listener lifecycle: startup, signal handling and
// graceful shutdown.
package server
