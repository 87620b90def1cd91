// Package broadcast holds the process-wide queue of transient user-facing
// messages.
//
// Producers (the sync orchestrator, the network monitor) publish messages;
// presentation layers observe the ordered message list and display only the
// head of it. Offline messages always sort ahead of every other kind, other
// messages keep their insertion order.
package broadcast
