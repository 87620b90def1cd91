package models

import "github.com/google/uuid"

// MessageKind classifies a transient user-facing notification.
type MessageKind int

const (
	MessageCustom MessageKind = iota
	MessageOffline
	MessageSyncFailure
)

func (k MessageKind) String() string {
	switch k {
	case MessageOffline:
		return "offline"
	case MessageSyncFailure:
		return "sync_failure"
	default:
		return "custom"
	}
}

// Message is a transient notification held by the message broadcast until it
// is cleared. OnConfirm and OnDismiss are optional fire-once user actions.
type Message struct {
	ID        uuid.UUID
	Kind      MessageKind
	Label     string
	OnConfirm func()
	OnDismiss func()
}

// AppState is the composed state exposed to presentation layers.
type AppState struct {
	// Current is the single message that should be displayed, if any.
	Current *Message
	// Pending counts all messages waiting, Current included.
	Pending int
	Offline bool
	// Syncing lists collections with a run in progress.
	Syncing []Collection
}
