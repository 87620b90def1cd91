package broadcast

import (
	"context"
	"slices"
	"sync"

	"github.com/MKhiriev/go-news-sync/internal/logger"
	"github.com/MKhiriev/go-news-sync/internal/signal"
	"github.com/MKhiriev/go-news-sync/models"
	"github.com/google/uuid"
)

// Broadcast is an observable, deduplicated, priority-ordered message queue.
// A single instance is created at startup and handed to every producer and
// consumer.
type Broadcast struct {
	mu       sync.Mutex
	messages *signal.State[[]models.Message]
	logger   *logger.Logger
}

// New returns an empty [Broadcast].
func New(log *logger.Logger) *Broadcast {
	return &Broadcast{
		messages: signal.NewState[[]models.Message](nil),
		logger:   log,
	}
}

// Publish adds a message of the given kind and returns its id. If a message
// with the same kind and label is already queued, its id is returned and the
// queue is left unchanged.
func (b *Broadcast) Publish(kind models.MessageKind, opts ...Option) uuid.UUID {
	var o publishOptions
	for _, opt := range opts {
		opt(&o)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.messages.Get()
	for _, m := range current {
		if m.Kind == kind && m.Label == o.label {
			return m.ID
		}
	}

	msg := models.Message{
		ID:        uuid.New(),
		Kind:      kind,
		Label:     o.label,
		OnConfirm: o.onConfirm,
		OnDismiss: o.onDismiss,
	}
	b.messages.Set(insertOrdered(current, msg))

	b.logger.Debug().
		Str("func", "Broadcast.Publish").
		Str("message_id", msg.ID.String()).
		Str("kind", kind.String()).
		Str("label", o.label).
		Msg("message published")

	return msg.ID
}

// Clear removes the message with the given id. Unknown ids are ignored.
func (b *Broadcast) Clear(id uuid.UUID) {
	b.take(id)
}

// ClearKind removes every message of the given kind.
func (b *Broadcast) ClearKind(kind models.MessageKind) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.messages.Get()
	next := slices.DeleteFunc(slices.Clone(current), func(m models.Message) bool {
		return m.Kind == kind
	})
	if len(next) != len(current) {
		b.messages.Set(next)
	}
}

// ClearAll empties the queue without running any callbacks.
func (b *Broadcast) ClearAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.messages.Get()) > 0 {
		b.messages.Set(nil)
	}
}

// Confirm clears the message and runs its OnConfirm action, if any.
// It reports whether the message was still queued.
func (b *Broadcast) Confirm(id uuid.UUID) bool {
	msg, ok := b.take(id)
	if ok && msg.OnConfirm != nil {
		msg.OnConfirm()
	}
	return ok
}

// Dismiss clears the message and runs its OnDismiss action, if any.
// It reports whether the message was still queued.
func (b *Broadcast) Dismiss(id uuid.UUID) bool {
	msg, ok := b.take(id)
	if ok && msg.OnDismiss != nil {
		msg.OnDismiss()
	}
	return ok
}

// Messages returns a snapshot of the queue in display order.
func (b *Broadcast) Messages() []models.Message {
	return slices.Clone(b.messages.Get())
}

// Current returns the message that should be displayed now.
func (b *Broadcast) Current() (models.Message, bool) {
	current := b.messages.Get()
	if len(current) == 0 {
		return models.Message{}, false
	}
	return current[0], true
}

// Has reports whether a message of the given kind is queued.
func (b *Broadcast) Has(kind models.MessageKind) bool {
	return slices.ContainsFunc(b.messages.Get(), func(m models.Message) bool {
		return m.Kind == kind
	})
}

// Observe streams the queue in display order. The current queue is delivered
// first; the channel is closed when ctx is done.
func (b *Broadcast) Observe(ctx context.Context) <-chan []models.Message {
	return b.messages.Observe(ctx)
}

// take removes the message from the queue and hands it to the caller, so its
// callbacks can run exactly once outside the lock.
func (b *Broadcast) take(id uuid.UUID) (models.Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.messages.Get()
	idx := slices.IndexFunc(current, func(m models.Message) bool {
		return m.ID == id
	})
	if idx < 0 {
		return models.Message{}, false
	}

	msg := current[idx]
	b.messages.Set(slices.Delete(slices.Clone(current), idx, idx+1))

	b.logger.Debug().
		Str("func", "Broadcast.take").
		Str("message_id", id.String()).
		Str("kind", msg.Kind.String()).
		Msg("message cleared")

	return msg, true
}

// insertOrdered returns a new slice with msg appended after every message of
// equal or higher priority. Offline messages go after existing Offline ones
// and before everything else.
func insertOrdered(current []models.Message, msg models.Message) []models.Message {
	pos := len(current)
	if msg.Kind == models.MessageOffline {
		pos = 0
		for pos < len(current) && current[pos].Kind == models.MessageOffline {
			pos++
		}
	}
	next := make([]models.Message, 0, len(current)+1)
	next = append(next, current[:pos]...)
	next = append(next, msg)
	return append(next, current[pos:]...)
}
