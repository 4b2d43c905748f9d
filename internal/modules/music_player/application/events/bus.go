package events

import (
	"log/slog"
	"sync"

	"github.com/sglre6355/friendboat/internal/modules/music_player/application/ports"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

// DefaultEventBufferSize is the default buffer size for event channels.
const DefaultEventBufferSize = 100

// Compile-time check that Bus implements ports.EventPublisher.
var _ ports.EventPublisher = (*Bus)(nil)

// Bus provides a channel-based event bus for async event handling.
type Bus struct {
	membershipChanged chan domain.MembershipChangedEvent
	queueExhausted    chan domain.QueueExhaustedEvent

	closed bool
	mu     sync.RWMutex
}

// NewBus creates a new Bus with the given buffer size.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	return &Bus{
		membershipChanged: make(chan domain.MembershipChangedEvent, bufferSize),
		queueExhausted:    make(chan domain.QueueExhaustedEvent, bufferSize),
	}
}

// PublishMembershipChanged publishes a MembershipChangedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *Bus) PublishMembershipChanged(event domain.MembershipChangedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "MembershipChanged")
		return
	}

	select {
	case b.membershipChanged <- event:
		slog.Debug("published event", "type", "MembershipChanged", "guild", event.GuildID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "MembershipChanged")
	}
}

// PublishQueueExhausted publishes a QueueExhaustedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *Bus) PublishQueueExhausted(event domain.QueueExhaustedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "QueueExhausted")
		return
	}

	select {
	case b.queueExhausted <- event:
		slog.Debug("published event", "type", "QueueExhausted", "guild", event.GuildID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "QueueExhausted")
	}
}

// MembershipChanged returns the channel for MembershipChangedEvent.
func (b *Bus) MembershipChanged() <-chan domain.MembershipChangedEvent {
	return b.membershipChanged
}

// QueueExhausted returns the channel for QueueExhaustedEvent.
func (b *Bus) QueueExhausted() <-chan domain.QueueExhaustedEvent {
	return b.queueExhausted
}

// Close closes all event channels.
// After calling Close, publishing will no longer send events.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.membershipChanged)
	close(b.queueExhausted)

	slog.Debug("event bus closed")
}
