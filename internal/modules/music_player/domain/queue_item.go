package domain

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Requestor identifies the user who queued an item.
type Requestor struct {
	ID        snowflake.ID
	Name      string
	AvatarURL string
}

// QueueItem is a media reference waiting in, or playing from, a queue.
// Items are never mutated after construction; use Copy to derive a new one.
type QueueItem struct {
	media       Media
	requestor   Requestor
	startOffset time.Duration
	effect      Effect
}

// QueueItemOption overrides a field when building or copying a QueueItem.
type QueueItemOption func(*QueueItem)

// WithStartOffset sets where playback begins. Negative offsets floor at zero.
func WithStartOffset(offset time.Duration) QueueItemOption {
	return func(i *QueueItem) {
		i.startOffset = max(offset, 0)
	}
}

// WithEffect sets the audio effect.
func WithEffect(effect Effect) QueueItemOption {
	return func(i *QueueItem) {
		if effect == "" {
			effect = EffectClear
		}
		i.effect = effect
	}
}

// NewQueueItem creates a QueueItem starting at offset zero with no effect.
func NewQueueItem(media Media, requestor Requestor, opts ...QueueItemOption) *QueueItem {
	item := &QueueItem{
		media:     media,
		requestor: requestor,
		effect:    EffectClear,
	}
	for _, opt := range opts {
		opt(item)
	}
	return item
}

// Copy returns a new QueueItem with the overrides applied.
// The receiver is left unchanged.
func (i *QueueItem) Copy(opts ...QueueItemOption) *QueueItem {
	copied := *i
	for _, opt := range opts {
		opt(&copied)
	}
	return &copied
}

// Media returns the media reference.
func (i *QueueItem) Media() Media {
	return i.media
}

// Requestor returns the user who queued the item.
func (i *QueueItem) Requestor() Requestor {
	return i.requestor
}

// StartOffset returns where playback begins.
func (i *QueueItem) StartOffset() time.Duration {
	return i.startOffset
}

// Effect returns the audio effect.
func (i *QueueItem) Effect() Effect {
	return i.effect
}
