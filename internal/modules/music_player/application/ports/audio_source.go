package ports

import (
	"context"
	"time"

	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

// Stream is a materialized audio source bound to a single media item.
// A Stream is consumed once; seeking or changing the effect builds a new one.
type Stream interface {
	// Position returns the playback position, counted from the start of the media.
	Position() time.Duration

	// StartOffset returns the offset the stream was opened at.
	StartOffset() time.Duration

	// Effect returns the effect baked into the stream.
	Effect() domain.Effect

	// ApplyEffect returns a new stream of the same media, positioned at the
	// receiver's current position, with the effect applied.
	ApplyEffect(ctx context.Context, effect domain.Effect) (Stream, error)

	// Close releases the underlying resources. It is safe to call more than once.
	Close() error
}

// Playable is what a Connection consumes. Transports type-assert the
// backend-specific shape they understand.
type Playable interface {
	Stream() Stream
}

// AudioSourceFactory opens streams for a backend.
type AudioSourceFactory interface {
	// Source opens a stream of media starting at offset with effect applied.
	// It blocks until the stream is ready to play or ctx is done.
	Source(ctx context.Context, media domain.Media, offset time.Duration, effect domain.Effect) (Stream, error)

	// Player wraps a stream for playback at the configured volume.
	Player(stream Stream) Playable
}
