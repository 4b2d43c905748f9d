package scheduler

import (
	"time"

	"github.com/sglre6355/friendboat/internal/modules/music_player/application/ports"
)

const (
	// DefaultMaxQueueSize is the queue bound used when none is configured.
	DefaultMaxQueueSize = 100

	// DefaultSeekCompensation roughly covers the time a hot-swap takes to
	// materialize, so the new stream lands close to real time.
	DefaultSeekCompensation = time.Second

	// sourceTimeout bounds stream materialization triggered by a completion.
	sourceTimeout = 30 * time.Second
)

// Config tunes scheduler behavior.
type Config struct {
	MaxQueueSize     int
	SeekCompensation time.Duration

	// PersistEffect carries the last applied effect over to items dequeued later.
	PersistEffect bool
}

// DefaultConfig returns the defaults used by the music module.
func DefaultConfig() Config {
	return Config{
		MaxQueueSize:     DefaultMaxQueueSize,
		SeekCompensation: DefaultSeekCompensation,
	}
}

// Dependencies are the collaborators a scheduler drives.
// Display and Publisher are optional.
type Dependencies struct {
	Transport ports.Transport
	Sources   ports.AudioSourceFactory
	Display   ports.Display
	Publisher ports.EventPublisher
}
