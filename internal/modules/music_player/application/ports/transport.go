package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// Transport acquires voice connections.
type Transport interface {
	// Connect joins the voice channel. The returned error wraps
	// domain.ErrTransportConnect.
	Connect(ctx context.Context, guildID, channelID snowflake.ID) (Connection, error)
}

// Connection is a live voice connection for one guild.
type Connection interface {
	// ChannelID returns the voice channel the connection is in.
	ChannelID() snowflake.ID

	// Move switches the connection to another voice channel of the same guild.
	Move(ctx context.Context, channelID snowflake.ID) error

	// Disconnect leaves the voice channel. The connection is unusable afterwards.
	Disconnect(ctx context.Context) error

	// Play starts sending the playable. onComplete is called exactly once,
	// from a transport goroutine, when playback ends for any reason.
	Play(playable Playable, onComplete func(err error)) error

	// Stop ends the active playback. onComplete of that playback still fires.
	Stop()

	Pause()
	Resume()

	IsPlaying() bool
	IsPaused() bool
	IsConnected() bool

	// Occupancy returns the number of members in the voice channel, the bot included.
	Occupancy() int
}
