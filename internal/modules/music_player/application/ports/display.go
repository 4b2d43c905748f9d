package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

// Display renders the "Now Playing" message for a guild.
type Display interface {
	// Initialize posts a placeholder message in the text channel.
	Initialize(ctx context.Context, channelID snowflake.ID) (domain.NowPlayingMessage, error)

	// ShowNowPlaying updates the message for the item that just started.
	ShowNowPlaying(ctx context.Context, msg domain.NowPlayingMessage, item *domain.QueueItem) error

	// Delete removes the message.
	Delete(ctx context.Context, msg domain.NowPlayingMessage) error
}
