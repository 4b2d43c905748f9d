package ports

import (
	"context"

	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

// MediaLookup resolves user input to a playable media reference.
type MediaLookup interface {
	// Search resolves a direct URL, a video ID or free text.
	// Returns domain.ErrMediaNotFound when nothing playable matched.
	Search(ctx context.Context, query string) (*domain.Media, error)
}
