package usecases

import (
	"time"

	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

// Re-export domain types for presentation layer use.
// This allows presentation to depend only on usecases without importing domain directly.

// QueueItem is an alias for domain.QueueItem.
type QueueItem = domain.QueueItem

// Media is an alias for domain.Media.
type Media = domain.Media

// Requestor is an alias for domain.Requestor.
type Requestor = domain.Requestor

// Effect is an alias for domain.Effect.
type Effect = domain.Effect

// EffectClear is the effect that removes any applied effect.
const EffectClear = domain.EffectClear

// Effects returns every selectable effect in display order.
func Effects() []Effect {
	return append([]Effect(nil), domain.Effects...)
}

// FormatDuration formats a playback position or length for display.
func FormatDuration(d time.Duration) string {
	return domain.FormatDuration(d)
}
