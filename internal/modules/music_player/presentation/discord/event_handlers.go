package discord

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/ports"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

// EventHandlers turns Discord gateway events into music player events.
type EventHandlers struct {
	publisher ports.EventPublisher
}

// NewEventHandlers creates a new EventHandlers.
func NewEventHandlers(publisher ports.EventPublisher) *EventHandlers {
	return &EventHandlers{
		publisher: publisher,
	}
}

// HandleVoiceStateUpdate publishes a membership change for every guild the
// update touches.
func (h *EventHandlers) HandleVoiceStateUpdate(
	_ *discordgo.Session,
	event *discordgo.VoiceStateUpdate,
) {
	if event.VoiceState == nil {
		return
	}

	userID, err := snowflake.Parse(event.UserID)
	if err != nil {
		slog.Error("failed to parse user ID in voice state update", "error", err)
		return
	}

	guilds := []string{event.GuildID}
	if before := event.BeforeUpdate; before != nil && before.GuildID != "" && before.GuildID != event.GuildID {
		guilds = append(guilds, before.GuildID)
	}

	for _, raw := range guilds {
		guildID, err := snowflake.Parse(raw)
		if err != nil {
			slog.Error("failed to parse guild ID in voice state update", "error", err)
			continue
		}
		h.publisher.PublishMembershipChanged(domain.MembershipChangedEvent{
			GuildID: guildID,
			UserID:  userID,
		})
	}
}
