package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/usecases"
)

// DefaultSeekSeconds is how far /seek moves when no amount is given.
const DefaultSeekSeconds = 10

// Commands returns all slash commands for the music player module.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "play",
			Description: "Play a video from a YouTube URL or search",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "query",
					Description: "YouTube URL, video ID or search term",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "skip_ahead",
					Description: "Seconds into the video to start at",
					Required:    false,
					MinValue:    floatPtr(0),
				},
			},
		},
		{
			Name:        "pause",
			Description: "Pause playback",
		},
		{
			Name:        "resume",
			Description: "Resume playback",
		},
		{
			Name:        "seek",
			Description: "Skip ahead in the current track, or rewind with a negative amount",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "seconds",
					Description: "Seconds to move (defaults to 10)",
					Required:    false,
				},
			},
		},
		{
			Name:        "skip",
			Description: "Skip the current track",
		},
		{
			Name:        "stop",
			Description: "Stop playback, clear the queue and leave the voice channel",
		},
		{
			Name:        "restart",
			Description: "Play the current track again from the beginning",
		},
		{
			Name:        "toggle_repeat",
			Description: "Repeat the current track once",
		},
		{
			Name:        "toggle_repeat_forever",
			Description: "Keep repeating the current track",
		},
		{
			Name:        "shuffle",
			Description: "Shuffle the queue",
		},
		{
			Name:        "apply_effect",
			Description: "Apply an audio effect to the current track",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "effect",
					Description: "Effect to apply",
					Required:    true,
					Choices:     effectChoices(),
				},
			},
		},
		{
			Name:        "now_playing",
			Description: "Show the current track",
		},
		{
			Name:        "up_next",
			Description: "Show the queue",
		},
	}
}

func effectChoices() []*discordgo.ApplicationCommandOptionChoice {
	effects := usecases.Effects()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(effects))
	for _, effect := range effects {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  effect.DisplayName(),
			Value: effect.String(),
		})
	}
	return choices
}

func floatPtr(f float64) *float64 {
	return &f
}
