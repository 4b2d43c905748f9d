package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/ports"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

// messageClient is the subset of the Discord session the display uses.
type messageClient interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// Display keeps a "Now Playing" message up to date in a text channel.
type Display struct {
	client messageClient
}

// NewDisplay creates a new Display.
func NewDisplay(session *discordgo.Session) *Display {
	return &Display{client: session}
}

// Initialize posts the placeholder message.
func (d *Display) Initialize(ctx context.Context, channelID snowflake.ID) (domain.NowPlayingMessage, error) {
	msg, err := d.client.ChannelMessageSend(channelID.String(), "Initializing...", discordgo.WithContext(ctx))
	if err != nil {
		return domain.NowPlayingMessage{}, err
	}

	messageID, err := snowflake.Parse(msg.ID)
	if err != nil {
		return domain.NowPlayingMessage{}, err
	}
	return domain.NewNowPlayingMessage(channelID, messageID), nil
}

// ShowNowPlaying replaces the message with the item that just started.
func (d *Display) ShowNowPlaying(ctx context.Context, msg domain.NowPlayingMessage, item *domain.QueueItem) error {
	edit := discordgo.NewMessageEdit(msg.ChannelID.String(), msg.MessageID.String()).
		SetContent("Now Playing:").
		SetEmbeds([]*discordgo.MessageEmbed{playingEmbed(item)})

	_, err := d.client.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	return err
}

// Delete removes the message.
func (d *Display) Delete(ctx context.Context, msg domain.NowPlayingMessage) error {
	return d.client.ChannelMessageDelete(msg.ChannelID.String(), msg.MessageID.String(), discordgo.WithContext(ctx))
}

// Ensure Display implements ports.Display.
var _ ports.Display = (*Display)(nil)
