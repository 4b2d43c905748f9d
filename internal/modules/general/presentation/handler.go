package presentation

import (
	"errors"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/friendboat/internal/bot"
	"github.com/sglre6355/friendboat/internal/modules/general/application"
)

// PingHandler handles the /ping command.
type PingHandler struct {
	interactor *application.PingInteractor
}

// NewPingHandler creates a new PingHandler.
func NewPingHandler() *PingHandler {
	return &PingHandler{
		interactor: application.NewPingInteractor(),
	}
}

// Handle processes the ping command and sends the response.
func (h *PingHandler) Handle(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	var latency time.Duration
	if s != nil {
		latency = s.HeartbeatLatency()
	}
	result := h.interactor.Execute(latency)

	data := &discordgo.InteractionResponseData{
		Content: result.Message,
	}
	if text := result.LatencyText(); text != "" {
		data.Embeds = []*discordgo.MessageEmbed{{Description: text}}
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// messageReplier is the subset of the Discord session used to answer text commands.
type messageReplier interface {
	ChannelMessageSendReply(
		channelID string,
		content string,
		reference *discordgo.MessageReference,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
}

// SyncHandler handles the owner-only sync text command.
type SyncHandler struct {
	interactor *application.SyncInteractor
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(interactor *application.SyncInteractor) *SyncHandler {
	return &SyncHandler{
		interactor: interactor,
	}
}

// HandleMessage is the discordgo event handler for MessageCreate events.
func (h *SyncHandler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	h.handle(s.State.User.ID, s, m)
}

func (h *SyncHandler) handle(botID string, replier messageReplier, m *discordgo.MessageCreate) {
	// Ignore bots, including this one
	if m.Author == nil || m.Author.Bot || m.Author.ID == botID {
		return
	}
	if !h.interactor.Matches(m.Content) {
		return
	}

	err := h.interactor.Execute(application.SyncInput{
		Content:  m.Content,
		AuthorID: m.Author.ID,
		GuildID:  m.GuildID,
	})

	var reply string
	switch {
	case errors.Is(err, application.ErrNotOwner):
		slog.Debug("ignored sync from non-owner", "user", m.Author.ID)
		return
	case errors.Is(err, application.ErrNotInGuild):
		reply = "Run this in the server you want to sync"
	case err != nil:
		slog.Error("failed to sync commands", "guild", m.GuildID, "error", err)
		reply = "Failed to sync commands"
	default:
		slog.Info("synced commands", "guild", m.GuildID)
		reply = "Synced commands to this server"
	}

	if _, err := replier.ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); err != nil {
		slog.Error("failed to send message", "channel", m.ChannelID, "error", err)
	}
}
