package discord

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/friendboat/internal/bot"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/usecases"
)

// playTimeout bounds the lookup and the voice join of a /play.
const playTimeout = 45 * time.Second

// seekRefusals answer a seek by zero seconds.
var seekRefusals = []string{
	"Nah",
	"Nope",
	"Nothin Doin",
	"Uh uh",
	"Not gonna happen",
	"I'm sorry, Dave. I'm afraid I can't do that",
	"https://www.youtube.com/watch?v=d1rb-tZuLAw",
}

// CommandHandlers holds all the command handlers.
type CommandHandlers struct {
	playback  *usecases.PlaybackService
	paginator *Paginator
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(
	playback *usecases.PlaybackService,
	paginator *Paginator,
) *CommandHandlers {
	return &CommandHandlers{
		playback:  playback,
		paginator: paginator,
	}
}

// HandlePlay handles the /play command.
// The response is deferred because the lookup and the voice join can take a while.
func (h *CommandHandlers) HandlePlay(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	textChannelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return respondError(r, "Invalid channel")
	}

	requestor, err := requestorFromMember(i.Member)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	var query string
	var skipAhead int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "query":
			query = opt.StringValue()
		case "skip_ahead":
			skipAhead = opt.IntValue()
		}
	}

	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
	defer cancel()

	output, err := h.playback.Play(ctx, usecases.PlayInput{
		GuildID:   guildID,
		Requestor: requestor,
		Query:     query,
		SkipAhead: time.Duration(skipAhead) * time.Second,
	})
	if err != nil {
		return editError(r, errorMessage(err))
	}

	if err := h.playback.Start(ctx, usecases.StartInput{
		GuildID:        guildID,
		VoiceChannelID: output.VoiceChannelID,
		TextChannelID:  textChannelID,
	}); err != nil {
		return editError(r, errorMessage(err))
	}

	content := "Queued:"
	return r.EditResponse(&discordgo.WebhookEdit{
		Content: &content,
		Embeds:  &[]*discordgo.MessageEmbed{queuedEmbed(output.Item)},
	})
}

// HandlePause handles the /pause command.
func (h *CommandHandlers) HandlePause(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.playback.Pause(context.Background(), guildID); err != nil {
		return respondError(r, errorMessage(err))
	}

	return respondSuccess(r, "Paused playback")
}

// HandleResume handles the /resume command.
func (h *CommandHandlers) HandleResume(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.playback.Resume(context.Background(), guildID); err != nil {
		return respondError(r, errorMessage(err))
	}

	return respondSuccess(r, "Resumed playback")
}

// HandleSeek handles the /seek command.
func (h *CommandHandlers) HandleSeek(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	seconds := DefaultSeekSeconds
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "seconds" {
			seconds = int(opt.IntValue())
		}
	}

	err = h.playback.Seek(context.Background(), usecases.SeekInput{
		GuildID: guildID,
		Seconds: seconds,
	})
	switch {
	case errors.Is(err, usecases.ErrZeroSeek):
		return respondError(r, seekRefusals[rand.IntN(len(seekRefusals))])
	case err != nil:
		return respondError(r, errorMessage(err))
	case seconds < 0:
		return respondSuccess(r, "Rewound the track")
	default:
		return respondSuccess(r, "Skipped ahead in the track")
	}
}

// HandleSkip handles the /skip command.
func (h *CommandHandlers) HandleSkip(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.playback.Skip(context.Background(), guildID); err != nil {
		return respondError(r, errorMessage(err))
	}

	return respondSuccess(r, "Skipped")
}

// HandleStop handles the /stop command.
func (h *CommandHandlers) HandleStop(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.playback.Stop(context.Background(), guildID); err != nil {
		return respondError(r, errorMessage(err))
	}

	return respondSuccess(r, "Stopped playback")
}

// HandleRestart handles the /restart command.
func (h *CommandHandlers) HandleRestart(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.playback.Restart(context.Background(), guildID); err != nil {
		return respondError(r, errorMessage(err))
	}

	return respondSuccess(r, "Restarted")
}

// HandleToggleRepeat handles the /toggle_repeat command.
func (h *CommandHandlers) HandleToggleRepeat(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	on, err := h.playback.ToggleRepeat(context.Background(), guildID)
	if err != nil {
		return respondError(r, errorMessage(err))
	}

	if on {
		return respondSuccess(r, "Okay, this track will be repeated once")
	}
	return respondSuccess(r, "Okay, this track won't repeat")
}

// HandleToggleRepeatForever handles the /toggle_repeat_forever command.
func (h *CommandHandlers) HandleToggleRepeatForever(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	on, err := h.playback.ToggleRepeatForever(context.Background(), guildID)
	if err != nil {
		return respondError(r, errorMessage(err))
	}

	if on {
		return respondSuccess(r, "Okay, this track will keep playing until everyone leaves, or this command is run again")
	}
	return respondSuccess(r, "Okay, this track won't repeat anymore")
}

// HandleShuffle handles the /shuffle command.
func (h *CommandHandlers) HandleShuffle(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.playback.Shuffle(context.Background(), guildID); err != nil {
		return respondError(r, errorMessage(err))
	}

	return respondSuccess(r, "Queue shuffled")
}

// HandleApplyEffect handles the /apply_effect command.
func (h *CommandHandlers) HandleApplyEffect(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	var name string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "effect" {
			name = opt.StringValue()
		}
	}

	effect, err := h.playback.ApplyEffect(context.Background(), usecases.ApplyEffectInput{
		GuildID: guildID,
		Effect:  name,
	})
	if err != nil {
		return respondError(r, errorMessage(err))
	}

	if effect.IsClear() {
		return respondSuccess(r, "Effect cleared")
	}
	return respondSuccess(r, "Effect applied")
}

// HandleNowPlaying handles the /now_playing command.
func (h *CommandHandlers) HandleNowPlaying(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	output, err := h.playback.NowPlaying(context.Background(), guildID)
	if err != nil {
		return respondError(r, errorMessage(err))
	}

	content := "Now Playing:"
	if output.Paused {
		content = "Now Playing (Currently Paused):"
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Embeds:  []*discordgo.MessageEmbed{nowPlayingEmbed(output)},
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// HandleUpNext handles the /up_next command.
func (h *CommandHandlers) HandleUpNext(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	return h.paginator.Open(context.Background(), guildID, r)
}

// requestorFromMember identifies the member who issued a command.
func requestorFromMember(member *discordgo.Member) (usecases.Requestor, error) {
	if member == nil || member.User == nil {
		return usecases.Requestor{}, errors.New("interaction has no member")
	}

	id, err := snowflake.Parse(member.User.ID)
	if err != nil {
		return usecases.Requestor{}, err
	}

	return usecases.Requestor{
		ID:        id,
		Name:      displayName(member),
		AvatarURL: member.AvatarURL(""),
	}, nil
}

// displayName returns the effective display name for a guild member.
// Priority: guild nickname > global display name > username.
func displayName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}

// errorMessage turns a use case error into what the user is told.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, usecases.ErrUserNotInVoiceChannel):
		return "You must be in a voice channel to use this command"
	case errors.Is(err, usecases.ErrMediaNotFound):
		return "Sorry, no results found for that video. Please try another video or search term"
	case errors.Is(err, usecases.ErrQueueFull):
		return "Sorry, the queue is currently full"
	case errors.Is(err, usecases.ErrNotPlaying):
		return "Nothing is currently playing"
	case errors.Is(err, usecases.ErrNothingQueued):
		return "Nothing is currently queued"
	case errors.Is(err, usecases.ErrAlreadyPaused):
		return "Playback is already paused"
	case errors.Is(err, usecases.ErrNotPaused):
		return "Playback isn't paused"
	case errors.Is(err, usecases.ErrInvalidEffect):
		return "That effect doesn't exist"
	case errors.Is(err, usecases.ErrTransportConnect):
		return "Sorry, I couldn't join your voice channel"
	default:
		slog.Error("music command failed", "error", err)
		return "Something went wrong, please try again"
	}
}

// Response helpers.

func respondSuccess(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: message,
					Color:       colorSuccess,
				},
			},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{errorEmbed(message)},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

func editError(r bot.Responder, message string) error {
	return r.EditResponse(&discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{errorEmbed(message)},
	})
}

func errorEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Error",
		Description: message,
		Color:       colorError,
	}
}
