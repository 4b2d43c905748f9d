package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/friendboat/internal/bot"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/usecases"
)

// UpNextCustomIDPrefix prefixes the custom ID of every up next button.
// The rest of the ID is the page the button opens.
const UpNextCustomIDPrefix = "up_next:"

// DefaultPaginatorTimeout is how long the up next buttons stay usable.
const DefaultPaginatorTimeout = 2 * time.Minute

// Paginator shows the queue one page at a time, with buttons to flip pages.
type Paginator struct {
	queue    *usecases.QueueService
	pageSize int
	timeout  time.Duration
}

// NewPaginator creates a new Paginator.
func NewPaginator(queue *usecases.QueueService, pageSize int, timeout time.Duration) *Paginator {
	if pageSize <= 0 {
		pageSize = usecases.DefaultPageSize
	}
	if timeout <= 0 {
		timeout = DefaultPaginatorTimeout
	}
	return &Paginator{
		queue:    queue,
		pageSize: pageSize,
		timeout:  timeout,
	}
}

// Open responds with the first page of the guild's queue. The buttons are
// removed from the response once the timeout passes.
func (p *Paginator) Open(ctx context.Context, guildID snowflake.ID, r bot.Responder) error {
	output, err := p.queue.UpNext(ctx, usecases.UpNextInput{
		GuildID:  guildID,
		PageSize: p.pageSize,
	})
	if err != nil {
		return respondError(r, errorMessage(err))
	}

	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    "Here's what's up next:",
			Embeds:     []*discordgo.MessageEmbed{upNextEmbed(output)},
			Components: pageButtons(output),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		return err
	}

	if output.TotalPages > 1 {
		time.AfterFunc(p.timeout, func() {
			if err := r.EditResponse(&discordgo.WebhookEdit{
				Components: &[]discordgo.MessageComponent{},
			}); err != nil {
				slog.Debug("failed to remove up next buttons", "guild", guildID, "error", err)
			}
		})
	}
	return nil
}

// HandleComponent updates the message a page button belongs to.
func (p *Paginator) HandleComponent(i *discordgo.InteractionCreate, r bot.Responder) error {
	page, err := parsePageID(i.MessageComponentData().CustomID)
	if err != nil {
		return err
	}

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return err
	}

	output, err := p.queue.UpNext(context.Background(), usecases.UpNextInput{
		GuildID:  guildID,
		Page:     page,
		PageSize: p.pageSize,
	})
	if errors.Is(err, usecases.ErrNothingQueued) {
		return r.Respond(&discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Content:    "Nothing is currently queued",
				Embeds:     []*discordgo.MessageEmbed{},
				Components: []discordgo.MessageComponent{},
			},
		})
	}
	if err != nil {
		return err
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    "Here's what's up next:",
			Embeds:     []*discordgo.MessageEmbed{upNextEmbed(output)},
			Components: pageButtons(output),
		},
	})
}

// IsPageID reports whether a custom ID belongs to an up next button.
func IsPageID(customID string) bool {
	return strings.HasPrefix(customID, UpNextCustomIDPrefix)
}

func pageID(page int) string {
	return UpNextCustomIDPrefix + strconv.Itoa(page)
}

func parsePageID(customID string) (int, error) {
	raw, ok := strings.CutPrefix(customID, UpNextCustomIDPrefix)
	if !ok {
		return 0, fmt.Errorf("not an up next button: %q", customID)
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid up next page %q: %w", raw, err)
	}
	return page, nil
}

// pageButtons returns the Previous/Next row, or nothing for a single page.
func pageButtons(output *usecases.UpNextOutput) []discordgo.MessageComponent {
	if output.TotalPages <= 1 {
		return []discordgo.MessageComponent{}
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Previous",
					Style:    discordgo.SecondaryButton,
					CustomID: pageID(output.Page - 1),
					Disabled: output.Page == 0,
				},
				discordgo.Button{
					Label:    "Next",
					Style:    discordgo.PrimaryButton,
					CustomID: pageID(output.Page + 1),
					Disabled: output.Page >= output.TotalPages-1,
				},
			},
		},
	}
}
