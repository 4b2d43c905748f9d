package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/usecases"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// maxDescriptionRunes keeps video descriptions from flooding the embed.
const maxDescriptionRunes = 300

// upNextSeparator goes between the items of the up next embed.
const upNextSeparator = "\n---\n"

// queuedEmbed describes an item that was added to the queue.
func queuedEmbed(item *usecases.QueueItem) *discordgo.MessageEmbed {
	media := item.Media()

	embed := &discordgo.MessageEmbed{
		Title:       media.Title,
		Description: truncate(media.Description, maxDescriptionRunes),
		URL:         media.URL,
		Color:       colorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Length", Value: media.FormattedDuration(), Inline: true},
		},
	}
	if media.ThumbnailURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: media.ThumbnailURL}
	}
	if offset := item.StartOffset(); offset > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Starts At", Value: usecases.FormatDuration(offset), Inline: true,
		})
	}
	return embed
}

// playingEmbed describes the item that is playing, credited to whoever queued it.
func playingEmbed(item *usecases.QueueItem) *discordgo.MessageEmbed {
	embed := queuedEmbed(item)

	requestor := item.Requestor()
	embed.Author = &discordgo.MessageEmbedAuthor{
		Name:    requestor.Name,
		IconURL: requestor.AvatarURL,
	}
	if !item.Effect().IsClear() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Effect", Value: item.Effect().DisplayName(), Inline: true,
		})
	}
	if query := item.Media().Query; query != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("query: %q", query)}
	}
	return embed
}

// nowPlayingEmbed adds the playback position to the playing embed.
func nowPlayingEmbed(output *usecases.NowPlayingOutput) *discordgo.MessageEmbed {
	embed := playingEmbed(output.Item)

	position := usecases.FormatDuration(output.Position)
	if media := output.Item.Media(); !media.IsLive && media.Duration > 0 {
		position += " / " + media.FormattedDuration()
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Position", Value: position, Inline: true,
	})
	return embed
}

// upNextEmbed lists one page of the queue.
func upNextEmbed(output *usecases.UpNextOutput) *discordgo.MessageEmbed {
	title := "Up Next"
	if output.TotalPages > 1 {
		title = fmt.Sprintf("Up Next (%d items queued)", output.TotalItems)
	}

	lines := make([]string, 0, len(output.Items))
	for _, item := range output.Items {
		lines = append(lines, fmt.Sprintf("**%s**, requested by *%s*", item.Media().Title, item.Requestor().Name))
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: strings.Join(lines, upNextSeparator),
		Color:       colorSuccess,
	}
	if output.TotalPages > 1 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d", output.Page+1, output.TotalPages),
		}
	}
	return embed
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
