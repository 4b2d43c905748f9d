package infrastructure

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/ports"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

// DefaultSearchResults is how many search results are inspected for a
// playable entry.
const DefaultSearchResults = 5

// videoClient is the subset of the YouTube client used here.
type videoClient interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamURLContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (string, error)
}

// commandRunner runs an external command and returns its stdout.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// YouTubeLookup resolves video URLs and IDs with the YouTube client and
// searches free text with yt-dlp.
type YouTubeLookup struct {
	videos        videoClient
	run           commandRunner
	ytDlpPath     string
	searchResults int
}

// NewYouTubeLookup creates a new YouTubeLookup.
func NewYouTubeLookup(client *youtube.Client, ytDlpPath string, searchResults int) *YouTubeLookup {
	if searchResults <= 0 {
		searchResults = DefaultSearchResults
	}
	return &YouTubeLookup{
		videos:        client,
		run:           runCommand,
		ytDlpPath:     ytDlpPath,
		searchResults: searchResults,
	}
}

// Search resolves the query to a single playable media reference.
func (l *YouTubeLookup) Search(ctx context.Context, query string) (*domain.Media, error) {
	q := domain.NewSearchQuery(query)
	if !q.IsValid() {
		return nil, domain.ErrMediaNotFound
	}

	if q.VideoID != "" {
		media, err := l.resolveVideo(ctx, q.VideoID)
		if err == nil {
			media.Query = q.Query
			return media, nil
		}
		slog.Debug("failed to resolve video, falling back to search",
			"video", q.VideoID,
			"error", err,
		)
	}

	media, err := l.search(ctx, q)
	if err != nil {
		return nil, err
	}
	media.Query = q.Query
	return media, nil
}

// resolveVideo fetches a single video's metadata. Live broadcasts are rejected.
func (l *YouTubeLookup) resolveVideo(ctx context.Context, videoID string) (*domain.Media, error) {
	video, err := l.videos.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video: %w", err)
	}
	if video.HLSManifestURL != "" {
		return nil, fmt.Errorf("video %s is a live broadcast", videoID)
	}

	return &domain.Media{
		ID:           video.ID,
		URL:          domain.YouTubeWatchURL(video.ID),
		Title:        cleanText(video.Title),
		Description:  cleanText(video.Description),
		ThumbnailURL: smallestThumbnail(video.Thumbnails),
		Duration:     video.Duration,
	}, nil
}

// ytDlpEntry is one line of yt-dlp --dump-json output.
type ytDlpEntry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    *float64 `json:"duration"`
	URL         string   `json:"url"`
	WebpageURL  string   `json:"webpage_url"`
	LiveStatus  string   `json:"live_status"`
	Thumbnails  []struct {
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"thumbnails"`
}

func (e ytDlpEntry) playable() bool {
	return e.ID != "" && e.LiveStatus != "is_live" && e.LiveStatus != "is_upcoming"
}

func (e ytDlpEntry) media() *domain.Media {
	url := e.WebpageURL
	if url == "" {
		url = domain.YouTubeWatchURL(e.ID)
	}

	var duration time.Duration
	if e.Duration != nil {
		duration = time.Duration(*e.Duration * float64(time.Second))
	}

	// yt-dlp lists thumbnails from worst to best
	thumbnail := ""
	for _, t := range e.Thumbnails {
		if t.URL != "" {
			thumbnail = t.URL
			break
		}
	}

	return &domain.Media{
		ID:           e.ID,
		URL:          url,
		Title:        cleanText(e.Title),
		Description:  cleanText(e.Description),
		ThumbnailURL: thumbnail,
		Duration:     duration,
	}
}

// search runs a yt-dlp search and returns the first entry that is not
// live or upcoming.
func (l *YouTubeLookup) search(ctx context.Context, q *domain.SearchQuery) (*domain.Media, error) {
	out, err := l.run(ctx, l.ytDlpPath,
		q.YtDlpQuery(l.searchResults),
		"--dump-json",
		"--flat-playlist",
		"--no-warnings",
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	entry, err := firstPlayableEntry(out)
	if err != nil {
		return nil, err
	}
	return entry.media(), nil
}

func firstPlayableEntry(out []byte) (*ytDlpEntry, error) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry ytDlpEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			slog.Debug("skipped malformed search entry", "error", err)
			continue
		}
		if entry.playable() {
			return &entry, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}

	return nil, domain.ErrMediaNotFound
}

// streamURL returns a direct audio URL for the media, preferring the
// YouTube client and falling back to yt-dlp.
func (l *YouTubeLookup) streamURL(ctx context.Context, media domain.Media) (string, error) {
	if videoID := domain.ExtractYouTubeVideoID(media.URL); videoID != "" {
		url, err := l.clientStreamURL(ctx, videoID)
		if err == nil {
			return url, nil
		}
		slog.Debug("failed to get stream url from client, falling back to yt-dlp",
			"video", videoID,
			"error", err,
		)
	}

	out, err := l.run(ctx, l.ytDlpPath, "-g", "-f", "bestaudio/best", "--no-playlist", "--no-warnings", media.URL)
	if err != nil {
		return "", fmt.Errorf("failed to get stream url: %w", err)
	}

	url, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	if url == "" {
		return "", errors.New("yt-dlp returned no stream url")
	}
	return url, nil
}

func (l *YouTubeLookup) clientStreamURL(ctx context.Context, videoID string) (string, error) {
	video, err := l.videos.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", err
	}

	formats := video.Formats.Type("audio")
	if len(formats) == 0 {
		formats = video.Formats.WithAudioChannels()
	}
	if len(formats) == 0 {
		return "", errors.New("no audio formats")
	}

	best := formats[0]
	for _, f := range formats[1:] {
		if f.Bitrate > best.Bitrate {
			best = f
		}
	}

	return l.videos.GetStreamURLContext(ctx, video, &best)
}

func smallestThumbnail(thumbnails youtube.Thumbnails) string {
	if len(thumbnails) == 0 {
		return ""
	}
	smallest := thumbnails[0]
	for _, t := range thumbnails[1:] {
		if t.Width < smallest.Width {
			smallest = t
		}
	}
	return smallest.URL
}

// cleanText trims whitespace and decodes HTML entities.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}

// Ensure YouTubeLookup implements ports.MediaLookup.
var _ ports.MediaLookup = (*YouTubeLookup)(nil)
