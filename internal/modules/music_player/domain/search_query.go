package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// SearchSource represents the source for searching tracks.
type SearchSource string

const (
	// SourceYouTube searches YouTube.
	SourceYouTube SearchSource = "ytsearch"
	// SourceDirect indicates a direct URL or video ID (no search prefix).
	SourceDirect SearchSource = ""
)

// youtubeVideoPattern matches YouTube watch, embed, v/ and youtu.be URLs,
// capturing the 11 character video ID.
var youtubeVideoPattern = regexp.MustCompile(
	`^(?:https?://)?(?:www\.)?(?:youtu\.be/|youtube\.com/(?:embed/|v/|watch\?v=|watch\?.+&v=))((\w|-){11})(?:\S+)?$`,
)

// bareVideoIDPattern matches a bare YouTube video ID.
var bareVideoIDPattern = regexp.MustCompile(`^[\w-]{11}$`)

// SearchQuery represents a query for searching tracks.
type SearchQuery struct {
	Query   string       // The search term or URL
	Source  SearchSource // The search source
	IsURL   bool         // Whether the query is a direct URL
	VideoID string       // YouTube video ID, when one could be extracted
}

// NewSearchQuery creates a SearchQuery from user input.
// YouTube URLs and bare video IDs become direct queries; other URLs are
// passed through untouched. Everything else is a YouTube search.
func NewSearchQuery(input string) *SearchQuery {
	input = strings.TrimSpace(input)

	if videoID := ExtractYouTubeVideoID(input); videoID != "" {
		return &SearchQuery{
			Query:   input,
			Source:  SourceDirect,
			IsURL:   isURL(input),
			VideoID: videoID,
		}
	}

	if isURL(input) {
		return &SearchQuery{
			Query:  input,
			Source: SourceDirect,
			IsURL:  true,
		}
	}

	return &SearchQuery{
		Query:  input,
		Source: SourceYouTube,
		IsURL:  false,
	}
}

// ExtractYouTubeVideoID returns the video ID of a YouTube URL or bare ID,
// or the empty string when the input is neither.
func ExtractYouTubeVideoID(input string) string {
	if matches := youtubeVideoPattern.FindStringSubmatch(input); matches != nil {
		return matches[1]
	}
	// a bare ID must contain a digit, dash or underscore so that
	// ordinary 11 letter words are still searched
	if bareVideoIDPattern.MatchString(input) && strings.ContainsAny(input, "0123456789-_") {
		return input
	}
	return ""
}

// LavalinkQuery returns the query string formatted for Lavalink.
func (q *SearchQuery) LavalinkQuery() string {
	if q.VideoID != "" {
		return YouTubeWatchURL(q.VideoID)
	}
	if q.IsURL {
		return q.Query
	}
	return string(q.Source) + ":" + q.Query
}

// YtDlpQuery returns the query formatted for yt-dlp, asking for up to
// limit search results.
func (q *SearchQuery) YtDlpQuery(limit int) string {
	if q.VideoID != "" {
		return YouTubeWatchURL(q.VideoID)
	}
	if q.IsURL {
		return q.Query
	}
	return string(q.Source) + strconv.Itoa(max(limit, 1)) + ":" + q.Query
}

// IsValid returns true if the query is not empty.
func (q *SearchQuery) IsValid() bool {
	return q.Query != ""
}

// YouTubeWatchURL builds the canonical watch URL for a video ID.
func YouTubeWatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// isURL checks if the input looks like a URL.
func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") ||
		strings.HasPrefix(input, "https://") ||
		strings.HasPrefix(input, "www.")
}
