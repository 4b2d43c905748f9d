package domain

import (
	"strconv"
	"time"
)

// Media is a resolved, playable reference returned by a lookup.
type Media struct {
	ID           string
	URL          string
	Title        string
	Description  string
	ThumbnailURL string
	Duration     time.Duration
	IsLive       bool

	// Query is the search text the media was resolved from, if any.
	Query string

	// Handle is an opaque, backend-specific reference (an encoded Lavalink track, for example).
	Handle string
}

// FormattedDuration returns the duration as "m:ss", or "h:mm:ss" for long media.
func (m Media) FormattedDuration() string {
	if m.IsLive {
		return "LIVE"
	}
	return FormatDuration(m.Duration)
}

// FormatDuration returns the duration as "m:ss", or "h:mm:ss" past an hour.
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return strconv.Itoa(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return strconv.Itoa(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
