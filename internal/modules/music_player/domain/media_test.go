package domain

import (
	"testing"
	"time"
)

func TestMedia_FormattedDuration(t *testing.T) {
	tests := []struct {
		name     string
		media    Media
		expected string
	}{
		{name: "zero", media: Media{}, expected: "0:00"},
		{name: "seconds", media: Media{Duration: 9 * time.Second}, expected: "0:09"},
		{name: "minutes", media: Media{Duration: 3*time.Minute + 32*time.Second}, expected: "3:32"},
		{name: "hours", media: Media{Duration: time.Hour + 2*time.Minute + 5*time.Second}, expected: "1:02:05"},
		{name: "live", media: Media{Duration: time.Minute, IsLive: true}, expected: "LIVE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.media.FormattedDuration(); got != tt.expected {
				t.Errorf("FormattedDuration() = %q, want %q", got, tt.expected)
			}
		})
	}
}
