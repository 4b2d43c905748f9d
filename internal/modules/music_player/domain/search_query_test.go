package domain

import (
	"testing"
)

func TestNewSearchQuery(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		expectedQuery   string
		expectedSource  SearchSource
		expectedIsURL   bool
		expectedVideoID string
	}{
		{
			name:           "search term",
			input:          "never gonna give you up",
			expectedQuery:  "never gonna give you up",
			expectedSource: SourceYouTube,
			expectedIsURL:  false,
		},
		{
			name:           "search term with whitespace",
			input:          "  hello world  ",
			expectedQuery:  "hello world",
			expectedSource: SourceYouTube,
			expectedIsURL:  false,
		},
		{
			name:            "https watch URL",
			input:           "https://youtube.com/watch?v=dQw4w9WgXcQ",
			expectedQuery:   "https://youtube.com/watch?v=dQw4w9WgXcQ",
			expectedSource:  SourceDirect,
			expectedIsURL:   true,
			expectedVideoID: "dQw4w9WgXcQ",
		},
		{
			name:            "short URL",
			input:           "https://youtu.be/dQw4w9WgXcQ?t=42",
			expectedQuery:   "https://youtu.be/dQw4w9WgXcQ?t=42",
			expectedSource:  SourceDirect,
			expectedIsURL:   true,
			expectedVideoID: "dQw4w9WgXcQ",
		},
		{
			name:            "watch URL with leading parameters",
			input:           "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ",
			expectedQuery:   "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ",
			expectedSource:  SourceDirect,
			expectedIsURL:   true,
			expectedVideoID: "dQw4w9WgXcQ",
		},
		{
			name:            "embed URL without scheme",
			input:           "youtube.com/embed/dQw4w9WgXcQ",
			expectedQuery:   "youtube.com/embed/dQw4w9WgXcQ",
			expectedSource:  SourceDirect,
			expectedIsURL:   false,
			expectedVideoID: "dQw4w9WgXcQ",
		},
		{
			name:            "bare video ID",
			input:           "dQw4w9WgXcQ",
			expectedQuery:   "dQw4w9WgXcQ",
			expectedSource:  SourceDirect,
			expectedIsURL:   false,
			expectedVideoID: "dQw4w9WgXcQ",
		},
		{
			name:           "eleven letter word is searched",
			input:          "programming",
			expectedQuery:  "programming",
			expectedSource: SourceYouTube,
			expectedIsURL:  false,
		},
		{
			name:           "http URL",
			input:          "http://example.com/audio.mp3",
			expectedQuery:  "http://example.com/audio.mp3",
			expectedSource: SourceDirect,
			expectedIsURL:  true,
		},
		{
			name:           "www URL",
			input:          "www.youtube.com/watch?v=abc",
			expectedQuery:  "www.youtube.com/watch?v=abc",
			expectedSource: SourceDirect,
			expectedIsURL:  true,
		},
		{
			name:           "empty string",
			input:          "",
			expectedQuery:  "",
			expectedSource: SourceYouTube,
			expectedIsURL:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewSearchQuery(tt.input)

			if q.Query != tt.expectedQuery {
				t.Errorf("Query = %q, want %q", q.Query, tt.expectedQuery)
			}
			if q.Source != tt.expectedSource {
				t.Errorf("Source = %q, want %q", q.Source, tt.expectedSource)
			}
			if q.IsURL != tt.expectedIsURL {
				t.Errorf("IsURL = %v, want %v", q.IsURL, tt.expectedIsURL)
			}
			if q.VideoID != tt.expectedVideoID {
				t.Errorf("VideoID = %q, want %q", q.VideoID, tt.expectedVideoID)
			}
		})
	}
}

func TestSearchQuery_LavalinkQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "search term",
			input:    "lofi beats",
			expected: "ytsearch:lofi beats",
		},
		{
			name:     "youtube URL is canonicalized",
			input:    "https://youtu.be/dQw4w9WgXcQ",
			expected: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name:     "other URL is passed through",
			input:    "https://example.com/a.mp3",
			expected: "https://example.com/a.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewSearchQuery(tt.input).LavalinkQuery(); got != tt.expected {
				t.Errorf("LavalinkQuery() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSearchQuery_YtDlpQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		limit    int
		expected string
	}{
		{
			name:     "search term with limit",
			input:    "lofi beats",
			limit:    5,
			expected: "ytsearch5:lofi beats",
		},
		{
			name:     "limit floors at one",
			input:    "lofi beats",
			limit:    0,
			expected: "ytsearch1:lofi beats",
		},
		{
			name:     "video ID",
			input:    "dQw4w9WgXcQ",
			limit:    5,
			expected: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewSearchQuery(tt.input).YtDlpQuery(tt.limit); got != tt.expected {
				t.Errorf("YtDlpQuery() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSearchQuery_IsValid(t *testing.T) {
	if NewSearchQuery("   ").IsValid() {
		t.Error("expected whitespace query to be invalid")
	}
	if !NewSearchQuery("song").IsValid() {
		t.Error("expected non-empty query to be valid")
	}
}
