package domain

import (
	"slices"
	"testing"
)

func TestParseTextCommand(t *testing.T) {
	tests := []struct {
		name    string
		content string
		prefix  string
		want    TextCommand
		wantOK  bool
	}{
		{name: "bare command", content: "!sync", prefix: "!", want: TextCommand{Name: "sync", Args: []string{}}, wantOK: true},
		{name: "arguments", content: "  !Sync now please ", prefix: "!", want: TextCommand{Name: "sync", Args: []string{"now", "please"}}, wantOK: true},
		{name: "long prefix", content: "fb?sync", prefix: "fb?", want: TextCommand{Name: "sync", Args: []string{}}, wantOK: true},
		{name: "no prefix", content: "sync", prefix: "!"},
		{name: "prefix only", content: "!", prefix: "!"},
		{name: "space after prefix", content: "! sync", prefix: "!"},
		{name: "empty prefix", content: "sync", prefix: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTextCommand(tt.content, tt.prefix)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if got.Name != tt.want.Name || !slices.Equal(got.Args, tt.want.Args) {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
