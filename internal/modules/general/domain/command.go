package domain

import "strings"

// TextCommand is a prefixed command typed in a text channel, e.g. "!sync".
type TextCommand struct {
	Name string
	Args []string
}

// ParseTextCommand parses content that starts with the prefix.
// Returns false for any other message.
func ParseTextCommand(content, prefix string) (TextCommand, bool) {
	if prefix == "" {
		return TextCommand{}, false
	}

	rest, ok := strings.CutPrefix(strings.TrimSpace(content), prefix)
	if !ok {
		return TextCommand{}, false
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 || rest[0] == ' ' {
		return TextCommand{}, false
	}

	return TextCommand{
		Name: strings.ToLower(fields[0]),
		Args: fields[1:],
	}, true
}
