package domain

import (
	"strings"
)

// StripName returns the text following the bot name, and whether the text was addressed to
// the bot at all. The name must be the first whitespace delimited token, compared exactly.
func StripName(name, text string) (string, bool) {
	if name == "" || !strings.HasPrefix(text, name) {
		return "", false
	}

	rest := text[len(name):]
	if rest != "" && !startsWithSpace(rest) {
		return "", false
	}

	return strings.TrimSpace(rest), true
}

func ParseCommandArgs(args string) string {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return ""
	}

	return strings.Join(fields[1:], " ")
}

func ParseCommand(args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

func startsWithSpace(s string) bool {
	switch s[0] {
	case ' ', '\t', '\n', '\r':
		return true
	}

	return false
}

func normalizeState(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
