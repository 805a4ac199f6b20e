package sender

import "slices"

// chunk splits text into parts of at most limit runes, preferring to cut after a newline.
func chunk(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		if idx := slices.Index(reversed(runes[:limit]), '\n'); idx >= 0 && idx < limit-1 {
			cut = limit - idx
		}

		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}

	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}

	return parts
}

func reversed(runes []rune) []rune {
	out := slices.Clone(runes)
	slices.Reverse(out)
	return out
}
