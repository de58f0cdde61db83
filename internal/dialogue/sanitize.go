package dialogue

import "strings"

// SanitizeText strips emoji, control characters, and surrounding
// whitespace from a user message before the engine interprets it.
func SanitizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isEmojiRune(r) || (r < 0x20 && r != '\n' && r != '\t') {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF: // pictographs, emoticons, symbols
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r == 0xFE0F || r == 0xFE0E: // variation selectors
		return true
	case r == 0x200D: // zero-width joiner
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators
		return true
	}
	return false
}
