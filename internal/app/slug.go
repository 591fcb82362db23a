package app

import "strings"

// latinFold maps common accented Latin runes onto their ASCII base letters.
var latinFold = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "a", 'å': "a",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "o", 'ø': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u",
	'ç': "c", 'ñ': "n", 'ý': "y", 'ß': "ss", 'æ': "ae", 'œ': "oe",
}

// Slugify derives a URL-safe identifier from a title: lowercase,
// ASCII-only, hyphen-separated. The transform is deterministic, so the
// same title always yields the same slug.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphens
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if folded, ok := latinFold[r]; ok {
				b.WriteString(folded)
				lastHyphen = false
				continue
			}
			if r == ' ' || r == '-' || r == '_' || r == '\t' || r == '\n' {
				if !lastHyphen {
					b.WriteByte('-')
					lastHyphen = true
				}
			}
			// Everything else (punctuation, non-Latin script) is dropped.
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// ReadingTime estimates minutes to read content at 200 words per minute,
// with a minimum of one minute.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
