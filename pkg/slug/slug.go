package slug

import (
	"strings"
	"unicode"
)

const separator = '-'

// Option configures slug generation.
type Option func(*config)

type config struct {
	maxLength int
}

// MaxLength caps the slug at n runes. Truncation never leaves a trailing
// hyphen. Zero means unlimited.
func MaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}

// Make converts s into a DNS-safe label: lowercase ASCII letters and
// digits separated by single hyphens. Diacritics fold to their base
// letter; everything else collapses into a hyphen. The result may be
// empty when the input carries no usable characters.
func Make(s string, opts ...Option) string {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	var b strings.Builder
	b.Grow(len(s))

	// Start "pending" so the label never begins with a hyphen.
	pendingSep := true
	count := 0

	for _, r := range s {
		if cfg.maxLength > 0 && count >= cfg.maxLength {
			break
		}

		r = unicode.ToLower(r)
		if folded, ok := asciiFold[r]; ok {
			r = folded
		}

		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			pendingSep = false
			count++
			continue
		}

		if !pendingSep {
			b.WriteRune(separator)
			pendingSep = true
			count++
		}
	}

	return strings.TrimSuffix(b.String(), string(separator))
}

// asciiFold maps lowercase Latin diacritics to base letters. Lookup
// happens after unicode.ToLower, so only lowercase keys are needed.
// Covers the major European alphabets, not every Unicode range.
var asciiFold = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a', 'ā': 'a', 'ă': 'a', 'ą': 'a',
	'ç': 'c', 'ć': 'c', 'č': 'c',
	'đ': 'd', 'ď': 'd',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e', 'ē': 'e', 'ė': 'e', 'ę': 'e', 'ě': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i', 'ī': 'i', 'į': 'i',
	'ł': 'l',
	'ñ': 'n', 'ń': 'n', 'ň': 'n',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o', 'ø': 'o', 'ō': 'o',
	'ř': 'r',
	'ś': 's', 'š': 's', 'ș': 's',
	'ť': 't', 'ț': 't',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u', 'ū': 'u', 'ů': 'u', 'ų': 'u',
	'ý': 'y', 'ÿ': 'y',
	'ź': 'z', 'ž': 'z', 'ż': 'z',
	'æ': 'a',
	'œ': 'o',
	'ß': 's',
}
