package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default word length bounds, in letters.
const (
	DefaultMinLen = 2
	DefaultMaxLen = 40
)

// Tokenizer splits text into lowercase Russian words.
type Tokenizer struct {
	MinLen int
	MaxLen int
}

// NewTokenizer creates a tokenizer with the given length bounds.
// Non-positive values fall back to the defaults.
func NewTokenizer(minLen, maxLen int) *Tokenizer {
	if minLen <= 0 {
		minLen = DefaultMinLen
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &Tokenizer{MinLen: minLen, MaxLen: maxLen}
}

// Tokenize lowercases text and returns every maximal run of Cyrillic letters
// whose length lies within the bounds, in order of appearance. Runs longer
// than MaxLen are dropped whole. Duplicates are kept.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	n := 0

	flush := func() {
		if n >= t.MinLen && n <= t.MaxLen {
			tokens = append(tokens, current.String())
		}
		current.Reset()
		n = 0
	}

	for _, r := range text {
		r = unicode.ToLower(r)
		if isRussianLetter(r) {
			current.WriteRune(r)
			n++
			continue
		}
		if n > 0 {
			flush()
		}
	}

	// Don't forget the last token
	if n > 0 {
		flush()
	}

	return tokens
}

// IsWord reports whether s is a single lowercase Russian word within the
// length bounds.
func (t *Tokenizer) IsWord(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < t.MinLen || n > t.MaxLen {
		return false
	}
	for _, r := range s {
		if !isRussianLetter(r) {
			return false
		}
	}
	return true
}

// isRussianLetter matches а..я and ё. The other Cyrillic blocks (Ukrainian і,
// Serbian ђ and so on) are deliberately outside the range.
func isRussianLetter(r rune) bool {
	return (r >= 'а' && r <= 'я') || r == 'ё'
}

var defaultTokenizer = NewTokenizer(DefaultMinLen, DefaultMaxLen)

// Tokenize splits text with the default bounds.
func Tokenize(text string) []string {
	return defaultTokenizer.Tokenize(text)
}
