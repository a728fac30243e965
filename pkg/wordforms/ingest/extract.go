package ingest

import (
	"strings"

	"golang.org/x/net/html"
)

// DefaultSkipTags are the elements whose content is never visible text.
var DefaultSkipTags = []string{"script", "style", "noscript"}

// Extractor pulls visible text out of HTML markup.
//
// It walks the token stream rather than a parsed tree and keeps an explicit
// skip depth: a start tag from the skip set increments it, the matching end
// tag decrements it, and text is kept only while the depth is zero. Markup is
// never validated, so broken pages degrade instead of failing. An unclosed
// skip element leaves the depth above zero for the rest of the page, which
// Depth reports after Extract returns.
type Extractor struct {
	skip  map[string]struct{}
	depth int
}

// NewExtractor creates an extractor skipping the given tag names.
// With no tags, DefaultSkipTags is used.
func NewExtractor(skipTags ...string) *Extractor {
	if len(skipTags) == 0 {
		skipTags = DefaultSkipTags
	}
	skip := make(map[string]struct{}, len(skipTags))
	for _, t := range skipTags {
		skip[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return &Extractor{skip: skip}
}

// Extract returns the visible text fragments of markup joined by single spaces.
func (e *Extractor) Extract(markup string) string {
	e.depth = 0
	z := html.NewTokenizer(strings.NewReader(markup))

	var parts []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF is the only error a strings.Reader can produce.
			return strings.Join(parts, " ")
		case html.StartTagToken:
			name := tagName(z)
			if !rawTextTags[name] {
				// x/net also reads noscript, iframe, xmp and friends as raw
				// text, which would hide nested tags from the skip counter.
				z.NextIsNotRawText()
			}
			if e.skipped(name) {
				e.depth++
			}
		case html.EndTagToken:
			if e.skipped(tagName(z)) && e.depth > 0 {
				e.depth--
			}
		case html.TextToken:
			if e.depth == 0 {
				if text := string(z.Text()); text != "" {
					parts = append(parts, text)
				}
			}
		}
	}
}

// Depth is the skip depth left by the last Extract call. Zero means every
// skipped element was closed.
func (e *Extractor) Depth() int {
	return e.depth
}

func (e *Extractor) skipped(name string) bool {
	_, ok := e.skip[name]
	return ok
}

// rawTextTags are the only elements whose content is not tokenized as markup.
var rawTextTags = map[string]bool{"script": true, "style": true}

func tagName(z *html.Tokenizer) string {
	name, _ := z.TagName()
	return string(name)
}

// ExtractText is Extract with the default skip tags.
func ExtractText(markup string) string {
	return NewExtractor().Extract(markup)
}
