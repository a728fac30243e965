// Package morph models a Russian morphological analyzer: given a word form it
// returns the candidate parses, best first, each carrying a part-of-speech tag
// and the normal form (lemma).
//
// Tags follow the OpenCorpora vocabulary, which is what dictionaries in
// OpenCorpora format and pymorphy-style tools emit.
package morph

import (
	"context"
	"strings"
)

// POS is a part-of-speech tag.
type POS string

// OpenCorpora part-of-speech tags.
const (
	Noun         POS = "NOUN" // существительное
	AdjFull      POS = "ADJF" // полное прилагательное
	AdjShort     POS = "ADJS" // краткое прилагательное
	Comparative  POS = "COMP"
	Verb         POS = "VERB" // личная форма глагола
	Infinitive   POS = "INFN"
	ParticFull   POS = "PRTF"
	ParticShort  POS = "PRTS"
	Gerund       POS = "GRND"
	Numeral      POS = "NUMR"
	Adverb       POS = "ADVB"
	Pronoun      POS = "NPRO"
	Predicative  POS = "PRED"
	Preposition  POS = "PREP"
	Conjunction  POS = "CONJ"
	Particle     POS = "PRCL"
	Interjection POS = "INTJ"
)

// FunctionalPOS returns the tags of words that carry structure rather than
// content: prepositions, conjunctions, particles and interjections.
func FunctionalPOS() []POS {
	return []POS{Preposition, Conjunction, Particle, Interjection}
}

// Parse is one interpretation of a word form.
type Parse struct {
	Word  string   // the dictionary form that matched
	Lemma string   // normal form
	POS   POS      // part of speech, empty if the analyzer has none
	Tags  []string // remaining grammemes, e.g. [anim masc sing nomn]
	Score float64  // analyzer confidence; higher ranks first
}

// Analyzer returns the parses of a lowercase word form, best first. An empty
// result means the analyzer does not know the word; errors are reserved for
// failures of the analyzer itself.
type Analyzer interface {
	Parse(ctx context.Context, word string) ([]Parse, error)
}

// ParseGrammemes splits an OpenCorpora tag string such as
// "NOUN,anim,masc sing,nomn" into its part of speech and the rest.
func ParseGrammemes(s string) (POS, []string) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return "", nil
	}
	var tags []string
	if len(fields) > 1 {
		tags = fields[1:]
	}
	return POS(fields[0]), tags
}

// FormatGrammemes is the inverse of ParseGrammemes for storage.
func FormatGrammemes(pos POS, tags []string) string {
	if len(tags) == 0 {
		return string(pos)
	}
	return string(pos) + "," + strings.Join(tags, " ")
}
