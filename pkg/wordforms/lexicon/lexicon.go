package lexicon

import (
	"fmt"
	"sort"

	"github.com/cognicore/wordforms/pkg/wordforms/internalerr"
)

// Lexicon groups surface tokens under their lemma:
// - Tokens: every accepted surface form, without duplicates
// - Lemmas: lemma -> the set of surface forms normalized to it
//
// Invariants:
// - every form listed under a lemma is also in the token set
// - a token belongs to exactly one lemma (reverse index)
// - nothing is removed once added
type Lexicon struct {
	// lemma -> surface forms
	// Example: "кошка" -> {"кошка", "кошки", "кошкой"}
	forms map[string]map[string]struct{}

	// surface form -> lemma
	// Example: "кошкой" -> "кошка"
	reverseIndex map[string]string
}

// Entry is one lemma with its sorted surface forms.
type Entry struct {
	Lemma string
	Forms []string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		forms:        make(map[string]map[string]struct{}),
		reverseIndex: make(map[string]string),
	}
}

// Add records token as a surface form of lemma. Adding the same pair again
// is a no-op; adding a token already recorded under another lemma fails with
// ErrDuplicate and leaves the lexicon unchanged.
func (l *Lexicon) Add(lemma, token string) error {
	if existing, ok := l.reverseIndex[token]; ok {
		if existing != lemma {
			return fmt.Errorf("token %q is already a form of %q, not %q: %w",
				token, existing, lemma, internalerr.ErrDuplicate)
		}
		return nil
	}

	set, ok := l.forms[lemma]
	if !ok {
		set = make(map[string]struct{})
		l.forms[lemma] = set
	}
	set[token] = struct{}{}
	l.reverseIndex[token] = lemma
	return nil
}

// Normalize returns the lemma recorded for token.
func (l *Lexicon) Normalize(token string) (string, bool) {
	lemma, ok := l.reverseIndex[token]
	return lemma, ok
}

// Forms returns the sorted surface forms of lemma, or nil.
func (l *Lexicon) Forms(lemma string) []string {
	return sortedKeys(l.forms[lemma])
}

// Tokens returns all accepted tokens in lexicographic order.
func (l *Lexicon) Tokens() []string {
	out := make([]string, 0, len(l.reverseIndex))
	for tok := range l.reverseIndex {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// Lemmas returns all lemmas in lexicographic order.
func (l *Lexicon) Lemmas() []string {
	out := make([]string, 0, len(l.forms))
	for lemma := range l.forms {
		out = append(out, lemma)
	}
	sort.Strings(out)
	return out
}

// Entries returns every lemma with its forms, sorted by lemma then form.
func (l *Lexicon) Entries() []Entry {
	lemmas := l.Lemmas()
	out := make([]Entry, 0, len(lemmas))
	for _, lemma := range lemmas {
		out = append(out, Entry{Lemma: lemma, Forms: sortedKeys(l.forms[lemma])})
	}
	return out
}

// Merge adds every pair of other into l. Lexicons built from disjoint parts
// of a corpus with the same analyzer merge without conflict. On conflict the
// pairs merged so far stay and the error is returned.
func (l *Lexicon) Merge(other *Lexicon) error {
	for _, entry := range other.Entries() {
		for _, tok := range entry.Forms {
			if err := l.Add(entry.Lemma, tok); err != nil {
				return err
			}
		}
	}
	return nil
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() LexiconStats {
	maxForms := 0
	for _, set := range l.forms {
		if len(set) > maxForms {
			maxForms = len(set)
		}
	}
	return LexiconStats{
		Tokens:   len(l.reverseIndex),
		Lemmas:   len(l.forms),
		MaxForms: maxForms,
	}
}

// LexiconStats holds statistics about lexicon contents.
type LexiconStats struct {
	Tokens   int // Unique surface tokens
	Lemmas   int // Unique lemmas
	MaxForms int // Largest number of forms under one lemma
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
