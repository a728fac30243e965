package morph

import (
	"context"
	"sort"
	"strings"
)

// Dictionary is an in-memory Analyzer backed by a list of known word forms.
//
// Parses of a form are ranked by Score, highest first; equal scores keep the
// order in which they were added. Lookups fall back to ё/е folding so that
// text typed without ё still finds dictionary forms spelled with it, and the
// other way round.
type Dictionary struct {
	entries []Parse
	forms   map[string][]int
	folded  map[string][]int // forms containing ё, keyed with ё→е
	lemmas  map[string]struct{}
}

var _ Analyzer = (*Dictionary)(nil)

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		forms:  make(map[string][]int),
		folded: make(map[string][]int),
		lemmas: make(map[string]struct{}),
	}
}

// Add registers a parse for p.Word. Word and lemma are lowercased.
func (d *Dictionary) Add(p Parse) {
	p.Word = strings.ToLower(p.Word)
	p.Lemma = strings.ToLower(p.Lemma)
	if len(p.Tags) > 0 {
		p.Tags = append([]string(nil), p.Tags...)
	}

	idx := len(d.entries)
	d.entries = append(d.entries, p)
	d.lemmas[p.Lemma] = struct{}{}

	d.forms[p.Word] = d.insertRanked(d.forms[p.Word], idx)
	if strings.ContainsRune(p.Word, 'ё') {
		key := foldYo(p.Word)
		d.folded[key] = d.insertRanked(d.folded[key], idx)
	}
}

// insertRanked places idx after every entry scoring at least as high.
func (d *Dictionary) insertRanked(list []int, idx int) []int {
	score := d.entries[idx].Score
	pos := sort.Search(len(list), func(i int) bool {
		return d.entries[list[i]].Score < score
	})
	list = append(list, 0)
	copy(list[pos+1:], list[pos:])
	list[pos] = idx
	return list
}

// Parse implements Analyzer.
func (d *Dictionary) Parse(_ context.Context, word string) ([]Parse, error) {
	return d.Lookup(word), nil
}

// Lookup returns copies of the ranked parses of word, or nil.
func (d *Dictionary) Lookup(word string) []Parse {
	word = strings.ToLower(word)

	list := d.forms[word]
	if len(list) == 0 {
		key := foldYo(word)
		list = d.folded[key]
		if len(list) == 0 && key != word {
			list = d.forms[key]
		}
	}
	if len(list) == 0 {
		return nil
	}

	out := make([]Parse, len(list))
	for i, idx := range list {
		p := d.entries[idx]
		if len(p.Tags) > 0 {
			p.Tags = append([]string(nil), p.Tags...)
		}
		out[i] = p
	}
	return out
}

// Entries returns every parse in insertion order.
func (d *Dictionary) Entries() []Parse {
	out := make([]Parse, len(d.entries))
	copy(out, d.entries)
	return out
}

// Stats returns dictionary size information.
func (d *Dictionary) Stats() DictionaryStats {
	return DictionaryStats{
		Parses: len(d.entries),
		Forms:  len(d.forms),
		Lemmas: len(d.lemmas),
	}
}

// DictionaryStats holds statistics about dictionary contents.
type DictionaryStats struct {
	Parses int // Total parses across all forms
	Forms  int // Distinct word forms
	Lemmas int // Distinct normal forms
}

func foldYo(s string) string {
	return strings.ReplaceAll(s, "ё", "е")
}
