package morph

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"
)

// Unknown tags a parse made up for a word no dictionary knows.
const Unknown POS = "UNKN"

// maxGuessSuffix is the longest word ending, in letters, used to predict a
// parse.
const maxGuessSuffix = 5

type suffixRule struct {
	formEnding  string
	lemmaEnding string
	pos         POS
	tags        []string
	count       int
}

type ruleKey struct {
	suffix      string
	formEnding  string
	lemmaEnding string
	pos         POS
}

// Guesser is an Analyzer that never leaves a word without a parse. Words the
// wrapped analyzer knows pass through unchanged. Unknown words are predicted
// from the longest ending they share with known forms of open-class words:
// "столе" ends like "доме", so it gets the lemma "стол". When no ending
// matches, the word is its own lemma with POS Unknown.
type Guesser struct {
	next     Analyzer
	suffixes map[string][]suffixRule
}

var _ Analyzer = (*Guesser)(nil)

// NewGuesser wraps next. Endings are learned from known, which may be nil to
// only fall back to the word itself.
func NewGuesser(next Analyzer, known *Dictionary) *Guesser {
	g := &Guesser{next: next, suffixes: make(map[string][]suffixRule)}
	if known != nil {
		g.learn(known.Entries())
	}
	return g
}

// Parse implements Analyzer.
func (g *Guesser) Parse(ctx context.Context, word string) ([]Parse, error) {
	parses, err := g.next.Parse(ctx, word)
	if err != nil || len(parses) > 0 {
		return parses, err
	}

	word = strings.ToLower(word)
	if guessed := g.guess(word); len(guessed) > 0 {
		return guessed, nil
	}
	return []Parse{{Word: word, Lemma: word, POS: Unknown}}, nil
}

func (g *Guesser) learn(entries []Parse) {
	index := make(map[ruleKey]int) // position of a rule in its suffix list

	for _, p := range entries {
		if !productive(p.POS) {
			continue
		}
		form, lemma := []rune(p.Word), []rune(p.Lemma)
		stem := commonPrefixLen(form, lemma)
		if stem == 0 {
			continue
		}
		formEnding, lemmaEnding := string(form[stem:]), string(lemma[stem:])

		for k := max(1, len(form)-stem); k <= maxGuessSuffix && k < len(form); k++ {
			suffix := string(form[len(form)-k:])
			key := ruleKey{suffix: suffix, formEnding: formEnding, lemmaEnding: lemmaEnding, pos: p.POS}
			if i, ok := index[key]; ok {
				g.suffixes[suffix][i].count++
				continue
			}
			index[key] = len(g.suffixes[suffix])
			g.suffixes[suffix] = append(g.suffixes[suffix], suffixRule{
				formEnding:  formEnding,
				lemmaEnding: lemmaEnding,
				pos:         p.POS,
				tags:        p.Tags,
				count:       1,
			})
		}
	}

	for _, rules := range g.suffixes {
		sort.SliceStable(rules, func(i, j int) bool { return rules[i].count > rules[j].count })
	}
}

// guess predicts parses from the longest known ending of word.
func (g *Guesser) guess(word string) []Parse {
	r := []rune(word)
	for k := min(maxGuessSuffix, len(r)-1); k >= 1; k-- {
		rules := g.suffixes[string(r[len(r)-k:])]
		if len(rules) == 0 {
			continue
		}

		total := 0
		for _, rule := range rules {
			total += rule.count
		}
		out := make([]Parse, 0, len(rules))
		for _, rule := range rules {
			stem := string(r[:len(r)-utf8.RuneCountInString(rule.formEnding)])
			p := Parse{
				Word:  word,
				Lemma: stem + rule.lemmaEnding,
				POS:   rule.pos,
				Score: float64(rule.count) / float64(total),
			}
			if len(rule.tags) > 0 {
				p.Tags = append([]string(nil), rule.tags...)
			}
			out = append(out, p)
		}
		return out
	}
	return nil
}

// productive reports whether new words of this part of speech appear in
// running text. Closed classes are never predicted.
func productive(pos POS) bool {
	switch pos {
	case "", Unknown, Pronoun, Numeral, Predicative,
		Preposition, Conjunction, Particle, Interjection:
		return false
	}
	return true
}

func commonPrefixLen(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
