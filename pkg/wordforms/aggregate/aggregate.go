// Package aggregate decides which raw tokens are content words and groups the
// survivors under their lemma.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/cognicore/wordforms/pkg/wordforms/ingest"
	"github.com/cognicore/wordforms/pkg/wordforms/lexicon"
	"github.com/cognicore/wordforms/pkg/wordforms/morph"
	"github.com/cognicore/wordforms/pkg/wordforms/stoplist"
)

// Verdict is the outcome of filtering one token.
type Verdict int

const (
	Accepted           Verdict = iota
	RejectedDigit              // token contains a decimal digit
	RejectedNoParse            // analyzer does not know the token
	RejectedFunctional         // top parse is a preposition, conjunction, particle or interjection
	RejectedLemma              // top parse's lemma is not itself a valid word
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case RejectedDigit:
		return "digit"
	case RejectedNoParse:
		return "no_parse"
	case RejectedFunctional:
		return "functional"
	case RejectedLemma:
		return "bad_lemma"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// Stats counts token occurrences by verdict.
type Stats struct {
	Seen       int // token occurrences processed
	Distinct   int // distinct tokens analyzed
	Accepted   int
	Digit      int
	NoParse    int
	Functional int
	BadLemma   int
}

func (s *Stats) count(v Verdict) {
	s.Seen++
	switch v {
	case Accepted:
		s.Accepted++
	case RejectedDigit:
		s.Digit++
	case RejectedNoParse:
		s.NoParse++
	case RejectedFunctional:
		s.Functional++
	case RejectedLemma:
		s.BadLemma++
	}
}

type outcome struct {
	verdict Verdict
	lemma   string
}

// Aggregator filters tokens and records the accepted ones into a Lexicon.
// Verdicts are memoized per distinct token: the filter depends only on the
// token, so repeats cost a map lookup instead of an analyzer query.
type Aggregator struct {
	analyzer  morph.Analyzer
	stops     *stoplist.Manager
	tokenizer *ingest.Tokenizer
	lex       *lexicon.Lexicon
	seen      map[string]outcome
	stats     Stats
	logger    *slog.Logger
}

// Options configures an Aggregator.
type Options struct {
	Analyzer  morph.Analyzer    // required
	Stoplist  *stoplist.Manager // defaults to stoplist.Default()
	Tokenizer *ingest.Tokenizer // word shape used to check lemmas; defaults to 2..40 letters
	Logger    *slog.Logger      // defaults to slog.Default()
}

// New creates an Aggregator with an empty lexicon.
func New(opts Options) *Aggregator {
	if opts.Stoplist == nil {
		opts.Stoplist = stoplist.Default()
	}
	if opts.Tokenizer == nil {
		opts.Tokenizer = ingest.NewTokenizer(ingest.DefaultMinLen, ingest.DefaultMaxLen)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Aggregator{
		analyzer:  opts.Analyzer,
		stops:     opts.Stoplist,
		tokenizer: opts.Tokenizer,
		lex:       lexicon.New(),
		seen:      make(map[string]outcome),
		logger:    opts.Logger,
	}
}

// Add filters one token and, if it is a content word, records it.
// Only analyzer failures return an error; rejections are verdicts.
func (a *Aggregator) Add(ctx context.Context, token string) (Verdict, error) {
	out, ok := a.seen[token]
	if !ok {
		var err error
		out, err = a.judge(ctx, token)
		if err != nil {
			return 0, err
		}
		a.seen[token] = out
		a.stats.Distinct++
		if out.verdict != Accepted {
			a.logger.Debug("token rejected", "token", token, "reason", out.verdict.String())
		}
	}

	if out.verdict == Accepted {
		if err := a.lex.Add(out.lemma, token); err != nil {
			return 0, err
		}
	}
	a.stats.count(out.verdict)
	return out.verdict, nil
}

// AddAll folds a token sequence into the lexicon, stopping at the first
// analyzer error.
func (a *Aggregator) AddAll(ctx context.Context, tokens []string) error {
	for _, tok := range tokens {
		if _, err := a.Add(ctx, tok); err != nil {
			return err
		}
	}
	return nil
}

// judge applies the filters in order; the first failing one decides.
func (a *Aggregator) judge(ctx context.Context, token string) (outcome, error) {
	if strings.IndexFunc(token, unicode.IsDigit) >= 0 {
		return outcome{verdict: RejectedDigit}, nil
	}

	parses, err := a.analyzer.Parse(ctx, token)
	if err != nil {
		return outcome{}, fmt.Errorf("analyze %q: %w", token, err)
	}
	if len(parses) == 0 {
		return outcome{verdict: RejectedNoParse}, nil
	}

	top := parses[0]
	if a.stops.IsStop(top.POS) {
		return outcome{verdict: RejectedFunctional}, nil
	}
	if !a.tokenizer.IsWord(top.Lemma) {
		return outcome{verdict: RejectedLemma}, nil
	}
	return outcome{verdict: Accepted, lemma: top.Lemma}, nil
}

// Lexicon returns the accumulated token set and lemma index.
func (a *Aggregator) Lexicon() *lexicon.Lexicon {
	return a.lex
}

// Stats returns the verdict counters so far.
func (a *Aggregator) Stats() Stats {
	return a.stats
}
