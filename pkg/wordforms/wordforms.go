// Package wordforms builds the token and lemma lists of a crawled Russian
// corpus: pages → visible text → words → content words grouped by lemma.
package wordforms

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cognicore/wordforms/internal/ids"
	"github.com/cognicore/wordforms/internal/logger"
	"github.com/cognicore/wordforms/pkg/wordforms/aggregate"
	"github.com/cognicore/wordforms/pkg/wordforms/config"
	"github.com/cognicore/wordforms/pkg/wordforms/export"
	"github.com/cognicore/wordforms/pkg/wordforms/ingest"
	"github.com/cognicore/wordforms/pkg/wordforms/internalerr"
	"github.com/cognicore/wordforms/pkg/wordforms/morph"
	"github.com/cognicore/wordforms/pkg/wordforms/stoplist"
	"github.com/cognicore/wordforms/pkg/wordforms/store/sqlite"
)

// Builder runs the whole batch: list pages, extract and tokenize every page,
// aggregate the concatenated tokens once, export both files.
type Builder struct {
	cfg      *config.Config
	analyzer morph.Analyzer
	writer   export.Writer
	logger   *slog.Logger
}

// Options configures a Builder
type Options struct {
	Config *config.Config // required

	// Analyzer overrides the dictionary named in Config. When nil, the
	// dictionary is loaded by Run after the input directory was checked.
	Analyzer morph.Analyzer

	// Writer overrides the file outputs named in Config.
	Writer export.Writer

	Logger *slog.Logger
}

// Result summarizes a finished run.
type Result struct {
	RunID    string
	Pages    int
	Unclosed int // pages ending inside a skipped element
	Tokens   int // unique accepted tokens
	Lemmas   int // unique lemmas
	Stats    aggregate.Stats
	Elapsed  time.Duration
}

// New creates a Builder with the given dependencies
func New(opts Options) (*Builder, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("wordforms: nil config: %w", internalerr.ErrInvalidConfig)
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Writer == nil {
		opts.Writer = &export.FileWriter{
			TokensPath: opts.Config.Output.Tokens,
			LemmasPath: opts.Config.Output.Lemmas,
		}
	}
	if opts.Logger == nil {
		opts.Logger = logger.WithComponent("wordforms")
	}
	return &Builder{
		cfg:      opts.Config,
		analyzer: opts.Analyzer,
		writer:   opts.Writer,
		logger:   opts.Logger,
	}, nil
}

// Run executes one batch. Setup failures (missing or empty input directory,
// unusable dictionary) return before any page is read or file written.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: ids.New()}
	log := b.logger.With("run", res.RunID)

	paths, err := ingest.ListPages(b.cfg.Input.Dir, b.cfg.Input.Suffix)
	if err != nil {
		return nil, err
	}
	log.Info("pages found", "dir", b.cfg.Input.Dir, "count", len(paths))

	analyzer := b.analyzer
	if analyzer == nil {
		analyzer, err = OpenAnalyzer(ctx, b.cfg.Analyzer)
		if err != nil {
			return nil, err
		}
	}

	tokenizer := ingest.NewTokenizer(b.cfg.Tokenizer.MinLen, b.cfg.Tokenizer.MaxLen)
	pipeline := ingest.NewPipeline(ingest.NewExtractor(b.cfg.Extractor.SkipTags...), tokenizer)

	var all []string
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := ingest.ReadPage(path)
		if err != nil {
			return nil, err
		}
		processed := pipeline.Process(page)
		if processed.Unclosed {
			res.Unclosed++
			log.Debug("page ends inside a skipped element", "path", path)
		}
		log.Debug("page tokenized", "path", path, "tokens", len(processed.Tokens))
		all = append(all, processed.Tokens...)
		res.Pages++
	}

	agg := aggregate.New(aggregate.Options{
		Analyzer:  analyzer,
		Stoplist:  stoplist.FromStrings(b.cfg.Analyzer.FunctionalPOS),
		Tokenizer: tokenizer,
		Logger:    log.With("component", "aggregate"),
	})
	if err := agg.AddAll(ctx, all); err != nil {
		return nil, err
	}

	lex := agg.Lexicon()
	exporter := export.Exporter{Writer: b.writer}
	if err := exporter.Export(ctx, lex); err != nil {
		return nil, err
	}

	stats := lex.Stats()
	res.Tokens = stats.Tokens
	res.Lemmas = stats.Lemmas
	res.Stats = agg.Stats()
	res.Elapsed = time.Since(start)

	log.Info("run complete",
		"pages", res.Pages,
		"raw_tokens", res.Stats.Seen,
		"distinct", res.Stats.Distinct,
		"tokens", res.Tokens,
		"lemmas", res.Lemmas,
		"rejected_digit", res.Stats.Digit,
		"rejected_no_parse", res.Stats.NoParse,
		"rejected_functional", res.Stats.Functional,
		"rejected_lemma", res.Stats.BadLemma,
		"elapsed", res.Elapsed,
	)
	return res, nil
}

// LoadDictionary loads a dictionary file. Compiled dictionaries (".db",
// ".sqlite") are read from SQLite; everything else goes through
// morph.LoadFile.
func LoadDictionary(ctx context.Context, path string) (*morph.Dictionary, error) {
	if path == "" {
		return nil, fmt.Errorf("no dictionary configured: %w", internalerr.ErrDictionary)
	}
	if !isCompiled(path) {
		return morph.LoadFile(path)
	}

	// Opening a missing database would create an empty one.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("compiled dictionary: %v: %w", err, internalerr.ErrDictionary)
	}
	st, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open compiled dictionary %s: %v: %w", path, err, internalerr.ErrDictionary)
	}
	defer st.Close()
	return st.Load(ctx)
}

// OpenAnalyzer loads the configured dictionary once. With GuessUnknown the
// dictionary is wrapped in a morph.Guesser trained on itself; a positive
// CacheSize adds a parse cache on top.
func OpenAnalyzer(ctx context.Context, cfg config.AnalyzerConfig) (morph.Analyzer, error) {
	start := time.Now()
	dict, err := LoadDictionary(ctx, cfg.Dictionary)
	if err != nil {
		return nil, err
	}
	stats := dict.Stats()
	logger.WithComponent("morph").Info("dictionary loaded",
		"path", cfg.Dictionary,
		"forms", stats.Forms,
		"lemmas", stats.Lemmas,
		"elapsed", time.Since(start),
	)

	var analyzer morph.Analyzer = dict
	if cfg.GuessUnknown {
		analyzer = morph.NewGuesser(dict, dict)
	}
	if cfg.CacheSize <= 0 {
		return analyzer, nil
	}
	return morph.NewCached(analyzer, cfg.CacheSize)
}

func isCompiled(path string) bool {
	p := strings.ToLower(path)
	return strings.HasSuffix(p, ".db") || strings.HasSuffix(p, ".sqlite")
}
