package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cognicore/wordforms/internal/logger"
	"github.com/cognicore/wordforms/pkg/wordforms"
	"github.com/cognicore/wordforms/pkg/wordforms/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (optional)")
		pagesDir   = flag.String("pages", "", "Directory with crawled pages")
		suffix     = flag.String("suffix", "", "Page file suffix")
		tokensPath = flag.String("tokens", "", "Output file for unique tokens")
		lemmasPath = flag.String("lemmas", "", "Output file for lemma groups")
		dictPath   = flag.String("dict", "", "Morphological dictionary (OpenCorpora .xml or text, .tsv, .gz or compiled .db)")
		guess      = flag.Bool("guess-unknown", true, "Predict parses for words missing from the dictionary")
		cacheSize  = flag.Int("cache", -1, "Parse cache size (0 disables)")
		logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error")
		logFormat  = flag.String("log-format", "", "Log format: text or json")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	// Flags win over the config file and environment.
	setIfNotEmpty(&cfg.Input.Dir, *pagesDir)
	setIfNotEmpty(&cfg.Input.Suffix, *suffix)
	setIfNotEmpty(&cfg.Output.Tokens, *tokensPath)
	setIfNotEmpty(&cfg.Output.Lemmas, *lemmasPath)
	setIfNotEmpty(&cfg.Analyzer.Dictionary, *dictPath)
	setIfNotEmpty(&cfg.Logging.Level, *logLevel)
	setIfNotEmpty(&cfg.Logging.Format, *logFormat)
	if *cacheSize >= 0 {
		cfg.Analyzer.CacheSize = *cacheSize
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "guess-unknown" {
			cfg.Analyzer.GuessUnknown = *guess
		}
	})

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	builder, err := wordforms.New(wordforms.Options{Config: cfg})
	if err != nil {
		slog.Error("failed to create builder", "error", err)
		os.Exit(1)
	}

	res, err := builder.Run(ctx)
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
	fmt.Printf("- unique tokens: %d -> %s\n", res.Tokens, cfg.Output.Tokens)
	fmt.Printf("- lemmas: %d -> %s\n", res.Lemmas, cfg.Output.Lemmas)
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
