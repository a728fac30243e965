package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/cognicore/wordforms/internal/logger"
	"github.com/cognicore/wordforms/pkg/wordforms/morph"
	"github.com/cognicore/wordforms/pkg/wordforms/store/sqlite"
)

func main() {
	var (
		inPath    = flag.String("in", "", "Source dictionary: OpenCorpora .xml or text, or .tsv, optionally .gz (required)")
		outPath   = flag.String("out", "", "Compiled SQLite dictionary (required)")
		logLevel  = flag.String("log-level", "info", "Log level")
		logFormat = flag.String("log-format", "text", "Log format: text or json")
	)
	flag.Parse()

	if *inPath == "" {
		log.Fatal("--in required")
	}
	if *outPath == "" {
		log.Fatal("--out required")
	}

	logger.Setup(*logLevel, *logFormat)
	slogger := logger.WithComponent("compile")
	ctx := context.Background()

	start := time.Now()
	dict, err := morph.LoadFile(*inPath)
	if err != nil {
		log.Fatal("Failed to load dictionary:", err)
	}
	stats := dict.Stats()
	slogger.Info("dictionary parsed", "path", *inPath, "parses", stats.Parses, "forms", stats.Forms, "lemmas", stats.Lemmas)

	store, err := sqlite.Open(ctx, *outPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer store.Close()

	buildID, err := store.Save(ctx, dict, *inPath)
	if err != nil {
		log.Fatal("Failed to save dictionary:", err)
	}
	slogger.Info("dictionary compiled", "out", *outPath, "build", buildID, "elapsed", time.Since(start))
}
