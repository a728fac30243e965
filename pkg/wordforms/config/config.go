// Package config loads the wordforms run configuration from YAML with
// environment-variable overrides. Command-line flags are applied on top by the
// binaries themselves.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/wordforms/pkg/wordforms/internalerr"
	"github.com/cognicore/wordforms/pkg/wordforms/morph"
)

// Config is the top-level run configuration.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// InputConfig locates the crawled pages.
type InputConfig struct {
	Dir    string `yaml:"dir"`
	Suffix string `yaml:"suffix"`
}

// OutputConfig names the two result files.
type OutputConfig struct {
	Tokens string `yaml:"tokens"`
	Lemmas string `yaml:"lemmas"`
}

// AnalyzerConfig selects the morphological dictionary and the part-of-speech
// tags treated as functional words. FunctionalPOS may add tags to PREP, CONJ,
// PRCL and INTJ but never drop them. GuessUnknown gives words missing from the
// dictionary a predicted parse instead of rejecting them.
type AnalyzerConfig struct {
	Dictionary    string   `yaml:"dictionary"`
	CacheSize     int      `yaml:"cacheSize"`
	FunctionalPOS []string `yaml:"functionalPOS"`
	GuessUnknown  bool     `yaml:"guessUnknown"`
}

// TokenizerConfig bounds accepted word lengths, in letters.
type TokenizerConfig struct {
	MinLen int `yaml:"minLen"`
	MaxLen int `yaml:"maxLen"`
}

// ExtractorConfig lists the elements whose content is not visible text.
type ExtractorConfig struct {
	SkipTags []string `yaml:"skipTags"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Default returns the configuration used when nothing is specified.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Dir:    "pages",
			Suffix: ".txt",
		},
		Output: OutputConfig{
			Tokens: "tokens.txt",
			Lemmas: "lemmas.txt",
		},
		Analyzer: AnalyzerConfig{
			CacheSize:     4096,
			FunctionalPOS: []string{"PREP", "CONJ", "PRCL", "INTJ"},
			GuessUnknown:  true,
		},
		Tokenizer: TokenizerConfig{
			MinLen: 2,
			MaxLen: 40,
		},
		Extractor: ExtractorConfig{
			SkipTags: []string{"script", "style", "noscript"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate reports the first setting that cannot drive a run.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Input.Dir) == "":
		return fmt.Errorf("input.dir is required: %w", internalerr.ErrInvalidConfig)
	case strings.TrimSpace(c.Output.Tokens) == "" || strings.TrimSpace(c.Output.Lemmas) == "":
		return fmt.Errorf("output.tokens and output.lemmas are required: %w", internalerr.ErrInvalidConfig)
	case c.Output.Tokens == c.Output.Lemmas:
		return fmt.Errorf("output.tokens and output.lemmas must differ: %w", internalerr.ErrInvalidConfig)
	case strings.TrimSpace(c.Analyzer.Dictionary) == "":
		return fmt.Errorf("analyzer.dictionary is required: %w", internalerr.ErrInvalidConfig)
	case c.Analyzer.CacheSize < 0:
		return fmt.Errorf("analyzer.cacheSize must not be negative: %w", internalerr.ErrInvalidConfig)
	case missingFunctional(c.Analyzer.FunctionalPOS) != "":
		return fmt.Errorf("analyzer.functionalPOS must include %s: %w",
			missingFunctional(c.Analyzer.FunctionalPOS), internalerr.ErrInvalidConfig)
	case c.Tokenizer.MinLen < 1:
		return fmt.Errorf("tokenizer.minLen must be at least 1: %w", internalerr.ErrInvalidConfig)
	case c.Tokenizer.MaxLen < c.Tokenizer.MinLen:
		return fmt.Errorf("tokenizer.maxLen %d is below minLen %d: %w",
			c.Tokenizer.MaxLen, c.Tokenizer.MinLen, internalerr.ErrInvalidConfig)
	}
	return nil
}

// missingFunctional returns the first required functional tag absent from tags.
func missingFunctional(tags []string) morph.POS {
	have := make(map[morph.POS]bool, len(tags))
	for _, t := range tags {
		have[morph.POS(strings.ToUpper(strings.TrimSpace(t)))] = true
	}
	for _, pos := range morph.FunctionalPOS() {
		if !have[pos] {
			return pos
		}
	}
	return ""
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WORDFORMS_PAGES_DIR"); v != "" {
		cfg.Input.Dir = v
	}
	if v := os.Getenv("WORDFORMS_PAGES_SUFFIX"); v != "" {
		cfg.Input.Suffix = v
	}
	if v := os.Getenv("WORDFORMS_TOKENS_OUT"); v != "" {
		cfg.Output.Tokens = v
	}
	if v := os.Getenv("WORDFORMS_LEMMAS_OUT"); v != "" {
		cfg.Output.Lemmas = v
	}
	if v := os.Getenv("WORDFORMS_DICT"); v != "" {
		cfg.Analyzer.Dictionary = v
	}
	if v := os.Getenv("WORDFORMS_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analyzer.CacheSize = n
		}
	}
	if v := os.Getenv("WORDFORMS_GUESS_UNKNOWN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Analyzer.GuessUnknown = b
		}
	}
	if v := os.Getenv("WORDFORMS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("WORDFORMS_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
