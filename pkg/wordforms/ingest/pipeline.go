package ingest

// Pipeline turns a page into its raw token sequence:
// markup → visible text → Russian words
type Pipeline struct {
	extractor *Extractor
	tokenizer *Tokenizer
}

// NewPipeline creates an ingestion pipeline with the given components
func NewPipeline(extractor *Extractor, tokenizer *Tokenizer) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		tokenizer: tokenizer,
	}
}

// ProcessedPage is a page after extraction and tokenization
type ProcessedPage struct {
	Path   string
	Tokens []string
	// Unclosed is true when a skipped element (script, style...) was never
	// closed, so the rest of the page was suppressed.
	Unclosed bool
}

// Process runs a page through extraction and tokenization
func (p *Pipeline) Process(page Page) ProcessedPage {
	text := p.extractor.Extract(page.Body)
	return ProcessedPage{
		Path:     page.Path,
		Tokens:   p.tokenizer.Tokenize(text),
		Unclosed: p.extractor.Depth() > 0,
	}
}
