package docproc

import (
	"strings"

	"github.com/vedavani/astrology-ai/internal/astro"
)

// Processor turns a PDF into a slice of relevance-filtered sentences, each
// tagged with the page it came from.
type Processor struct {
	lex       *astro.Lexicon
	cleaner   *Cleaner
	segmenter *Segmenter
}

// NewProcessor builds a Processor bound to lex.
func NewProcessor(lex *astro.Lexicon) *Processor {
	return &Processor{lex: lex, cleaner: NewCleaner(lex), segmenter: NewSegmenter(lex)}
}

// Result is the output of processing one PDF.
type Result struct {
	Sentences      []Sentence
	SentencesTotal int
	PagesRead      int
	PagesNearEmpty int
}

// ProcessFile extracts, cleans, and segments the PDF at path. Pages with
// near-zero extractable text are counted but do not fail the run.
func (p *Processor) ProcessFile(path string) (*Result, error) {
	pages, err := ExtractPages(path)
	if err != nil {
		return nil, err
	}
	return p.process(pages)
}

// ProcessBytes is the in-memory variant of ProcessFile.
func (p *Processor) ProcessBytes(data []byte) (*Result, error) {
	pages, err := ExtractBytes(data)
	if err != nil {
		return nil, err
	}
	return p.process(pages)
}

func (p *Processor) process(pages []Page) (*Result, error) {
	nearEmpty := 0
	for _, pg := range pages {
		if len(strings.TrimSpace(pg.Text)) < 20 {
			nearEmpty++
		}
	}

	cleaned := p.cleaner.Clean(pages)
	sentences, total := p.segmenter.Segment(cleaned)

	return &Result{
		Sentences:      sentences,
		SentencesTotal: total,
		PagesRead:      len(pages),
		PagesNearEmpty: nearEmpty,
	}, nil
}
