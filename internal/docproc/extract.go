package docproc

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/vedavani/astrology-ai/internal/astroerr"
)

// Page is one unit of raw extracted text with its 1-indexed page number.
type Page struct {
	Number int
	Text   string
}

// ExtractPages reads a PDF from disk and returns its text page by page,
// preserving page numbers so downstream rules can carry a page reference.
// Grounded on the pdf.NewReader/GetPlainText pattern, adapted to walk
// pages individually rather than concatenating the whole document.
func ExtractPages(path string) ([]Page, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening pdf %s: %v", astroerr.ErrIngest, path, err)
	}
	defer f.Close()

	total := r.NumPage()
	if total == 0 {
		return nil, fmt.Errorf("%w: pdf %s has no pages", astroerr.ErrIngest, path)
	}

	pages := make([]Page, 0, total)
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			// A single unreadable page is a warning, not a fatal ingest error.
			pages = append(pages, Page{Number: i, Text: ""})
			continue
		}
		pages = append(pages, Page{Number: i, Text: text})
	}
	return pages, nil
}

// ExtractBytes is identical to ExtractPages but reads from an in-memory
// PDF, for callers that already hold the file contents (e.g. an MCP tool
// receiving an upload rather than a path).
func ExtractBytes(data []byte) ([]Page, error) {
	tmp, err := os.CreateTemp("", "astrology-ai-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: staging pdf bytes: %v", astroerr.ErrIngest, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("%w: staging pdf bytes: %v", astroerr.ErrIngest, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: staging pdf bytes: %v", astroerr.ErrIngest, err)
	}
	return ExtractPages(tmp.Name())
}
