package extract

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// pdfTextExtractor reads the embedded text layer directly, with no
// external tooling. It is the cheapest layer and runs first.
type pdfTextExtractor struct{}

func (e *pdfTextExtractor) Name() string { return "pdftext" }

func (e *pdfTextExtractor) Extract(ctx context.Context, path string) (pages []string, err error) {
	// The reader panics on some malformed cross-reference tables;
	// surface that as a corrupted-document error instead of crashing
	// the worker.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("malformed pdf structure: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
