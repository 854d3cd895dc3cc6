package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"examcorpus-backend/internal/exams"
	"examcorpus-backend/internal/ocrlang"
	"examcorpus-backend/internal/shared/config"
	"examcorpus-backend/internal/shared/telemetry"
)

// A document needs at least this much text before a layer counts as
// having succeeded. Scanned PDFs often carry a few stray embedded
// characters that would otherwise mask the need for OCR.
const minMeaningfulChars = 50

// TextExtractor is one layer in the fallback chain.
type TextExtractor interface {
	Name() string
	Extract(ctx context.Context, path string) ([]string, error)
}

// OCRExtractor rasterizes and recognizes a document with a chosen
// language pack and engine configuration.
type OCRExtractor interface {
	Name() string
	Extract(ctx context.Context, path, language, engineConfig string) ([]string, error)
}

// EncryptionProber reports whether a PDF is password protected.
type EncryptionProber interface {
	IsEncrypted(ctx context.Context, path string) (bool, error)
}

// Result is the outcome of running the chain on one document.
type Result struct {
	Pages       []string
	Text        string
	Method      string
	Success     bool
	UsedOCR     bool
	OCRLanguage string
	OCRConfig   string
	CourseCode  string
	Stats       exams.TextStats
	Attempts    []AttemptError
}

// Options configures an Engine from resolved tool paths.
type Options struct {
	Tools      config.ToolPaths
	ForceOCR   bool
	Selector   *ocrlang.Selector
	CourseCode func(text string) string
}

// Engine runs the ordered extraction chain. Layers are tried in order
// and the first meaningful text wins; OCR is the terminal fallback.
type Engine struct {
	layers     []TextExtractor
	ocr        OCRExtractor
	prober     EncryptionProber
	selector   *ocrlang.Selector
	courseCode func(text string) string
	forceOCR   bool
}

// NewEngine wires the default chain: embedded text reader, then
// pdftotext when poppler is installed, then tesseract OCR. Layers whose
// binaries were not resolved are skipped rather than failing at runtime.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		selector:   opts.Selector,
		courseCode: opts.CourseCode,
		forceOCR:   opts.ForceOCR,
	}
	if e.selector == nil {
		e.selector = ocrlang.NewSelector()
	}
	if e.courseCode == nil {
		e.courseCode = func(string) string { return "" }
	}

	e.layers = append(e.layers, &pdfTextExtractor{})
	if opts.Tools.PDFToText != "" {
		e.layers = append(e.layers, &popplerExtractor{bin: opts.Tools.PDFToText})
	}
	if opts.Tools.PDFInfo != "" {
		e.prober = &popplerProber{bin: opts.Tools.PDFInfo}
	}
	if opts.Tools.PDFToPPM != "" && opts.Tools.Tesseract != "" {
		e.ocr = &ocrExtractor{pdftoppm: opts.Tools.PDFToPPM, tesseract: opts.Tools.Tesseract}
	}
	return e
}

// Extract runs the chain on the PDF at path.
func (e *Engine) Extract(ctx context.Context, path string) (*Result, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &Error{
			Kind:     KindFileNotFound,
			Attempts: []AttemptError{{Method: "stat", Kind: KindFileNotFound, Message: err.Error()}},
		}
	}

	// An encrypted document defeats every layer; short-circuit before
	// paying for any of them.
	if e.prober != nil {
		encrypted, err := e.prober.IsEncrypted(ctx, path)
		if err != nil {
			telemetry.Warn("extract.probe_failed", map[string]any{"path": path, "error": err.Error()})
		} else if encrypted {
			return nil, &Error{
				Kind:     KindEncrypted,
				Attempts: []AttemptError{{Method: "pdfinfo", Kind: KindEncrypted, Message: "document is password protected"}},
			}
		}
	}

	res := &Result{}

	// Below-threshold layers still often surface a cover-page fragment;
	// the richest one feeds course-code mining before OCR.
	var partialFirstPage string

	if !e.forceOCR {
		for _, layer := range e.layers {
			pages, err := layer.Extract(ctx, path)
			if err != nil {
				kind := classifyMessage(err.Error())
				res.Attempts = append(res.Attempts, AttemptError{Method: layer.Name(), Kind: kind, Message: err.Error()})
				if kind == KindEncrypted {
					return nil, &Error{Kind: KindEncrypted, Attempts: res.Attempts}
				}
				continue
			}
			text := joinPages(pages)
			if !meaningful(text) {
				if fp := firstPage(pages); len(strings.TrimSpace(fp)) > len(strings.TrimSpace(partialFirstPage)) {
					partialFirstPage = fp
				}
				res.Attempts = append(res.Attempts, AttemptError{
					Method: layer.Name(), Kind: KindEmptyOutput,
					Message: fmt.Sprintf("only %d chars of text", len(strings.TrimSpace(text))),
				})
				continue
			}
			res.Pages = pages
			res.Text = text
			res.Method = layer.Name()
			res.Success = true
			res.CourseCode = e.courseCode(firstPage(pages))
			res.Stats = ComputeStats(text)
			return res, nil
		}
	}

	if e.ocr == nil {
		res.Attempts = append(res.Attempts, AttemptError{
			Method: "ocr", Kind: KindMissingDependency,
			Message: "pdftoppm or tesseract not installed",
		})
		return nil, e.chainError(res.Attempts)
	}

	code := e.courseCode(e.contextText(path, partialFirstPage))
	cfg := e.selector.Select(code, partialFirstPage)

	pages, err := e.ocr.Extract(ctx, path, cfg.OCRLanguage, cfg.TesseractConfig)
	if err != nil {
		res.Attempts = append(res.Attempts, AttemptError{
			Method: e.ocr.Name(), Kind: classifyMessage(err.Error()), Message: err.Error(),
		})
		return nil, e.chainError(res.Attempts)
	}
	text := joinPages(pages)
	if strings.TrimSpace(text) == "" {
		res.Attempts = append(res.Attempts, AttemptError{
			Method: e.ocr.Name(), Kind: KindEmptyOutput, Message: "recognizer produced no text",
		})
		return nil, e.chainError(res.Attempts)
	}

	res.Pages = pages
	res.Text = text
	res.Method = e.ocr.Name()
	res.Success = true
	res.UsedOCR = true
	res.OCRLanguage = cfg.OCRLanguage
	res.OCRConfig = cfg.TesseractConfig
	res.CourseCode = code
	if res.CourseCode == "" {
		res.CourseCode = e.courseCode(firstPage(pages))
	}
	res.Stats = ComputeStats(text)
	return res, nil
}

// contextText gathers whatever hints exist before OCR has run: the file
// name plus the first page of any partial text an earlier layer managed.
func (e *Engine) contextText(path, partialFirstPage string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return name + "\n" + partialFirstPage
}

func (e *Engine) chainError(attempts []AttemptError) *Error {
	worst := KindUnknown
	for _, a := range attempts {
		if kindSeverity(a.Kind) > kindSeverity(worst) {
			worst = a.Kind
		}
	}
	return &Error{Kind: worst, Attempts: attempts}
}

func meaningful(text string) bool {
	return len(strings.TrimSpace(text)) >= minMeaningfulChars
}

func joinPages(pages []string) string {
	return strings.Join(pages, "\n")
}

func firstPage(pages []string) string {
	if len(pages) == 0 {
		return ""
	}
	return pages[0]
}
