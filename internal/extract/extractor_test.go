package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"examcorpus-backend/internal/ocrlang"
)

type fakeLayer struct {
	name  string
	pages []string
	err   error
	calls int
}

func (f *fakeLayer) Name() string { return f.name }

func (f *fakeLayer) Extract(ctx context.Context, path string) ([]string, error) {
	f.calls++
	return f.pages, f.err
}

type fakeOCR struct {
	pages    []string
	err      error
	calls    int
	language string
	config   string
}

func (f *fakeOCR) Name() string { return "ocr" }

func (f *fakeOCR) Extract(ctx context.Context, path, language, engineConfig string) ([]string, error) {
	f.calls++
	f.language = language
	f.config = engineConfig
	return f.pages, f.err
}

type fakeProber struct {
	encrypted bool
	err       error
}

func (f *fakeProber) IsEncrypted(ctx context.Context, path string) (bool, error) {
	return f.encrypted, f.err
}

func tempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exam.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testEngine(layers []TextExtractor, ocr OCRExtractor, prober EncryptionProber) *Engine {
	return &Engine{
		layers:     layers,
		ocr:        ocr,
		prober:     prober,
		selector:   ocrlang.NewSelector(),
		courseCode: func(string) string { return "" },
	}
}

var longPage = strings.Repeat("What is the marginal propensity to consume? ", 5)

func TestFirstMeaningfulLayerWins(t *testing.T) {
	first := &fakeLayer{name: "pdftext", pages: []string{longPage}}
	second := &fakeLayer{name: "pdftotext", pages: []string{"should not run"}}
	ocr := &fakeOCR{}
	e := testEngine([]TextExtractor{first, second}, ocr, nil)

	res, err := e.Extract(context.Background(), tempPDF(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Method != "pdftext" {
		t.Errorf("method = %q, want pdftext", res.Method)
	}
	if second.calls != 0 || ocr.calls != 0 {
		t.Errorf("later layers ran: pdftotext=%d ocr=%d", second.calls, ocr.calls)
	}
	if res.UsedOCR {
		t.Error("UsedOCR should be false")
	}
	if res.Stats.Words == 0 {
		t.Error("stats not computed")
	}
}

func TestFallsThroughToOCR(t *testing.T) {
	first := &fakeLayer{name: "pdftext", err: errors.New("open pdf: bad xref")}
	second := &fakeLayer{name: "pdftotext", pages: []string{"   "}} // scanned: no text layer
	ocr := &fakeOCR{pages: []string{"1. Define elasticity of demand. (5 marks)"}}
	e := testEngine([]TextExtractor{first, second}, ocr, nil)

	res, err := e.Extract(context.Background(), tempPDF(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.UsedOCR || res.Method != "ocr" {
		t.Errorf("method = %q, UsedOCR = %v", res.Method, res.UsedOCR)
	}
	if res.OCRLanguage != "eng" {
		t.Errorf("language = %q, want eng default", res.OCRLanguage)
	}
	if ocr.config != "--psm 6" {
		t.Errorf("engine config = %q", ocr.config)
	}
	if len(res.Attempts) != 2 {
		t.Errorf("attempts = %d, want 2", len(res.Attempts))
	}
}

func TestEncryptedShortCircuits(t *testing.T) {
	layer := &fakeLayer{name: "pdftext", pages: []string{longPage}}
	e := testEngine([]TextExtractor{layer}, &fakeOCR{}, &fakeProber{encrypted: true})

	_, err := e.Extract(context.Background(), tempPDF(t))
	var xerr *Error
	if !errors.As(err, &xerr) {
		t.Fatalf("want *Error, got %v", err)
	}
	if xerr.Kind != KindEncrypted {
		t.Errorf("kind = %q, want encrypted", xerr.Kind)
	}
	if layer.calls != 0 {
		t.Error("layers ran on an encrypted document")
	}
}

func TestEncryptedLayerErrorShortCircuits(t *testing.T) {
	first := &fakeLayer{name: "pdftext", err: errors.New("file is encrypted and no password given")}
	second := &fakeLayer{name: "pdftotext", pages: []string{longPage}}
	e := testEngine([]TextExtractor{first, second}, &fakeOCR{}, nil)

	_, err := e.Extract(context.Background(), tempPDF(t))
	var xerr *Error
	if !errors.As(err, &xerr) || xerr.Kind != KindEncrypted {
		t.Fatalf("want encrypted error, got %v", err)
	}
	if second.calls != 0 {
		t.Error("chain continued past an encrypted failure")
	}
}

func TestAllLayersEmptyReportsEmptyOutput(t *testing.T) {
	first := &fakeLayer{name: "pdftext", pages: []string{""}}
	ocr := &fakeOCR{pages: []string{"  \n "}}
	e := testEngine([]TextExtractor{first}, ocr, nil)

	_, err := e.Extract(context.Background(), tempPDF(t))
	var xerr *Error
	if !errors.As(err, &xerr) {
		t.Fatalf("want *Error, got %v", err)
	}
	if xerr.Kind != KindEmptyOutput {
		t.Errorf("kind = %q, want empty_output", xerr.Kind)
	}
	if len(xerr.Attempts) != 2 {
		t.Errorf("attempts = %d, want 2", len(xerr.Attempts))
	}
}

func TestMissingOCRDependency(t *testing.T) {
	first := &fakeLayer{name: "pdftext", pages: []string{""}}
	e := testEngine([]TextExtractor{first}, nil, nil)

	_, err := e.Extract(context.Background(), tempPDF(t))
	var xerr *Error
	if !errors.As(err, &xerr) || xerr.Kind != KindMissingDependency {
		t.Fatalf("want missing_dependency, got %v", err)
	}
}

func TestForceOCRSkipsTextLayers(t *testing.T) {
	layer := &fakeLayer{name: "pdftext", pages: []string{longPage}}
	ocr := &fakeOCR{pages: []string{"recognized text"}}
	e := testEngine([]TextExtractor{layer}, ocr, nil)
	e.forceOCR = true

	res, err := e.Extract(context.Background(), tempPDF(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if layer.calls != 0 {
		t.Error("text layer ran under force OCR")
	}
	if !res.UsedOCR {
		t.Error("expected OCR result")
	}
}

func TestOCRLanguageFromFilename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ARAB301_final_2023.pdf")
	if err := os.WriteFile(path, []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}

	ocr := &fakeOCR{pages: []string{"recognized"}}
	e := testEngine([]TextExtractor{&fakeLayer{name: "pdftext", pages: []string{""}}}, ocr, nil)
	e.courseCode = func(text string) string {
		if strings.Contains(text, "ARAB301") {
			return "ARAB301"
		}
		return ""
	}

	res, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OCRLanguage != "ara+eng" {
		t.Errorf("language = %q, want ara+eng", res.OCRLanguage)
	}
}

func TestOCRLanguageFromPartialFirstPage(t *testing.T) {
	// Below the meaningful-text threshold, but enough of the cover
	// page survives to pick the right language pack.
	partial := "ARAB301 Midterm"
	first := &fakeLayer{name: "pdftext", pages: []string{partial, ""}}
	ocr := &fakeOCR{pages: []string{"recognized"}}
	e := testEngine([]TextExtractor{first}, ocr, nil)
	e.courseCode = func(text string) string {
		if strings.Contains(text, "ARAB301") {
			return "ARAB301"
		}
		return ""
	}

	res, err := e.Extract(context.Background(), tempPDF(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OCRLanguage != "ara+eng" {
		t.Errorf("language = %q, want ara+eng", res.OCRLanguage)
	}
}

func TestMissingFile(t *testing.T) {
	e := testEngine(nil, nil, nil)
	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	var xerr *Error
	if !errors.As(err, &xerr) || xerr.Kind != KindFileNotFound {
		t.Fatalf("want file_not_found, got %v", err)
	}
}

func TestClassifyMessage(t *testing.T) {
	for _, tc := range []struct {
		msg  string
		want ErrorKind
	}{
		{"Incorrect password", KindEncrypted},
		{"Command Line Error: Encrypted files are not supported", KindEncrypted},
		{"May not be a PDF file (continuing anyway)", KindCorrupted},
		{"document is damaged", KindCorrupted},
		{`exec: "tesseract": executable file not found in $PATH`, KindMissingDependency},
		{"something else entirely", KindUnknown},
	} {
		if got := classifyMessage(tc.msg); got != tc.want {
			t.Errorf("classifyMessage(%q) = %q, want %q", tc.msg, got, tc.want)
		}
	}
}
