package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// Rasterization resolution. 200 DPI keeps 10-point exam body text
// readable to the recognizer without ballooning render time per page.
const ocrDPI = "200"

// ocrExtractor rasterizes each page with pdftoppm and recognizes it
// with tesseract. It is the slowest layer and always runs last.
type ocrExtractor struct {
	pdftoppm  string
	tesseract string
}

func (e *ocrExtractor) Name() string { return "ocr" }

func (e *ocrExtractor) Extract(ctx context.Context, path, language, engineConfig string) ([]string, error) {
	tmpDir, err := os.MkdirTemp("", "examcorpus-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("ocr workspace: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	images, err := e.rasterize(ctx, path, tmpDir)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no page images")
	}

	pages := make([]string, 0, len(images))
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := e.recognize(ctx, img, language, engineConfig)
		if err != nil {
			return nil, err
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func (e *ocrExtractor) rasterize(ctx context.Context, path, dir string) ([]string, error) {
	prefix := filepath.Join(dir, "page")
	cmd := exec.CommandContext(ctx, e.pdftoppm, "-png", "-r", ocrDPI, path, prefix)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("pdftoppm: %s", msg)
	}

	images, err := filepath.Glob(prefix + "*.png")
	if err != nil {
		return nil, fmt.Errorf("list page images: %w", err)
	}
	// pdftoppm zero-pads page numbers, so lexical order is page order.
	sort.Strings(images)
	return images, nil
}

func (e *ocrExtractor) recognize(ctx context.Context, image, language, engineConfig string) (string, error) {
	args := []string{image, "stdout"}
	if language != "" {
		args = append(args, "-l", language)
	}
	args = append(args, strings.Fields(engineConfig)...)

	cmd := exec.CommandContext(ctx, e.tesseract, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("tesseract: %s", msg)
	}
	return stdout.String(), nil
}
