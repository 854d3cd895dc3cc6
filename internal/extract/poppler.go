package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// popplerProber shells out to pdfinfo to read document flags before any
// extraction work is attempted.
type popplerProber struct {
	bin string
}

func (p *popplerProber) IsEncrypted(ctx context.Context, path string) (bool, error) {
	cmd := exec.CommandContext(ctx, p.bin, path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		// pdfinfo exits non-zero on locked documents while still
		// naming the cause on stderr.
		if classifyMessage(msg) == KindEncrypted {
			return true, nil
		}
		if msg == "" {
			msg = err.Error()
		}
		return false, fmt.Errorf("pdfinfo: %s", msg)
	}

	for _, line := range strings.Split(stdout.String(), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(key) != "Encrypted" {
			continue
		}
		return strings.HasPrefix(strings.TrimSpace(value), "yes"), nil
	}
	return false, nil
}

// popplerExtractor wraps pdftotext. Layout mode keeps columns and
// question numbering roughly where the page put them, which the
// segmenter's line-anchored markers depend on.
type popplerExtractor struct {
	bin string
}

func (p *popplerExtractor) Name() string { return "pdftotext" }

func (p *popplerExtractor) Extract(ctx context.Context, path string) ([]string, error) {
	cmd := exec.CommandContext(ctx, p.bin, "-layout", "-enc", "UTF-8", path, "-")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("pdftotext: %s", msg)
	}

	// pdftotext separates pages with form feeds.
	raw := strings.Split(stdout.String(), "\f")
	pages := make([]string, 0, len(raw))
	for _, page := range raw {
		if strings.TrimSpace(page) == "" && len(raw) > 1 {
			continue
		}
		pages = append(pages, page)
	}
	return pages, nil
}
