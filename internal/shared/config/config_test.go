package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveToolExplicitEnvWins(t *testing.T) {
	t.Setenv("TESSERACT_CMD", "/custom/tesseract")
	got := resolveTool("TESSERACT_CMD", "tesseract", "")
	if got != "/custom/tesseract" {
		t.Fatalf("expected explicit env path, got %q", got)
	}
}

func TestResolveToolDirHintBeforePath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "pdftoppm")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	t.Setenv("PDFTOPPM_CMD", "")
	got := resolveTool("PDFTOPPM_CMD", "pdftoppm", dir)
	if got != bin {
		t.Fatalf("expected dir-hint path %q, got %q", bin, got)
	}
}

func TestResolveToolMissingIsEmpty(t *testing.T) {
	t.Setenv("NO_SUCH_TOOL_CMD", "")
	got := resolveTool("NO_SUCH_TOOL_CMD", "definitely-not-a-real-binary-xyz", "")
	if got != "" {
		t.Fatalf("expected empty path for missing tool, got %q", got)
	}
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("WORKER_CONCURRENCY", "not-a-number")
	if got := getEnvInt("WORKER_CONCURRENCY", 4); got != 4 {
		t.Fatalf("expected default 4, got %d", got)
	}
}

func TestSimilarityThresholdFromEnv(t *testing.T) {
	t.Setenv("DEDUP_SIMILARITY_THRESHOLD", "0.9")
	if got := getEnvFloat("DEDUP_SIMILARITY_THRESHOLD", 0.85); got != 0.9 {
		t.Fatalf("expected 0.9, got %v", got)
	}
}
