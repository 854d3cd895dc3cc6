package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"examcorpus-backend/internal/bootstrap"
	"examcorpus-backend/internal/corpus"
	"examcorpus-backend/internal/exams"
	"examcorpus-backend/internal/shared/config"
	"examcorpus-backend/internal/shared/telemetry"
)

// The worker sweeps an inbox directory of exam PDFs through the
// pipeline, persists every document's record, and writes the corpus
// file for successful ones.
func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	paths, err := listPDFs(cfg.InboxDir)
	if err != nil {
		log.Fatalf("list inbox: %v", err)
	}
	if len(paths) == 0 {
		log.Printf("no PDFs found in %s; nothing to do", cfg.InboxDir)
		return
	}

	log.Printf("worker started inbox=%s documents=%d concurrency=%d", cfg.InboxDir, len(paths), cfg.WorkerConcurrency)

	results, summary := app.Pipeline.ProcessBatch(ctx, paths, cfg.WorkerConcurrency)
	summary.Log()

	stored := 0
	for _, exam := range results {
		if exam == nil {
			continue
		}
		if err := app.ExamsRepo.Create(ctx, *exam); err != nil {
			telemetry.Error("worker.store_failed", map[string]any{
				"filename": exam.Filename,
				"error":    err.Error(),
			})
			continue
		}
		stored++
	}

	if cfg.CorpusOutPath != "" {
		if err := writeCorpus(cfg.CorpusOutPath, results); err != nil {
			log.Fatalf("write corpus: %v", err)
		}
		log.Printf("corpus written to %s", cfg.CorpusOutPath)
	}

	log.Printf("done: processed=%d succeeded=%d failed=%d stored=%d questions=%d",
		summary.Processed, summary.Succeeded, summary.Failed, stored, summary.TotalQuestions)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func listPDFs(dir string) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// writeCorpus exports only documents that produced questions; failed
// ones live in storage and the summary instead.
func writeCorpus(path string, results []*exams.Exam) error {
	list := make([]exams.Exam, 0, len(results))
	for _, exam := range results {
		if exam != nil && exam.ExtractionSuccess {
			list = append(list, *exam)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := corpus.Export(f, list); err != nil {
		return err
	}
	return f.Close()
}
