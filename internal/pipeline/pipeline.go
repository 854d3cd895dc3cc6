// Package pipeline runs the per-document stage chain: extraction,
// cover-page parsing, segmentation, classification, difficulty scoring
// and cleaning. A document's stages always run sequentially; order
// matters because sub-question linking and the cover-total priority
// both depend on it.
package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"examcorpus-backend/internal/cleaning"
	"examcorpus-backend/internal/coverpage"
	"examcorpus-backend/internal/difficulty"
	"examcorpus-backend/internal/exams"
	"examcorpus-backend/internal/extract"
	"examcorpus-backend/internal/segment"
	"examcorpus-backend/internal/shared/metrics"
	"examcorpus-backend/internal/shared/telemetry"
)

// KindNoQuestions marks a document that extracted fine but segmented
// into nothing usable.
const KindNoQuestions = "no_questions_found"

// Extractor is the engine capability the pipeline consumes.
type Extractor interface {
	Extract(ctx context.Context, path string) (*extract.Result, error)
}

// Outcome records how one document's run went, success or not.
type Outcome struct {
	Filename   string           `json:"filename"`
	Success    bool             `json:"success"`
	UsedOCR    bool             `json:"used_ocr"`
	Method     string           `json:"method,omitempty"`
	Questions  int              `json:"questions"`
	ErrorKind  string           `json:"error_kind,omitempty"`
	ErrorMsg   string           `json:"error,omitempty"`
	Duration   time.Duration    `json:"duration_ns"`
	Cleaning   cleaning.Report  `json:"cleaning"`
	Difficulty difficulty.Stats `json:"difficulty"`
}

type Pipeline struct {
	extractor Extractor
	parser    *coverpage.Parser
	segmenter *segment.Segmenter
	scorer    *difficulty.Scorer
	cleaner   *cleaning.Cleaner
	metrics   *metrics.PipelineMetrics
}

// Options assembles a pipeline; zero-value stage fields get defaults.
type Options struct {
	Extractor Extractor
	Parser    *coverpage.Parser
	Segmenter *segment.Segmenter
	Scorer    *difficulty.Scorer
	Cleaner   *cleaning.Cleaner
	Metrics   *metrics.PipelineMetrics
}

func New(opts Options) *Pipeline {
	p := &Pipeline{
		extractor: opts.Extractor,
		parser:    opts.Parser,
		segmenter: opts.Segmenter,
		scorer:    opts.Scorer,
		cleaner:   opts.Cleaner,
		metrics:   opts.Metrics,
	}
	if p.parser == nil {
		p.parser = coverpage.NewParser()
	}
	if p.segmenter == nil {
		p.segmenter = segment.NewSegmenter(0)
	}
	if p.scorer == nil {
		p.scorer = difficulty.NewScorer()
	}
	if p.cleaner == nil {
		p.cleaner = cleaning.NewCleaner(0, cleaning.DefaultSimilarityThreshold)
	}
	return p
}

// Process runs the full chain on one document. The exam record is
// returned even on failure so failed documents stay visible in storage;
// only successful ones contribute questions to the corpus.
func (p *Pipeline) Process(ctx context.Context, path string) (*exams.Exam, Outcome) {
	started := time.Now()
	filename := filepath.Base(path)
	outcome := Outcome{Filename: filename}

	if p.metrics != nil {
		p.metrics.StartDocument()
	}
	defer func() {
		outcome.Duration = time.Since(started)
		if p.metrics != nil {
			var err error
			if !outcome.Success {
				err = errors.New(outcome.ErrorKind)
			}
			p.metrics.FinishDocument("pipeline", outcome.Duration, outcome.UsedOCR, err)
		}
	}()

	exam := &exams.Exam{
		ID:        uuid.NewString(),
		Filename:  filename,
		CreatedAt: time.Now().UTC(),
	}

	res, err := p.extractor.Extract(ctx, path)
	if err != nil {
		p.recordFailure(exam, &outcome, err)
		return exam, outcome
	}

	exam.ExtractionMethod = res.Method
	exam.OCRLanguage = res.OCRLanguage
	exam.TextLength = len(res.Text)
	textStats := res.Stats
	exam.TextStats = &textStats
	outcome.UsedOCR = res.UsedOCR
	outcome.Method = res.Method

	cover := p.parser.Parse(firstPage(res.Pages))
	if cover.CourseCode == "" {
		cover.CourseCode = res.CourseCode
	}
	exam.Cover = &cover
	exam.CourseCode = cover.CourseCode

	units := p.segmenter.Segment(res.Text)
	if len(units) == 0 {
		p.failNoQuestions(exam, &outcome)
		return exam, outcome
	}

	questions := segment.Link(units)
	segment.Classify(questions)
	outcome.Difficulty = p.scorer.Score(questions, exam.Cover)

	cleaned, report := p.cleaner.Clean(questions)
	outcome.Cleaning = report
	if len(cleaned) == 0 {
		p.failNoQuestions(exam, &outcome)
		return exam, outcome
	}

	for i := range cleaned {
		cleaned[i].ID = uuid.NewString()
	}
	exam.Questions = cleaned
	exam.ExtractionSuccess = true
	outcome.Success = true
	outcome.Questions = len(cleaned)

	if p.metrics != nil {
		p.metrics.AddQuestions(len(cleaned))
	}
	telemetry.Info("pipeline.document_done", map[string]any{
		"filename":  filename,
		"method":    res.Method,
		"questions": len(cleaned),
		"used_ocr":  res.UsedOCR,
	})
	return exam, outcome
}

func (p *Pipeline) recordFailure(exam *exams.Exam, outcome *Outcome, err error) {
	kind := string(extract.KindUnknown)
	detail := err.Error()
	var xerr *extract.Error
	if errors.As(err, &xerr) {
		kind = string(xerr.Kind)
		detail = xerr.Detail()
	}

	exam.ErrorKind = kind
	exam.ErrorDetail = detail
	outcome.ErrorKind = kind
	outcome.ErrorMsg = detail

	if p.metrics != nil {
		p.metrics.RecordExtractionError("pipeline", kind)
	}
	telemetry.Warn("pipeline.document_failed", map[string]any{
		"filename": exam.Filename,
		"kind":     kind,
		"detail":   detail,
	})
}

func (p *Pipeline) failNoQuestions(exam *exams.Exam, outcome *Outcome) {
	exam.ErrorKind = KindNoQuestions
	exam.ErrorDetail = "segmentation produced no usable question units"
	outcome.ErrorKind = KindNoQuestions
	outcome.ErrorMsg = exam.ErrorDetail

	if p.metrics != nil {
		p.metrics.RecordExtractionError("pipeline", KindNoQuestions)
	}
	telemetry.Warn("pipeline.document_failed", map[string]any{
		"filename": exam.Filename,
		"kind":     KindNoQuestions,
	})
}

func firstPage(pages []string) string {
	if len(pages) == 0 {
		return ""
	}
	return pages[0]
}
