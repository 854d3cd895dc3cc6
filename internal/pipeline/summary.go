package pipeline

import (
	"examcorpus-backend/internal/shared/telemetry"
)

// Summary aggregates a batch run so operators can see which source
// files need re-acquisition or manual handling.
type Summary struct {
	Processed      int            `json:"processed"`
	Succeeded      int            `json:"succeeded"`
	Failed         int            `json:"failed"`
	UsedOCR        int            `json:"used_ocr"`
	TotalQuestions int            `json:"total_questions"`
	FailuresByKind map[string]int `json:"failures_by_kind"`
	Documents      []Outcome      `json:"documents"`
}

func BuildSummary(outcomes []Outcome) Summary {
	s := Summary{
		Processed:      len(outcomes),
		FailuresByKind: make(map[string]int),
		Documents:      outcomes,
	}
	for _, o := range outcomes {
		if o.Success {
			s.Succeeded++
			s.TotalQuestions += o.Questions
			if o.UsedOCR {
				s.UsedOCR++
			}
			continue
		}
		s.Failed++
		kind := o.ErrorKind
		if kind == "" {
			kind = "unknown"
		}
		s.FailuresByKind[kind]++
	}
	return s
}

// Log emits the aggregate line plus one line per failed document.
func (s Summary) Log() {
	telemetry.Info("pipeline.batch_done", map[string]any{
		"processed":        s.Processed,
		"succeeded":        s.Succeeded,
		"failed":           s.Failed,
		"used_ocr":         s.UsedOCR,
		"total_questions":  s.TotalQuestions,
		"failures_by_kind": s.FailuresByKind,
	})
	for _, o := range s.Documents {
		if o.Success {
			continue
		}
		telemetry.Warn("pipeline.document_failure", map[string]any{
			"filename": o.Filename,
			"kind":     o.ErrorKind,
			"detail":   o.ErrorMsg,
		})
	}
}
