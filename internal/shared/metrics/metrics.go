package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PipelineMetrics tracks document processing outcomes for the corpus pipeline.
type PipelineMetrics struct {
	registry *prometheus.Registry

	documentsTotal   *prometheus.CounterVec
	ocrDocuments     prometheus.Counter
	questionsTotal   prometheus.Counter
	processDuration  *prometheus.HistogramVec
	processInFlight  prometheus.Gauge
	extractionErrors *prometheus.CounterVec
}

// NewPipelineMetrics builds a registry scoped to one process.
func NewPipelineMetrics(service string) *PipelineMetrics {
	registry := prometheus.NewRegistry()

	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "examcorpus",
			Subsystem: "pipeline",
			Name:      "documents_total",
			Help:      "Total processed documents by status.",
		},
		[]string{"service", "status"},
	)
	ocrDocuments := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "examcorpus",
			Subsystem: "pipeline",
			Name:      "ocr_documents_total",
			Help:      "Documents whose text came from the OCR fallback.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	questionsTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "examcorpus",
			Subsystem: "pipeline",
			Name:      "questions_total",
			Help:      "Question units accepted into the corpus.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "examcorpus",
			Subsystem: "pipeline",
			Name:      "document_duration_seconds",
			Help:      "Per-document pipeline duration in seconds by status.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "examcorpus",
			Subsystem: "pipeline",
			Name:      "documents_in_flight",
			Help:      "Number of documents currently being processed.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	extractionErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "examcorpus",
			Subsystem: "pipeline",
			Name:      "extraction_errors_total",
			Help:      "Extraction failures by error kind.",
		},
		[]string{"service", "kind"},
	)

	registry.MustRegister(documentsTotal, ocrDocuments, questionsTotal, processDuration, processInFlight, extractionErrors)

	return &PipelineMetrics{
		registry:         registry,
		documentsTotal:   documentsTotal,
		ocrDocuments:     ocrDocuments,
		questionsTotal:   questionsTotal,
		processDuration:  processDuration,
		processInFlight:  processInFlight,
		extractionErrors: extractionErrors,
	}
}

// Handler exposes the registry over HTTP.
func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartDocument marks a document as in flight.
func (m *PipelineMetrics) StartDocument() {
	m.processInFlight.Inc()
}

// FinishDocument records outcome and duration for one document.
func (m *PipelineMetrics) FinishDocument(service string, duration time.Duration, usedOCR bool, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}
	m.documentsTotal.WithLabelValues(service, status).Inc()
	m.processDuration.WithLabelValues(service, status).Observe(duration.Seconds())
	if usedOCR {
		m.ocrDocuments.Inc()
	}
}

// AddQuestions counts question units accepted into the corpus.
func (m *PipelineMetrics) AddQuestions(n int) {
	if n > 0 {
		m.questionsTotal.Add(float64(n))
	}
}

// RecordExtractionError counts a failure by taxonomy kind.
func (m *PipelineMetrics) RecordExtractionError(service, kind string) {
	if kind == "" {
		kind = "unknown"
	}
	m.extractionErrors.WithLabelValues(service, kind).Inc()
}
