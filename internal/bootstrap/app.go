// Package bootstrap builds the application object graph from config.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"examcorpus-backend/internal/cleaning"
	"examcorpus-backend/internal/corpus"
	"examcorpus-backend/internal/coverpage"
	"examcorpus-backend/internal/exams"
	"examcorpus-backend/internal/extract"
	"examcorpus-backend/internal/ocrlang"
	"examcorpus-backend/internal/pipeline"
	"examcorpus-backend/internal/segment"
	"examcorpus-backend/internal/shared/config"
	"examcorpus-backend/internal/shared/metrics"
	"examcorpus-backend/internal/shared/server"
	"examcorpus-backend/internal/shared/storage/db"
	"examcorpus-backend/internal/shared/storage/object"
	localstore "examcorpus-backend/internal/shared/storage/object/local"
)

// App holds shared dependencies.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	DB            *sql.DB
	Store         object.ObjectStore
	Metrics       *metrics.PipelineMetrics
	Selector      *ocrlang.Selector
	Engine        *extract.Engine
	Pipeline      *pipeline.Pipeline
	ExamsRepo     exams.ExamsRepo
	ExamsService  *exams.Service
	ExamsHandler  *exams.Handler
	CorpusHandler *corpus.Handler
}

// processorAdapter exposes the pipeline through the narrow interface
// the exams service consumes, keeping the dependency one-directional.
type processorAdapter struct {
	p *pipeline.Pipeline
}

func (a *processorAdapter) ProcessFile(ctx context.Context, path string) (*exams.Exam, error) {
	exam, outcome := a.p.Process(ctx, path)
	if !outcome.Success {
		return exam, fmt.Errorf("%s: %s", outcome.ErrorKind, outcome.ErrorMsg)
	}
	return exam, nil
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Store:   localstore.New(cfg.LocalStoreDir),
		Metrics: metrics.NewPipelineMetrics("api"),
	}

	app.Selector = ocrlang.NewSelector()
	if cfg.CourseTablePath != "" {
		if err := app.Selector.LoadOverrides(cfg.CourseTablePath); err != nil {
			log.Printf("bootstrap: course table overrides not loaded: %v", err)
		}
	}

	parser := coverpage.NewParser()
	app.Engine = extract.NewEngine(extract.Options{
		Tools:      cfg.Tools,
		ForceOCR:   cfg.ForceOCR,
		Selector:   app.Selector,
		CourseCode: parser.CourseCode,
	})

	app.Pipeline = pipeline.New(pipeline.Options{
		Extractor: app.Engine,
		Parser:    parser,
		Segmenter: segment.NewSegmenter(cfg.MinQuestionLength),
		Cleaner:   cleaning.NewCleaner(cfg.MinQuestionLength, cfg.SimilarityThreshold),
		Metrics:   app.Metrics,
	})

	if app.DB != nil {
		app.ExamsRepo = &exams.PGRepo{DB: app.DB}
	} else {
		app.ExamsRepo = exams.NewMemoryRepo()
	}

	app.ExamsService = &exams.Service{
		Store:     app.Store,
		Repo:      app.ExamsRepo,
		Processor: &processorAdapter{p: app.Pipeline},
	}
	app.ExamsHandler = exams.NewHandler(app.ExamsService)
	app.CorpusHandler = corpus.NewHandler(app.ExamsRepo)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		ExamsHandler:  app.ExamsHandler,
		CorpusHandler: app.CorpusHandler,
		Metrics:       app.Metrics,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
