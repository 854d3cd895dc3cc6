package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"examcorpus-backend/internal/corpus"
	"examcorpus-backend/internal/exams"
	"examcorpus-backend/internal/shared/config"
	"examcorpus-backend/internal/shared/metrics"
	"examcorpus-backend/internal/shared/server/middleware"
	"examcorpus-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config        config.Config
	ExamsHandler  *exams.Handler
	CorpusHandler *corpus.Handler
	Metrics       *metrics.PipelineMetrics
}

// NewRouter constructs the Gin engine with middleware and routes
// registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
	if deps.ExamsHandler != nil {
		deps.ExamsHandler.RegisterRoutes(api)
	}
	if deps.CorpusHandler != nil {
		deps.CorpusHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
