package corpus

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"examcorpus-backend/internal/exams"
	"examcorpus-backend/internal/shared/server/respond"
)

const maxImportSize = 50 << 20 // 50MB

// Handler serves corpus-level operations over the exam store.
type Handler struct {
	Repo exams.ExamsRepo
}

func NewHandler(repo exams.ExamsRepo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches corpus routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/corpus/export", h.export)
	rg.GET("/corpus/stats", h.stats)
	rg.POST("/corpus/import", h.importCorpus)
}

func (h *Handler) export(c *gin.Context) {
	list, err := h.Repo.ListAll(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load corpus", nil)
		return
	}

	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", `attachment; filename="corpus.json"`)
	c.Status(http.StatusOK)
	if err := Export(c.Writer, list); err != nil {
		// Headers are gone already; just record it.
		c.Error(err) //nolint:errcheck
	}
}

func (h *Handler) stats(c *gin.Context) {
	list, err := h.Repo.ListAll(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load corpus", nil)
		return
	}
	respond.JSON(c, http.StatusOK, ComputeStats(list))
}

func (h *Handler) importCorpus(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	list, err := Load(c.Request.Body)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid corpus document", nil)
		return
	}

	imported := 0
	questions := 0
	for _, exam := range list {
		if exam.ID == "" {
			exam.ID = uuid.NewString()
		}
		if exam.CreatedAt.IsZero() {
			exam.CreatedAt = time.Now().UTC()
		}
		for i := range exam.Questions {
			if exam.Questions[i].ID == "" {
				exam.Questions[i].ID = uuid.NewString()
			}
		}
		if err := h.Repo.Create(c.Request.Context(), exam); err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store corpus", nil)
			return
		}
		imported++
		questions += len(exam.Questions)
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"examsImported":     imported,
		"questionsImported": questions,
	})
}
