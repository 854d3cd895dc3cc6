package exams

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"examcorpus-backend/internal/shared/server/respond"
)

const maxUploadSize = 25 << 20 // 25MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches exam routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/exams", h.upload)
	rg.GET("/exams", h.list)
	rg.GET("/exams/:id", h.get)
	rg.GET("/exams/:id/questions", h.questions)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	exam, err := h.Svc.UploadAndProcess(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "a .pdf file is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process exam", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(exam))
}

func (h *Handler) list(c *gin.Context) {
	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	list, err := h.Svc.List(c.Request.Context(), c.Query("course"), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list exams", nil)
		return
	}

	resp := make([]ExamResponse, 0, len(list))
	for _, exam := range list {
		resp = append(resp, toResponse(exam))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	exam, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "exam not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "exam id required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch exam", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(exam))
}

func (h *Handler) questions(c *gin.Context) {
	questions, err := h.Svc.Questions(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "exam not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch questions", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, questions)
}
