package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Skufu/diabetes-risk/internal/assess"
	"github.com/Skufu/diabetes-risk/internal/features"
	"github.com/Skufu/diabetes-risk/internal/model"
	"github.com/Skufu/diabetes-risk/internal/store"
)

type Handler struct {
	svc     *assess.Service
	model   model.Info
	history HistoryLister
	log     *zap.SugaredLogger
}

type CursorResponse struct {
	Data       interface{} `json:"data"`
	NextCursor string      `json:"next_cursor,omitempty"`
	HasMore    bool        `json:"has_more"`
}

func (h *Handler) AssessClinical(c *gin.Context) {
	var req features.ClinicalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	a, err := h.svc.AssessClinical(c.Request.Context(), req.Input())
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) AssessLifestyle(c *gin.Context) {
	var in features.LifestyleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.bindError(c, err)
		return
	}

	a, err := h.svc.AssessLifestyle(c.Request.Context(), in)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAssessments(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assessment history is disabled"})
		return
	}

	p := parsePagination(c)
	rows, hasMore, err := h.history.List(c.Request.Context(), p)
	if err != nil {
		h.log.Errorw("list assessments failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	if rows == nil {
		rows = []assess.Assessment{}
	}

	var nextCursor string
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		nextCursor = store.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.String()
	}

	c.JSON(http.StatusOK, CursorResponse{Data: rows, NextCursor: nextCursor, HasMore: hasMore})
}

func (h *Handler) ModelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.model)
}

func (h *Handler) bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		validationFailed(c, features.NewValidationError(verrs))
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
}

func (h *Handler) serviceError(c *gin.Context, err error) {
	var verr *features.ValidationError
	if errors.As(err, &verr) {
		validationFailed(c, verr)
		return
	}

	h.log.Errorw("assessment failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "prediction failed"})
}

func validationFailed(c *gin.Context, verr *features.ValidationError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  "validation_failed",
		"fields": verr.Fields,
	})
}

// parsePagination reads limit and the before cursor. Malformed values fall
// back to the defaults; store.Page clamps the limit.
func parsePagination(c *gin.Context) store.Page {
	p := store.Page{Limit: store.DefaultLimit}

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			p.Limit = l
		}
	}

	if beforeStr := c.Query("before"); beforeStr != "" {
		if cur, err := store.ParseCursor(beforeStr); err == nil {
			p.Before = &cur
		}
	}

	return p.Normalize()
}
