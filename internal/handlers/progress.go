package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trackline/trackline-backend/internal/apperr"
	"github.com/trackline/trackline-backend/internal/requestdata"
	"github.com/trackline/trackline-backend/internal/services"
)

type ProgressHandler struct {
	svc services.ProgressService
}

func NewProgressHandler(svc services.ProgressService) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

// GET /api/lessons/:id/progress
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusForbidden, "forbidden", apperr.ErrInvalidInput)
		return
	}
	progress, err := h.svc.GetProgress(c.Request.Context(), rd.UserID, c.Param("id"))
	if err != nil {
		if apperr.IsNotFound(err) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "get_failed", err)
		return
	}
	RespondOK(c, gin.H{"progress": progress})
}

// GET /api/progress
func (h *ProgressHandler) ListProgress(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusForbidden, "forbidden", apperr.ErrInvalidInput)
		return
	}
	progress, err := h.svc.ListProgress(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"progress": progress})
}

// PUT /api/lessons/:id/progress
func (h *ProgressHandler) RecordProgress(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusForbidden, "forbidden", apperr.ErrInvalidInput)
		return
	}
	var update services.ProgressUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	progress, err := h.svc.RecordProgress(c.Request.Context(), rd.UserID, c.Param("id"), update)
	switch {
	case err == nil:
		RespondOK(c, gin.H{"progress": progress})
	case apperr.IsNotFound(err):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case apperr.IsValidation(err):
		RespondError(c, http.StatusBadRequest, "bad_request", err)
	default:
		RespondError(c, http.StatusInternalServerError, "update_failed", err)
	}
}
