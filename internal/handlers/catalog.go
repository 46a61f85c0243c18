package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trackline/trackline-backend/internal/apperr"
	"github.com/trackline/trackline-backend/internal/requestdata"
	"github.com/trackline/trackline-backend/internal/services"
)

type CatalogHandler struct {
	svc services.CatalogService
}

func NewCatalogHandler(svc services.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// GET /api/tracks
func (h *CatalogHandler) ListTracks(c *gin.Context) {
	tracks, err := h.svc.ListTracks(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"tracks": tracks})
}

// GET /api/tracks/:id
func (h *CatalogHandler) GetTrack(c *gin.Context) {
	track, err := h.svc.GetTrackTree(c.Request.Context(), c.Param("id"))
	if err != nil {
		if apperr.IsNotFound(err) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "get_failed", err)
		return
	}
	RespondOK(c, gin.H{"track": track})
}

// GET /api/series/:id/lessons
func (h *CatalogHandler) ListLessonsForSeries(c *gin.Context) {
	lessons, err := h.svc.ListLessonsForSeries(c.Request.Context(), c.Param("id"))
	if err != nil {
		if apperr.IsNotFound(err) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"lessons": lessons})
}

// GET /api/lessons/:id
func (h *CatalogHandler) GetLesson(c *gin.Context) {
	authenticated := requestdata.GetRequestData(c.Request.Context()) != nil
	lesson, err := h.svc.GetLesson(c.Request.Context(), c.Param("id"), authenticated)
	if err != nil {
		if apperr.IsNotFound(err) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "get_failed", err)
		return
	}
	RespondOK(c, gin.H{"lesson": lesson})
}
