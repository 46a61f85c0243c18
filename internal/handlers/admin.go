package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trackline/trackline-backend/internal/apperr"
	"github.com/trackline/trackline-backend/internal/requestdata"
	"github.com/trackline/trackline-backend/internal/services"
	"github.com/trackline/trackline-backend/internal/types"
)

type AdminHandler struct {
	svc services.AdminService
}

func NewAdminHandler(svc services.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// PUT /api/admin/:kind/:id
func (h *AdminHandler) UpdateContent(c *gin.Context) {
	kind := types.ContentKind(c.Param("kind"))
	if !kind.Valid() {
		RespondError(c, http.StatusBadRequest, "bad_kind", apperr.ErrInvalidInput)
		return
	}
	var patch services.ContentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusForbidden, "forbidden", apperr.ErrInvalidInput)
		return
	}

	err := h.svc.UpdateContent(c.Request.Context(), kind, c.Param("id"), patch, rd.UserID.String())
	switch {
	case err == nil:
		RespondOK(c, gin.H{"status": "updated"})
	case apperr.IsNotFound(err):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case apperr.IsLocked(err):
		RespondError(c, http.StatusConflict, "locked", err)
	case apperr.IsVersionConflict(err):
		RespondError(c, http.StatusConflict, "conflict", err)
	default:
		RespondError(c, http.StatusInternalServerError, "update_failed", err)
	}
}

// POST /api/admin/:kind/:id/lock
func (h *AdminHandler) Lock(c *gin.Context) {
	h.setLocked(c, true)
}

// POST /api/admin/:kind/:id/unlock
func (h *AdminHandler) Unlock(c *gin.Context) {
	h.setLocked(c, false)
}

func (h *AdminHandler) setLocked(c *gin.Context, locked bool) {
	kind := types.ContentKind(c.Param("kind"))
	if !kind.Valid() {
		RespondError(c, http.StatusBadRequest, "bad_kind", apperr.ErrInvalidInput)
		return
	}
	err := h.svc.SetLocked(c.Request.Context(), kind, c.Param("id"), locked)
	switch {
	case err == nil:
		RespondOK(c, gin.H{"status": "ok", "locked": locked})
	case apperr.IsNotFound(err):
		RespondError(c, http.StatusNotFound, "not_found", err)
	default:
		RespondError(c, http.StatusInternalServerError, "lock_failed", err)
	}
}
