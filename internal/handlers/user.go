package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trackline/trackline-backend/internal/apperr"
	"github.com/trackline/trackline-backend/internal/requestdata"
	"github.com/trackline/trackline-backend/internal/services"
)

type UserHandler struct {
	svc services.UserService
}

func NewUserHandler(svc services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// GET /api/me
func (h *UserHandler) GetMe(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusForbidden, "forbidden", apperr.ErrInvalidInput)
		return
	}
	user, err := h.svc.GetUser(c.Request.Context(), rd.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "get_failed", err)
		return
	}
	RespondOK(c, gin.H{"user": user})
}
