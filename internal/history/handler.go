package history

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"outreach-backend/internal/shared/server/middleware"
	"outreach-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/history/:uuid", h.list)
	rg.GET("/history/:uuid/:history_id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	userID := c.Param("uuid")
	middleware.SetUserID(c, userID)

	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to load history", nil)
		return
	}
	respond.Success(c, gin.H{"history": items})
}

func (h *Handler) get(c *gin.Context) {
	userID := c.Param("uuid")
	historyID := c.Param("history_id")
	middleware.SetUserID(c, userID)
	middleware.SetHistoryID(c, historyID)

	entry, err := h.Svc.Get(c.Request.Context(), userID, historyID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "History entry not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to load history entry", nil)
		return
	}
	respond.Success(c, gin.H{"entry": entry})
}
