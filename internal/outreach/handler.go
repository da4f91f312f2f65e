package outreach

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"outreach-backend/internal/shared/server/middleware"
	"outreach-backend/internal/shared/server/respond"
	"outreach-backend/internal/shared/telemetry"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/outreach/generate", h.generate)
	rg.POST("/outreach/refine", h.refine)
	rg.POST("/outreach/followup", h.followup)
}

type generateRequest struct {
	UUID          string `json:"uuid"`
	TargetProfile string `json:"target_profile"`
	ContextNote   string `json:"context_note"`
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	middleware.SetUserID(c, req.UUID)

	res, err := h.Svc.Generate(c.Request.Context(), GenerateInput{
		UserID:        req.UUID,
		TargetProfile: req.TargetProfile,
		ContextNote:   req.ContextNote,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	middleware.SetHistoryID(c, res.HistoryID)
	respond.Success(c, gin.H{
		"linkedin_connection_request": res.Messages.LinkedInConnectionRequest,
		"cold_outreach_email":         res.Messages.ColdOutreachEmail,
		"followup_template":           res.Messages.FollowupTemplate,
		"history_id":                  res.HistoryID,
	})
}

type refineRequest struct {
	UUID                   string `json:"uuid"`
	Message                string `json:"message"`
	RefinementInstructions string `json:"refinement_instructions"`
	MessageType            string `json:"message_type"`
}

func (h *Handler) refine(c *gin.Context) {
	var req refineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	middleware.SetUserID(c, req.UUID)

	refined, err := h.Svc.Refine(c.Request.Context(), RefineInput{
		UserID:       req.UUID,
		Message:      req.Message,
		Instructions: req.RefinementInstructions,
		MessageType:  req.MessageType,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Success(c, gin.H{"refined_message": refined})
}

type followupRequest struct {
	UUID      string `json:"uuid"`
	HistoryID string `json:"history_id"`
}

func (h *Handler) followup(c *gin.Context) {
	var req followupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	middleware.SetUserID(c, req.UUID)
	middleware.SetHistoryID(c, req.HistoryID)

	msg, err := h.Svc.FollowUp(c.Request.Context(), req.UUID, req.HistoryID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Success(c, gin.H{"followup_message": msg})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": "), nil)
	case errors.Is(err, ErrProfileNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "User profile not found. Please save your profile first.", nil)
	case errors.Is(err, ErrEntryNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "History entry not found", nil)
	case errors.Is(err, ErrGeneration):
		respond.Error(c, http.StatusBadGateway, "llm_error", "generation service unavailable", nil)
	default:
		telemetry.Error("outreach.request_failed", map[string]any{"path": c.FullPath(), "err": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to process request", nil)
	}
}
