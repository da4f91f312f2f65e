package profiles

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"outreach-backend/internal/shared/server/middleware"
	"outreach-backend/internal/shared/server/respond"
	"outreach-backend/internal/stages"
)

const maxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/user/profile", h.save)
	rg.POST("/user/profile/upload", h.upload)
	rg.GET("/user/profile/:uuid", h.get)
}

type saveRequest struct {
	UUID        string `json:"uuid"`
	ProfileText string `json:"profile_text"`
}

func (h *Handler) save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	middleware.SetUserID(c, req.UUID)

	if _, err := h.Svc.SaveText(c.Request.Context(), req.UUID, req.ProfileText); err != nil {
		writeError(c, err)
		return
	}
	respond.Success(c, gin.H{"message": "Profile saved successfully"})
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	userID := strings.TrimSpace(c.PostForm("uuid"))
	middleware.SetUserID(c, userID)

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

	if _, err := h.Svc.SaveFile(c.Request.Context(), userID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file); err != nil {
		writeError(c, err)
		return
	}
	respond.Success(c, gin.H{"message": "Profile saved successfully"})
}

func (h *Handler) get(c *gin.Context) {
	userID := c.Param("uuid")
	middleware.SetUserID(c, userID)

	record, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Success(c, gin.H{
		"profile":       record.Profile,
		"first_name":    record.FirstName,
		"has_embedding": len(record.Embedding) > 0,
		"updated_at":    record.UpdatedAt,
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrUnsupportedFile):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "User profile not found. Please save your profile first.", nil)
	case errors.Is(err, stages.ErrGeneration):
		respond.Error(c, http.StatusBadGateway, "llm_error", "profile extraction failed", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to process profile", nil)
	}
}
