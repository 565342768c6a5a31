package notify

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inshare/goshare/internal/share"
)

// RegisterRoutes mounts the notification endpoint.
func RegisterRoutes(router *gin.Engine, service *Service) {
	handler := &httpHandler{service: service}
	router.POST("/api/files/send", handler.sendFile)
}

type httpHandler struct {
	service *Service
}

type sendRequest struct {
	UUID      string `json:"uuid"`
	EmailTo   string `json:"emailTo"`
	EmailFrom string `json:"emailFrom"`
}

func (h *httpHandler) sendFile(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "All fields are required."})
		return
	}
	if req.UUID == "" || req.EmailTo == "" || req.EmailFrom == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "All fields are required."})
		return
	}

	id, err := uuid.Parse(req.UUID)
	if err != nil {
		// A token that does not parse was never issued.
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found."})
		return
	}

	if err := h.service.Send(c.Request.Context(), id, req.EmailFrom, req.EmailTo); err != nil {
		switch {
		case errors.Is(err, share.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found."})
		case errors.Is(err, share.ErrAlreadySent):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Email already sent once."})
		case errors.Is(err, ErrValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "All fields are required."})
		default:
			zap.L().Error("notification dispatch failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send email"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
