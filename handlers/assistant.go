// File: handlers/assistant.go
package handlers

import (
	"net/http"

	"concierge/models"
	"concierge/services/assistant"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssistantService is assigned during startup wiring.
var AssistantService assistant.Service

// ChatHandler runs one dialogue turn for the caller's session.
func ChatHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.AssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := AssistantService.ProcessUtterance(c.Request.Context(), req)
	if err != nil {
		logger.Error("Failed to process utterance", zap.String("sessionID", req.SessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process utterance", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
