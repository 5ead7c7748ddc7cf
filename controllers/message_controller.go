package controllers

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/middlewares"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/services"
)

// ContextualSelector picks the greeting for a persona screen.
type ContextualSelector interface {
	Select(ctx context.Context, req services.SelectRequest, onStatus services.StatusFunc) models.ContextualMessage
}

// DailyMessages hands out daily messages.
type DailyMessages interface {
	Ensure(ctx context.Context, userID, personaID string) (string, bool, error)
}

type MessageController struct {
	selector ContextualSelector
	daily    DailyMessages
	personas PersonaReader
	logger   *log.Logger
}

func NewMessageController(selector ContextualSelector, daily DailyMessages, personas PersonaReader, logger *log.Logger) *MessageController {
	return &MessageController{selector: selector, daily: daily, personas: personas, logger: logger}
}

// selectRequest resolves the persona named in the query. It writes the error
// response itself and reports false on failure.
func (mc *MessageController) selectRequest(c *gin.Context) (services.SelectRequest, bool) {
	personaID := c.Query("personaId")
	if personaID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "personaId is required"})
		return services.SelectRequest{}, false
	}
	persona, err := mc.personas.FindByID(c.Request.Context(), personaID)
	if err != nil {
		respondError(c, err, "Failed to load persona")
		return services.SelectRequest{}, false
	}
	return services.SelectRequest{
		UserID:        middlewares.UserID(c),
		PersonaID:     personaID,
		PersonaName:   persona.Name,
		PreviousRoute: c.Query("previousRoute"),
	}, true
}

// Contextual answers with the selected message. A nil text with status
// "error" tells the client to show its fallback greeting.
func (mc *MessageController) Contextual(c *gin.Context) {
	req, ok := mc.selectRequest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, mc.selector.Select(c.Request.Context(), req, nil))
}

// ContextualStream emits every status change as a "status" event followed by
// the final "message" event.
func (mc *MessageController) ContextualStream(c *gin.Context) {
	req, ok := mc.selectRequest(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	msg := mc.selector.Select(c.Request.Context(), req, func(status models.MessageStatus) {
		c.SSEvent("status", gin.H{"status": status})
		c.Writer.Flush()
	})
	c.SSEvent("message", msg)
	c.Writer.Flush()
}

func (mc *MessageController) Daily(c *gin.Context) {
	personaID := c.Query("personaId")
	if personaID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "personaId is required"})
		return
	}

	userID := middlewares.UserID(c)
	text, ok, err := mc.daily.Ensure(c.Request.Context(), userID, personaID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Daily message unavailable", "message": nil})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"message": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": text})
}
