package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/middlewares"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

// ChatRoute is the navigation marker of the chat screen.
const ChatRoute = "/chat"

// Chatter runs text conversations with personas.
type Chatter interface {
	History(ctx context.Context, userID, personaID string, limit int) ([]models.ChatMessage, error)
	Reply(ctx context.Context, userID, personaID, text string) (models.ChatMessage, models.ChatMessage, error)
}

type ChatController struct {
	chat    Chatter
	tracker RouteTracker
	logger  *log.Logger
}

func NewChatController(chat Chatter, tracker RouteTracker, logger *log.Logger) *ChatController {
	return &ChatController{chat: chat, tracker: tracker, logger: logger}
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// History returns the conversation and marks the chat screen as opened.
func (cc *ChatController) History(c *gin.Context) {
	userID := middlewares.UserID(c)
	personaID := c.Param("personaId")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	messages, err := cc.chat.History(c.Request.Context(), userID, personaID, limit)
	if err != nil {
		cc.logger.Error("Failed to load chat history", "user", userID, "persona", personaID, "err", err)
		respondError(c, err, "Failed to load chat history")
		return
	}

	if _, err := cc.tracker.Track(c.Request.Context(), userID, ChatRoute); err != nil {
		cc.logger.Warn("Failed to record chat navigation", "user", userID, "err", err)
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (cc *ChatController) Send(c *gin.Context) {
	var request SendMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	userID := middlewares.UserID(c)
	personaID := c.Param("personaId")
	userTurn, reply, err := cc.chat.Reply(c.Request.Context(), userID, personaID, request.Text)
	if err != nil {
		cc.logger.Error("Chat reply failed", "user", userID, "persona", personaID, "err", err)
		if userTurn.Text != "" {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Reply unavailable", "message": userTurn})
			return
		}
		respondError(c, err, "Failed to send message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": userTurn, "reply": reply})
}
