package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/middlewares"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/services"
)

// VideoCallRoute is the navigation marker of the video screen.
const VideoCallRoute = "/video-call"

const maxAudioBytes = 25 << 20

// Transcriber turns speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}

// VideoCalls opens and closes video sessions.
type VideoCalls interface {
	Start(ctx context.Context, userID, personaID string) (models.VideoSession, error)
	End(ctx context.Context, userID, conversationID string) error
}

type MediaController struct {
	transcriber Transcriber
	video       VideoCalls
	tracker     RouteTracker
	logger      *log.Logger
}

func NewMediaController(transcriber Transcriber, video VideoCalls, tracker RouteTracker, logger *log.Logger) *MediaController {
	return &MediaController{transcriber: transcriber, video: video, tracker: tracker, logger: logger}
}

func (mc *MediaController) Transcribe(c *gin.Context) {
	file, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}
	if file.Size > maxAudioBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "audio file is too large"})
		return
	}

	audio, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read audio file"})
		return
	}
	defer audio.Close()

	text, err := mc.transcriber.Transcribe(c.Request.Context(), audio)
	if err != nil {
		mc.logger.Error("Transcription failed", "user", middlewares.UserID(c), "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Transcription failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

type StartVideoRequest struct {
	PersonaID string `json:"personaId" binding:"required"`
}

func (mc *MediaController) StartVideo(c *gin.Context) {
	var request StartVideoRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	userID := middlewares.UserID(c)
	session, err := mc.video.Start(c.Request.Context(), userID, request.PersonaID)
	if err != nil {
		if errors.Is(err, services.ErrNoReplica) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "This companion is not available for video"})
			return
		}
		mc.logger.Error("Failed to start video session", "user", userID, "persona", request.PersonaID, "err", err)
		respondError(c, err, "Failed to start video session")
		return
	}

	if _, err := mc.tracker.Track(c.Request.Context(), userID, VideoCallRoute); err != nil {
		mc.logger.Warn("Failed to record video navigation", "user", userID, "err", err)
	}
	c.JSON(http.StatusCreated, session)
}

func (mc *MediaController) EndVideo(c *gin.Context) {
	userID := middlewares.UserID(c)
	if err := mc.video.End(c.Request.Context(), userID, c.Param("id")); err != nil {
		mc.logger.Error("Failed to end video session", "user", userID, "err", err)
		respondError(c, err, "Failed to end video session")
		return
	}
	c.Status(http.StatusNoContent)
}
