package controllers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/middlewares"
)

type NavigationController struct {
	tracker RouteTracker
	logger  *log.Logger
}

func NewNavigationController(tracker RouteTracker, logger *log.Logger) *NavigationController {
	return &NavigationController{tracker: tracker, logger: logger}
}

// TrackRequest carries the route the user just opened. Any string is stored
// verbatim, including the empty one.
type TrackRequest struct {
	Route string `json:"route"`
}

func (nc *NavigationController) Track(c *gin.Context) {
	var request TrackRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	transition, err := nc.tracker.Track(c.Request.Context(), middlewares.UserID(c), request.Route)
	if err != nil {
		nc.logger.Error("Failed to track navigation", "user", middlewares.UserID(c), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track navigation"})
		return
	}
	c.JSON(http.StatusOK, transition)
}
