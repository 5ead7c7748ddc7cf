package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/db"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

// RouteTracker records the screen a user is on.
type RouteTracker interface {
	Track(ctx context.Context, userID, route string) (models.NavigationTransition, error)
}

// PersonaReader reads the persona catalogue.
type PersonaReader interface {
	List(ctx context.Context) ([]models.Persona, error)
	FindByID(ctx context.Context, id string) (*models.Persona, error)
}

// respondError maps store errors onto HTTP statuses.
func respondError(c *gin.Context, err error, message string) {
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
