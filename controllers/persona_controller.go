package controllers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

type PersonaController struct {
	personas PersonaReader
	logger   *log.Logger
}

func NewPersonaController(personas PersonaReader, logger *log.Logger) *PersonaController {
	return &PersonaController{personas: personas, logger: logger}
}

func (pc *PersonaController) List(c *gin.Context) {
	personas, err := pc.personas.List(c.Request.Context())
	if err != nil {
		pc.logger.Error("Failed to list personas", "err", err)
		respondError(c, err, "Failed to load personas")
		return
	}
	c.JSON(http.StatusOK, gin.H{"personas": personas})
}

func (pc *PersonaController) Get(c *gin.Context) {
	persona, err := pc.personas.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load persona")
		return
	}
	c.JSON(http.StatusOK, persona)
}
