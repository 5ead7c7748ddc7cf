package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/db"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/middlewares"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/utils"
)

// QuestionWriter stores authored onboarding questions.
type QuestionWriter interface {
	List(ctx context.Context) ([]models.Question, error)
	Upsert(ctx context.Context, q models.Question) error
}

type AdminController struct {
	admins    middlewares.AdminFinder
	questions QuestionWriter
	expiry    time.Duration
	logger    *log.Logger
}

func NewAdminController(admins middlewares.AdminFinder, questions QuestionWriter, expiry time.Duration, logger *log.Logger) *AdminController {
	return &AdminController{admins: admins, questions: questions, expiry: expiry, logger: logger}
}

// AdminLoginRequest represents the login request
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles admin/editor login
func (ac *AdminController) Login(c *gin.Context) {
	var request AdminLoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	admin, err := ac.admins.FindByEmail(c.Request.Context(), request.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		ac.logger.Error("Admin lookup failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !utils.CheckPasswordHash(request.Password, admin.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := utils.GenerateAdminToken(admin.ID.Hex(), admin.Email, admin.Role, ac.expiry)
	if err != nil {
		ac.logger.Error("Failed to sign admin token", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Admin login successful",
		"accessToken": token,
		"admin": gin.H{
			"id":    admin.ID.Hex(),
			"email": admin.Email,
			"name":  admin.Name,
			"role":  admin.Role,
		},
	})
}

func (ac *AdminController) ListQuestions(c *gin.Context) {
	questions, err := ac.questions.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load questions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// QuestionRequest is an authored onboarding question.
type QuestionRequest struct {
	Prompt        string               `json:"prompt" binding:"required"`
	SelectionMode models.SelectionMode `json:"selectionMode"`
	Options       []models.Option      `json:"options" binding:"required,min=1"`
}

// PutQuestion creates or replaces the question at :index.
func (ac *AdminController) PutQuestion(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be a non-negative integer"})
		return
	}

	var request QuestionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}
	options, msg := normalizeOptions(request.Options)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	mode := request.SelectionMode
	if mode == "" {
		mode = models.SelectionSingle
	}
	if mode != models.SelectionSingle && mode != models.SelectionMultiple {
		c.JSON(http.StatusBadRequest, gin.H{"error": "selectionMode must be single or multiple"})
		return
	}

	question := models.Question{
		Index:         index,
		Prompt:        request.Prompt,
		SelectionMode: mode,
		Options:       options,
		UpdatedAt:     time.Now(),
	}
	if err := ac.questions.Upsert(c.Request.Context(), question); err != nil {
		ac.logger.Error("Failed to store question", "index", index, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store question"})
		return
	}

	ac.logger.Info("Question updated", "index", index, "admin", c.GetString(middlewares.ContextAdminEmail))
	c.JSON(http.StatusOK, question)
}

// normalizeOptions trims keys and roles, rejects missing or repeated keys
// and collapses repeated roles so each option endorses a persona once.
func normalizeOptions(options []models.Option) ([]models.Option, string) {
	seen := make(map[string]bool, len(options))
	normalized := make([]models.Option, 0, len(options))
	for _, opt := range options {
		key := strings.TrimSpace(opt.Key)
		if key == "" {
			return nil, "every option needs a key"
		}
		if seen[key] {
			return nil, "option keys must be unique: " + key
		}
		seen[key] = true

		roles := lo.Uniq(lo.FilterMap(opt.MatchingRoles, func(role string, _ int) (string, bool) {
			role = strings.TrimSpace(role)
			return role, role != ""
		}))
		normalized = append(normalized, models.Option{Key: key, Label: opt.Label, MatchingRoles: roles})
	}
	return normalized, ""
}
