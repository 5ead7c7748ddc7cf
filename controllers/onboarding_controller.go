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

// Onboarding runs the onboarding questionnaire.
type Onboarding interface {
	Questions(ctx context.Context) ([]models.Question, error)
	Submit(ctx context.Context, userID string, answers models.AnswerSet) services.SubmitResult
	Latest(ctx context.Context, userID string) ([]models.RecommendationRecord, error)
}

type OnboardingController struct {
	onboarding Onboarding
	logger     *log.Logger
}

func NewOnboardingController(onboarding Onboarding, logger *log.Logger) *OnboardingController {
	return &OnboardingController{onboarding: onboarding, logger: logger}
}

type SubmitAnswersRequest struct {
	Answers models.AnswerSet `json:"answers" binding:"required"`
}

func (oc *OnboardingController) Questions(c *gin.Context) {
	questions, err := oc.onboarding.Questions(c.Request.Context())
	if err != nil {
		oc.logger.Error("Failed to load questions", "err", err)
		respondError(c, err, "Failed to load questions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (oc *OnboardingController) Submit(c *gin.Context) {
	var request SubmitAnswersRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	result := oc.onboarding.Submit(c.Request.Context(), middlewares.UserID(c), request.Answers)
	c.JSON(http.StatusOK, result)
}

func (oc *OnboardingController) Recommendations(c *gin.Context) {
	records, err := oc.onboarding.Latest(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		respondError(c, err, "Failed to load recommendations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": records})
}
