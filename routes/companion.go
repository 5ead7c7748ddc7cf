package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/controllers"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/websocket"
)

// Limit returns the rate limit middleware for a named route.
type Limit func(route string) gin.HandlerFunc

// SetupOnboardingRoutes sets up the questionnaire and recommendation routes
func SetupOnboardingRoutes(auth *gin.RouterGroup, oc *controllers.OnboardingController) {
	auth.GET("/onboarding/questions", oc.Questions)
	auth.POST("/onboarding/submit", oc.Submit)
	auth.GET("/recommendations", oc.Recommendations)
}

func SetupPersonaRoutes(auth *gin.RouterGroup, pc *controllers.PersonaController) {
	auth.GET("/personas", pc.List)
	auth.GET("/personas/:id", pc.Get)
}

func SetupNavigationRoutes(auth *gin.RouterGroup, nc *controllers.NavigationController) {
	auth.POST("/navigation", nc.Track)
}

// SetupMessageRoutes sets up the greeting routes. Both contextual routes may
// call a generator and share one limit.
func SetupMessageRoutes(auth *gin.RouterGroup, mc *controllers.MessageController, limit Limit) {
	messages := auth.Group("/messages")
	{
		messages.GET("/contextual", limit("contextual"), mc.Contextual)
		messages.GET("/contextual/stream", limit("contextual"), mc.ContextualStream)
		messages.GET("/daily", limit("daily"), mc.Daily)
	}
}

func SetupChatRoutes(auth *gin.RouterGroup, cc *controllers.ChatController, hub *websocket.ChatHub, limit Limit) {
	chat := auth.Group("/chat/:personaId")
	{
		chat.GET("/history", cc.History)
		chat.POST("/messages", limit("chat"), cc.Send)
	}
	auth.GET("/ws/chat/:personaId", hub.HandleChat)
}

func SetupMediaRoutes(auth *gin.RouterGroup, mc *controllers.MediaController, limit Limit) {
	auth.POST("/voice/transcribe", limit("transcribe"), mc.Transcribe)
	auth.POST("/video/sessions", limit("video"), mc.StartVideo)
	auth.DELETE("/video/sessions/:id", mc.EndVideo)
}
