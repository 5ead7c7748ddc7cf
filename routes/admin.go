package routes

import (
	"github.com/casbin/casbin/v2"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/controllers"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/middlewares"
)

// SetupAdminRoutes sets up admin routes
func SetupAdminRoutes(router *gin.Engine, ac *controllers.AdminController, admins middlewares.AdminFinder, enforcer *casbin.Enforcer, logger *log.Logger) {
	// Admins are created with cmd/addadmin; there is no signup route.
	router.POST("/admin/login", ac.Login)

	admin := router.Group("/admin")
	admin.Use(middlewares.AdminAuthMiddleware(admins, logger))
	{
		admin.GET("/questions", middlewares.RBACMiddleware(enforcer, "questions", "read", logger), ac.ListQuestions)
		admin.PUT("/questions/:index", middlewares.RBACMiddleware(enforcer, "questions", "write", logger), ac.PutQuestion)
	}
}
