package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/marketloop/authd/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(authService *service.AuthService, cookies CookieConfig, logger *slog.Logger) *gin.Engine {
	router := gin.Default()

	// Create handlers
	handlers := NewAuthHandlers(authService, cookies, logger)

	// Auth routes
	auth := router.Group("/auth")
	{
		auth.POST("/signup", handlers.Signup)
		auth.POST("/login", handlers.Login)
		auth.POST("/logout", handlers.Logout)
		auth.POST("/refresh", handlers.Refresh)
	}

	// Protected API routes
	api := router.Group("/api")
	api.Use(AuthMiddleware(authService))
	{
		api.GET("/profile", handlers.Profile)
	}

	return router
}
