package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/shreyat81/mini-drive-backend/internal/controllers"
)

func RegisterAuthRoutes(router *gin.RouterGroup, authController *controllers.AuthController, authMiddleware gin.HandlerFunc) {
	// Public auth endpoints
	// POST /auth/register - Register new user
	router.POST("/register", authController.Register)

	// POST /auth/login - Login user
	router.POST("/login", authController.Login)

	// Protected auth endpoints (require valid JWT)
	protected := router.Group("")
	protected.Use(authMiddleware)
	{
		// GET /auth/profile - Current user profile
		protected.GET("/profile", authController.Profile)

		// POST /auth/logout - Logout user
		protected.POST("/logout", authController.Logout)
	}
}
