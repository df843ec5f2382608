package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/shreyat81/mini-drive-backend/internal/controllers"
)

// SetupRoutes registers all application routes.
func SetupRoutes(
	router *gin.Engine,
	fileController *controllers.FileController,
	shareController *controllers.ShareController,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	authMiddleware gin.HandlerFunc,
	adminOnly gin.HandlerFunc,
) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Auth routes: /auth/*
	authGroup := router.Group("/auth")
	RegisterAuthRoutes(authGroup, authController, authMiddleware)

	// Current user profile: /user
	userGroup := router.Group("/user")
	userGroup.Use(authMiddleware)
	{
		userGroup.GET("", authController.Profile)
	}

	// User management routes: /users/*
	usersGroup := router.Group("/users")
	RegisterUserRoutes(usersGroup, userController, authMiddleware, adminOnly)

	// File routes: /files/*
	filesGroup := router.Group("/files")
	RegisterFileRoutes(filesGroup, fileController, shareController, authMiddleware, adminOnly)
}
