package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/shreyat81/mini-drive-backend/internal/controllers"
)

// RegisterUserRoutes registers user lookup and management routes under
// /users. Listing, promotion and per-user file views are admin only.
func RegisterUserRoutes(router *gin.RouterGroup, userController *controllers.UserController, authMiddleware, adminOnly gin.HandlerFunc) {
	router.Use(authMiddleware)

	// POST /users/find - Resolve email to a user id (for sharing)
	router.POST("/find", userController.FindByEmail)

	admin := router.Group("")
	admin.Use(adminOnly)
	{
		// GET /users - List users
		admin.GET("", userController.ListUsers)

		// POST /users/:id/promote - Promote a user to admin
		admin.POST("/:id/promote", userController.PromoteUser)

		// GET /users/:id/files - Files owned by a user
		admin.GET("/:id/files", userController.GetUserFiles)
	}
}
