package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/shreyat81/mini-drive-backend/internal/controllers"
)

// RegisterFileRoutes registers all file-related routes under /files.
// The /files/public/* endpoints are unauthenticated: the share token is
// the capability.
func RegisterFileRoutes(
	router *gin.RouterGroup,
	fileController *controllers.FileController,
	shareController *controllers.ShareController,
	authMiddleware, adminOnly gin.HandlerFunc,
) {
	// Public share-link endpoints
	// GET /files/public/:token - Restricted metadata projection
	router.GET("/public/:token", shareController.GetPublicFile)

	// GET /files/public/:token/download - Download via share token
	router.GET("/public/:token/download", shareController.DownloadPublicFile)

	protected := router.Group("")
	protected.Use(authMiddleware)
	{
		// POST /files - Upload a file (alias: POST /files/upload)
		protected.POST("", fileController.UploadFile)
		protected.POST("/upload", fileController.UploadFile)

		// GET /files/my-files - Owned files plus files shared with me
		protected.GET("/my-files", fileController.GetMyFiles)

		// GET /files/download/:id - Download by file id
		protected.GET("/download/:id", fileController.DownloadFile)

		// GET /files/access-requests - Pending requests for my files
		protected.GET("/access-requests", shareController.ListAccessRequests)

		// POST /files/access-requests/:requestId/approve - Grant access
		protected.POST("/access-requests/:requestId/approve", shareController.ApproveRequest)

		// POST /files/access-requests/:requestId/reject - Reject request
		protected.POST("/access-requests/:requestId/reject", shareController.RejectRequest)

		// GET /files/:id - File metadata
		protected.GET("/:id", fileController.GetFile)

		// PATCH /files/:id - Update metadata; owner_id transfers ownership
		protected.PATCH("/:id", fileController.UpdateFile)

		// DELETE /files/:id - Delete file, grants and requests
		protected.DELETE("/:id", fileController.DeleteFile)

		// POST /files/:id/share - Grant or update a user's permission
		protected.POST("/:id/share", shareController.ShareFile)

		// POST /files/:id/generate-link - Mint a fresh share token
		protected.POST("/:id/generate-link", shareController.GenerateLink)

		// POST /files/:id/request-access - File a pending access request
		protected.POST("/:id/request-access", shareController.RequestAccess)

		admin := protected.Group("")
		admin.Use(adminOnly)
		{
			// GET /files/all - Every file record
			admin.GET("/all", fileController.GetAllFiles)
		}
	}
}
