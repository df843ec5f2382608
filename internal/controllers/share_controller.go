package controllers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shreyat81/mini-drive-backend/internal/middleware"
	"github.com/shreyat81/mini-drive-backend/internal/models"
	"github.com/shreyat81/mini-drive-backend/internal/services"
)

// ShareController exposes direct sharing, share links and the access
// request workflow.
type ShareController struct {
	sharingService *services.SharingService
	fileService    *services.FileService
}

func NewShareController(sharingService *services.SharingService, fileService *services.FileService) *ShareController {
	return &ShareController{
		sharingService: sharingService,
		fileService:    fileService,
	}
}

// ShareFile grants or updates a user's permission on a file.
// POST /files/:id/share
func (sc *ShareController) ShareFile(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	var input struct {
		UserID     string            `json:"user_id" binding:"required"`
		Permission models.Permission `json:"permission" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and permission are required"})
		return
	}
	targetID, err := uuid.Parse(input.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	file, err := sc.sharingService.Share(c.Request.Context(), caller, fileID, targetID, input.Permission)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File shared successfully", "file": file})
}

// GenerateLink mints a new share token, invalidating any previous one.
// POST /files/:id/generate-link
func (sc *ShareController) GenerateLink(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	token, err := sc.sharingService.GenerateShareLink(c.Request.Context(), caller, fileID)
	if err != nil {
		respondError(c, err)
		return
	}

	frontendBase := os.Getenv("FRONTEND_BASE_URL")
	if frontendBase == "" {
		frontendBase = "http://localhost:8081"
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"link":  frontendBase + "/shared/" + token,
	})
}

// GetPublicFile returns the restricted projection for a share token.
// No authentication; the token itself is the capability.
// GET /files/public/:token
func (sc *ShareController) GetPublicFile(c *gin.Context) {
	var info *models.PublicFileInfo
	err := withRetry(func() error {
		var err error
		info, err = sc.sharingService.ResolveByToken(c.Request.Context(), c.Param("token"))
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// DownloadPublicFile streams content for a valid share token.
// GET /files/public/:token/download
func (sc *ShareController) DownloadPublicFile(c *gin.Context) {
	file, result, err := sc.fileService.DownloadByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer result.Reader.Close()

	streamDownload(c, file, result.ContentType, result.Size, result.Reader)
}

// RequestAccess files a pending access request for the caller.
// POST /files/:id/request-access
func (sc *ShareController) RequestAccess(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	req, err := sc.sharingService.RequestAccess(c.Request.Context(), caller.ID, fileID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Access request submitted", "request": req})
}

// ListAccessRequests returns pending requests for the caller's files.
// GET /files/access-requests
func (sc *ShareController) ListAccessRequests(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var requests []models.AccessRequest
	err := withRetry(func() error {
		var err error
		requests, err = sc.sharingService.ListPendingRequests(c.Request.Context(), caller.ID)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// ApproveRequest grants the requested access.
// POST /files/access-requests/:requestId/approve
func (sc *ShareController) ApproveRequest(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	var input struct {
		Permission models.Permission `json:"permission"`
	}
	// Body is optional; the permission defaults to view.
	_ = c.ShouldBindJSON(&input)

	req, err := sc.sharingService.Approve(c.Request.Context(), caller, requestID, input.Permission)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Access granted", "request": req})
}

// RejectRequest marks a pending request rejected without touching the
// file record.
// POST /files/access-requests/:requestId/reject
func (sc *ShareController) RejectRequest(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	req, err := sc.sharingService.Reject(c.Request.Context(), caller, requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Access request rejected", "request": req})
}
