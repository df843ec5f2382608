package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shreyat81/mini-drive-backend/internal/services"
)

type UserController struct {
	userService *services.UserService
	fileService *services.FileService
}

func NewUserController(userService *services.UserService, fileService *services.FileService) *UserController {
	return &UserController{
		userService: userService,
		fileService: fileService,
	}
}

// FindByEmail resolves an email address to a user's public identity so
// a caller can pick a share target.
// POST /users/find
func (uc *UserController) FindByEmail(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	user, err := uc.userService.FindByEmail(input.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}

// ListUsers returns a paginated user listing (admin only, gated by
// middleware).
// GET /users
func (uc *UserController) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, total, err := uc.userService.List(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
	})
}

// PromoteUser raises a user to the admin role (admin only).
// POST /users/:id/promote
func (uc *UserController) PromoteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := uc.userService.Promote(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User promoted to admin", "user": user})
}

// GetUserFiles lists the files a given user owns (admin only).
// GET /users/:id/files
func (uc *UserController) GetUserFiles(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	files, err := uc.fileService.ListOwnedBy(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}
