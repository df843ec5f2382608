package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shreyat81/mini-drive-backend/internal/services"
)

// storageRetries bounds how often the ingress boundary retries a
// transient store failure before giving up. Policy and state-machine
// violations are never retried.
const storageRetries = 2

func withRetry(fn func() error) error {
	err := fn()
	for attempt := 0; attempt < storageRetries && errors.Is(err, services.ErrStorageFailure); attempt++ {
		err = fn()
	}
	return err
}

// respondError maps service error kinds onto HTTP responses. Every kind
// is mapped; nothing falls through silently.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not found",
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden",
			"message": "Access denied",
		})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Conflict",
			"message": "Request is no longer pending",
		})
	case errors.Is(err, services.ErrDuplicateRequest):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad request",
			"message": "Access request already pending",
		})
	case errors.Is(err, services.ErrAlreadyHasAccess):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad request",
			"message": "You already have access to this file",
		})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad request",
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Conflict",
			"message": "User already exists",
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "Invalid email or password",
		})
	case errors.Is(err, services.ErrStorageFailure):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "Storage unavailable",
			"message":   "Temporary storage failure, please retry",
			"retryable": true,
		})
	case errors.Is(err, services.ErrBlobInconsistency):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Inconsistent state",
			"message": "File content is unavailable",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": err.Error(),
		})
	}
}
