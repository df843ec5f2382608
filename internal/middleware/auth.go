package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shreyat81/mini-drive-backend/internal/config"
	"github.com/shreyat81/mini-drive-backend/internal/models"
	"github.com/shreyat81/mini-drive-backend/internal/policy"
	"github.com/shreyat81/mini-drive-backend/internal/services"
)

// AuthMiddleware validates the bearer token and attaches the resolved
// caller identity to the context. The core never parses credentials
// itself; this is the identity provider boundary.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Bearer token is required",
			})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &services.TokenClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWT.Secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Invalid or expired access token",
			})
			return
		}

		userUUID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Invalid user identifier in token",
			})
			return
		}

		c.Set("userID", userUUID)
		c.Set("userEmail", claims.Email)
		c.Set("userRole", claims.Role)
		c.Next()
	}
}

// AdminOnly ensures the requester is an admin user.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("userRole")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Authentication required",
			})
			return
		}
		role, ok := roleVal.(models.UserRole)
		if !ok || role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "Forbidden",
				"message": "Admin access required",
			})
			return
		}
		c.Next()
	}
}

// CallerFromContext rebuilds the policy caller from the values the auth
// middleware stored.
func CallerFromContext(c *gin.Context) (policy.Caller, bool) {
	idVal, ok := c.Get("userID")
	if !ok {
		return policy.Caller{}, false
	}
	id, ok := idVal.(uuid.UUID)
	if !ok {
		return policy.Caller{}, false
	}

	role := models.RoleUser
	if roleVal, ok := c.Get("userRole"); ok {
		if r, ok := roleVal.(models.UserRole); ok {
			role = r
		}
	}
	return policy.Caller{ID: id, Role: role}, true
}
