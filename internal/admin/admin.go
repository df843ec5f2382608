package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shreyat81/mini-drive-backend/internal/config"
	"github.com/shreyat81/mini-drive-backend/internal/models"
	"github.com/shreyat81/mini-drive-backend/internal/storage"
)

// Setup registers the maintenance endpoints. They are meant to be hit
// by a cron job, not by interactive clients, so they authenticate with
// a shared secret header instead of a JWT.
func Setup(router *gin.Engine, db *gorm.DB, store storage.Storage, cfg *config.Config) {
	group := router.Group("/api/admin")
	{
		group.POST("/cleanup", sweepOrphanedBlobs(db, store, cfg))
	}
}

// sweepOrphanedBlobs retries blob deletion for keys whose metadata was
// removed but whose content delete failed. Rows are removed only after
// the backend confirms the blob is gone or already missing.
func sweepOrphanedBlobs(db *gorm.DB, store storage.Storage, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := c.GetHeader("X-Cron-Secret")
		if secret == "" || secret != cfg.Maintenance.CronSecret {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or missing X-Cron-Secret"})
			return
		}

		var orphans []models.OrphanedBlob
		if err := db.Find(&orphans).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
			return
		}

		if len(orphans) == 0 {
			c.JSON(http.StatusOK, gin.H{"message": "No orphaned blobs"})
			return
		}

		removed := 0
		for _, orphan := range orphans {
			err := store.Delete(c.Request.Context(), orphan.BlobKey)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				continue
			}
			if err := db.Delete(&orphan).Error; err == nil {
				removed++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Cleanup complete",
			"blobs_found":   len(orphans),
			"blobs_removed": removed,
		})
	}
}
