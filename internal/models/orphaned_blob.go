package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrphanedBlob records a blob whose metadata row was deleted but whose
// removal from the blob store failed. The record deletion is the
// authoritative event; a leaked blob is recoverable and is retried by the
// admin reconciliation sweep.
type OrphanedBlob struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BlobKey   string    `gorm:"type:varchar(512);uniqueIndex;not null" json:"blob_key"`
	Reason    string    `gorm:"type:varchar(255)" json:"reason"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (OrphanedBlob) TableName() string {
	return "orphaned_blobs"
}

func (b *OrphanedBlob) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
