package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type File struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	BlobKey      string    `gorm:"type:varchar(512);uniqueIndex;not null" json:"-"`
	OriginalName string    `gorm:"type:varchar(255);not null" json:"original_name"`
	ContentType  string    `gorm:"type:varchar(100)" json:"content_type"`
	SizeBytes    int64     `gorm:"type:bigint;not null" json:"size_bytes"`
	ShareToken   *string   `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relationships
	Owner      *User        `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	SharedWith []SharedWith `gorm:"foreignKey:FileID" json:"shared_with,omitempty"`
}

func (File) TableName() string {
	return "files"
}

// BeforeCreate hook to generate UUID. BlobKey is set once by the upload
// path and never changes afterwards.
func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// SharePermission returns the permission granted to userID, if any.
// The owner is never listed in SharedWith; owner rights are implicit.
func (f *File) SharePermission(userID uuid.UUID) (Permission, bool) {
	for _, s := range f.SharedWith {
		if s.UserID == userID {
			return s.Permission, true
		}
	}
	return "", false
}

func (f *File) IsOwner(userID uuid.UUID) bool {
	return f.OwnerID == userID
}

// PublicFileInfo is the restricted projection returned for share-token
// lookups. It never exposes the share list or the blob key.
type PublicFileInfo struct {
	ID           uuid.UUID       `json:"id"`
	OriginalName string          `json:"original_name"`
	SizeBytes    int64           `json:"size_bytes"`
	UploadedAt   time.Time       `json:"uploaded_at"`
	Owner        *PublicIdentity `json:"owner,omitempty"`
}

func (f *File) PublicInfo() PublicFileInfo {
	info := PublicFileInfo{
		ID:           f.ID,
		OriginalName: f.OriginalName,
		SizeBytes:    f.SizeBytes,
		UploadedAt:   f.CreatedAt,
	}
	if f.Owner != nil {
		owner := f.Owner.Public()
		info.Owner = &owner
	}
	return info
}
