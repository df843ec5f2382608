package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Permission string

const (
	PermissionView Permission = "view"
	PermissionEdit Permission = "edit"
)

func (p Permission) IsValid() bool {
	return p == PermissionView || p == PermissionEdit
}

// SharedWith is one grant of a file to a user. The (file_id, user_id)
// pair is unique; re-sharing overwrites the permission in place.
type SharedWith struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FileID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_file_user" json:"file_id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_file_user" json:"user_id"`
	Permission Permission `gorm:"type:varchar(10);not null;default:'view'" json:"permission"`
	CreatedAt  time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relationships
	File File `gorm:"foreignKey:FileID" json:"file,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (SharedWith) TableName() string {
	return "shared_with"
}

// BeforeCreate hook to generate UUID
func (s *SharedWith) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
