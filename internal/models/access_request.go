package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// AccessRequest is a pending ask from a non-owner for permission on a
// file. pending is the initial state; approved and rejected are terminal.
// At most one pending request may exist per (file_id, requested_by);
// the partial unique index enforcing that lives in the migrations.
type AccessRequest struct {
	ID          uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FileID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"file_id"`
	RequestedBy uuid.UUID     `gorm:"type:uuid;not null;index" json:"requested_by"`
	Status      RequestStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	Permission  Permission    `gorm:"type:varchar(10);not null;default:'view'" json:"permission"`
	CreatedAt   time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relationships
	File      File  `gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE" json:"file,omitempty"`
	Requester *User `gorm:"foreignKey:RequestedBy" json:"requester,omitempty"`
}

func (AccessRequest) TableName() string {
	return "access_requests"
}

// BeforeCreate hook to generate UUID
func (ar *AccessRequest) BeforeCreate(tx *gorm.DB) error {
	if ar.ID == uuid.Nil {
		ar.ID = uuid.New()
	}
	return nil
}

func (ar *AccessRequest) IsPending() bool {
	return ar.Status == RequestPending
}
