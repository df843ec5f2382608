package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/shreyat81/mini-drive-backend/internal/models"
)

// MetadataPatch carries the only fields a metadata update may touch.
// Ownership changes go through UpdateOwner, never through here.
type MetadataPatch struct {
	OriginalName *string
	ContentType  *string
}

func (p MetadataPatch) IsEmpty() bool {
	return p.OriginalName == nil && p.ContentType == nil
}

// SharedFile pairs a record with the effective permission granted to the
// user the listing was computed for. This is a derived view, not stored
// state.
type SharedFile struct {
	File       models.File       `json:"file"`
	Permission models.Permission `json:"permission"`
}

type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.File, error)
	GetByShareToken(ctx context.Context, token string) (*models.File, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.File, error)
	ListSharedWith(ctx context.Context, userID uuid.UUID) ([]SharedFile, error)
	ListAll(ctx context.Context) ([]models.File, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, patch MetadataPatch) error
	UpdateOwner(ctx context.Context, id, newOwnerID uuid.UUID) error
	UpsertShare(ctx context.Context, fileID, userID uuid.UUID, permission models.Permission) error
	SetShareToken(ctx context.Context, id uuid.UUID, token string) error
	// DeleteCascade removes the record together with its shares and
	// access requests, returning the deleted record so the caller can
	// clean up the blob afterwards.
	DeleteCascade(ctx context.Context, id uuid.UUID) (*models.File, error)
}
