package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shreyat81/mini-drive-backend/internal/models"
)

// ErrRequestNotPending signals that a resolve transition ran against a
// request that already reached a terminal state.
var ErrRequestNotPending = errors.New("access request is not pending")

type AccessRequestRepository interface {
	Create(ctx context.Context, req *models.AccessRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AccessRequest, error)
	HasPending(ctx context.Context, fileID, requesterID uuid.UUID) (bool, error)
	ListPendingForOwner(ctx context.Context, ownerID uuid.UUID) ([]models.AccessRequest, error)
	// Approve atomically grants the share and marks the request
	// approved; a reader can never observe one without the other.
	Approve(ctx context.Context, id uuid.UUID, permission models.Permission) error
	Reject(ctx context.Context, id uuid.UUID) error
}

type gormAccessRequestRepository struct {
	db *gorm.DB
}

func NewAccessRequestRepository(db *gorm.DB) AccessRequestRepository {
	return &gormAccessRequestRepository{db: db}
}

func (r *gormAccessRequestRepository) Create(ctx context.Context, req *models.AccessRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *gormAccessRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AccessRequest, error) {
	var req models.AccessRequest
	err := r.db.WithContext(ctx).
		Preload("File").
		Preload("File.Owner").
		Preload("Requester").
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *gormAccessRequestRepository) HasPending(ctx context.Context, fileID, requesterID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AccessRequest{}).
		Where("file_id = ? AND requested_by = ? AND status = ?", fileID, requesterID, models.RequestPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormAccessRequestRepository) ListPendingForOwner(ctx context.Context, ownerID uuid.UUID) ([]models.AccessRequest, error) {
	var requests []models.AccessRequest
	err := r.db.WithContext(ctx).
		Joins("JOIN files ON files.id = access_requests.file_id").
		Where("access_requests.status = ? AND files.owner_id = ?", models.RequestPending, ownerID).
		Preload("File").
		Preload("Requester").
		Order("access_requests.created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *gormAccessRequestRepository) Approve(ctx context.Context, id uuid.UUID, permission models.Permission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.AccessRequest
		// Lock the request row so two concurrent approvals serialize;
		// the second observes a non-pending status and fails.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "id = ?", id).Error; err != nil {
			return err
		}
		if req.Status != models.RequestPending {
			return ErrRequestNotPending
		}

		share := &models.SharedWith{
			FileID:     req.FileID,
			UserID:     req.RequestedBy,
			Permission: permission,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "file_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"permission": permission}),
		}).Create(share).Error; err != nil {
			return err
		}

		return tx.Model(&models.AccessRequest{}).
			Where("id = ? AND status = ?", id, models.RequestPending).
			Updates(map[string]interface{}{
				"status":     models.RequestApproved,
				"permission": permission,
			}).Error
	})
}

func (r *gormAccessRequestRepository) Reject(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.AccessRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "id = ?", id).Error; err != nil {
			return err
		}
		if req.Status != models.RequestPending {
			return ErrRequestNotPending
		}
		// Rejection is terminal and never mutates the file record.
		return tx.Model(&models.AccessRequest{}).
			Where("id = ?", id).
			Update("status", models.RequestRejected).Error
	})
}
