package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shreyat81/mini-drive-backend/internal/models"
	"github.com/shreyat81/mini-drive-backend/internal/policy"
	"github.com/shreyat81/mini-drive-backend/internal/repositories"
	"github.com/shreyat81/mini-drive-backend/internal/services"
)

// The stubs below model a delete racing another mutation: the record
// resolves on the first lookup and is gone by the re-fetch that follows
// the write. The services must surface that as NotFound, not as a raw
// store error.

type vanishingFileRepo struct {
	repositories.FileRepository
	file    *models.File
	lookups int
}

func (r *vanishingFileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	r.lookups++
	if r.lookups > 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.file, nil
}

func (r *vanishingFileRepo) UpdateMetadata(ctx context.Context, id uuid.UUID, patch repositories.MetadataPatch) error {
	return nil
}

func (r *vanishingFileRepo) UpsertShare(ctx context.Context, fileID, userID uuid.UUID, permission models.Permission) error {
	return nil
}

type vanishingRequestRepo struct {
	repositories.AccessRequestRepository
	req     *models.AccessRequest
	lookups int
}

func (r *vanishingRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AccessRequest, error) {
	r.lookups++
	if r.lookups > 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.req, nil
}

func (r *vanishingRequestRepo) Approve(ctx context.Context, id uuid.UUID, permission models.Permission) error {
	return nil
}

type singleUserRepo struct {
	repositories.UserRepository
	user *models.User
}

func (r *singleUserRepo) GetByID(id uuid.UUID) (*models.User, error) {
	return r.user, nil
}

func TestFileService_UpdateMetadata_RecordVanishesAfterWrite(t *testing.T) {
	ownerID := uuid.New()
	repo := &vanishingFileRepo{file: &models.File{ID: uuid.New(), OwnerID: ownerID}}
	svc := services.NewFileService(nil, repo, nil, nil)

	name := "renamed.txt"
	caller := policy.Caller{ID: ownerID, Role: models.RoleUser}
	_, err := svc.UpdateMetadata(context.Background(), caller, repo.file.ID, repositories.MetadataPatch{OriginalName: &name})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSharingService_Share_RecordVanishesAfterWrite(t *testing.T) {
	ownerID := uuid.New()
	target := &models.User{ID: uuid.New(), Role: models.RoleUser}
	repo := &vanishingFileRepo{file: &models.File{ID: uuid.New(), OwnerID: ownerID}}
	svc := services.NewSharingService(repo, nil, &singleUserRepo{user: target})

	caller := policy.Caller{ID: ownerID, Role: models.RoleUser}
	_, err := svc.Share(context.Background(), caller, repo.file.ID, target.ID, models.PermissionView)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSharingService_Approve_RequestVanishesAfterWrite(t *testing.T) {
	ownerID := uuid.New()
	req := &models.AccessRequest{
		ID:          uuid.New(),
		FileID:      uuid.New(),
		RequestedBy: uuid.New(),
		Status:      models.RequestPending,
		File:        models.File{OwnerID: ownerID},
	}
	repo := &vanishingRequestRepo{req: req}
	svc := services.NewSharingService(nil, repo, nil)

	caller := policy.Caller{ID: ownerID, Role: models.RoleUser}
	_, err := svc.Approve(context.Background(), caller, req.ID, models.PermissionView)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
