package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shreyat81/mini-drive-backend/internal/models"
	"github.com/shreyat81/mini-drive-backend/internal/policy"
	"github.com/shreyat81/mini-drive-backend/internal/repositories"
	"github.com/shreyat81/mini-drive-backend/internal/storage"
)

type FileService struct {
	db      *gorm.DB
	files   repositories.FileRepository
	users   repositories.UserRepository
	storage storage.Storage
}

func NewFileService(db *gorm.DB, files repositories.FileRepository, users repositories.UserRepository, st storage.Storage) *FileService {
	return &FileService{
		db:      db,
		files:   files,
		users:   users,
		storage: st,
	}
}

type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
	OwnerID     uuid.UUID
}

func (in *UploadInput) sanitizedFileName() string {
	if in == nil || in.FileName == "" {
		return uuid.NewString()
	}
	name := filepath.Base(in.FileName)
	name = strings.TrimSpace(name)
	if name == "" || name == "." {
		return uuid.NewString()
	}
	return name
}

// Upload stores the blob first and creates the metadata record second;
// a failed record insert compensates by removing the blob so neither
// side keeps a dangling reference.
func (s *FileService) Upload(ctx context.Context, input *UploadInput) (*models.File, error) {
	if input == nil || input.Reader == nil {
		return nil, fmt.Errorf("%w: missing upload stream", ErrValidation)
	}
	if input.OwnerID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing owner", ErrValidation)
	}
	if s.storage == nil {
		return nil, fmt.Errorf("%w: storage backend is not configured", ErrStorageFailure)
	}

	fileName := input.sanitizedFileName()
	blobKey := fmt.Sprintf("%s-%s", uuid.NewString(), fileName)

	obj := &storage.Object{
		Key:         blobKey,
		ContentType: input.ContentType,
		Size:        input.Size,
		Reader:      input.Reader,
	}
	if err := s.storage.Put(ctx, obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	file := &models.File{
		OwnerID:      input.OwnerID,
		BlobKey:      blobKey,
		OriginalName: fileName,
		ContentType:  input.ContentType,
		SizeBytes:    input.Size,
	}
	if err := s.files.Create(ctx, file); err != nil {
		_ = s.storage.Delete(ctx, blobKey)
		return nil, storeError(err)
	}
	return file, nil
}

// Download streams a file's content after a read policy check.
func (s *FileService) Download(ctx context.Context, caller policy.Caller, fileID uuid.UUID) (*models.File, *storage.DownloadResult, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, nil, storeError(err)
	}
	if !policy.Decide(caller, file, policy.ActionRead) {
		return nil, nil, ErrAccessDenied
	}

	result, err := s.openBlob(ctx, file)
	if err != nil {
		return nil, nil, err
	}
	return file, result, nil
}

// DownloadByToken streams a file's content for a valid share token. The
// token is an unauthenticated read capability scoped to one record, so
// no identity-based policy check applies.
func (s *FileService) DownloadByToken(ctx context.Context, token string) (*models.File, *storage.DownloadResult, error) {
	file, err := s.files.GetByShareToken(ctx, token)
	if err != nil {
		return nil, nil, storeError(err)
	}
	result, err := s.openBlob(ctx, file)
	if err != nil {
		return nil, nil, err
	}
	return file, result, nil
}

func (s *FileService) openBlob(ctx context.Context, file *models.File) (*storage.DownloadResult, error) {
	result, err := s.storage.Get(ctx, file.BlobKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Metadata points at a blob that is gone. This must never
			// happen under the delete ordering; report it loudly.
			log.Printf("blob missing for file %s (key %s)", file.ID, file.BlobKey)
			return nil, fmt.Errorf("%w: blob %s missing", ErrBlobInconsistency, file.BlobKey)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if result.ContentType == "" {
		result.ContentType = file.ContentType
	}
	return result, nil
}

// ListMine returns the caller's owned files plus the files shared with
// them, the latter annotated with the effective permission.
func (s *FileService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.File, []repositories.SharedFile, error) {
	owned, err := s.files.ListByOwner(ctx, userID)
	if err != nil {
		return nil, nil, storeError(err)
	}
	shared, err := s.files.ListSharedWith(ctx, userID)
	if err != nil {
		return nil, nil, storeError(err)
	}
	return owned, shared, nil
}

// ListOwnedBy returns the files owned by an arbitrary user. The admin
// gate lives in the route middleware.
func (s *FileService) ListOwnedBy(ctx context.Context, ownerID uuid.UUID) ([]models.File, error) {
	files, err := s.files.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError(err)
	}
	return files, nil
}

// ListAll returns every file record. The admin gate lives in the route
// middleware; the service only lists.
func (s *FileService) ListAll(ctx context.Context) ([]models.File, error) {
	files, err := s.files.ListAll(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return files, nil
}

func (s *FileService) Get(ctx context.Context, caller policy.Caller, fileID uuid.UUID) (*models.File, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, storeError(err)
	}
	if !policy.Decide(caller, file, policy.ActionRead) {
		return nil, ErrAccessDenied
	}
	return file, nil
}

// UpdateMetadata applies a patch limited to original name and content
// type. Ownership changes go through TransferOwnership.
func (s *FileService) UpdateMetadata(ctx context.Context, caller policy.Caller, fileID uuid.UUID, patch repositories.MetadataPatch) (*models.File, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, storeError(err)
	}
	if !policy.Decide(caller, file, policy.ActionModify) {
		return nil, ErrAccessDenied
	}
	if err := s.files.UpdateMetadata(ctx, fileID, patch); err != nil {
		return nil, storeError(err)
	}
	file, err = s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, storeError(err)
	}
	return file, nil
}

// TransferOwnership reassigns the single owner. Admin only; the new
// owner must be an existing user.
func (s *FileService) TransferOwnership(ctx context.Context, caller policy.Caller, fileID, newOwnerID uuid.UUID) (*models.File, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, storeError(err)
	}
	if !policy.Decide(caller, file, policy.ActionTransfer) {
		return nil, ErrAccessDenied
	}

	newOwner, err := s.users.GetByID(newOwnerID)
	if err != nil {
		return nil, storeError(err)
	}
	if newOwner == nil {
		return nil, fmt.Errorf("%w: new owner", ErrNotFound)
	}

	if err := s.files.UpdateOwner(ctx, fileID, newOwnerID); err != nil {
		return nil, storeError(err)
	}
	file, err = s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, storeError(err)
	}
	return file, nil
}

// Delete removes the metadata record (cascading access requests and
// shares) and then the blob. The metadata deletion is the authoritative
// event: a blob removal failure is recorded for the reconciliation sweep
// and reported as a degraded success, never as a failed delete.
func (s *FileService) Delete(ctx context.Context, caller policy.Caller, fileID uuid.UUID) (orphaned bool, err error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return false, storeError(err)
	}
	if !policy.Decide(caller, file, policy.ActionDelete) {
		return false, ErrAccessDenied
	}

	deleted, err := s.files.DeleteCascade(ctx, fileID)
	if err != nil {
		return false, storeError(err)
	}

	if err := s.storage.Delete(ctx, deleted.BlobKey); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		log.Printf("blob delete failed for file %s (key %s): %v", deleted.ID, deleted.BlobKey, err)
		orphan := &models.OrphanedBlob{
			BlobKey: deleted.BlobKey,
			Reason:  err.Error(),
		}
		if recErr := s.db.WithContext(ctx).Create(orphan).Error; recErr != nil {
			log.Printf("failed to record orphaned blob %s: %v", deleted.BlobKey, recErr)
		}
		return true, nil
	}
	return false, nil
}

// storeError translates backing-store failures into service error kinds.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		// A referenced row vanished mid-operation, e.g. a share racing a
		// delete of the same file.
		return ErrNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	default:
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
}
