package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shreyat81/mini-drive-backend/internal/models"
	"github.com/shreyat81/mini-drive-backend/internal/policy"
	"github.com/shreyat81/mini-drive-backend/internal/repositories"
)

// shareTokenBytes is the entropy of a share link token. Links require at
// least 12 bytes; we use 16.
const shareTokenBytes = 16

// SharingService implements direct sharing, share-link generation and
// the access request workflow.
type SharingService struct {
	files    repositories.FileRepository
	requests repositories.AccessRequestRepository
	users    repositories.UserRepository
}

func NewSharingService(files repositories.FileRepository, requests repositories.AccessRequestRepository, users repositories.UserRepository) *SharingService {
	return &SharingService{
		files:    files,
		requests: requests,
		users:    users,
	}
}

// Share grants or updates targetUserID's permission on a file. Owner
// only; an edit grant does not allow sharing further.
func (s *SharingService) Share(ctx context.Context, caller policy.Caller, fileID, targetUserID uuid.UUID, permission models.Permission) (*models.File, error) {
	if !permission.IsValid() {
		return nil, fmt.Errorf("%w: unknown permission %q", ErrValidation, permission)
	}

	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, storeError(err)
	}
	if !policy.Decide(caller, file, policy.ActionShare) {
		return nil, ErrAccessDenied
	}
	if file.OwnerID == targetUserID {
		// The owner implicitly has full permission and is never listed
		// in the share set.
		return nil, fmt.Errorf("%w: cannot share a file with its owner", ErrValidation)
	}

	target, err := s.users.GetByID(targetUserID)
	if err != nil {
		return nil, storeError(err)
	}
	if target == nil {
		return nil, fmt.Errorf("%w: target user", ErrNotFound)
	}

	if err := s.files.UpsertShare(ctx, fileID, targetUserID, permission); err != nil {
		return nil, storeError(err)
	}
	file, err = s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, storeError(err)
	}
	return file, nil
}

// GenerateShareLink mints a fresh random token for the file,
// unconditionally replacing any previous one. The old token stops
// resolving the moment the new one is written.
func (s *SharingService) GenerateShareLink(ctx context.Context, caller policy.Caller, fileID uuid.UUID) (string, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return "", storeError(err)
	}
	if !policy.Decide(caller, file, policy.ActionShare) {
		return "", ErrAccessDenied
	}

	token, err := models.GenerateShareToken(shareTokenBytes)
	if err != nil {
		return "", fmt.Errorf("%w: token generation: %v", ErrStorageFailure, err)
	}
	if err := s.files.SetShareToken(ctx, fileID, token); err != nil {
		return "", storeError(err)
	}
	return token, nil
}

// ResolveByToken returns the restricted public projection for a valid
// share token: name, size, upload date and the owner's public identity.
// Never the share list, never the blob key.
func (s *SharingService) ResolveByToken(ctx context.Context, token string) (*models.PublicFileInfo, error) {
	file, err := s.files.GetByShareToken(ctx, token)
	if err != nil {
		return nil, storeError(err)
	}
	info := file.PublicInfo()
	return &info, nil
}

// RequestAccess creates a pending access request for a file the caller
// can not read yet.
func (s *SharingService) RequestAccess(ctx context.Context, requesterID, fileID uuid.UUID) (*models.AccessRequest, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, storeError(err)
	}

	if file.IsOwner(requesterID) {
		return nil, ErrAlreadyHasAccess
	}
	if _, shared := file.SharePermission(requesterID); shared {
		return nil, ErrAlreadyHasAccess
	}

	pending, err := s.requests.HasPending(ctx, fileID, requesterID)
	if err != nil {
		return nil, storeError(err)
	}
	if pending {
		return nil, ErrDuplicateRequest
	}

	req := &models.AccessRequest{
		FileID:      fileID,
		RequestedBy: requesterID,
		Status:      models.RequestPending,
		Permission:  models.PermissionView,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		// The partial unique index catches the race between two
		// simultaneous first requests.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateRequest
		}
		return nil, storeError(err)
	}
	return req, nil
}

// ListPendingRequests returns the pending requests targeting files the
// owner owns.
func (s *SharingService) ListPendingRequests(ctx context.Context, ownerID uuid.UUID) ([]models.AccessRequest, error) {
	requests, err := s.requests.ListPendingForOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError(err)
	}
	return requests, nil
}

// Approve grants the requested share and marks the request approved in
// one atomic transition. Approving a non-pending request fails with
// ErrInvalidState; the second of two concurrent approvals loses.
func (s *SharingService) Approve(ctx context.Context, caller policy.Caller, requestID uuid.UUID, permission models.Permission) (*models.AccessRequest, error) {
	if permission == "" {
		permission = models.PermissionView
	}
	if !permission.IsValid() {
		return nil, fmt.Errorf("%w: unknown permission %q", ErrValidation, permission)
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, storeError(err)
	}
	if !policy.Decide(caller, &req.File, policy.ActionResolveRequest) {
		return nil, ErrAccessDenied
	}
	if req.File.IsOwner(req.RequestedBy) {
		// An ownership transfer can make the requester the owner while
		// the request is still pending. Granting would put the owner in
		// the share set.
		return nil, ErrAlreadyHasAccess
	}

	if err := s.requests.Approve(ctx, requestID, permission); err != nil {
		if errors.Is(err, repositories.ErrRequestNotPending) {
			return nil, ErrInvalidState
		}
		return nil, storeError(err)
	}
	req, err = s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, storeError(err)
	}
	return req, nil
}

// Reject marks the request rejected. Terminal; the file record is never
// touched. A later request by the same user is allowed once this one is
// no longer pending.
func (s *SharingService) Reject(ctx context.Context, caller policy.Caller, requestID uuid.UUID) (*models.AccessRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, storeError(err)
	}
	if !policy.Decide(caller, &req.File, policy.ActionResolveRequest) {
		return nil, ErrAccessDenied
	}

	if err := s.requests.Reject(ctx, requestID); err != nil {
		if errors.Is(err, repositories.ErrRequestNotPending) {
			return nil, ErrInvalidState
		}
		return nil, storeError(err)
	}
	req, err = s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, storeError(err)
	}
	return req, nil
}
