package services

import "errors"

// Error kinds surfaced by the service layer. The ingress boundary maps
// each kind to an external response; none of them is ever silently
// dropped. Policy and state-machine violations are reported verbatim and
// never retried; ErrStorageFailure marks transient backing-store errors
// that are safe to retry at the boundary.
var (
	ErrNotFound          = errors.New("not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrInvalidState      = errors.New("invalid state")
	ErrDuplicateRequest  = errors.New("access request already pending")
	ErrAlreadyHasAccess  = errors.New("user already has access")
	ErrValidation        = errors.New("invalid input")
	ErrStorageFailure    = errors.New("storage failure")
	ErrBlobInconsistency = errors.New("metadata and blob store disagree")
)
