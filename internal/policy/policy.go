// Package policy centralizes every authorization decision for file
// operations. Decide is a pure function over the caller identity and the
// file record; callers apply the decision, the engine never mutates
// anything. Unknown actions are denied.
package policy

import (
	"github.com/google/uuid"

	"github.com/shreyat81/mini-drive-backend/internal/models"
)

type Action string

const (
	// ActionRead covers download and metadata retrieval by id.
	ActionRead Action = "read"
	// ActionModify covers metadata edits, excluding ownership transfer.
	ActionModify Action = "modify"
	ActionDelete Action = "delete"
	// ActionShare grants or updates a shared_with entry. Sharing is not
	// delegable; an edit grant does not include it.
	ActionShare Action = "share"
	// ActionTransfer reassigns ownership. Admin only; the target user
	// existence check happens in the service, not here.
	ActionTransfer Action = "transfer"
	// ActionResolveRequest approves or rejects an access request on the
	// file.
	ActionResolveRequest Action = "resolve_request"
)

// Caller is the resolved identity of the actor, as produced by the auth
// middleware. Share-token reads never reach Decide; a valid token is an
// unauthenticated read capability scoped to exactly one record and is
// resolved by exact-match lookup instead.
type Caller struct {
	ID   uuid.UUID
	Role models.UserRole
}

func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// Decide reports whether caller may perform action on file.
// Precedence: admin first, then per-action rules, deny by default.
func Decide(caller Caller, file *models.File, action Action) bool {
	if file == nil {
		return false
	}
	if caller.IsAdmin() {
		return true
	}

	isOwner := file.IsOwner(caller.ID)
	perm, isShared := file.SharePermission(caller.ID)

	switch action {
	case ActionRead:
		return isOwner || isShared
	case ActionModify:
		return isOwner || (isShared && perm == models.PermissionEdit)
	case ActionDelete:
		return isOwner
	case ActionShare:
		return isOwner
	case ActionTransfer:
		return false
	case ActionResolveRequest:
		return isOwner
	}
	return false
}
