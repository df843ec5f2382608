package policy

import (
	"testing"

	"github.com/google/uuid"

	"github.com/shreyat81/mini-drive-backend/internal/models"
)

func testFile(owner uuid.UUID, shares ...models.SharedWith) *models.File {
	return &models.File{
		ID:         uuid.New(),
		OwnerID:    owner,
		SharedWith: shares,
	}
}

func TestDecide_OwnerHasFullRights(t *testing.T) {
	owner := uuid.New()
	file := testFile(owner)
	caller := Caller{ID: owner, Role: models.RoleUser}

	for _, action := range []Action{ActionRead, ActionModify, ActionDelete, ActionShare, ActionResolveRequest} {
		if !Decide(caller, file, action) {
			t.Errorf("owner denied %s", action)
		}
	}
	if Decide(caller, file, ActionTransfer) {
		t.Error("owner allowed transfer, expected admin only")
	}
}

func TestDecide_StrangerIsDeniedEverything(t *testing.T) {
	file := testFile(uuid.New(), models.SharedWith{UserID: uuid.New(), Permission: models.PermissionEdit})
	caller := Caller{ID: uuid.New(), Role: models.RoleUser}

	for _, action := range []Action{ActionRead, ActionModify, ActionDelete, ActionShare, ActionTransfer, ActionResolveRequest} {
		if Decide(caller, file, action) {
			t.Errorf("stranger allowed %s", action)
		}
	}
}

func TestDecide_ViewGrant(t *testing.T) {
	viewer := uuid.New()
	file := testFile(uuid.New(), models.SharedWith{UserID: viewer, Permission: models.PermissionView})
	caller := Caller{ID: viewer, Role: models.RoleUser}

	if !Decide(caller, file, ActionRead) {
		t.Error("view grant denied read")
	}
	for _, action := range []Action{ActionModify, ActionDelete, ActionShare, ActionResolveRequest} {
		if Decide(caller, file, action) {
			t.Errorf("view grant allowed %s", action)
		}
	}
}

func TestDecide_EditGrant(t *testing.T) {
	editor := uuid.New()
	file := testFile(uuid.New(), models.SharedWith{UserID: editor, Permission: models.PermissionEdit})
	caller := Caller{ID: editor, Role: models.RoleUser}

	if !Decide(caller, file, ActionRead) {
		t.Error("edit grant denied read")
	}
	if !Decide(caller, file, ActionModify) {
		t.Error("edit grant denied modify")
	}
	// Sharing is not transitively delegable.
	if Decide(caller, file, ActionShare) {
		t.Error("edit grant allowed share")
	}
	if Decide(caller, file, ActionDelete) {
		t.Error("edit grant allowed delete")
	}
}

func TestDecide_AdminAllowsEverything(t *testing.T) {
	file := testFile(uuid.New())
	caller := Caller{ID: uuid.New(), Role: models.RoleAdmin}

	for _, action := range []Action{ActionRead, ActionModify, ActionDelete, ActionShare, ActionTransfer, ActionResolveRequest} {
		if !Decide(caller, file, action) {
			t.Errorf("admin denied %s", action)
		}
	}
}

func TestDecide_FormerOwnerAfterTransfer(t *testing.T) {
	former := uuid.New()
	newOwner := uuid.New()
	file := testFile(newOwner)

	if Decide(Caller{ID: former, Role: models.RoleUser}, file, ActionDelete) {
		t.Error("former owner allowed delete after transfer")
	}
	if !Decide(Caller{ID: newOwner, Role: models.RoleUser}, file, ActionDelete) {
		t.Error("new owner denied delete after transfer")
	}
}

func TestDecide_UnknownActionAndNilFileDenied(t *testing.T) {
	owner := uuid.New()
	file := testFile(owner)

	if Decide(Caller{ID: owner, Role: models.RoleUser}, file, Action("sideload")) {
		t.Error("unknown action allowed, expected fail-closed deny")
	}
	if Decide(Caller{ID: owner, Role: models.RoleAdmin}, nil, ActionRead) {
		t.Error("nil file allowed")
	}
}
