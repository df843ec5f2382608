package services_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/shreyat81/mini-drive-backend/internal/models"
	"github.com/shreyat81/mini-drive-backend/internal/repositories"
	"github.com/shreyat81/mini-drive-backend/internal/services"
)

func TestUserService_FindByEmail(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(repositories.NewUserRepository(db))

	created := createTestUser(t, db, "findme@example.com")

	user, err := svc.FindByEmail("findme@example.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("expected id %s, got %s", created.ID, user.ID)
	}

	if _, err := svc.FindByEmail("nobody@example.com"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_Promote(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(repositories.NewUserRepository(db))

	user := createTestUser(t, db, "future-admin@example.com")

	promoted, err := svc.Promote(user.ID)
	if err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if promoted.Role != models.RoleAdmin {
		t.Errorf("expected role admin, got %s", promoted.Role)
	}

	if _, err := svc.Promote(uuid.New()); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_List(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(repositories.NewUserRepository(db))

	createTestUser(t, db, "a@example.com")
	createTestUser(t, db, "b@example.com")
	createTestUser(t, db, "c@example.com")

	users, total, err := svc.List(2, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(users) != 2 {
		t.Errorf("expected page of 2, got %d", len(users))
	}
}
