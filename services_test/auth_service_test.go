package services_test

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shreyat81/mini-drive-backend/internal/config"
	"github.com/shreyat81/mini-drive-backend/internal/models"
	"github.com/shreyat81/mini-drive-backend/internal/repositories"
	"github.com/shreyat81/mini-drive-backend/internal/services"
)

func newAuthService(t *testing.T) (*services.AuthService, *config.Config) {
	t.Helper()

	db := newTestDB(t)
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			AccessTokenExpiry: "1h",
		},
	}
	return services.NewAuthService(repositories.NewUserRepository(db), cfg), cfg
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Register("alice", "alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Errorf("expected generated user id")
	}
	if user.Role != models.RoleUser {
		t.Errorf("expected default role user, got %s", user.Role)
	}
	if user.PasswordHash == "correct horse battery" {
		t.Errorf("expected password to be hashed")
	}
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	if _, err := svc.Register("bob", "bob@example.com", "short"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	if _, err := svc.Register("carol", "carol@example.com", "password123"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register("carol2", "carol@example.com", "password123"); !errors.Is(err, services.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	// Emails are case-insensitive (citext).
	if _, err := svc.Register("carol3", "CAROL@example.com", "password123"); !errors.Is(err, services.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for case variant, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newAuthService(t)

	if _, err := svc.Register("dave", "dave@example.com", "password123"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.Login("dave@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Email != "dave@example.com" {
		t.Errorf("expected email dave@example.com, got %s", user.Email)
	}

	if _, err := svc.Login("dave@example.com", "wrong-password"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Login("nobody@example.com", "password123"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthService_GenerateAccessToken(t *testing.T) {
	svc, cfg := newAuthService(t)

	user, err := svc.Register("erin", "erin@example.com", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	signed, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	var claims services.TokenClaims
	token, err := jwt.ParseWithClaims(signed, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("expected valid token, got err=%v", err)
	}
	if claims.UserID != user.ID.String() {
		t.Errorf("expected sub=%s, got %s", user.ID, claims.UserID)
	}
	if claims.Email != user.Email {
		t.Errorf("expected email claim %s, got %s", user.Email, claims.Email)
	}
}

func TestAuthService_GetProfile_Unknown(t *testing.T) {
	svc, _ := newAuthService(t)

	if _, err := svc.GetProfile(uuid.New()); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
