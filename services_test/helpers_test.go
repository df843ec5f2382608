package services_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shreyat81/mini-drive-backend/internal/models"
	"github.com/shreyat81/mini-drive-backend/internal/policy"
	"github.com/shreyat81/mini-drive-backend/internal/repositories"
	"github.com/shreyat81/mini-drive-backend/internal/services"
	"github.com/shreyat81/mini-drive-backend/internal/storage"
)

var schemaOnce sync.Once

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "postgres"
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}
	user := os.Getenv("DB_USER")
	if user == "" {
		user = "postgres"
	}
	password := os.Getenv("DB_PASSWORD")
	if password == "" {
		password = "postgres"
	}

	dbname := os.Getenv("TEST_DB_NAME")
	if dbname == "" {
		dbname = "mini_drive_test"
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open postgres DB: %v", err)
	}

	schemaOnce.Do(func() {
		ensureSchema(t, db)
	})

	resetTestDatabase(t, db)
	t.Cleanup(func() {
		resetTestDatabase(t, db)
	})

	return db
}

func ensureSchema(t *testing.T, db *gorm.DB) {
	t.Helper()

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS citext`).Error; err != nil {
		t.Fatalf("failed to create citext extension: %v", err)
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		t.Fatalf("failed to create pgcrypto extension: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	// AutoMigrate cannot express the partial unique index guarding
	// against duplicate pending requests; mirror the SQL migration here.
	stmt := `
CREATE UNIQUE INDEX IF NOT EXISTS idx_access_requests_pending
	ON access_requests(file_id, requested_by)
	WHERE status = 'pending'`
	if err := db.Exec(stmt).Error; err != nil {
		t.Fatalf("failed to create pending request index: %v", err)
	}
}

func resetTestDatabase(t *testing.T, db *gorm.DB) {
	t.Helper()

	truncateStmt := `
TRUNCATE TABLE
	orphaned_blobs,
	access_requests,
	shared_with,
	files,
	users
RESTART IDENTITY CASCADE`
	if err := db.Exec(truncateStmt).Error; err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     email,
		Email:        email,
		Role:         models.RoleUser,
		PasswordHash: "x",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", email, err)
	}
	return user
}

func createTestAdmin(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	admin := createTestUser(t, db, email)
	if err := db.Model(admin).Update("role", models.RoleAdmin).Error; err != nil {
		t.Fatalf("failed to promote test user %s: %v", email, err)
	}
	admin.Role = models.RoleAdmin
	return admin
}

func callerFor(u *models.User) policy.Caller {
	return policy.Caller{ID: u.ID, Role: u.Role}
}

type testEnv struct {
	db      *gorm.DB
	store   *fakeStorage
	files   *services.FileService
	sharing *services.SharingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	store := newFakeStorage()

	userRepo := repositories.NewUserRepository(db)
	fileRepo := repositories.NewFileRepository(db)
	requestRepo := repositories.NewAccessRequestRepository(db)

	return &testEnv{
		db:      db,
		store:   store,
		files:   services.NewFileService(db, fileRepo, userRepo, store),
		sharing: services.NewSharingService(fileRepo, requestRepo, userRepo),
	}
}

func uploadTestFile(t *testing.T, env *testEnv, owner *models.User, name, content string) *models.File {
	t.Helper()

	file, err := env.files.Upload(context.Background(), &services.UploadInput{
		FileName:    name,
		ContentType: "text/plain",
		Size:        int64(len(content)),
		Reader:      bytes.NewReader([]byte(content)),
		OwnerID:     owner.ID,
	})
	if err != nil {
		t.Fatalf("failed to upload test file %s: %v", name, err)
	}
	return file
}

// mustRead drains and closes a download stream.
func mustRead(t *testing.T, result *storage.DownloadResult) string {
	t.Helper()

	defer result.Reader.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(result.Reader); err != nil {
		t.Fatalf("failed to read download stream: %v", err)
	}
	return buf.String()
}
