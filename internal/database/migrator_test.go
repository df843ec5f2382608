package database

import (
	"strings"
	"testing"

	"github.com/shreyat81/mini-drive-backend/internal/config"
)

func TestMigrationsSource_Default(t *testing.T) {
	src, err := migrationsSource(&config.DatabaseConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(src, "file://") {
		t.Errorf("expected file:// source, got %s", src)
	}
	if !strings.HasSuffix(src, "/migrations") {
		t.Errorf("expected default migrations directory, got %s", src)
	}
}

func TestMigrationsSource_Configured(t *testing.T) {
	cfg := &config.DatabaseConfig{MigrationsPath: "/opt/app/sql"}
	src, err := migrationsSource(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src != "file:///opt/app/sql" {
		t.Errorf("expected file:///opt/app/sql, got %s", src)
	}
}
