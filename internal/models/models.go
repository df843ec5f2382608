package models

// This file provides a central import point for all models
// and helper functions for database operations

import (
	"crypto/rand"
	"encoding/hex"
)

// AllModels returns all model types for GORM operations
// Note: Migrations are handled by golang-migrate, not GORM AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&File{},
		&SharedWith{},
		&AccessRequest{},
		&OrphanedBlob{},
	}
}

// GenerateShareToken returns a hex-encoded random token with byteLen
// bytes of entropy. Share links require at least 12 bytes; tokens are
// opaque and never derivable from the file id.
func GenerateShareToken(byteLen int) (string, error) {
	if byteLen < 12 {
		byteLen = 12
	}
	bytes := make([]byte, byteLen)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
