package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shreyat81/mini-drive-backend/internal/models"
)

// GormFileRepository implements FileRepository using GORM.
type GormFileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *GormFileRepository {
	return &GormFileRepository{db: db}
}

func (r *GormFileRepository) Create(ctx context.Context, file *models.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *GormFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	var file models.File
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("SharedWith").
		First(&file, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *GormFileRepository) GetByShareToken(ctx context.Context, token string) (*models.File, error) {
	if token == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var file models.File
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("share_token = ?", token).
		First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *GormFileRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.File, error) {
	var files []models.File
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

func (r *GormFileRepository) ListSharedWith(ctx context.Context, userID uuid.UUID) ([]SharedFile, error) {
	var shares []models.SharedWith
	err := r.db.WithContext(ctx).
		Preload("File").
		Preload("File.Owner").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&shares).Error
	if err != nil {
		return nil, err
	}

	shared := make([]SharedFile, 0, len(shares))
	for _, s := range shares {
		shared = append(shared, SharedFile{File: s.File, Permission: s.Permission})
	}
	return shared, nil
}

func (r *GormFileRepository) ListAll(ctx context.Context) ([]models.File, error) {
	var files []models.File
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

func (r *GormFileRepository) UpdateMetadata(ctx context.Context, id uuid.UUID, patch MetadataPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	updates := map[string]interface{}{}
	if patch.OriginalName != nil {
		updates["original_name"] = *patch.OriginalName
	}
	if patch.ContentType != nil {
		updates["content_type"] = *patch.ContentType
	}

	res := r.db.WithContext(ctx).
		Model(&models.File{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormFileRepository) UpdateOwner(ctx context.Context, id, newOwnerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.File{}).
			Where("id = ?", id).
			Update("owner_id", newOwnerID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		// The owner implicitly has full permission; a leftover grant for
		// the new owner would violate that.
		if err := tx.Where("file_id = ? AND user_id = ?", id, newOwnerID).
			Delete(&models.SharedWith{}).Error; err != nil {
			return err
		}
		// A pending request by the new owner is moot once they own the
		// file; approving it later would re-grant the owner.
		return tx.Where("file_id = ? AND requested_by = ? AND status = ?",
			id, newOwnerID, models.RequestPending).
			Delete(&models.AccessRequest{}).Error
	})
}

// UpsertShare adds or updates a grant keyed by (file_id, user_id). The
// conflict clause resolves concurrent writes to the same key inside the
// store instead of read-modify-write racing here.
func (r *GormFileRepository) UpsertShare(ctx context.Context, fileID, userID uuid.UUID, permission models.Permission) error {
	share := &models.SharedWith{
		FileID:     fileID,
		UserID:     userID,
		Permission: permission,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "file_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"permission": permission}),
	}).Create(share).Error
}

func (r *GormFileRepository) SetShareToken(ctx context.Context, id uuid.UUID, token string) error {
	res := r.db.WithContext(ctx).
		Model(&models.File{}).
		Where("id = ?", id).
		Update("share_token", token)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormFileRepository) DeleteCascade(ctx context.Context, id uuid.UUID) (*models.File, error) {
	var file models.File
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock serializes delete against concurrent share/approve on
		// the same id; the loser observes the record as gone.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&file, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("file_id = ?", id).Delete(&models.AccessRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("file_id = ?", id).Delete(&models.SharedWith{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.File{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &file, nil
}
