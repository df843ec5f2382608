package repositories

import (
	"github.com/google/uuid"

	"github.com/shreyat81/mini-drive-backend/internal/models"
)

type UserRepository interface {
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	GetAll(limit, offset int) ([]models.User, int64, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
}
