package services

import (
	"github.com/google/uuid"

	"github.com/shreyat81/mini-drive-backend/internal/models"
	"github.com/shreyat81/mini-drive-backend/internal/repositories"
)

type UserService struct {
	repo repositories.UserRepository
}

func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// FindByEmail resolves an email to a user id, used by the share dialog.
func (s *UserService) FindByEmail(email string) (*models.User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *UserService) List(limit, offset int) ([]models.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.GetAll(limit, offset)
}

// Promote raises a user to the admin role.
func (s *UserService) Promote(userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	user.Role = models.RoleAdmin
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
