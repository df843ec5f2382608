package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shreyat81/mini-drive-backend/internal/config"
	"github.com/shreyat81/mini-drive-backend/internal/models"
	"github.com/shreyat81/mini-drive-backend/internal/repositories"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type TokenClaims struct {
	UserID string          `json:"sub"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

func NewAuthService(repo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: repo,
		cfg:      cfg,
	}
}

func (s *AuthService) Register(username, email, password string) (*models.User, error) {
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password too short", ErrValidation)
	}

	usernameExists, err := s.userRepo.ExistsByUsername(username)
	if err != nil {
		return nil, err
	}
	if usernameExists {
		return nil, ErrUserExists
	}

	emailExists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if emailExists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) GenerateAccessToken(user *models.User) (string, error) {
	accessTTL, err := s.cfg.JWT.GetAccessTokenExpiry()
	if err != nil {
		return "", err
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}

	now := time.Now().UTC()
	claims := TokenClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.Secret))
}

func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}
