package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hack2025/volunteer-hub/internal/models"
	"gorm.io/gorm"
)

// UserService manages the local user rows that mirror identity-provider
// accounts. Profiles live in the identity provider, not here.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateUser inserts a user keyed by its identity-provider id. An id that is
// already present fails with ErrUserExists.
func (s *UserService) CreateUser(ctx context.Context, id string) (*models.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("user id is required")
	}

	user := models.User{ID: id}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// EnsureUser creates the user unless it already exists. Any failure other
// than the duplicate key is returned.
func (s *UserService) EnsureUser(ctx context.Context, id string) error {
	_, err := s.CreateUser(ctx, id)
	if err != nil && !errors.Is(err, ErrUserExists) {
		return err
	}
	return nil
}

// GetUser returns ErrUserNotFound when id is unknown.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
