package repository

import (
	"context"
	"strings"

	"collabfeed/internal/models"

	"gorm.io/gorm"
)

// UserRepository is the read-only view of the identity service's users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// ResolveHandlePrefix returns the user whose handle starts with token,
	// ignoring case. Ties go to the lowest email, then the lowest id.
	ResolveHandlePrefix(ctx context.Context, token string) (*models.User, error)
	SearchByHandlePrefix(ctx context.Context, query string, limit int) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) handlePrefix(ctx context.Context, prefix string) *gorm.DB {
	return readDB(r.db).WithContext(ctx).
		Where(`LOWER(email) LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(prefix))+"%").
		Order("LOWER(email) ASC").
		Order("id ASC")
}

func (r *userRepository) ResolveHandlePrefix(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := r.handlePrefix(ctx, token).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SearchByHandlePrefix(ctx context.Context, query string, limit int) ([]models.User, error) {
	var users []models.User
	err := r.handlePrefix(ctx, query).Limit(limit).Find(&users).Error
	return users, err
}
