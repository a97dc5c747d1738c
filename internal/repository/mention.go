package repository

import (
	"context"

	"collabfeed/internal/models"

	"gorm.io/gorm"
)

// MentionRepository reads mentions of a user.
type MentionRepository interface {
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Mention, error)
	CountForUser(ctx context.Context, userID uint) (int64, error)
}

type mentionRepository struct {
	db *gorm.DB
}

// NewMentionRepository creates a new MentionRepository
func NewMentionRepository(db *gorm.DB) MentionRepository {
	return &mentionRepository{db: db}
}

func (r *mentionRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Mention, error) {
	var mentions []*models.Mention
	err := readDB(r.db).WithContext(ctx).
		Preload("Post").
		Preload("Post.Author").
		Preload("Mentioner").
		Where("mentioned_user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&mentions).Error
	return mentions, err
}

func (r *mentionRepository) CountForUser(ctx context.Context, userID uint) (int64, error) {
	var total int64
	err := readDB(r.db).WithContext(ctx).Model(&models.Mention{}).
		Where("mentioned_user_id = ?", userID).
		Count(&total).Error
	return total, err
}
