package repository

import (
	"context"
	"strings"

	"collabfeed/internal/models"

	"gorm.io/gorm"
)

// HashtagRepository is the read side of the hashtag index.
type HashtagRepository interface {
	Trending(ctx context.Context, limit int) ([]models.Hashtag, error)
	Search(ctx context.Context, query string, limit int) ([]models.Hashtag, error)
	GetByNormalizedName(ctx context.Context, normalized string) (*models.Hashtag, error)
	// ListPosts returns the distinct posts linked to the hashtag, newest first.
	ListPosts(ctx context.Context, hashtagID uint, limit, offset int) ([]*models.Post, error)
	CountPosts(ctx context.Context, hashtagID uint) (int64, error)
}

type hashtagRepository struct {
	db *gorm.DB
}

// NewHashtagRepository creates a new HashtagRepository
func NewHashtagRepository(db *gorm.DB) HashtagRepository {
	return &hashtagRepository{db: db}
}

func (r *hashtagRepository) Trending(ctx context.Context, limit int) ([]models.Hashtag, error) {
	var tags []models.Hashtag
	err := readDB(r.db).WithContext(ctx).
		Order("usage_count DESC").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&tags).Error
	return tags, err
}

func (r *hashtagRepository) Search(ctx context.Context, query string, limit int) ([]models.Hashtag, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	var tags []models.Hashtag
	err := readDB(r.db).WithContext(ctx).
		Where(`normalized_name LIKE ? ESCAPE '\'`, pattern).
		Order("usage_count DESC").
		Order("id ASC").
		Limit(limit).
		Find(&tags).Error
	return tags, err
}

func (r *hashtagRepository) GetByNormalizedName(ctx context.Context, normalized string) (*models.Hashtag, error) {
	var tag models.Hashtag
	if err := readDB(r.db).WithContext(ctx).Where("normalized_name = ?", normalized).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *hashtagRepository) linkedPosts(db *gorm.DB, hashtagID uint) *gorm.DB {
	linked := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.PostHashtag{}).Select("post_id").Where("hashtag_id = ?", hashtagID)
	return db.Model(&models.Post{}).Where("id IN (?)", linked)
}

func (r *hashtagRepository) ListPosts(ctx context.Context, hashtagID uint, limit, offset int) ([]*models.Post, error) {
	db := readDB(r.db).WithContext(ctx)
	var posts []*models.Post
	err := r.linkedPosts(db, hashtagID).
		Preload("Author").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *hashtagRepository) CountPosts(ctx context.Context, hashtagID uint) (int64, error) {
	var total int64
	err := r.linkedPosts(readDB(r.db).WithContext(ctx), hashtagID).Count(&total).Error
	return total, err
}
