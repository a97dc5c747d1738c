package repository

import (
	"context"
	"time"

	"collabfeed/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveRepository manages post bookmarks. A user holds at most one save per post.
type SaveRepository interface {
	// Save upserts the (post, user) save, moving it into collectionID when set.
	Save(ctx context.Context, postID, userID uint, collectionID *uint) error
	Unsave(ctx context.Context, postID, userID uint) (bool, error)
	IsSaved(ctx context.Context, postID, userID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.PostSave, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	// ListByCollection returns the user's saves in collectionID, or the
	// unfiled saves when collectionID is nil.
	ListByCollection(ctx context.Context, userID uint, collectionID *uint) ([]*models.PostSave, error)
}

type saveRepository struct {
	db *gorm.DB
}

// NewSaveRepository creates a new SaveRepository
func NewSaveRepository(db *gorm.DB) SaveRepository {
	return &saveRepository{db: db}
}

// Save leaves an existing save's collection alone when collectionID is nil.
func (r *saveRepository) Save(ctx context.Context, postID, userID uint, collectionID *uint) error {
	row := models.PostSave{PostID: postID, UserID: userID, CollectionID: collectionID}
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoNothing: true,
	}
	if collectionID != nil {
		onConflict.DoNothing = false
		onConflict.DoUpdates = clause.Assignments(map[string]interface{}{
			"collection_id": *collectionID,
			"updated_at":    time.Now(),
		})
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(onConflict).
		Create(&row).Error
}

func (r *saveRepository) Unsave(ctx context.Context, postID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostSave{})
	return res.RowsAffected > 0, res.Error
}

func (r *saveRepository) IsSaved(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostSave{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *saveRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.PostSave, error) {
	var saves []*models.PostSave
	err := readDB(r.db).WithContext(ctx).
		Preload("Post").
		Preload("Post.Author").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&saves).Error
	return saves, err
}

func (r *saveRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var total int64
	err := readDB(r.db).WithContext(ctx).Model(&models.PostSave{}).Where("user_id = ?", userID).Count(&total).Error
	return total, err
}

func (r *saveRepository) ListByCollection(ctx context.Context, userID uint, collectionID *uint) ([]*models.PostSave, error) {
	q := readDB(r.db).WithContext(ctx).
		Preload("Post").
		Preload("Post.Author").
		Where("user_id = ?", userID)
	if collectionID == nil {
		q = q.Where("collection_id IS NULL")
	} else {
		q = q.Where("collection_id = ?", *collectionID)
	}
	var saves []*models.PostSave
	err := q.Order("created_at DESC").Order("id DESC").Find(&saves).Error
	return saves, err
}
