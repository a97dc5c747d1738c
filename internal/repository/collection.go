package repository

import (
	"context"

	"collabfeed/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CollectionRepository defines the interface for saved-post collections.
type CollectionRepository interface {
	Create(ctx context.Context, c *models.Collection) error
	GetByID(ctx context.Context, id uint) (*models.Collection, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Collection, error)
	Update(ctx context.Context, c *models.Collection) error
	// Delete removes the collection; its saves are kept and unfiled.
	Delete(ctx context.Context, id uint) error
}

type collectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

const collectionSelect = "collections.*, " +
	"(SELECT COUNT(*) FROM post_saves WHERE post_saves.collection_id = collections.id) AS item_count"

func (r *collectionRepository) Create(ctx context.Context, c *models.Collection) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *collectionRepository) GetByID(ctx context.Context, id uint) (*models.Collection, error) {
	var c models.Collection
	err := r.db.WithContext(ctx).
		Select(collectionSelect).
		Preload("Saves", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC").Order("id DESC") }).
		Preload("Saves.Post").
		Preload("Saves.Post.Author").
		First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *collectionRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Collection, error) {
	var out []*models.Collection
	err := readDB(r.db).WithContext(ctx).
		Select(collectionSelect).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error
	return out, err
}

func (r *collectionRepository) Update(ctx context.Context, c *models.Collection) error {
	return r.db.WithContext(ctx).Model(&models.Collection{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{"name": c.Name, "description": c.Description}).Error
}

func (r *collectionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PostSave{}).Where("collection_id = ?", id).
			UpdateColumn("collection_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Collection{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
