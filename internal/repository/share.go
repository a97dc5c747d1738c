package repository

import (
	"context"

	"collabfeed/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShareRepository appends to and aggregates the share log.
type ShareRepository interface {
	Create(ctx context.Context, share *models.Share) error
	Count(ctx context.Context, itemType models.ShareItemType, itemID uint) (int64, error)
	// Breakdown counts shares per channel; every channel is present.
	Breakdown(ctx context.Context, itemType models.ShareItemType, itemID uint) (map[models.ShareType]int64, error)
	Recent(ctx context.Context, itemType models.ShareItemType, itemID uint, limit int) ([]models.Sharer, error)
}

type shareRepository struct {
	db *gorm.DB
}

// NewShareRepository creates a new ShareRepository
func NewShareRepository(db *gorm.DB) ShareRepository {
	return &shareRepository{db: db}
}

func (r *shareRepository) Create(ctx context.Context, share *models.Share) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(share).Error
}

func (r *shareRepository) Count(ctx context.Context, itemType models.ShareItemType, itemID uint) (int64, error) {
	var total int64
	err := readDB(r.db).WithContext(ctx).Model(&models.Share{}).
		Where("item_type = ? AND item_id = ?", itemType, itemID).
		Count(&total).Error
	return total, err
}

func (r *shareRepository) Breakdown(ctx context.Context, itemType models.ShareItemType, itemID uint) (map[models.ShareType]int64, error) {
	var groups []struct {
		ShareType models.ShareType
		Count     int64
	}
	if err := readDB(r.db).WithContext(ctx).Model(&models.Share{}).
		Select("share_type, COUNT(*) AS count").
		Where("item_type = ? AND item_id = ?", itemType, itemID).
		Group("share_type").
		Scan(&groups).Error; err != nil {
		return nil, err
	}

	out := make(map[models.ShareType]int64, len(models.ShareTypes))
	for _, t := range models.ShareTypes {
		out[t] = 0
	}
	for _, g := range groups {
		out[g.ShareType] = g.Count
	}
	return out, nil
}

func (r *shareRepository) Recent(ctx context.Context, itemType models.ShareItemType, itemID uint, limit int) ([]models.Sharer, error) {
	var rows []models.Share
	if err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Where("item_type = ? AND item_id = ?", itemType, itemID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Sharer, 0, len(rows))
	for _, s := range rows {
		out = append(out, models.Sharer{
			UserID:    s.UserID,
			Handle:    s.User.Handle(),
			AvatarURL: s.User.AvatarURL,
			ShareType: s.ShareType,
			SharedAt:  s.CreatedAt,
		})
	}
	return out, nil
}
