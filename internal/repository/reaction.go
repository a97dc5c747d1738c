package repository

import (
	"context"
	"errors"
	"time"

	"collabfeed/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository stores one reaction per (user, target) and keeps the
// post like_count in step with post reactions.
type ReactionRepository interface {
	// Upsert creates or retypes the user's reaction. created reports whether
	// a new row was inserted.
	Upsert(ctx context.Context, userID uint, target models.TargetType, targetID uint, reaction models.ReactionType) (created bool, err error)
	// Remove deletes the user's reaction. removed is false when none existed.
	Remove(ctx context.Context, userID uint, target models.TargetType, targetID uint) (removed bool, err error)
	// GetUserReaction returns the user's reaction type, or "" when none.
	GetUserReaction(ctx context.Context, userID uint, target models.TargetType, targetID uint) (models.ReactionType, error)
	Summary(ctx context.Context, target models.TargetType, targetID uint, recent int) (*models.ReactionSummary, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Upsert checks for an existing row first and otherwise inserts under a
// savepoint. The unique (user_id, target_type, target_id) index is the
// arbiter: an insert that loses a race with a concurrent first reaction
// fails with a unique violation and falls back to retyping the winner's row,
// so like_count moves only for the insert that landed.
func (r *reactionRepository) Upsert(ctx context.Context, userID uint, target models.TargetType, targetID uint, reaction models.ReactionType) (bool, error) {
	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Reaction
		err := tx.Select("id").
			Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target, targetID).
			Take(&existing).Error
		switch {
		case err == nil:
			return retype(tx, userID, target, targetID, reaction)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		row := models.Reaction{
			UserID:       userID,
			TargetType:   target,
			TargetID:     targetID,
			ReactionType: reaction,
		}
		insertErr := tx.Transaction(func(sp *gorm.DB) error {
			return sp.Omit(clause.Associations).Create(&row).Error
		})
		if insertErr != nil {
			if !isUniqueViolation(insertErr) {
				return insertErr
			}
			return retype(tx, userID, target, targetID, reaction)
		}

		created = true
		if target != models.TargetPost {
			return nil
		}
		return tx.Model(&models.Post{}).Where("id = ?", targetID).
			UpdateColumn("like_count", incrementExpr("like_count", 1)).Error
	})
	return created, err
}

func retype(tx *gorm.DB, userID uint, target models.TargetType, targetID uint, reaction models.ReactionType) error {
	return tx.Model(&models.Reaction{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target, targetID).
		UpdateColumns(map[string]interface{}{"reaction_type": reaction, "updated_at": time.Now()}).Error
}

func (r *reactionRepository) Remove(ctx context.Context, userID uint, target models.TargetType, targetID uint) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target, targetID).
			Delete(&models.Reaction{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		if target != models.TargetPost {
			return nil
		}
		return tx.Model(&models.Post{}).Where("id = ?", targetID).
			UpdateColumn("like_count", decrementExpr("like_count")).Error
	})
	return removed, err
}

func (r *reactionRepository) GetUserReaction(ctx context.Context, userID uint, target models.TargetType, targetID uint) (models.ReactionType, error) {
	var row models.Reaction
	err := r.db.WithContext(ctx).
		Select("reaction_type").
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target, targetID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.ReactionType, nil
}

// Summary counts reactions by type, with every known type present, and
// lists the most recent reactors.
func (r *reactionRepository) Summary(ctx context.Context, target models.TargetType, targetID uint, recent int) (*models.ReactionSummary, error) {
	db := readDB(r.db).WithContext(ctx)

	var groups []struct {
		ReactionType models.ReactionType
		Count        int64
	}
	if err := db.Model(&models.Reaction{}).
		Select("reaction_type, COUNT(*) AS count").
		Where("target_type = ? AND target_id = ?", target, targetID).
		Group("reaction_type").
		Scan(&groups).Error; err != nil {
		return nil, err
	}

	summary := &models.ReactionSummary{
		ByType:         make(map[models.ReactionType]int64, len(models.ReactionTypes)),
		RecentReactors: []models.Reactor{},
	}
	for _, t := range models.ReactionTypes {
		summary.ByType[t] = 0
	}
	for _, g := range groups {
		summary.ByType[g.ReactionType] = g.Count
		summary.Total += g.Count
	}

	if recent <= 0 {
		return summary, nil
	}
	var rows []models.Reaction
	if err := db.Preload("User").
		Where("target_type = ? AND target_id = ?", target, targetID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(recent).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		summary.RecentReactors = append(summary.RecentReactors, models.Reactor{
			UserID:       row.UserID,
			Handle:       row.User.Handle(),
			AvatarURL:    row.User.AvatarURL,
			ReactionType: row.ReactionType,
			ReactedAt:    row.CreatedAt,
		})
	}
	return summary, nil
}
