package repository

import (
	"context"
	"strings"
	"time"

	"collabfeed/internal/models"
	"collabfeed/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HashtagOccurrence is one #tag found in a post, with its original casing.
type HashtagOccurrence struct {
	Name  string
	Start int
	End   int
}

// MentionOccurrence is one @token already resolved to a user.
type MentionOccurrence struct {
	UserID uint
	Start  int
	End    int
}

// EntitySet is what SaveEntities wrote.
type EntitySet struct {
	Hashtags []models.PostHashtag
	Mentions []models.Mention
}

// EntityRepository writes the hashtag and mention side records of a post.
type EntityRepository interface {
	SaveEntities(ctx context.Context, postID, mentionerID uint, tags []HashtagOccurrence, mentions []MentionOccurrence) (*EntitySet, error)
}

type entityRepository struct {
	db *gorm.DB
}

// NewEntityRepository creates a new EntityRepository
func NewEntityRepository(db *gorm.DB) EntityRepository {
	return &entityRepository{db: db}
}

// SaveEntities writes all side records in one transaction, in occurrence
// order. Each hashtag occurrence upserts by normalized name and bumps
// usage_count by one, repeats included; the first writer's casing is kept.
func (r *entityRepository) SaveEntities(ctx context.Context, postID, mentionerID uint, tags []HashtagOccurrence, mentions []MentionOccurrence) (*EntitySet, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "SaveEntities", "post_hashtags")
	defer span.End()
	span.SetAttributes(
		attribute.Int("entities.hashtags", len(tags)),
		attribute.Int("entities.mentions", len(mentions)),
	)

	out := &EntitySet{
		Hashtags: make([]models.PostHashtag, 0, len(tags)),
		Mentions: make([]models.Mention, 0, len(mentions)),
	}
	if len(tags) == 0 && len(mentions) == 0 {
		return out, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, occ := range tags {
			tag, err := upsertHashtag(tx, occ.Name)
			if err != nil {
				return err
			}
			link := models.PostHashtag{
				PostID:        postID,
				HashtagID:     tag.ID,
				PositionStart: occ.Start,
				PositionEnd:   occ.End,
			}
			if err := tx.Omit(clause.Associations).Create(&link).Error; err != nil {
				return err
			}
			link.Hashtag = tag
			out.Hashtags = append(out.Hashtags, link)
		}

		for _, occ := range mentions {
			m := models.Mention{
				PostID:          postID,
				MentionedUserID: occ.UserID,
				MentionerUserID: mentionerID,
				PositionStart:   occ.Start,
				PositionEnd:     occ.End,
			}
			if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
				return err
			}
			out.Mentions = append(out.Mentions, m)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return out, nil
}

func upsertHashtag(tx *gorm.DB, name string) (*models.Hashtag, error) {
	normalized := strings.ToLower(name)
	row := models.Hashtag{Name: name, NormalizedName: normalized, UsageCount: 1}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "normalized_name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"usage_count": gorm.Expr("hashtags.usage_count + 1"),
			"updated_at":  time.Now(),
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	var tag models.Hashtag
	if err := tx.Where("normalized_name = ?", normalized).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}
