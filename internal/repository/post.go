package repository

import (
	"context"

	"collabfeed/internal/models"
	"collabfeed/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows feed listings.
type PostFilter struct {
	// PostType restricts to one type when set.
	PostType models.PostType
	// ExcludeAuthorID drops posts written by this user when non-zero.
	ExcludeAuthorID uint
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, error)
	Count(ctx context.Context, filter PostFilter) (int64, error)
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	ctx, span := observability.TraceRepositoryMethod(ctx, "Create", "posts")
	defer span.End()
	defer observability.TrackQuery("create", "posts")()

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogCreate(ctx, map[string]interface{}{"post_id": post.ID, "author_id": post.AuthorID})
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := readDB(r.db).WithContext(ctx).
		Preload("Author").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns posts newest-first. The id tiebreak keeps the order total so
// equal timestamps still page deterministically.
func (r *postRepository) List(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "List", "posts")
	defer span.End()
	span.SetAttributes(attribute.Int("db.limit", limit), attribute.Int("db.offset", offset))
	defer observability.TrackQuery("list", "posts")()

	var posts []*models.Post
	err := applyPostFilter(readDB(r.db).WithContext(ctx), filter).
		Preload("Author").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Count(ctx context.Context, filter PostFilter) (int64, error) {
	defer observability.TrackQuery("count", "posts")()

	var total int64
	err := applyPostFilter(readDB(r.db).WithContext(ctx).Model(&models.Post{}), filter).
		Count(&total).Error
	return total, err
}

func applyPostFilter(db *gorm.DB, filter PostFilter) *gorm.DB {
	if filter.PostType != "" {
		db = db.Where("post_type = ?", filter.PostType)
	}
	if filter.ExcludeAuthorID != 0 {
		db = db.Where("author_id <> ?", filter.ExcludeAuthorID)
	}
	return db
}

// Delete removes the post and every row hanging off it in one transaction.
// Hashtag usage counts are left as they are.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := observability.TraceRepositoryMethod(ctx, "Delete", "posts")
	defer span.End()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", id)
		if err := tx.Where("target_type = ? AND target_id IN (?)", models.TargetComment, commentIDs).
			Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetPost, id).
			Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		for _, child := range []interface{}{&models.Comment{}, &models.PostSave{}, &models.PostHashtag{}, &models.Mention{}} {
			if err := tx.Where("post_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return err
	}
	r.log.LogDelete(ctx, map[string]interface{}{"post_id": id})
	return nil
}
