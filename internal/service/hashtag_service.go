package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"collabfeed/internal/cache"
	"collabfeed/internal/models"
	"collabfeed/internal/repository"
	"collabfeed/internal/validation"

	"gorm.io/gorm"
)

const (
	DefaultHashtagLimit = 10
	trendingFamily      = "trending_hashtags"
)

type HashtagService struct {
	hashtagRepo repository.HashtagRepository
	cache       *cache.Store
	trendingTTL time.Duration
}

// HashtagPosts is a page of posts carrying a hashtag. Hashtag is nil when no
// such tag was ever used.
type HashtagPosts struct {
	Hashtag *models.Hashtag
	Posts   []*models.Post
	Meta    PageMeta
}

// NewHashtagService creates a HashtagService. store may be nil; ttl <= 0
// uses cache.TrendingHashtagsTTL.
func NewHashtagService(hashtagRepo repository.HashtagRepository, store *cache.Store, ttl time.Duration) *HashtagService {
	if ttl <= 0 {
		ttl = cache.TrendingHashtagsTTL
	}
	return &HashtagService{
		hashtagRepo: hashtagRepo,
		cache:       store,
		trendingTTL: ttl,
	}
}

// normalizeTag lowercases a tag and drops a leading '#'.
func normalizeTag(raw string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
}

// GetTrendingHashtags returns the most used hashtags, served from Redis when
// cached.
func (s *HashtagService) GetTrendingHashtags(ctx context.Context, limit int) ([]models.Hashtag, error) {
	limit = clampLimit(limit, DefaultHashtagLimit)
	var tags []models.Hashtag
	err := s.cache.Aside(ctx, trendingFamily, cache.TrendingHashtagsKey(limit), &tags, s.trendingTTL, func() error {
		var fetchErr error
		tags, fetchErr = s.hashtagRepo.Trending(ctx, limit)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []models.Hashtag{}
	}
	return tags, nil
}

func (s *HashtagService) SearchHashtags(ctx context.Context, query string, limit int) ([]models.Hashtag, error) {
	if err := validation.ValidateSearchQuery(query); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	q := normalizeTag(query)
	if q == "" {
		return []models.Hashtag{}, nil
	}
	tags, err := s.hashtagRepo.Search(ctx, q, clampLimit(limit, DefaultHashtagLimit))
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []models.Hashtag{}
	}
	return tags, nil
}

// GetPostsByHashtag pages through the posts tagged name, newest first. An
// unknown tag yields an empty page rather than an error.
func (s *HashtagService) GetPostsByHashtag(ctx context.Context, name string, page PageRequest) (*HashtagPosts, error) {
	out := &HashtagPosts{Posts: []*models.Post{}, Meta: page.Meta(0)}
	normalized := normalizeTag(name)
	if normalized == "" {
		return out, nil
	}

	tag, err := s.hashtagRepo.GetByNormalizedName(ctx, normalized)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	out.Hashtag = tag

	posts, err := s.hashtagRepo.ListPosts(ctx, tag.ID, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	total, err := s.hashtagRepo.CountPosts(ctx, tag.ID)
	if err != nil {
		return nil, err
	}
	out.Posts = nonNilPosts(posts)
	out.Meta = page.Meta(total)
	return out, nil
}
