package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"collabfeed/internal/featureflags"
	"collabfeed/internal/middleware"
	"collabfeed/internal/models"
	"collabfeed/internal/observability"
	"collabfeed/internal/ranking"
	"collabfeed/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FeedQuery selects a feed page.
type FeedQuery struct {
	ViewerID uint
	PostType models.PostType
	Page     PageRequest
	// Explain attaches per-post score breakdowns to personalized results.
	Explain bool
}

// FeedResult is one page of a feed.
type FeedResult struct {
	Posts []*models.Post
	Meta  PageMeta
	// Personalized is false when the chronological feed was served.
	Personalized bool
	// Scores is keyed by post id and only set for explained personalized pages.
	Scores map[uint]ranking.Breakdown
}

// rankingError tags a personalization failure with the stage that failed.
type rankingError struct {
	stage string
	err   error
}

func (e *rankingError) Error() string { return fmt.Sprintf("%s: %v", e.stage, e.err) }
func (e *rankingError) Unwrap() error { return e.err }

// FeedService serves the chronological and personalized feeds.
type FeedService struct {
	posts       repository.PostRepository
	connections repository.ConnectionRepository
	profiles    repository.ProfileRepository
	flags       *featureflags.Manager
	weights     ranking.Weights
	overfetch   int
	now         func() time.Time
}

// NewFeedService creates a FeedService scoring with ranking.DefaultWeights.
// flags may be nil, in which case personalization is on.
func NewFeedService(
	posts repository.PostRepository,
	connections repository.ConnectionRepository,
	profiles repository.ProfileRepository,
	flags *featureflags.Manager,
	overfetch int,
) *FeedService {
	return &FeedService{
		posts:       posts,
		connections: connections,
		profiles:    profiles,
		flags:       flags,
		weights:     ranking.DefaultWeights,
		overfetch:   overfetch,
		now:         time.Now,
	}
}

// WithClock replaces the clock used for age decay.
func (s *FeedService) WithClock(now func() time.Time) *FeedService {
	s.now = now
	return s
}

// GetFeed returns posts newest-first, optionally filtered by type.
func (s *FeedService) GetFeed(ctx context.Context, postType models.PostType, page PageRequest) (*FeedResult, error) {
	observability.FeedRequests.WithLabelValues("chronological").Inc()
	return s.chronological(ctx, postType, page)
}

func (s *FeedService) chronological(ctx context.Context, postType models.PostType, page PageRequest) (*FeedResult, error) {
	filter := repository.PostFilter{PostType: postType}
	posts, err := s.posts.List(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &FeedResult{Posts: nonNilPosts(posts), Meta: page.Meta(total)}, nil
}

// GetPersonalizedFeed ranks a newest-first candidate window of other users'
// posts for the viewer and pages through the ranked window. Meta.Total
// counts every eligible post, not just the window, so pages past the window
// come back empty. Any failure while loading signals or candidates serves
// the chronological feed instead.
func (s *FeedService) GetPersonalizedFeed(ctx context.Context, q FeedQuery) (*FeedResult, error) {
	if !s.flags.EnabledOr(featureflags.PersonalizedFeed, q.ViewerID, true) {
		observability.FeedRequests.WithLabelValues("chronological").Inc()
		return s.chronological(ctx, q.PostType, q.Page)
	}

	span, ctx := observability.NewSpan(ctx, "feed.GetPersonalizedFeed")
	defer span.End()
	span.AddAttributes(
		attribute.Int64("feed.viewer_id", int64(q.ViewerID)),
		attribute.Int("feed.page", q.Page.Page),
		attribute.Int("feed.limit", q.Page.Limit),
	)

	start := time.Now()
	res, err := s.rank(ctx, q)
	observability.FeedRankingDuration.Observe(time.Since(start).Seconds())
	if err == nil {
		observability.FeedRequests.WithLabelValues("personalized").Inc()
		return res, nil
	}

	stage := "unknown"
	if re, ok := err.(*rankingError); ok {
		stage = re.stage
	}
	span.SetError(err)
	observability.FeedRankingFallbacks.WithLabelValues(stage).Inc()
	observability.FeedRequests.WithLabelValues("fallback").Inc()
	middleware.Logger.WarnContext(ctx, "Personalized feed degraded to chronological",
		slog.Uint64("viewer_id", uint64(q.ViewerID)),
		slog.String("stage", stage),
		slog.String("error", err.Error()),
	)
	return s.chronological(ctx, q.PostType, q.Page)
}

func (s *FeedService) rank(ctx context.Context, q FeedQuery) (*FeedResult, error) {
	connected, err := s.connections.AcceptedConnectionIDs(ctx, q.ViewerID)
	if err != nil {
		return nil, &rankingError{stage: "connections", err: err}
	}
	viewerNiche, err := s.profiles.GetNiche(ctx, q.ViewerID)
	if err != nil {
		return nil, &rankingError{stage: "viewer", err: err}
	}

	filter := repository.PostFilter{PostType: q.PostType, ExcludeAuthorID: q.ViewerID}
	candidates, err := s.posts.List(ctx, filter, ranking.Window(q.Page.Limit, s.overfetch), 0)
	if err != nil {
		return nil, &rankingError{stage: "candidates", err: err}
	}
	observability.FeedCandidateWindow.Observe(float64(len(candidates)))

	signals := ranking.Signals{
		ViewerID:     q.ViewerID,
		ViewerNiche:  viewerNiche,
		Connected:    make(map[uint]struct{}, len(connected)),
		AuthorNiches: map[uint]string{},
	}
	for _, id := range connected {
		signals.Connected[id] = struct{}{}
	}
	// Author niches only matter when the viewer has one.
	if viewerNiche != "" && len(candidates) > 0 {
		signals.AuthorNiches, err = s.profiles.GetNiches(ctx, authorIDs(candidates))
		if err != nil {
			return nil, &rankingError{stage: "author_niches", err: err}
		}
	}

	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return nil, &rankingError{stage: "count", err: err}
	}

	scored := ranking.Page(s.weights.Rank(candidates, signals, s.now()), q.Page.Page, q.Page.Limit)
	res := &FeedResult{
		Posts:        make([]*models.Post, 0, len(scored)),
		Meta:         q.Page.Meta(total),
		Personalized: true,
	}
	if q.Explain {
		res.Scores = make(map[uint]ranking.Breakdown, len(scored))
	}
	for _, sp := range scored {
		res.Posts = append(res.Posts, sp.Post)
		if q.Explain {
			res.Scores[sp.Post.ID] = sp.Breakdown
		}
	}
	return res, nil
}

func authorIDs(posts []*models.Post) []uint {
	seen := make(map[uint]struct{}, len(posts))
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; ok {
			continue
		}
		seen[p.AuthorID] = struct{}{}
		ids = append(ids, p.AuthorID)
	}
	return ids
}

func nonNilPosts(posts []*models.Post) []*models.Post {
	if posts == nil {
		return []*models.Post{}
	}
	return posts
}
