package service

import (
	"context"
	"log/slog"

	"collabfeed/internal/middleware"
	"collabfeed/internal/models"
	"collabfeed/internal/observability"
	"collabfeed/internal/repository"
	"collabfeed/internal/validation"
)

// RecentReactorsLimit caps the recent reactors list of a reaction summary.
const RecentReactorsLimit = 10

// EngagementService handles likes and reactions on posts. A like is a
// reaction of type "like", so like_count has a single source of rows.
type EngagementService struct {
	postRepo     repository.PostRepository
	reactionRepo repository.ReactionRepository
	saveRepo     repository.SaveRepository
}

type ReactInput struct {
	PostID       uint
	UserID       uint
	ReactionType string
}

// InteractionStatus is the viewer's relationship to a post.
type InteractionStatus struct {
	Liked bool `json:"liked"`
	Saved bool `json:"saved"`
}

func NewEngagementService(
	postRepo repository.PostRepository,
	reactionRepo repository.ReactionRepository,
	saveRepo repository.SaveRepository,
) *EngagementService {
	return &EngagementService{
		postRepo:     postRepo,
		reactionRepo: reactionRepo,
		saveRepo:     saveRepo,
	}
}

func (s *EngagementService) requirePost(ctx context.Context, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return notFound(err, "Post", postID)
	}
	return nil
}

// LikePost is a no-op when the user already reacted to the post in any way.
func (s *EngagementService) LikePost(ctx context.Context, postID, userID uint) error {
	if err := s.requirePost(ctx, postID); err != nil {
		return err
	}
	existing, err := s.reactionRepo.GetUserReaction(ctx, userID, models.TargetPost, postID)
	if err != nil {
		return err
	}
	if existing != "" {
		return nil
	}
	created, err := s.reactionRepo.Upsert(ctx, userID, models.TargetPost, postID, models.ReactionLike)
	if err != nil {
		return err
	}
	if created {
		observability.EngagementEvents.WithLabelValues("like").Inc()
	}
	return nil
}

// UnlikePost removes the user's reaction; unliking twice is a no-op.
func (s *EngagementService) UnlikePost(ctx context.Context, postID, userID uint) error {
	removed, err := s.reactionRepo.Remove(ctx, userID, models.TargetPost, postID)
	if err != nil {
		return err
	}
	if removed {
		observability.EngagementEvents.WithLabelValues("unlike").Inc()
	}
	return nil
}

func (s *EngagementService) HasLikedPost(ctx context.Context, postID, userID uint) (bool, error) {
	rt, err := s.reactionRepo.GetUserReaction(ctx, userID, models.TargetPost, postID)
	if err != nil {
		return false, err
	}
	return rt != "", nil
}

// ReactToPost sets the user's reaction. Only the first reaction counts
// towards like_count; changing the type leaves it alone.
func (s *EngagementService) ReactToPost(ctx context.Context, in ReactInput) (models.ReactionType, error) {
	rt, err := validation.ParseReactionType(in.ReactionType)
	if err != nil {
		return "", models.NewValidationError(err.Error())
	}
	if err := s.requirePost(ctx, in.PostID); err != nil {
		return "", err
	}
	created, err := s.reactionRepo.Upsert(ctx, in.UserID, models.TargetPost, in.PostID, rt)
	if err != nil {
		return "", err
	}
	if created {
		observability.EngagementEvents.WithLabelValues("react").Inc()
	} else {
		observability.EngagementEvents.WithLabelValues("retype").Inc()
	}
	return rt, nil
}

func (s *EngagementService) RemoveReaction(ctx context.Context, postID, userID uint) error {
	removed, err := s.reactionRepo.Remove(ctx, userID, models.TargetPost, postID)
	if err != nil {
		return err
	}
	if removed {
		observability.EngagementEvents.WithLabelValues("unreact").Inc()
	}
	return nil
}

// GetPostReactions never fails; lookup errors yield an empty summary.
func (s *EngagementService) GetPostReactions(ctx context.Context, postID uint) *models.ReactionSummary {
	summary, err := s.reactionRepo.Summary(ctx, models.TargetPost, postID, RecentReactorsLimit)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "Failed to load reaction summary",
			slog.Uint64("post_id", uint64(postID)),
			slog.String("error", err.Error()),
		)
		return emptyReactionSummary()
	}
	return summary
}

// GetUserReaction returns nil when the user has no reaction or the lookup
// fails.
func (s *EngagementService) GetUserReaction(ctx context.Context, postID, userID uint) *models.ReactionType {
	rt, err := s.reactionRepo.GetUserReaction(ctx, userID, models.TargetPost, postID)
	if err != nil || rt == "" {
		return nil
	}
	return &rt
}

// GetInteractionStatus degrades to {false, false} on lookup errors.
func (s *EngagementService) GetInteractionStatus(ctx context.Context, postID, userID uint) InteractionStatus {
	liked, err := s.HasLikedPost(ctx, postID, userID)
	if err != nil {
		return InteractionStatus{}
	}
	saved, err := s.saveRepo.IsSaved(ctx, postID, userID)
	if err != nil {
		return InteractionStatus{}
	}
	return InteractionStatus{Liked: liked, Saved: saved}
}

func emptyReactionSummary() *models.ReactionSummary {
	byType := make(map[models.ReactionType]int64, len(models.ReactionTypes))
	for _, rt := range models.ReactionTypes {
		byType[rt] = 0
	}
	return &models.ReactionSummary{ByType: byType, RecentReactors: []models.Reactor{}}
}
