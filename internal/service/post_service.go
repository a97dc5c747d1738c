package service

import (
	"context"
	"log/slog"

	"collabfeed/internal/extract"
	"collabfeed/internal/middleware"
	"collabfeed/internal/models"
	"collabfeed/internal/repository"
	"collabfeed/internal/validation"
)

// EntityExtractor derives the hashtag and mention records of a new post.
// Implementations must not panic or fail the caller.
type EntityExtractor interface {
	ExtractSafely(ctx context.Context, post *models.Post) extract.Result
}

type PostService struct {
	postRepo  repository.PostRepository
	extractor EntityExtractor
}

type CreatePostInput struct {
	AuthorID  uint
	Content   string
	PostType  string
	MediaURLs []string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(postRepo repository.PostRepository, extractor EntityExtractor) *PostService {
	return &PostService{
		postRepo:  postRepo,
		extractor: extractor,
	}
}

// CreatePost stores the post and then extracts its hashtags and mentions.
// Extraction problems are logged by the extractor and never fail the create.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	postType, err := validation.NormalizePostType(in.PostType)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateMediaURLs(in.MediaURLs); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	mediaURLs := in.MediaURLs
	if mediaURLs == nil {
		mediaURLs = []string{}
	}
	post := &models.Post{
		AuthorID:  in.AuthorID,
		Content:   in.Content,
		PostType:  postType,
		MediaURLs: mediaURLs,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	if s.extractor != nil {
		s.extractor.ExtractSafely(ctx, post)
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		// The post is stored; answer with what we have.
		middleware.Logger.WarnContext(ctx, "Failed to reload created post",
			slog.Uint64("post_id", uint64(post.ID)),
			slog.String("error", err.Error()),
		)
		return post, nil
	}
	return created, nil
}

func (s *PostService) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, "Post", postID)
	}
	return post, nil
}

// DeletePost removes a post and everything hanging off it. Only the author
// may delete.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.GetPost(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.AuthorID != in.UserID {
		return models.NewForbiddenError("Not authorized to delete this post")
	}
	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return notFound(err, "Post", in.PostID)
	}
	return nil
}
