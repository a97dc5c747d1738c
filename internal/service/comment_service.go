package service

import (
	"context"

	"collabfeed/internal/models"
	"collabfeed/internal/observability"
	"collabfeed/internal/repository"
	"collabfeed/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	PostID   uint
	AuthorID uint
	Content  string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validation.ValidateCommentContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, notFound(err, "Post", in.PostID)
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		AuthorID: in.AuthorID,
		Content:  in.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, notFound(err, "Post", in.PostID)
	}
	observability.EngagementEvents.WithLabelValues("comment").Inc()

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return comment, nil
	}
	return created, nil
}

// GetComments lists a post's comments newest first.
func (s *CommentService) GetComments(ctx context.Context, postID uint, page PageRequest) ([]*models.Comment, PageMeta, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, PageMeta{}, notFound(err, "Post", postID)
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID, page.Limit, page.Offset())
	if err != nil {
		return nil, PageMeta{}, err
	}
	total, err := s.commentRepo.CountByPost(ctx, postID)
	if err != nil {
		return nil, PageMeta{}, err
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return comments, page.Meta(total), nil
}

// DeleteComment is author-only.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return notFound(err, "Comment", in.CommentID)
	}
	if comment.AuthorID != in.UserID {
		return models.NewForbiddenError("Not authorized to delete this comment")
	}
	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		return notFound(err, "Comment", in.CommentID)
	}
	observability.EngagementEvents.WithLabelValues("uncomment").Inc()
	return nil
}
