package service

import (
	"context"

	"collabfeed/internal/models"
	"collabfeed/internal/observability"
	"collabfeed/internal/repository"
	"collabfeed/internal/validation"
)

// CollectionService owns saved posts and the collections they are filed in.
// Every collection operation is scoped to its owner; other users' collections
// look like they don't exist.
type CollectionService struct {
	postRepo       repository.PostRepository
	saveRepo       repository.SaveRepository
	collectionRepo repository.CollectionRepository
}

type SavePostInput struct {
	PostID       uint
	UserID       uint
	CollectionID *uint
}

type CreateCollectionInput struct {
	UserID      uint
	Name        string
	Description string
}

// UpdateCollectionInput leaves nil fields unchanged.
type UpdateCollectionInput struct {
	UserID       uint
	CollectionID uint
	Name         *string
	Description  *string
}

func NewCollectionService(
	postRepo repository.PostRepository,
	saveRepo repository.SaveRepository,
	collectionRepo repository.CollectionRepository,
) *CollectionService {
	return &CollectionService{
		postRepo:       postRepo,
		saveRepo:       saveRepo,
		collectionRepo: collectionRepo,
	}
}

// SavePost saves a post for the user. Saving again moves the existing save
// into CollectionID when one is given.
func (s *CollectionService) SavePost(ctx context.Context, in SavePostInput) error {
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return notFound(err, "Post", in.PostID)
	}
	if in.CollectionID != nil {
		if _, err := s.ownedCollection(ctx, *in.CollectionID, in.UserID); err != nil {
			return err
		}
	}
	if err := s.saveRepo.Save(ctx, in.PostID, in.UserID, in.CollectionID); err != nil {
		return err
	}
	observability.EngagementEvents.WithLabelValues("save").Inc()
	return nil
}

func (s *CollectionService) UnsavePost(ctx context.Context, postID, userID uint) error {
	removed, err := s.saveRepo.Unsave(ctx, postID, userID)
	if err != nil {
		return err
	}
	if removed {
		observability.EngagementEvents.WithLabelValues("unsave").Inc()
	}
	return nil
}

func (s *CollectionService) HasSavedPost(ctx context.Context, postID, userID uint) (bool, error) {
	return s.saveRepo.IsSaved(ctx, postID, userID)
}

func (s *CollectionService) GetSavedPosts(ctx context.Context, userID uint, page PageRequest) ([]*models.PostSave, PageMeta, error) {
	saves, err := s.saveRepo.ListByUser(ctx, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, PageMeta{}, err
	}
	total, err := s.saveRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, PageMeta{}, err
	}
	if saves == nil {
		saves = []*models.PostSave{}
	}
	return saves, page.Meta(total), nil
}

// GetSavedPostsByCollection lists the saves filed in collectionID, or the
// unfiled saves when collectionID is nil.
func (s *CollectionService) GetSavedPostsByCollection(ctx context.Context, userID uint, collectionID *uint) ([]*models.PostSave, error) {
	if collectionID != nil {
		if _, err := s.ownedCollection(ctx, *collectionID, userID); err != nil {
			return nil, err
		}
	}
	saves, err := s.saveRepo.ListByCollection(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}
	if saves == nil {
		saves = []*models.PostSave{}
	}
	return saves, nil
}

func (s *CollectionService) CreateCollection(ctx context.Context, in CreateCollectionInput) (*models.Collection, error) {
	if err := validation.ValidateCollectionName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateCollectionDescription(in.Description); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	c := &models.Collection{
		UserID:      in.UserID,
		Name:        in.Name,
		Description: in.Description,
	}
	if err := s.collectionRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CollectionService) GetCollections(ctx context.Context, userID uint) ([]*models.Collection, error) {
	out, err := s.collectionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*models.Collection{}
	}
	return out, nil
}

// GetCollection returns the collection with its saved posts.
func (s *CollectionService) GetCollection(ctx context.Context, collectionID, userID uint) (*models.Collection, error) {
	return s.ownedCollection(ctx, collectionID, userID)
}

func (s *CollectionService) UpdateCollection(ctx context.Context, in UpdateCollectionInput) (*models.Collection, error) {
	c, err := s.ownedCollection(ctx, in.CollectionID, in.UserID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if err := validation.ValidateCollectionName(*in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		c.Name = *in.Name
	}
	if in.Description != nil {
		if err := validation.ValidateCollectionDescription(*in.Description); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		c.Description = *in.Description
	}
	if err := s.collectionRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCollection removes the collection; its saves stay, unfiled.
func (s *CollectionService) DeleteCollection(ctx context.Context, collectionID, userID uint) error {
	if _, err := s.ownedCollection(ctx, collectionID, userID); err != nil {
		return err
	}
	if err := s.collectionRepo.Delete(ctx, collectionID); err != nil {
		return notFound(err, "Collection", collectionID)
	}
	return nil
}

func (s *CollectionService) ownedCollection(ctx context.Context, collectionID, userID uint) (*models.Collection, error) {
	c, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, notFound(err, "Collection", collectionID)
	}
	if c.UserID != userID {
		return nil, models.NewNotFoundError("Collection", collectionID)
	}
	return c, nil
}
