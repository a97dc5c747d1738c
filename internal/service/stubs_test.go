package service

import (
	"context"
	"errors"
	"testing"

	"collabfeed/internal/models"
	"collabfeed/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	listFn    func(context.Context, repository.PostFilter, int, int) ([]*models.Post, error)
	countFn   func(context.Context, repository.PostFilter) (int64, error)
	deleteFn  func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, filter, limit, offset)
}
func (s *postRepoStub) Count(ctx context.Context, filter repository.PostFilter) (int64, error) {
	return s.countFn(ctx, filter)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn: func(_ context.Context, _ repository.PostFilter, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		countFn:  func(_ context.Context, _ repository.PostFilter) (int64, error) { return 0, nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// connectionRepoStub is a stub for repository.ConnectionRepository.
type connectionRepoStub struct {
	acceptedFn func(context.Context, uint) ([]uint, error)
}

func (s *connectionRepoStub) AcceptedConnectionIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.acceptedFn(ctx, userID)
}

func noopConnectionRepo() *connectionRepoStub {
	return &connectionRepoStub{
		acceptedFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
	}
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	getNicheFn  func(context.Context, uint) (string, error)
	getNichesFn func(context.Context, []uint) (map[uint]string, error)
}

func (s *profileRepoStub) GetNiche(ctx context.Context, userID uint) (string, error) {
	return s.getNicheFn(ctx, userID)
}
func (s *profileRepoStub) GetNiches(ctx context.Context, userIDs []uint) (map[uint]string, error) {
	return s.getNichesFn(ctx, userIDs)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getNicheFn:  func(_ context.Context, _ uint) (string, error) { return "", nil },
		getNichesFn: func(_ context.Context, _ []uint) (map[uint]string, error) { return map[uint]string{}, nil },
	}
}

// reactionRepoStub is a stub for repository.ReactionRepository.
type reactionRepoStub struct {
	upsertFn  func(context.Context, uint, models.TargetType, uint, models.ReactionType) (bool, error)
	removeFn  func(context.Context, uint, models.TargetType, uint) (bool, error)
	getUserFn func(context.Context, uint, models.TargetType, uint) (models.ReactionType, error)
	summaryFn func(context.Context, models.TargetType, uint, int) (*models.ReactionSummary, error)
}

func (s *reactionRepoStub) Upsert(ctx context.Context, userID uint, target models.TargetType, targetID uint, reaction models.ReactionType) (bool, error) {
	return s.upsertFn(ctx, userID, target, targetID, reaction)
}
func (s *reactionRepoStub) Remove(ctx context.Context, userID uint, target models.TargetType, targetID uint) (bool, error) {
	return s.removeFn(ctx, userID, target, targetID)
}
func (s *reactionRepoStub) GetUserReaction(ctx context.Context, userID uint, target models.TargetType, targetID uint) (models.ReactionType, error) {
	return s.getUserFn(ctx, userID, target, targetID)
}
func (s *reactionRepoStub) Summary(ctx context.Context, target models.TargetType, targetID uint, recent int) (*models.ReactionSummary, error) {
	return s.summaryFn(ctx, target, targetID, recent)
}

func noopReactionRepo() *reactionRepoStub {
	return &reactionRepoStub{
		upsertFn: func(_ context.Context, _ uint, _ models.TargetType, _ uint, _ models.ReactionType) (bool, error) {
			return true, nil
		},
		removeFn: func(_ context.Context, _ uint, _ models.TargetType, _ uint) (bool, error) { return true, nil },
		getUserFn: func(_ context.Context, _ uint, _ models.TargetType, _ uint) (models.ReactionType, error) {
			return "", nil
		},
		summaryFn: func(_ context.Context, _ models.TargetType, _ uint, _ int) (*models.ReactionSummary, error) {
			return emptyReactionSummary(), nil
		},
	}
}

// saveRepoStub is a stub for repository.SaveRepository.
type saveRepoStub struct {
	saveFn             func(context.Context, uint, uint, *uint) error
	unsaveFn           func(context.Context, uint, uint) (bool, error)
	isSavedFn          func(context.Context, uint, uint) (bool, error)
	listByUserFn       func(context.Context, uint, int, int) ([]*models.PostSave, error)
	countByUserFn      func(context.Context, uint) (int64, error)
	listByCollectionFn func(context.Context, uint, *uint) ([]*models.PostSave, error)
}

func (s *saveRepoStub) Save(ctx context.Context, postID, userID uint, collectionID *uint) error {
	return s.saveFn(ctx, postID, userID, collectionID)
}
func (s *saveRepoStub) Unsave(ctx context.Context, postID, userID uint) (bool, error) {
	return s.unsaveFn(ctx, postID, userID)
}
func (s *saveRepoStub) IsSaved(ctx context.Context, postID, userID uint) (bool, error) {
	return s.isSavedFn(ctx, postID, userID)
}
func (s *saveRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.PostSave, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *saveRepoStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}
func (s *saveRepoStub) ListByCollection(ctx context.Context, userID uint, collectionID *uint) ([]*models.PostSave, error) {
	return s.listByCollectionFn(ctx, userID, collectionID)
}

func noopSaveRepo() *saveRepoStub {
	return &saveRepoStub{
		saveFn:        func(_ context.Context, _, _ uint, _ *uint) error { return nil },
		unsaveFn:      func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isSavedFn:     func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		listByUserFn:  func(_ context.Context, _ uint, _, _ int) ([]*models.PostSave, error) { return nil, nil },
		countByUserFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		listByCollectionFn: func(_ context.Context, _ uint, _ *uint) ([]*models.PostSave, error) {
			return nil, nil
		},
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	listByPostFn  func(context.Context, uint, int, int) ([]*models.Comment, error)
	countByPostFn func(context.Context, uint) (int64, error)
	deleteFn      func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) CountByPost(ctx context.Context, postID uint) (int64, error) {
	return s.countByPostFn(ctx, postID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:     func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn:  func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, error) { return nil, nil },
		countByPostFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
	}
}

// collectionRepoStub is a stub for repository.CollectionRepository.
type collectionRepoStub struct {
	createFn     func(context.Context, *models.Collection) error
	getByIDFn    func(context.Context, uint) (*models.Collection, error)
	listByUserFn func(context.Context, uint) ([]*models.Collection, error)
	updateFn     func(context.Context, *models.Collection) error
	deleteFn     func(context.Context, uint) error
}

func (s *collectionRepoStub) Create(ctx context.Context, c *models.Collection) error {
	return s.createFn(ctx, c)
}
func (s *collectionRepoStub) GetByID(ctx context.Context, id uint) (*models.Collection, error) {
	return s.getByIDFn(ctx, id)
}
func (s *collectionRepoStub) ListByUser(ctx context.Context, userID uint) ([]*models.Collection, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *collectionRepoStub) Update(ctx context.Context, c *models.Collection) error {
	return s.updateFn(ctx, c)
}
func (s *collectionRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCollectionRepo() *collectionRepoStub {
	return &collectionRepoStub{
		createFn:     func(_ context.Context, _ *models.Collection) error { return nil },
		getByIDFn:    func(_ context.Context, _ uint) (*models.Collection, error) { return nil, gorm.ErrRecordNotFound },
		listByUserFn: func(_ context.Context, _ uint) ([]*models.Collection, error) { return nil, nil },
		updateFn:     func(_ context.Context, _ *models.Collection) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn func(context.Context, uint) (*models.User, error)
	resolveFn func(context.Context, string) (*models.User, error)
	searchFn  func(context.Context, string, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) ResolveHandlePrefix(ctx context.Context, token string) (*models.User, error) {
	return s.resolveFn(ctx, token)
}
func (s *userRepoStub) SearchByHandlePrefix(ctx context.Context, query string, limit int) ([]models.User, error) {
	return s.searchFn(ctx, query, limit)
}

func missingPost(_ context.Context, _ uint) (*models.Post, error) {
	return nil, gorm.ErrRecordNotFound
}

// assertAppError asserts that err is an AppError carrying code.
func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
