package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"collabfeed/internal/extract"
	"collabfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type extractorStub struct {
	calls []*models.Post
	res   extract.Result
}

func (s *extractorStub) ExtractSafely(_ context.Context, post *models.Post) extract.Result {
	s.calls = append(s.calls, post)
	return s.res
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo(), &extractorStub{})
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{name: "empty content", input: CreatePostInput{AuthorID: 1, Content: ""}},
		{name: "blank content", input: CreatePostInput{AuthorID: 1, Content: "   \n"}},
		{name: "content too long", input: CreatePostInput{AuthorID: 1, Content: strings.Repeat("x", 5001)}},
		{name: "invalid post type", input: CreatePostInput{AuthorID: 1, Content: "hi", PostType: "banana"}},
		{name: "relative media url", input: CreatePostInput{AuthorID: 1, Content: "hi", MediaURLs: []string{"/img.png"}}},
		{name: "too many media urls", input: CreatePostInput{AuthorID: 1, Content: "hi", MediaURLs: make([]string, 11)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, tt.input)
			assertAppError(t, err, models.CodeValidation)
		})
	}
}

func TestPostService_CreatePost_ExtractsAndReloads(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	var created *models.Post
	repo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 42
		created = p
		return nil
	}
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		reloaded := *created
		reloaded.Author = models.User{ID: created.AuthorID, Email: "ana@example.com"}
		return &reloaded, nil
	}
	ext := &extractorStub{}

	svc := NewPostService(repo, ext)
	post, err := svc.CreatePost(context.Background(), CreatePostInput{AuthorID: 7, Content: "Hello #world"})
	require.NoError(t, err)

	assert.Equal(t, uint(42), post.ID)
	assert.Equal(t, models.PostTypeUpdate, post.PostType)
	assert.Equal(t, []string{}, post.MediaURLs)
	assert.Equal(t, "ana", post.Author.Handle())
	require.Len(t, ext.calls, 1)
	assert.Equal(t, uint(42), ext.calls[0].ID)
}

func TestPostService_CreatePost_ExtractionFailureKeepsPost(t *testing.T) {
	t.Parallel()

	ext := &extractorStub{res: extract.Result{Err: errors.New("hashtag write failed")}}
	svc := NewPostService(noopPostRepo(), ext)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{AuthorID: 7, Content: "#a @b"})
	require.NoError(t, err)
	assert.NotNil(t, post)
	assert.Len(t, ext.calls, 1)
}

func TestPostService_CreatePost_RepoErrorSkipsExtraction(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, _ *models.Post) error { return errors.New("insert failed") }
	ext := &extractorStub{}

	_, err := NewPostService(repo, ext).CreatePost(context.Background(), CreatePostInput{AuthorID: 7, Content: "hi"})
	require.Error(t, err)
	assert.Empty(t, ext.calls)
}

func TestPostService_GetPost_NotFound(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.getByIDFn = missingPost

	_, err := NewPostService(repo, nil).GetPost(context.Background(), 9)
	assertAppError(t, err, models.CodeNotFound)
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		userID   uint
		missing  bool
		wantCode string
		deleted  bool
	}{
		{name: "author deletes", userID: 7, deleted: true},
		{name: "other user forbidden", userID: 8, wantCode: models.CodeForbidden},
		{name: "missing post", userID: 7, missing: true, wantCode: models.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := noopPostRepo()
			repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
				if tt.missing {
					return missingPost(context.Background(), id)
				}
				return &models.Post{ID: id, AuthorID: 7}, nil
			}
			var deleted bool
			repo.deleteFn = func(_ context.Context, _ uint) error {
				deleted = true
				return nil
			}

			err := NewPostService(repo, nil).DeletePost(context.Background(), DeletePostInput{UserID: tt.userID, PostID: 3})
			if tt.wantCode != "" {
				assertAppError(t, err, tt.wantCode)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.deleted, deleted)
		})
	}
}
