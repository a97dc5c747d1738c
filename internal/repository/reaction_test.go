package repository

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"collabfeed/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionRepository_UpsertCountsFirstReactionOnly(t *testing.T) {
	db := newTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	author := mkUser(t, db, "author@example.com", models.RoleInfluencer)
	fan := mkUser(t, db, "fan@example.com", models.RoleCompany)
	post := mkPost(t, db, author.ID, "hi", time.Now())

	created, err := repo.Upsert(ctx, fan.ID, models.TargetPost, post.ID, models.ReactionLike)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Upsert(ctx, fan.ID, models.TargetPost, post.ID, models.ReactionWow)
	require.NoError(t, err)
	assert.False(t, created)

	var rows []models.Reaction
	require.NoError(t, db.Where("target_id = ?", post.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.ReactionWow, rows[0].ReactionType)
	assert.Equal(t, 1, reloadPost(t, db, post.ID).LikeCount)

	got, err := repo.GetUserReaction(ctx, fan.ID, models.TargetPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionWow, got)

	removed, err := repo.Remove(ctx, fan.ID, models.TargetPost, post.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.Remove(ctx, fan.ID, models.TargetPost, post.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 0, reloadPost(t, db, post.ID).LikeCount)

	got, err = repo.GetUserReaction(ctx, fan.ID, models.TargetPost, post.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReactionRepository_ConcurrentReactsFromDistinctUsers(t *testing.T) {
	db := newTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	author := mkUser(t, db, "author@example.com", models.RoleInfluencer)
	post := mkPost(t, db, author.ID, "go viral", time.Now())

	const k = 16
	users := make([]*models.User, k)
	for i := range users {
		users[i] = mkUser(t, db, fmt.Sprintf("fan%02d@example.com", i), models.RoleInfluencer)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2*k)
	for _, u := range users {
		wg.Add(2)
		// Each user fires twice; only one row and one increment may result.
		for range 2 {
			go func(userID uint) {
				defer wg.Done()
				_, err := repo.Upsert(ctx, userID, models.TargetPost, post.ID, models.ReactionLike)
				errs <- err
			}(u.ID)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, k, reloadPost(t, db, post.ID).LikeCount)
	var n int64
	require.NoError(t, db.Model(&models.Reaction{}).Where("target_id = ?", post.ID).Count(&n).Error)
	assert.Equal(t, int64(k), n)
}

func TestReactionRepository_Summary(t *testing.T) {
	db := newTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	author := mkUser(t, db, "author@example.com", models.RoleInfluencer)
	post := mkPost(t, db, author.ID, "hi", time.Now())
	types := []models.ReactionType{models.ReactionLove, models.ReactionLove, models.ReactionHaha}
	for i, rt := range types {
		u := mkUser(t, db, fmt.Sprintf("u%d@example.com", i), models.RoleInfluencer)
		_, err := repo.Upsert(ctx, u.ID, models.TargetPost, post.ID, rt)
		require.NoError(t, err)
	}

	summary, err := repo.Summary(ctx, models.TargetPost, post.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Total)
	assert.Len(t, summary.ByType, len(models.ReactionTypes))
	assert.Equal(t, int64(2), summary.ByType[models.ReactionLove])
	assert.Equal(t, int64(1), summary.ByType[models.ReactionHaha])
	assert.Equal(t, int64(0), summary.ByType[models.ReactionAngry])
	require.Len(t, summary.RecentReactors, 2)
	assert.Equal(t, "u2", summary.RecentReactors[0].Handle)
}

func TestReactionRepository_RemoveDecrementsWithRelativeUpdate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "reactions" WHERE user_id = $1 AND target_type = $2 AND target_id = $3`)).
		WithArgs(4, models.TargetPost, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "like_count"=CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END WHERE id = $1`)).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	removed, err := repo.Remove(context.Background(), 4, models.TargetPost, 9)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_CreateIncrementsWithRelativeUpdate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "comment_count"=comment_count + $1 WHERE id = $2`)).
		WithArgs(1, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &models.Comment{PostID: 7, AuthorID: 2, Content: "great"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
