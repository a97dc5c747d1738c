package server

import (
	"fmt"
	"net/http"
	"testing"

	"collabfeed/internal/models"
	"collabfeed/internal/service"
	"collabfeed/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactions(t *testing.T) {
	env := newTestEnv(t, "")
	author := testutil.CreateInfluencer(t, env.db, "ava@example.com", "Fashion")
	fan := testutil.CreateInfluencer(t, env.db, "fan@example.com", "Beauty")
	post := testutil.CreatePost(t, env.db, author.ID, "react to me", testutil.PostOpts{})
	base := fmt.Sprintf("/api/feed/posts/%d", post.ID)

	status, _ := env.do(t, fan.ID, http.MethodPost, base+"/react", ReactRequest{ReactionType: "love"})
	require.Equal(t, http.StatusOK, status)

	// Liking keeps the existing reaction and does not double count.
	status, _ = env.do(t, fan.ID, http.MethodPost, base+"/like", nil)
	require.Equal(t, http.StatusOK, status)

	status, body := env.do(t, fan.ID, http.MethodGet, base+"/reactions", nil)
	require.Equal(t, http.StatusOK, status)
	summary := decode[struct {
		Total          int64                         `json:"total"`
		ByType         map[models.ReactionType]int64 `json:"by_type"`
		RecentReactors []models.Reactor              `json:"recent_reactors"`
		UserReaction   *models.ReactionType          `json:"user_reaction"`
	}](t, body)
	assert.EqualValues(t, 1, summary.Total)
	assert.Len(t, summary.ByType, len(models.ReactionTypes))
	assert.EqualValues(t, 1, summary.ByType[models.ReactionLove])
	require.NotNil(t, summary.UserReaction)
	assert.Equal(t, models.ReactionLove, *summary.UserReaction)
	require.Len(t, summary.RecentReactors, 1)
	assert.Equal(t, "fan", summary.RecentReactors[0].Handle)

	status, body = env.do(t, fan.ID, http.MethodGet, base+"/liked", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"liked":true}`, string(body))

	var reloaded models.Post
	require.NoError(t, env.db.First(&reloaded, post.ID).Error)
	assert.Equal(t, 1, reloaded.LikeCount)

	status, _ = env.do(t, fan.ID, http.MethodPost, base+"/react", ReactRequest{ReactionType: "meh"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = env.do(t, fan.ID, http.MethodPost, "/api/feed/posts/999/react", ReactRequest{ReactionType: "wow"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, fan.ID, http.MethodDelete, base+"/react", nil)
	require.Equal(t, http.StatusNoContent, status)

	status, body = env.do(t, fan.ID, http.MethodGet, base+"/reactions", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"user_reaction":null`)

	require.NoError(t, env.db.First(&reloaded, post.ID).Error)
	assert.Equal(t, 0, reloaded.LikeCount)
}

func TestLikeAndInteractionStatus(t *testing.T) {
	env := newTestEnv(t, "")
	author := testutil.CreateInfluencer(t, env.db, "ava@example.com", "Fashion")
	fan := testutil.CreateInfluencer(t, env.db, "fan@example.com", "Beauty")
	post := testutil.CreatePost(t, env.db, author.ID, "like me", testutil.PostOpts{})
	base := fmt.Sprintf("/api/feed/posts/%d", post.ID)

	status, body := env.do(t, fan.ID, http.MethodGet, base+"/interaction-status", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, service.InteractionStatus{}, decode[service.InteractionStatus](t, body))

	for i := 0; i < 2; i++ {
		status, _ = env.do(t, fan.ID, http.MethodPost, base+"/like", nil)
		require.Equal(t, http.StatusOK, status)
	}
	status, _ = env.do(t, fan.ID, http.MethodPost, base+"/save", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = env.do(t, fan.ID, http.MethodGet, base+"/interaction-status", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, service.InteractionStatus{Liked: true, Saved: true}, decode[service.InteractionStatus](t, body))

	var reloaded models.Post
	require.NoError(t, env.db.First(&reloaded, post.ID).Error)
	assert.Equal(t, 1, reloaded.LikeCount)

	status, _ = env.do(t, fan.ID, http.MethodDelete, base+"/like", nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, fan.ID, http.MethodDelete, base+"/save", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = env.do(t, fan.ID, http.MethodGet, base+"/saved", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"saved":false}`, string(body))

	status, _ = env.do(t, fan.ID, http.MethodPost, "/api/feed/posts/999/like", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestShares(t *testing.T) {
	env := newTestEnv(t, "")
	author := testutil.CreateInfluencer(t, env.db, "ava@example.com", "Fashion")
	fan := testutil.CreateInfluencer(t, env.db, "fan@example.com", "Beauty")
	post := testutil.CreatePost(t, env.db, author.ID, "share me", testutil.PostOpts{})
	base := fmt.Sprintf("/api/feed/posts/%d", post.ID)

	status, _ := env.do(t, fan.ID, http.MethodPost, base+"/share", ShareRequest{ShareType: "twitter"})
	require.Equal(t, http.StatusCreated, status)
	status, _ = env.do(t, author.ID, http.MethodPost, base+"/share", ShareRequest{ShareType: "link"})
	require.Equal(t, http.StatusCreated, status)

	status, _ = env.do(t, fan.ID, http.MethodPost, base+"/share", ShareRequest{ShareType: "carrier-pigeon"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = env.do(t, fan.ID, http.MethodPost, "/api/feed/posts/999/share", ShareRequest{ShareType: "feed"})
	assert.Equal(t, http.StatusNotFound, status)

	status, body := env.do(t, fan.ID, http.MethodGet, base+"/share-count", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"count":2}`, string(body))

	status, body = env.do(t, fan.ID, http.MethodGet, base+"/share-details", nil)
	require.Equal(t, http.StatusOK, status)
	details := decode[service.ShareDetails](t, body)
	assert.EqualValues(t, 2, details.Count)
	assert.Len(t, details.Breakdown, len(models.ShareTypes))
	assert.EqualValues(t, 1, details.Breakdown[models.ShareTwitter])
	assert.EqualValues(t, 0, details.Breakdown[models.ShareFacebook])
	assert.Len(t, details.RecentSharers, 2)
}
