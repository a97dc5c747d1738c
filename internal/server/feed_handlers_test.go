package server

import (
	"net/http"
	"testing"
	"time"

	"collabfeed/internal/models"
	"collabfeed/internal/ranking"
	"collabfeed/internal/service"
	"collabfeed/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedPage struct {
	Data         []models.Post               `json:"data"`
	Meta         service.PageMeta            `json:"meta"`
	Personalized bool                        `json:"personalized"`
	Scores       map[string]ranking.Breakdown `json:"scores"`
}

func postIDs(posts []models.Post) []uint {
	out := make([]uint, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestGetFeed_ChronologicalWithTypeFilter(t *testing.T) {
	env := newTestEnv(t, "")
	author := testutil.CreateInfluencer(t, env.db, "ava@example.com", "Fashion")
	old := testutil.CreatePost(t, env.db, author.ID, "older", testutil.PostOpts{Age: 2 * time.Hour})
	story := testutil.CreatePost(t, env.db, author.ID, "story", testutil.PostOpts{Age: time.Hour, Type: models.PostTypeCollaborationStory})
	fresh := testutil.CreatePost(t, env.db, author.ID, "fresh", testutil.PostOpts{})

	status, body := env.do(t, author.ID, http.MethodGet, "/api/feed/posts?limit=2", nil)
	require.Equal(t, http.StatusOK, status)
	page := decode[feedPage](t, body)
	assert.Equal(t, []uint{fresh.ID, story.ID}, postIDs(page.Data))
	assert.Equal(t, service.PageMeta{Total: 3, Page: 1, Limit: 2, TotalPages: 2}, page.Meta)
	assert.False(t, page.Personalized)

	status, body = env.do(t, author.ID, http.MethodGet, "/api/feed/posts?page=2&limit=2", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []uint{old.ID}, postIDs(decode[feedPage](t, body).Data))

	status, body = env.do(t, author.ID, http.MethodGet, "/api/feed/posts?postType=collaboration_story", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []uint{story.ID}, postIDs(decode[feedPage](t, body).Data))

	status, _ = env.do(t, author.ID, http.MethodGet, "/api/feed/posts?postType=meme", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetPersonalizedFeed_RanksAndExplains(t *testing.T) {
	env := newTestEnv(t, "personalized_feed=on")
	viewer := testutil.CreateInfluencer(t, env.db, "viewer@example.com", "Fashion")
	friend := testutil.CreateInfluencer(t, env.db, "friend@example.com", "Gaming")
	brand := testutil.CreateCompany(t, env.db, "brand@example.com", "Fashion & Apparel")
	stranger := testutil.CreateInfluencer(t, env.db, "stranger@example.com", "Food")
	testutil.Connect(t, env.db, friend.ID, viewer.ID)

	strangerPost := testutil.CreatePost(t, env.db, stranger.ID, "newest but unrelated", testutil.PostOpts{})
	brandPost := testutil.CreatePost(t, env.db, brand.ID, "niche match", testutil.PostOpts{Age: time.Hour})
	friendPost := testutil.CreatePost(t, env.db, friend.ID, "from a connection", testutil.PostOpts{Age: 2 * time.Hour})
	testutil.CreatePost(t, env.db, viewer.ID, "my own post", testutil.PostOpts{})

	status, body := env.do(t, viewer.ID, http.MethodGet, "/api/feed/personalized?explain=true", nil)
	require.Equal(t, http.StatusOK, status)
	page := decode[feedPage](t, body)

	assert.True(t, page.Personalized)
	assert.Equal(t, []uint{friendPost.ID, brandPost.ID, strangerPost.ID}, postIDs(page.Data))
	assert.EqualValues(t, 3, page.Meta.Total)
	require.Len(t, page.Scores, 3)
	for _, b := range page.Scores {
		assert.Equal(t, ranking.DefaultWeights.Base, b.Base)
	}

	status, body = env.do(t, viewer.ID, http.MethodGet, "/api/feed/personalized", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[feedPage](t, body).Scores)
}

func TestGetPersonalizedFeed_FlagOffServesChronological(t *testing.T) {
	env := newTestEnv(t, "personalized_feed=off")
	viewer := testutil.CreateInfluencer(t, env.db, "viewer@example.com", "Fashion")
	mine := testutil.CreatePost(t, env.db, viewer.ID, "mine", testutil.PostOpts{})

	status, body := env.do(t, viewer.ID, http.MethodGet, "/api/feed/personalized", nil)
	require.Equal(t, http.StatusOK, status)
	page := decode[feedPage](t, body)
	assert.False(t, page.Personalized)
	assert.Equal(t, []uint{mine.ID}, postIDs(page.Data))
}
