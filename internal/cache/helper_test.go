package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9/maintnotifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStore(rdb), mr
}

type tag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestStore_AsideCachesOnMiss(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *[]tag) func() error {
		return func() error {
			calls++
			*dest = []tag{{Name: "Sale", Count: 3}}
			return nil
		}
	}

	var first []tag
	require.NoError(t, s.Aside(ctx, "trending", TrendingHashtagsKey(10), &first, time.Minute, fetch(&first)))
	var second []tag
	require.NoError(t, s.Aside(ctx, "trending", TrendingHashtagsKey(10), &second, time.Minute, fetch(&second)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("hashtags:trending:10"))
}

func TestStore_AsidePropagatesFetchError(t *testing.T) {
	s, mr := newStore(t)

	var dest []tag
	err := s.Aside(context.Background(), "trending", "k", &dest, time.Minute, func() error {
		return errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
	assert.False(t, mr.Exists("k"))
}

func TestStore_InvalidatePrefix(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetJSON(ctx, TrendingHashtagsKey(5), []tag{}, time.Minute))
	require.NoError(t, s.SetJSON(ctx, TrendingHashtagsKey(10), []tag{}, time.Minute))
	require.NoError(t, s.SetJSON(ctx, "other", 1, time.Minute))

	s.InvalidatePrefix(ctx, TrendingHashtagsPrefix)

	assert.False(t, mr.Exists(TrendingHashtagsKey(5)))
	assert.False(t, mr.Exists(TrendingHashtagsKey(10)))
	assert.True(t, mr.Exists("other"))
}

func TestStore_NilClientPassThrough(t *testing.T) {
	s := NewStore(nil)
	calls := 0
	var dest int
	require.NoError(t, s.Aside(context.Background(), "x", "k", &dest, time.Minute, func() error {
		calls++
		dest = 4
		return nil
	}))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 4, dest)
}

func TestNewClient_ParsesURL(t *testing.T) {
	c, err := NewClient("redis://localhost:6380/2")
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, "localhost:6380", c.Options().Addr)
	assert.Equal(t, 2, c.Options().DB)
	require.NotNil(t, c.Options().MaintNotificationsConfig)
	assert.Equal(t, maintnotifications.ModeDisabled, c.Options().MaintNotificationsConfig.Mode)

	_, err = NewClient("redis://%zz")
	assert.Error(t, err)
}
