package cache

import (
	"fmt"
	"time"
)

const (
	TrendingHashtagsPrefix = "hashtags:trending:"
	trendingHashtagsKey    = TrendingHashtagsPrefix + "%d"
)

const (
	TrendingHashtagsTTL = time.Minute
)

// TrendingHashtagsKey is the cache key for the top-N trending list.
func TrendingHashtagsKey(limit int) string {
	return fmt.Sprintf(trendingHashtagsKey, limit)
}
