// Package ranking scores feed candidates for a viewer. Everything here is
// pure: signals are loaded by the caller and the clock is passed in.
package ranking

import (
	"sort"
	"strings"
	"time"

	"collabfeed/internal/models"
)

// Weights are the coefficients of the priority score.
type Weights struct {
	Base            float64
	Connection      float64
	Niche           float64
	PerLike         float64
	PerComment      float64
	AgeDecayPerHour float64
}

// DefaultWeights is the production scoring formula.
var DefaultWeights = Weights{
	Base:            25,
	Connection:      75,
	Niche:           25,
	PerLike:         0.5,
	PerComment:      1.0,
	AgeDecayPerHour: 0.1,
}

// DefaultOverfetch is the candidate window multiplier applied to the page size.
const DefaultOverfetch = 3

// Signals is the viewer context a candidate window is scored against.
type Signals struct {
	ViewerID    uint
	ViewerNiche string
	// Connected holds the ids of users with an accepted connection to the viewer.
	Connected map[uint]struct{}
	// AuthorNiches maps author id to niche or industry; missing means "".
	AuthorNiches map[uint]string
}

// IsConnected reports whether authorID is connected to the viewer.
func (s Signals) IsConnected(authorID uint) bool {
	_, ok := s.Connected[authorID]
	return ok
}

// Breakdown itemizes a priority score. Age is the (non-positive) decay term.
type Breakdown struct {
	Base       float64 `json:"base"`
	Connection float64 `json:"connection"`
	Niche      float64 `json:"niche"`
	Likes      float64 `json:"likes"`
	Comments   float64 `json:"comments"`
	Age        float64 `json:"age"`
	Total      float64 `json:"total"`
}

// Scored pairs a post with its priority score.
type Scored struct {
	Post      *models.Post
	Breakdown Breakdown
}

// Score returns the post's score breakdown. Scores are unbounded below:
// very old posts go negative.
func (w Weights) Score(p *models.Post, s Signals, now time.Time) Breakdown {
	b := Breakdown{
		Base:     w.Base,
		Likes:    w.PerLike * float64(p.LikeCount),
		Comments: w.PerComment * float64(p.CommentCount),
		Age:      -w.AgeDecayPerHour * now.Sub(p.CreatedAt).Hours(),
	}
	if s.IsConnected(p.AuthorID) {
		b.Connection = w.Connection
	}
	if NicheMatch(s.ViewerNiche, s.AuthorNiches[p.AuthorID]) {
		b.Niche = w.Niche
	}
	b.Total = b.Base + b.Connection + b.Niche + b.Likes + b.Comments + b.Age
	return b
}

// Rank scores posts and orders them by descending score. The sort is
// stable, so ties keep the input (newest-first) order.
func (w Weights) Rank(posts []*models.Post, s Signals, now time.Time) []Scored {
	out := make([]Scored, len(posts))
	for i, p := range posts {
		out[i] = Scored{Post: p, Breakdown: w.Score(p, s, now)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Breakdown.Total > out[j].Breakdown.Total
	})
	return out
}

// NicheMatch reports whether either niche contains the other, ignoring
// case. Empty niches never match.
func NicheMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Window returns how many candidates to fetch for one page.
func Window(pageSize, overfetch int) int {
	if overfetch <= 0 {
		overfetch = DefaultOverfetch
	}
	return pageSize * overfetch
}

// Page returns the 1-based page of items, or an empty slice past the end.
func Page[T any](items []T, page, size int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if size <= 0 || start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages is ceil(total/size).
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
