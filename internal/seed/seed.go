// Package seed populates a development database with influencers, companies,
// their connections and a feed of posts carrying hashtags, mentions and
// engagement. It is intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"collabfeed/internal/extract"
	"collabfeed/internal/middleware"
	"collabfeed/internal/models"
	"collabfeed/internal/repository"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumInfluencers int
	NumCompanies   int
	NumPosts       int
	ShouldClean    bool
	// RandomSeed fixes the generated data; zero uses the clock.
	RandomSeed int64
}

// Summary reports what a run created.
type Summary struct {
	Users       int
	Connections int
	Posts       int
	Comments    int
	Reactions   int
	Mentions    int
}

// Seeder writes seed data through the same repositories the API uses so the
// denormalized counters and extracted entities stay consistent.
type Seeder struct {
	db        *gorm.DB
	posts     repository.PostRepository
	comments  repository.CommentRepository
	reactions repository.ReactionRepository
	extractor *extract.Extractor
}

// NewSeeder creates a Seeder over db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:        db,
		posts:     repository.NewPostRepository(db),
		comments:  repository.NewCommentRepository(db),
		reactions: repository.NewReactionRepository(db),
		extractor: extract.NewExtractor(repository.NewUserRepository(db), repository.NewEntityRepository(db), nil, nil, nil),
	}
}

// seedTables lists tables children first.
var seedTables = []string{
	"mentions", "post_hashtags", "hashtags", "post_saves", "collections", "shares",
	"reactions", "comments", "posts", "connections", "company_profiles",
	"influencer_profiles", "users",
}

// ClearAll deletes every row the seeder can create.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range seedTables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// Run seeds the database according to opts.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.ShouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}

	f, err := NewFactory(s.db, opts.RandomSeed)
	if err != nil {
		return nil, err
	}
	sum := &Summary{}

	var influencers, companies []*models.User
	for i := 0; i < opts.NumInfluencers; i++ {
		u, err := f.CreateInfluencer(ctx)
		if err != nil {
			return nil, err
		}
		influencers = append(influencers, u)
	}
	for i := 0; i < opts.NumCompanies; i++ {
		u, err := f.CreateCompany(ctx)
		if err != nil {
			return nil, err
		}
		companies = append(companies, u)
	}
	users := append(append([]*models.User{}, influencers...), companies...)
	sum.Users = len(users)
	if len(users) == 0 {
		return sum, nil
	}

	// Every influencer gets up to three company connections.
	for _, inf := range influencers {
		seen := map[uint]bool{}
		for i := 0; i < 3 && len(companies) > 0; i++ {
			c := f.Pick(companies)
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			if err := f.Connect(ctx, inf.ID, c.ID); err != nil {
				return nil, fmt.Errorf("connect users: %w", err)
			}
			sum.Connections++
		}
	}

	reactionTypes := []models.ReactionType{
		models.ReactionLike, models.ReactionLove, models.ReactionWow,
		models.ReactionHaha, models.ReactionSad, models.ReactionAngry,
	}
	for i := 0; i < opts.NumPosts; i++ {
		post := f.BuildPost(f.Pick(users), users)
		if err := s.posts.Create(ctx, post); err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}
		sum.Posts++

		res := s.extractor.ExtractSafely(ctx, post)
		if res.Err != nil {
			middleware.Logger.Warn("Seed extraction failed", slog.Uint64("post_id", uint64(post.ID)), slog.String("error", res.Err.Error()))
		}
		sum.Mentions += len(res.Mentions)

		for j := f.Intn(6); j > 0; j-- {
			reactor := f.Pick(users)
			created, err := s.reactions.Upsert(ctx, reactor.ID, models.TargetPost, post.ID, reactionTypes[f.Intn(len(reactionTypes))])
			if err != nil {
				return nil, fmt.Errorf("react to post: %w", err)
			}
			if created {
				sum.Reactions++
			}
		}
		for j := f.Intn(4); j > 0; j-- {
			comment := &models.Comment{PostID: post.ID, AuthorID: f.Pick(users).ID, Content: "Love this collab!"}
			if err := s.comments.Create(ctx, comment); err != nil {
				return nil, fmt.Errorf("create comment: %w", err)
			}
			sum.Comments++
		}
	}

	middleware.Logger.Info("Seed complete",
		slog.Int("users", sum.Users),
		slog.Int("connections", sum.Connections),
		slog.Int("posts", sum.Posts),
		slog.Int("comments", sum.Comments),
		slog.Int("reactions", sum.Reactions),
		slog.Int("mentions", sum.Mentions),
	)
	return sum, nil
}
