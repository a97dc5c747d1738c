package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"collabfeed/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plain-text password of every seeded user.
const DefaultPassword = "password123"

var (
	niches = []string{
		"Fashion", "Beauty", "Fitness", "Travel", "Food", "Tech", "Gaming", "Parenting", "Finance",
	}

	industries = []string{
		"Fashion & Apparel", "Beauty & Cosmetics", "Sports & Fitness", "Travel & Hospitality",
		"Food & Beverage", "Consumer Tech", "Gaming", "Financial Services",
	}

	hashtagPool = []string{
		"collab", "ugc", "brandpartner", "ootd", "skincare", "fitfam", "wanderlust",
		"foodie", "techreview", "gamingsetup", "sponsored", "launchday",
	}
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
	// bcrypt is slow; every seeded user shares one hash.
	passwordHash string
}

// NewFactory creates a Factory bound to db. A zero seed uses the clock.
func NewFactory(db *gorm.DB, seed int64) (*Factory, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	return &Factory{
		db:           db,
		rng:          rand.New(rand.NewSource(seed)),
		passwordHash: string(hash),
	}, nil
}

// CreateUser persists a user with a unique, mention-friendly email.
func (f *Factory) CreateUser(ctx context.Context, role models.UserRole) (*models.User, error) {
	first := strings.ToLower(gofakeit.FirstName())
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	user := &models.User{
		Email:       fmt.Sprintf("%s_%s@%s", first, suffix, gofakeit.DomainName()),
		Password:    f.passwordHash,
		DisplayName: gofakeit.Name(),
		AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", suffix),
		Role:        role,
	}
	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// CreateInfluencer persists an influencer with a random niche.
func (f *Factory) CreateInfluencer(ctx context.Context) (*models.User, error) {
	user, err := f.CreateUser(ctx, models.RoleInfluencer)
	if err != nil {
		return nil, err
	}
	profile := &models.InfluencerProfile{
		UserID: user.ID,
		Niche:  niches[f.rng.Intn(len(niches))],
		Bio:    gofakeit.Sentence(12),
	}
	if err := f.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, fmt.Errorf("create influencer profile: %w", err)
	}
	return user, nil
}

// CreateCompany persists a company with a random industry.
func (f *Factory) CreateCompany(ctx context.Context) (*models.User, error) {
	user, err := f.CreateUser(ctx, models.RoleCompany)
	if err != nil {
		return nil, err
	}
	profile := &models.CompanyProfile{
		UserID:      user.ID,
		CompanyName: gofakeit.Company(),
		Industry:    industries[f.rng.Intn(len(industries))],
	}
	if err := f.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, fmt.Errorf("create company profile: %w", err)
	}
	return user, nil
}

// Connect records an accepted connection between two users.
func (f *Factory) Connect(ctx context.Context, a, b uint) error {
	conn := &models.Connection{RequesterID: a, RecipientID: b, Status: models.ConnectionStatusAccepted}
	return f.db.WithContext(ctx).Create(conn).Error
}

// BuildPost returns an unsaved post by author whose content carries a few
// hashtags and, when candidates are given, an @mention of one of them.
func (f *Factory) BuildPost(author *models.User, mentionable []*models.User) *models.Post {
	postTypes := []models.PostType{
		models.PostTypeUpdate, models.PostTypeCollaborationStory,
		models.PostTypeCampaignAnnouncement, models.PostTypePortfolio,
	}

	var b strings.Builder
	b.WriteString(gofakeit.Sentence(10 + f.rng.Intn(10)))
	for i := 0; i < 1+f.rng.Intn(3); i++ {
		b.WriteString(" #")
		b.WriteString(hashtagPool[f.rng.Intn(len(hashtagPool))])
	}
	if len(mentionable) > 0 && f.rng.Intn(3) == 0 {
		other := mentionable[f.rng.Intn(len(mentionable))]
		if other.ID != author.ID {
			b.WriteString(" thanks @")
			b.WriteString(other.Handle())
		}
	}

	post := &models.Post{
		AuthorID:  author.ID,
		Content:   b.String(),
		PostType:  postTypes[f.rng.Intn(len(postTypes))],
		MediaURLs: []string{},
	}
	if f.rng.Intn(2) == 0 {
		post.MediaURLs = []string{fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())}
	}

	// Spread over the last 30 days so the age signal varies.
	back := time.Duration(f.rng.Intn(30*24*60)) * time.Minute
	post.CreatedAt = time.Now().Add(-back)
	return post
}

// Pick returns a random element of users.
func (f *Factory) Pick(users []*models.User) *models.User {
	return users[f.rng.Intn(len(users))]
}

// Intn exposes the factory's deterministic source.
func (f *Factory) Intn(n int) int {
	return f.rng.Intn(n)
}
