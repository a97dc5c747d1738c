// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"collabfeed/internal/database"
	"collabfeed/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a migrated, private in-memory SQLite database limited to
// one connection, so concurrent transactions queue instead of failing with
// "database is locked".
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()
	return openSQLite(t, "")
}

// NewSQLiteDBWithForeignKeys is NewSQLiteDB with foreign key enforcement on,
// matching the Postgres schema's REFERENCES constraints.
func NewSQLiteDBWithForeignKeys(t testing.TB) *gorm.DB {
	t.Helper()
	return openSQLite(t, "&_foreign_keys=1")
}

func openSQLite(t testing.TB, params string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared%s", uuid.NewString(), params)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateUser inserts a user whose handle is the local part of email.
func CreateUser(t testing.TB, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()
	handle, _, _ := strings.Cut(email, "@")
	u := &models.User{Email: email, Password: "not-a-hash", DisplayName: handle, Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateInfluencer inserts an influencer with the given niche.
func CreateInfluencer(t testing.TB, db *gorm.DB, email, niche string) *models.User {
	t.Helper()
	u := CreateUser(t, db, email, models.RoleInfluencer)
	require.NoError(t, db.Create(&models.InfluencerProfile{UserID: u.ID, Niche: niche}).Error)
	return u
}

// CreateCompany inserts a company user with the given industry.
func CreateCompany(t testing.TB, db *gorm.DB, email, industry string) *models.User {
	t.Helper()
	u := CreateUser(t, db, email, models.RoleCompany)
	require.NoError(t, db.Create(&models.CompanyProfile{UserID: u.ID, CompanyName: u.DisplayName, Industry: industry}).Error)
	return u
}

// Connect records an accepted connection between a and b.
func Connect(t testing.TB, db *gorm.DB, a, b uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.Connection{
		RequesterID: a,
		RecipientID: b,
		Status:      models.ConnectionStatusAccepted,
	}).Error)
}

// PostOpts tweaks a fixture post.
type PostOpts struct {
	Type     models.PostType
	Likes    int
	Comments int
	Age      time.Duration
	Now      time.Time
}

// CreatePost inserts a post with preset counters and age.
func CreatePost(t testing.TB, db *gorm.DB, authorID uint, content string, o PostOpts) *models.Post {
	t.Helper()
	if o.Type == "" {
		o.Type = models.PostTypeUpdate
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	p := &models.Post{
		AuthorID:     authorID,
		Content:      content,
		PostType:     o.Type,
		LikeCount:    o.Likes,
		CommentCount: o.Comments,
		CreatedAt:    o.Now.Add(-o.Age),
	}
	require.NoError(t, db.Omit(clause.Associations).Create(p).Error)
	return p
}
