package repository

import (
	"fmt"
	"testing"
	"time"

	"collabfeed/internal/database"
	"collabfeed/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private shared-cache in-memory SQLite database. A single
// connection serializes concurrent transactions the way row locks would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
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

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func mkUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "x", DisplayName: email, Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

func mkPost(t *testing.T, db *gorm.DB, authorID uint, content string, createdAt time.Time) *models.Post {
	t.Helper()
	p := &models.Post{AuthorID: authorID, Content: content, PostType: models.PostTypeUpdate, CreatedAt: createdAt}
	require.NoError(t, NewPostRepository(db).Create(t.Context(), p))
	return p
}

func reloadPost(t *testing.T, db *gorm.DB, id uint) models.Post {
	t.Helper()
	var p models.Post
	require.NoError(t, db.First(&p, id).Error)
	return p
}
