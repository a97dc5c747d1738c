package database

import (
	"context"
	"testing"

	"collabfeed/internal/config"
	"collabfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// Each :memory: connection is its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestConfigurePool(t *testing.T) {
	db := openSQLite(t)

	err := configurePool(db, &config.Config{DBMaxOpenConns: 10, DBMaxIdleConns: 5, DBConnMaxLifetimeMinutes: 15})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.Config
		wantSQL     bool
		wantAuto    bool
		expectError bool
	}{
		{"hybrid in development", config.Config{Env: "development"}, true, true, false},
		{"hybrid in production", config.Config{Env: "production", DBSchemaMode: "hybrid"}, true, false, false},
		{"sql only", config.Config{Env: "development", DBSchemaMode: "SQL"}, true, false, false},
		{"auto refused in prod", config.Config{Env: "prod", DBSchemaMode: "auto"}, false, false, true},
		{"auto allowed in prod with override", config.Config{Env: "prod", DBSchemaMode: "auto", DBAutoMigrateAllowDestructive: true}, false, true, false},
		{"unknown mode", config.Config{DBSchemaMode: "yolo"}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(&tt.cfg)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, runSQL)
			assert.Equal(t, tt.wantAuto, runAuto)
		})
	}
}

func TestMigrations_Registered(t *testing.T) {
	ms := GetMigrations()
	require.Len(t, ms, 3)
	for i, m := range ms {
		assert.Equal(t, i+1, m.Version)
		assert.NotEmpty(t, m.UpScript)
		assert.NotEmpty(t, m.DownScript)
	}
	assert.Contains(t, ms[1].UpScript, "idx_reactions_user_target")
	assert.Contains(t, ms[1].UpScript, "idx_post_saves_post_user")
	assert.Contains(t, ms[2].UpScript, "idx_hashtags_normalized_name")
	assert.Equal(t, "000003_hashtags_mentions", GetMigrationByVersion(3).String())
	assert.Nil(t, GetMigrationByVersion(99))
}

func TestValidateAppliedVersions(t *testing.T) {
	registered := []Migration{{Version: 1}, {Version: 2}}

	assert.NoError(t, validateAppliedVersions(nil, registered))
	assert.NoError(t, validateAppliedVersions([]int{1, 2}, registered))

	err := validateAppliedVersions([]int{1, 7, 5}, registered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000005, 000007")
}

func TestPersistentModels_IncludesFeedTables(t *testing.T) {
	var hashtag, reaction bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *models.Hashtag:
			hashtag = true
		case *models.Reaction:
			reaction = true
		}
	}
	assert.True(t, hashtag)
	assert.True(t, reaction)
}

func TestAutoMigrate_SQLite(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, AutoMigrate(db))

	for _, table := range []string{"posts", "reactions", "post_saves", "hashtags", "post_hashtags", "mentions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.False(t, db.Migrator().HasColumn(&models.Collection{}, "item_count"))
}

func TestMigrationStore_EmptyWithoutTable(t *testing.T) {
	db := openSQLite(t)
	applied, err := NewMigrationStore(db).GetAppliedMigrations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestGetSchemaStatus_AutoModeSkipsSQL(t *testing.T) {
	db := openSQLite(t)
	status, err := GetSchemaStatus(context.Background(), db, &config.Config{Env: "development", DBSchemaMode: "auto"})
	require.NoError(t, err)
	assert.False(t, status.WillRunSQL)
	assert.True(t, status.WillRunAutoMigrate)
	assert.Empty(t, status.PendingMigrations)
}

func TestMigrationStore_ApplyAndRevert(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	require.NoError(t, db.Exec(migrationLogDDL).Error)
	store := NewMigrationStore(db)

	m := Migration{
		Version:    42,
		Name:       "scratch",
		UpScript:   "CREATE TABLE scratch (id INTEGER PRIMARY KEY)",
		DownScript: "DROP TABLE scratch",
	}
	require.NoError(t, store.ApplyMigration(ctx, m))
	assert.True(t, db.Migrator().HasTable("scratch"))
	applied, err := store.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{42}, applied)

	require.NoError(t, store.RevertMigration(ctx, m))
	assert.False(t, db.Migrator().HasTable("scratch"))
	applied, err = store.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestMigrationStore_FailedScriptLeavesNoLogRow(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	require.NoError(t, db.Exec(migrationLogDDL).Error)
	store := NewMigrationStore(db)

	err := store.ApplyMigration(ctx, Migration{Version: 7, Name: "broken", UpScript: "CREATE TABLE ("})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000007_broken")

	applied, err := store.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
}
