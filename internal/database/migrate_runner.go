package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"collabfeed/internal/middleware"

	"gorm.io/gorm"
)

// MigrationStore records which embedded migrations have run.
type MigrationStore interface {
	GetAppliedMigrations(ctx context.Context) ([]int, error)
	ApplyMigration(ctx context.Context, m Migration) error
	RevertMigration(ctx context.Context, m Migration) error
}

// MigrationLog is one row of migration_logs.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (MigrationLog) TableName() string {
	return "migration_logs"
}

// CURRENT_TIMESTAMP keeps the log table portable to the SQLite test engine.
const migrationLogDDL = `
CREATE TABLE IF NOT EXISTS migration_logs (
	version BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

type migrationStore struct {
	db *gorm.DB
}

func NewMigrationStore(db *gorm.DB) MigrationStore {
	return &migrationStore{db: db}
}

// GetAppliedMigrations returns applied versions ascending. A missing log
// table means nothing has run yet.
func (s *migrationStore) GetAppliedMigrations(ctx context.Context) ([]int, error) {
	var versions []int
	err := s.db.WithContext(ctx).Model(&MigrationLog{}).Order("version ASC").Pluck("version", &versions).Error
	switch {
	case err == nil:
		return versions, nil
	case errors.Is(err, gorm.ErrRecordNotFound), isMissingTableError(err):
		return []int{}, nil
	default:
		return nil, fmt.Errorf("read migration_logs: %w", err)
	}
}

// isMissingTableError matches the Postgres and SQLite wording.
func isMissingTableError(err error) bool {
	msg := err.Error()
	return (strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist")) ||
		strings.Contains(msg, "no such table")
}

// ApplyMigration runs the up script and its log row in one transaction.
func (s *migrationStore) ApplyMigration(ctx context.Context, m Migration) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.UpScript).Error; err != nil {
			return fmt.Errorf("apply %s: %w", m.String(), err)
		}
		return tx.Create(&MigrationLog{Version: m.Version, Name: m.Name}).Error
	})
	if err != nil {
		return err
	}
	middleware.Logger.Info("Migration applied", slog.String("migration", m.String()))
	return nil
}

// RevertMigration runs the down script and drops its log row together.
func (s *migrationStore) RevertMigration(ctx context.Context, m Migration) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.DownScript).Error; err != nil {
			return fmt.Errorf("revert %s: %w", m.String(), err)
		}
		return tx.Where("version = ?", m.Version).Delete(&MigrationLog{}).Error
	})
	if err != nil {
		return err
	}
	middleware.Logger.Info("Migration reverted", slog.String("migration", m.String()))
	return nil
}

// RunMigrations applies every registered migration missing from
// migration_logs, in version order. It refuses to run when the log holds
// versions this binary does not know.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec(migrationLogDDL).Error; err != nil {
		return fmt.Errorf("create migration_logs: %w", err)
	}

	store := NewMigrationStore(db)
	applied, err := store.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}
	if err := validateAppliedVersions(applied, migrations); err != nil {
		return err
	}

	pending := 0
	for _, m := range migrations {
		if slices.Contains(applied, m.Version) {
			continue
		}
		if err := store.ApplyMigration(ctx, m); err != nil {
			return err
		}
		pending++
	}
	middleware.Logger.Info("Feed schema up to date",
		slog.Int("applied_now", pending),
		slog.Int("registered", len(migrations)),
	)
	return nil
}

func validateAppliedVersions(applied []int, registered []Migration) error {
	var unknown []string
	for _, version := range slices.Sorted(slices.Values(applied)) {
		known := slices.ContainsFunc(registered, func(m Migration) bool { return m.Version == version })
		if !known {
			unknown = append(unknown, fmt.Sprintf("%06d", version))
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	return fmt.Errorf("migration_logs has versions this build does not ship: %s", strings.Join(unknown, ", "))
}

// RollbackMigration reverts one applied migration.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	m := GetMigrationByVersion(version)
	if m == nil {
		return fmt.Errorf("no migration with version %d", version)
	}

	store := NewMigrationStore(db)
	applied, err := store.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(applied, version) {
		return fmt.Errorf("%s is not applied", m.String())
	}
	return store.RevertMigration(ctx, *m)
}
