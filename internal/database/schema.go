package database

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"collabfeed/internal/config"
	"collabfeed/internal/middleware"

	"gorm.io/gorm"
)

// DB_SCHEMA_MODE values.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaStatus is the report printed by `migrate status`.
type SchemaStatus struct {
	Mode               string      `yaml:"mode"`
	Environment        string      `yaml:"environment"`
	WillRunSQL         bool        `yaml:"will_run_sql"`
	WillRunAutoMigrate bool        `yaml:"will_run_auto_migrate"`
	AppliedVersions    []int       `yaml:"applied_versions"`
	PendingMigrations  []Migration `yaml:"pending_migrations"`
}

var prodLikeEnvs = []string{"production", "prod", "staging", "stage"}

func isProdLikeEnv(env string) bool {
	return slices.Contains(prodLikeEnvs, strings.ToLower(strings.TrimSpace(env)))
}

func normalizedSchemaMode(cfg *config.Config) string {
	if mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode)); mode != "" {
		return mode
	}
	return SchemaModeHybrid
}

// schemaPolicy decides which schema steps run. SQL migrations own the
// counter defaults and uniqueness indexes; AutoMigrate only tops up columns
// outside production unless explicitly allowed.
func schemaPolicy(cfg *config.Config) (runSQL, runAuto bool, err error) {
	prodLike := isProdLikeEnv(cfg.Env)

	switch mode := normalizedSchemaMode(cfg); mode {
	case SchemaModeSQL:
		return true, false, nil
	case SchemaModeHybrid:
		return true, !prodLike, nil
	case SchemaModeAuto:
		if prodLike && !cfg.DBAutoMigrateAllowDestructive {
			return false, false, fmt.Errorf("DB_SCHEMA_MODE=auto needs DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true in %q", cfg.Env)
		}
		return false, true, nil
	default:
		return false, false, fmt.Errorf("unknown DB_SCHEMA_MODE %q", mode)
	}
}

// AutoMigrate syncs every model in PersistentModels.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}

func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	runSQL, runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return err
	}
	mode := normalizedSchemaMode(cfg)

	if runSQL {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations: %w", err)
		}
	}
	if !runAuto {
		return nil
	}

	if mode == SchemaModeAuto && isProdLikeEnv(cfg.Env) {
		middleware.Logger.Warn("AutoMigrate enabled in a production-like env; feed tables may be altered in place",
			slog.String("env", cfg.Env))
	}
	middleware.Logger.Info("Syncing models with AutoMigrate", slog.String("mode", mode), slog.String("env", cfg.Env))
	if err := AutoMigrate(db); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// GetSchemaStatus reports the policy for cfg and, when SQL migrations are
// in play, which registered versions have not run.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	runSQL, runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:               normalizedSchemaMode(cfg),
		Environment:        cfg.Env,
		WillRunSQL:         runSQL,
		WillRunAutoMigrate: runAuto,
	}
	if !runSQL {
		return status, nil
	}

	applied, err := NewMigrationStore(db).GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	status.AppliedVersions = applied
	for _, m := range GetMigrations() {
		if !slices.Contains(applied, m.Version) {
			status.PendingMigrations = append(status.PendingMigrations, m)
		}
	}
	return status, nil
}
