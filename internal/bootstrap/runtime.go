// Package bootstrap wires the process-wide runtime dependencies.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"collabfeed/internal/cache"
	"collabfeed/internal/config"
	"collabfeed/internal/database"
	"collabfeed/internal/middleware"
	"collabfeed/internal/models"
	"collabfeed/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoData populates an empty development database.
	SeedDemoData bool
}

// demoSeed is the data set used when SeedDemoData is on.
var demoSeed = seed.Options{NumInfluencers: 20, NumCompanies: 8, NumPosts: 120}

// InitRuntime connects to DB and Redis and optionally seeds demo data.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoData && !cfg.IsProduction() {
		if err := seedIfEmpty(context.Background(), db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

func seedIfEmpty(ctx context.Context, db *gorm.DB) error {
	var users int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		middleware.Logger.Info("Skipping demo seed, users already present", slog.Int64("users", users))
		return nil
	}
	_, err := seed.NewSeeder(db).Run(ctx, demoSeed)
	return err
}
