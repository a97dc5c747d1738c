// Package server contains the HTTP handlers for the feed API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "collabfeed/docs" // swagger docs
	"collabfeed/internal/bootstrap"
	"collabfeed/internal/cache"
	"collabfeed/internal/config"
	"collabfeed/internal/extract"
	"collabfeed/internal/featureflags"
	"collabfeed/internal/middleware"
	"collabfeed/internal/models"
	"collabfeed/internal/notifications"
	"collabfeed/internal/repository"
	"collabfeed/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Accepted JWT issuer and audience of the identity service.
const (
	tokenIssuer   = "collab-identity"
	tokenAudience = "collab-client"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config            *config.Config
	db                *gorm.DB
	redis             *redis.Client
	app               *fiber.App
	promMiddleware    *fiberprometheus.FiberPrometheus
	notifier          *notifications.Notifier
	featureFlags      *featureflags.Manager
	feedService       *service.FeedService
	postService       *service.PostService
	engagementService *service.EngagementService
	commentService    *service.CommentService
	collectionService *service.CollectionService
	shareService      *service.ShareService
	hashtagService    *service.HashtagService
	mentionService    *service.MentionService
}

// Options control runtime initialization in NewServerWithOptions.
type Options = bootstrap.Options

// NewServer connects to the database and Redis and builds a Server on them.
func NewServer(cfg *config.Config) (*Server, error) {
	return NewServerWithOptions(cfg, Options{})
}

// NewServerWithOptions is NewServer with control over demo seeding.
func NewServerWithOptions(cfg *config.Config, opts Options) (*Server, error) {
	db, rdb, err := bootstrap.InitRuntime(cfg, opts)
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, rdb)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; caching, rate limits and mention notifications are
// then disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	saveRepo := repository.NewSaveRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	shareRepo := repository.NewShareRepository(db)
	hashtagRepo := repository.NewHashtagRepository(db)
	mentionRepo := repository.NewMentionRepository(db)
	entityRepo := repository.NewEntityRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("collabfeed-api"),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
	}
	store := cache.NewStore(redisClient)

	extractor := extract.NewExtractor(userRepo, entityRepo, store, server.notifier, server.featureFlags)
	server.feedService = service.NewFeedService(postRepo, connectionRepo, profileRepo, server.featureFlags, cfg.OverfetchFactor())
	server.postService = service.NewPostService(postRepo, extractor)
	server.engagementService = service.NewEngagementService(postRepo, reactionRepo, saveRepo)
	server.commentService = service.NewCommentService(commentRepo, postRepo)
	server.collectionService = service.NewCollectionService(postRepo, saveRepo, collectionRepo)
	server.shareService = service.NewShareService(postRepo, shareRepo)
	server.hashtagService = service.NewHashtagService(hashtagRepo, store, time.Duration(cfg.TrendingCacheTTLSeconds)*time.Second)
	server.mentionService = service.NewMentionService(userRepo, mentionRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected browser requests still carry
	// CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (300 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Collabfeed Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	feed := api.Group("/feed", s.AuthRequired())
	s.registerFeedRoutes(feed)
}

func (s *Server) registerFeedRoutes(feed fiber.Router) {
	feed.Get("/feature-flags", s.GetFeatureFlags)

	// Define specific /posts/:id/:resource routes BEFORE generic /posts/:id
	posts := feed.Group("/posts")
	posts.Post("/", middleware.RateLimit(s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	posts.Get("/", s.GetFeed)
	posts.Post("/:id/like", s.LikePost)
	posts.Delete("/:id/like", s.UnlikePost)
	posts.Get("/:id/liked", s.HasLikedPost)
	posts.Post("/:id/comments", middleware.RateLimit(s.redis, 30, time.Minute, "create_comment"), s.CreateComment)
	posts.Get("/:id/comments", s.GetComments)
	posts.Post("/:id/save", s.SavePost)
	posts.Delete("/:id/save", s.UnsavePost)
	posts.Get("/:id/saved", s.HasSavedPost)
	posts.Get("/:id/interaction-status", s.GetInteractionStatus)
	posts.Post("/:id/react", middleware.RateLimit(s.redis, 60, time.Minute, "react"), s.ReactToPost)
	posts.Delete("/:id/react", s.RemoveReaction)
	posts.Get("/:id/reactions", s.GetPostReactions)
	posts.Post("/:id/share", middleware.RateLimit(s.redis, 30, time.Minute, "share"), s.TrackShare)
	posts.Get("/:id/share-count", s.GetShareCount)
	posts.Get("/:id/share-details", s.GetShareDetails)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", s.DeletePost)

	feed.Get("/personalized", s.GetPersonalizedFeed)
	feed.Delete("/comments/:id", s.DeleteComment)

	saved := feed.Group("/saved")
	saved.Get("/", s.GetSavedPosts)
	saved.Get("/by-collection", s.GetSavedPostsByCollection)

	collections := feed.Group("/collections")
	collections.Post("/", s.CreateCollection)
	collections.Get("/", s.GetCollections)
	collections.Get("/:id", s.GetCollection)
	collections.Put("/:id", s.UpdateCollection)
	collections.Delete("/:id", s.DeleteCollection)

	hashtags := feed.Group("/hashtags")
	hashtags.Get("/trending", s.GetTrendingHashtags)
	hashtags.Get("/search", s.SearchHashtags)
	hashtags.Get("/:name/posts", s.GetPostsByHashtag)

	mentions := feed.Group("/mentions")
	mentions.Get("/search-users", s.SearchUsersForMention)
	mentions.Get("/my-mentions", s.GetUserMentions)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: the
// feed degrades without it.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if redisStatus != "healthy" {
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired verifies the identity service's bearer token and stores the
// viewer id in c.Locals("userID").
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		},
			jwt.WithIssuer(tokenIssuer),
			jwt.WithAudience(tokenAudience),
		)
		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil || userID == 0 {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		c.Locals("userID", uint(userID))
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// NewApp builds the Fiber app with middleware and routes and keeps it for
// Start and Shutdown.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Collabfeed API",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, err)
			}
			middleware.Logger.ErrorContext(c.UserContext(), "Unhandled request error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// Start listens on the configured port, building the app first if NewApp
// has not been called.
func (s *Server) Start() error {
	if s.app == nil {
		s.NewApp()
	}
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
