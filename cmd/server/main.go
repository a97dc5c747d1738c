// Command main is the entry point for the collabfeed API server.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collabfeed/internal/config"
	"collabfeed/internal/observability"
	"collabfeed/internal/server"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title Collabfeed API
// @version 1.0
// @description Influencer and brand collaboration feed: posts, ranking, engagement, hashtags and mentions
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@collabfeed.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8375
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	seedDemo := flag.Bool("seed-demo", false, "Populate an empty development database with demo data")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "collabfeed-api",
		ServiceVersion: version,
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	srv, err := server.NewServerWithOptions(cfg, server.Options{SeedDemoData: *seedDemo})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	srv.NewApp()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Println("Shutting down server...")
	case err := <-errCh:
		log.Printf("Server stopped: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server resource shutdown error: %v", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Printf("Tracing shutdown error: %v", err)
	}
}
