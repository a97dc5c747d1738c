// Command main runs the development database seeder.
package main

import (
	"context"
	"flag"
	"log"

	"collabfeed/internal/config"
	"collabfeed/internal/database"
	"collabfeed/internal/seed"
)

func main() {
	influencers := flag.Int("influencers", 40, "Number of influencers to create")
	companies := flag.Int("companies", 15, "Number of companies to create")
	posts := flag.Int("posts", 300, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randomSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 uses the clock)")
	flag.Parse()

	log.Printf("Target: %d influencers, %d companies, %d posts, clean=%v", *influencers, *companies, *posts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sum, err := seed.NewSeeder(db).Run(context.Background(), seed.Options{
		NumInfluencers: *influencers,
		NumCompanies:   *companies,
		NumPosts:       *posts,
		ShouldClean:    *shouldClean,
		RandomSeed:     *randomSeed,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Created %d users, %d connections, %d posts, %d comments, %d reactions, %d mentions",
		sum.Users, sum.Connections, sum.Posts, sum.Comments, sum.Reactions, sum.Mentions)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
