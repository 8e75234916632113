// Command seed fills the configured store with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"askly/internal/auth"
	"askly/internal/bootstrap"
	"askly/internal/config"
	"askly/internal/middleware"
	"askly/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	numQuestions := flag.Int("questions", 40, "Number of questions to create")
	maxAnswers := flag.Int("answers", 5, "Maximum answers per question")
	seedValue := flag.Int64("seed", 0, "Random seed (0 picks one)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production environment")
	}
	middleware.SetupLogger(cfg.Env)

	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	hasher := auth.NewArgon2Hasher(auth.Argon2Params{
		Memory:      cfg.Argon2MemoryKiB,
		Iterations:  cfg.Argon2Iterations,
		Parallelism: cfg.Argon2Parallelism,
	})

	res, err := seed.NewSeeder(store, hasher, *seedValue).Run(ctx, seed.Options{
		Users:              *numUsers,
		Questions:          *numQuestions,
		MaxAnswersPerQuest: *maxAnswers,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d questions, %d answers", len(res.Users), res.Questions, res.Answers)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
