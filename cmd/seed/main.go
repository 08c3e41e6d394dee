package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"auraestate-backend/internal/auth"
	"auraestate-backend/internal/config"
	"auraestate-backend/internal/domain"
	"auraestate-backend/internal/infrastructure/database"
	"auraestate-backend/internal/pkg/logging"
	"auraestate-backend/internal/seed"

	"github.com/rs/zerolog/log"
)

func main() {
	reset := flag.Bool("reset", true, "delete existing rows before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database open")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	res, err := seed.Run(ctx, db, seed.Options{Reset: *reset})
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Int("properties", len(res.Properties)).Msg("database seeded")

	users := []domain.User{res.Renter, res.Landlord, res.Buyer}
	fmt.Printf("Demo accounts (password: %s):\n", seed.DemoPassword)
	for _, u := range users {
		fmt.Printf("  %-9s %s\n", u.Role, u.Email)
	}
	if cfg.JWTSecret == "" {
		return
	}

	tokens := auth.NewTokens(cfg.JWTSecret)
	fmt.Println("Development tokens:")
	for _, u := range users {
		tok, err := tokens.Sign(u.ID, u.Role, 0)
		if err != nil {
			log.Fatal().Err(err).Str("email", u.Email).Msg("sign token")
		}
		fmt.Printf("  %-9s %s\n", u.Role, tok)
	}
}
