package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/voyaglog/voyaglog-api/internal/auth"
	"github.com/voyaglog/voyaglog-api/internal/config"
	"github.com/voyaglog/voyaglog-api/internal/db"
	"github.com/voyaglog/voyaglog-api/internal/seeds"
)

func main() {
	file := flag.String("file", "seeds/accounts.example.yaml", "YAML file with accounts to create or update")
	flag.Parse()

	_ = godotenv.Load(".env.local")
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := run(*file, logger); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(file string, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	f, err := seeds.LoadFile(file)
	if err != nil {
		return err
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := auth.Init(database); err != nil {
		return err
	}

	issuer, err := auth.NewTokenIssuer(cfg.SigningSecret, cfg.TokenHorizon)
	if err != nil {
		return err
	}
	store := auth.NewGormStore(database)
	svc, err := auth.NewService(store, auth.NewBcryptHasher(cfg.BcryptCost, nil), issuer)
	if err != nil {
		return err
	}

	return seeds.SeedAll(context.Background(), svc, store, f, logger)
}
