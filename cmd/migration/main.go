package main

import (
	"flag"
	"log/slog"
	"os"

	"muster/cmd/migration/initialize"
	"muster/cmd/migration/seed"
	"muster/config"
	"muster/internal/database"
	"muster/internal/logger"
)

func main() {
	withSeed := flag.Bool("seed", false, "seed development data after migrating")
	flag.Parse()

	logger.Setup(slog.LevelInfo)
	log := logger.New("migration")

	cfg, err := config.InitConfig()
	if err != nil {
		log.Er("failed to initialize config", err)
		os.Exit(1)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Er("failed to create database", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := initialize.InitializeTables(db.SQL, cfg, log); err != nil {
		log.Er("failed to initialize tables", err)
		os.Exit(1)
	}

	if *withSeed {
		if err := seed.Seed(db.SQL, cfg, log); err != nil {
			log.Er("failed to seed data", err)
			os.Exit(1)
		}
	}
}
