package main

import (
	"context"
	"os"

	"app/internal/config"
	"app/internal/infra/csvstore"
	"app/internal/infra/gormstore"
	"app/internal/migrate"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// CSVのデータをリレーショナルストアへ移す一回きりのツール。
// 何度実行しても既存行は飛ばすだけで壊れない。
func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required for migration")
	}

	src, err := csvstore.New(cfg.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("csv store init failed")
	}

	dst, err := gormstore.Open(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("relational store open failed")
	}

	res, err := migrate.New(src, dst, log).Run(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("migration aborted")
	}

	if res.Failed > 0 {
		os.Exit(1)
	}
}
