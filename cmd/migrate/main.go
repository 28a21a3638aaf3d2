// Command migrate applies the embedded schema migrations to the
// database named by DB_ADDR.
package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/taskapp/auth-service/internal/infrastructure/db/postgres"
	"github.com/taskapp/auth-service/internal/logger"
)

func main() {
	logger.Init()
	_ = godotenv.Load()

	dsn := os.Getenv("DB_ADDR")
	if dsn == "" {
		zlog.Fatal().Msg("DB_ADDR is required")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		zlog.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		zlog.Fatal().Err(err).Msg("ping database")
	}

	if err := postgres.Migrate(ctx, db); err != nil {
		zlog.Fatal().Err(err).Msg("apply migrations")
	}

	zlog.Info().Msg("migrations applied")
}
