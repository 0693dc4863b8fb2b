// cmd/migrate runs goose commands against DATABASE_URL.
// Usage: migrate [up|down|status|version|redo|reset] [args...]
package main

import (
	"context"
	"os"
	"time"

	"github.com/st9-8/mouegne/internal/config"
	"github.com/st9-8/mouegne/internal/infra"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	command := "up"
	var args []string
	if len(os.Args) > 1 {
		command = os.Args[1]
		args = os.Args[2:]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if infra.IsSQLite(cfg.DatabaseURL) {
		log.Fatal().Msg("migrations target postgres; sqlite databases are migrated by the server at start-up")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}
	defer sqlDB.Close()

	if err := infra.Migrate(context.Background(), sqlDB, command, args...); err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migration failed")
	}
	log.Info().Str("command", command).Msg("migration done")
}
