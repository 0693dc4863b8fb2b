// cmd/mintoken issues an access token for an operator.
// Usage: mintoken -user alice -role staff [-ttl 12h]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/st9-8/mouegne/internal/config"
	"github.com/st9-8/mouegne/internal/middleware"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	username := flag.String("user", "", "username carried in the token")
	role := flag.String("role", middleware.RoleStaff, "user | staff | superuser")
	ttl := flag.Duration("ttl", 0, "token lifetime (default JWT_EXPIRATION_HOURS)")
	flag.Parse()

	if *username == "" {
		log.Fatal().Msg("-user is required")
	}
	switch *role {
	case middleware.RoleUser, middleware.RoleStaff, middleware.RoleSuperuser:
	default:
		log.Fatal().Str("role", *role).Msg("unknown role")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is not set")
	}
	if *ttl == 0 {
		*ttl = time.Duration(cfg.JWTExpirationHours) * time.Hour
	}

	token, err := middleware.IssueToken(cfg.JWTSecret, uuid.NewString(), *username, *role, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}
	fmt.Println(token)
}
