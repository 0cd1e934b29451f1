// Command seed_demo fills a development database with demo users and
// recipes. Running it again leaves existing rows alone.
package main

import (
	"fmt"
	"os"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
)

// demoPassword is shared by every seeded account.
const demoPassword = "demo-password-123"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if config.IsProduction() {
		fmt.Fprintln(os.Stderr, "refusing to seed a production database")
		os.Exit(1)
	}
	logger.Init("foodgram-seed", true)

	db, err := database.Open(cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to migrate")
	}

	summary, err := seed(db, demoPassword)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("seeding failed")
	}

	logger.Logger.Info().
		Int("users_created", summary.users).
		Int("recipes_created", summary.recipes).
		Str("password", demoPassword).
		Msg("demo data ready")
}
