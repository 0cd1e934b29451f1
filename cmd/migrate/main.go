package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "", "Migrations directory (defaults to MIGRATIONS_DIR)")
	flag.Parse()

	logger.Init("foodgram-migrate", true)

	if err := run(*rollback, *dir); err != nil {
		if errors.Is(err, database.ErrNoMigrations) {
			logger.Logger.Warn().Msg("No migrations to rollback")
			return
		}
		logger.Logger.Fatal().Err(err).Msg("migration failed")
	}
}

func run(rollback bool, dir string) error {
	dsn := os.Getenv("DATABASE_URL")
	migrationsDir := dir
	if dsn == "" || migrationsDir == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if dsn == "" {
			dsn = cfg.DSN()
		}
		if migrationsDir == "" {
			migrationsDir = cfg.MigrationsDir
		}
	}

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if rollback {
		name, err := database.RollbackLast(db, migrationsDir)
		if err != nil {
			return err
		}
		fmt.Printf("Successfully rolled back migration: %s\n", name)
		return nil
	}

	if err := database.RunMigrations(db, migrationsDir); err != nil {
		return err
	}
	fmt.Println("All migrations applied successfully.")
	return nil
}
