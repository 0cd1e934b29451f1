// Command import_ingredients loads ingredients from CSV or JSON files.
// Rows that already exist (same name and unit) are skipped, so a file can be
// imported repeatedly.
package main

import (
	"fmt"
	"os"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: import_ingredients <file.csv|file.json>...")
		os.Exit(2)
	}

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(paths []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init("foodgram-import", config.IsDevelopment())

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	for _, path := range paths {
		rows, err := readFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		imported, err := importIngredients(db, rows)
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		logger.Logger.Info().
			Str("file", path).
			Int("rows", len(rows)).
			Int64("imported", imported).
			Msg("ingredients imported")
	}
	return nil
}
