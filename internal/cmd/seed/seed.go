// Package seed parses seeder flags and fills the database with demo data.
package seed

import (
	"context"
	"flag"
	"fmt"
	"log"

	entrypoint "github.com/strayhq/shelter/internal/platform/cmd"
	"github.com/strayhq/shelter/internal/shelter/seed"
	"github.com/strayhq/shelter/internal/shelter/storage/sqlite"
)

// Config holds seed command configuration.
type Config struct {
	DBPath string `env:"SHELTER_DB_PATH" envDefault:"data/shelter.db"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the sqlite database file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run seeds the configured database.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open shelter sqlite store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close shelter store: %v", err)
			}
		}()
		return seed.Run(ctx, store)
	})
}
