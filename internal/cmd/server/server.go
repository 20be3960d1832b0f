// Package server parses shelter server flags and launches the HTTP API.
package server

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/strayhq/shelter/internal/platform/cmd"
	"github.com/strayhq/shelter/internal/shelter/app"
)

// Config holds server command configuration.
type Config struct {
	Port   int    `env:"SHELTER_PORT" envDefault:"8080"`
	DBPath string `env:"SHELTER_DB_PATH" envDefault:"data/shelter.db"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The shelter HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the sqlite database file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the shelter HTTP API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		srv, err := app.NewServer(app.Config{
			HTTPAddr: fmt.Sprintf(":%d", cfg.Port),
			DBPath:   cfg.DBPath,
		})
		if err != nil {
			return err
		}
		defer srv.Close()
		return srv.ListenAndServe(ctx)
	})
}
