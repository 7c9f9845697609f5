// Package server parses assign server flags and launches the service.
package server

import (
	"context"
	"flag"

	entrypoint "github.com/Bram-Hub/assign/internal/platform/cmd"
	app "github.com/Bram-Hub/assign/internal/services/assign/app"
)

// Config holds assign server command configuration.
type Config struct {
	Port int `env:"ARIS_ASSIGN_PORT" envDefault:"9001"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The assign server port")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the assign protocol server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(context.Context) error {
		return app.Run(ctx, cfg.Port)
	})
}
