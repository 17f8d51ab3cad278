package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"pobsd/internal/cache"
	"pobsd/internal/config"
	"pobsd/internal/db"
	"pobsd/internal/parser"
	"pobsd/internal/store"
	"pobsd/internal/store/postgres"
	"pobsd/internal/store/sqlite"
)

// loadConfig reads --config, or pobsd.yaml when present, and applies the
// --source and --strict overrides. Without a config file --source is required.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configPath != "":
		c, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		c, err := config.Load(config.DefaultPath)
		switch {
		case err == nil:
			cfg = c
		case errors.Is(err, os.ErrNotExist):
			if sourcePath == "" {
				return nil, fmt.Errorf("no %s found: pass --source or run pobsd init", config.DefaultPath)
			}
			cfg = config.Default(sourcePath)
		default:
			return nil, err
		}
	}

	if sourcePath != "" {
		cfg.Source = sourcePath
	}
	if strict {
		cfg.Mode = parser.Strict.String()
	}
	return cfg, nil
}

func parseSource(cfg *config.Config) (parser.Result, error) {
	mode, err := cfg.ParseMode()
	if err != nil {
		return nil, err
	}
	if cfg.Cache.Enabled && cfg.Cache.Path != "" {
		snapshots := cache.New(cfg.Cache.Path, cache.WithLogger(logger))
		res, hit, err := snapshots.ParseFile(mode, cfg.Source)
		if err != nil {
			return nil, err
		}
		logger.Debug("parsed source", zap.String("source", cfg.Source), zap.Bool("snapshot", hit))
		return res, nil
	}
	return parser.ParseFile(mode, cfg.Source)
}

func loadDatabase() (*db.Database, []parser.Diagnostic, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	res, err := parseSource(cfg)
	if err != nil {
		return nil, nil, err
	}
	diagnostics := parser.Diagnostics(res)
	for _, d := range diagnostics {
		logger.Warn("malformed line", zap.String("source", cfg.Source), zap.Int("line", d.Line), zap.Error(d))
	}
	return db.New(parser.Games(res)), diagnostics, nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreKind() {
	case "sqlite":
		client, err := sqlite.New(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "postgres":
		client, err := postgres.New(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("no store configured: set store.dsn in %s", config.DefaultPath)
	}
}
