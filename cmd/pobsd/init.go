package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pobsd/internal/config"
	"pobsd/internal/parser"
)

func initCmd() *cobra.Command {
	var dsn string
	var cacheEnabled bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a pobsd.yaml config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = config.DefaultPath
			}
			source := sourcePath
			if source == "" {
				source = "games.db"
			}
			cfg := config.Default(source)
			if strict {
				cfg.Mode = parser.Strict.String()
			}
			cfg.Cache.Enabled = cacheEnabled
			if cacheEnabled {
				cfg.Cache.Path = source + ".snapshot"
			}
			cfg.Store.DSN = dsn
			if dsn != "" && cfg.StoreKind() == "" {
				return fmt.Errorf("--dsn must start with sqlite:// or postgres://")
			}
			return runInit(cmd, path, cfg)
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "sqlite://games.sqlite", "Store DSN (sqlite:// or postgres://)")
	cmd.Flags().BoolVar(&cacheEnabled, "cache", true, "Enable the parsed snapshot cache")
	return cmd
}

func runInit(cmd *cobra.Command, path string, cfg *config.Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	contents, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s.\n", path)
	return nil
}
