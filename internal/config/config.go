package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"pobsd/internal/parser"
)

const DefaultPath = "pobsd.yaml"

type Config struct {
	Version int         `yaml:"version"`
	Source  string      `yaml:"source"`
	Mode    string      `yaml:"mode"`
	Cache   CacheConfig `yaml:"cache"`
	Store   StoreConfig `yaml:"store"`
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type StoreConfig struct {
	DSN string `yaml:"dsn"`
}

// Default is the configuration used when no config file exists.
func Default(source string) *Config {
	cfg := &Config{Version: 1, Source: source, Mode: parser.Relaxed.String()}
	applyDefaults(cfg)
	return cfg
}

// Load reads a config file. Relative paths in it are resolved against the
// directory holding the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	dir := filepath.Dir(path)
	cfg.Source = resolve(dir, cfg.Source)
	cfg.Cache.Path = resolve(dir, cfg.Cache.Path)
	cfg.Store.DSN = resolveDSN(dir, cfg.Store.DSN)
	applyDefaults(&cfg)
	return &cfg, nil
}

func (c *Config) ParseMode() (parser.Mode, error) {
	return parser.ParseMode(c.Mode)
}

// StoreKind is "sqlite" or "postgres", or empty when no store is configured.
func (c *Config) StoreKind() string {
	switch {
	case strings.HasPrefix(c.Store.DSN, "sqlite://"):
		return "sqlite"
	case strings.HasPrefix(c.Store.DSN, "postgres://"), strings.HasPrefix(c.Store.DSN, "postgresql://"):
		return "postgres"
	default:
		return ""
	}
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func validate(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Source) == "" {
		return fmt.Errorf("source is required")
	}
	if _, err := parser.ParseMode(cfg.Mode); err != nil {
		return err
	}
	if cfg.Store.DSN != "" && cfg.StoreKind() == "" {
		return fmt.Errorf("store dsn must start with sqlite:// or postgres://")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Mode == "" {
		cfg.Mode = parser.Relaxed.String()
	}
	if cfg.Cache.Enabled && cfg.Cache.Path == "" && cfg.Source != "" {
		cfg.Cache.Path = cfg.Source + ".snapshot"
	}
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// resolveDSN resolves the path of a sqlite:// DSN like any other path in the
// file. :memory: and other backends are left alone.
func resolveDSN(dir, dsn string) string {
	rest, ok := strings.CutPrefix(dsn, "sqlite://")
	if !ok {
		return dsn
	}
	path, query, hasQuery := strings.Cut(rest, "?")
	if path == "" || path == ":memory:" {
		return dsn
	}
	dsn = "sqlite://" + resolve(dir, path)
	if hasQuery {
		dsn += "?" + query
	}
	return dsn
}
