package config

import (
	"os"
	"path/filepath"
	"testing"

	"pobsd/internal/parser"
)

func TestLoad(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		cfg, err := Load(filepath.Join("testdata", "valid_config.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Source != filepath.Join("testdata", "games.db") {
			t.Fatalf("expected source resolved against config dir, got %q", cfg.Source)
		}
		if mode, _ := cfg.ParseMode(); mode != parser.Strict {
			t.Fatalf("expected strict mode, got %v", mode)
		}
		if !cfg.Cache.Enabled || cfg.Cache.Path != filepath.Join("testdata", "games.db.snapshot") {
			t.Fatalf("expected default cache path, got %+v", cfg.Cache)
		}
		if cfg.StoreKind() != "sqlite" {
			t.Fatalf("expected sqlite store, got %q", cfg.StoreKind())
		}
		if want := "sqlite://" + filepath.Join("testdata", "games.sqlite"); cfg.Store.DSN != want {
			t.Fatalf("expected dsn resolved against config dir, got %q", cfg.Store.DSN)
		}
	})

	t.Run("sqlite dsn resolution", func(t *testing.T) {
		abs := filepath.Join(t.TempDir(), "export.sqlite")
		tests := []struct {
			dsn  string
			want string
		}{
			{"sqlite://export.sqlite?_pragma=foo", "sqlite://" + filepath.Join("dir", "export.sqlite") + "?_pragma=foo"},
			{"sqlite://" + abs, "sqlite://" + abs},
			{"sqlite://:memory:", "sqlite://:memory:"},
			{"postgres://localhost/games", "postgres://localhost/games"},
		}
		for _, tt := range tests {
			if got := resolveDSN("dir", tt.dsn); got != tt.want {
				t.Fatalf("resolveDSN(%q) = %q, want %q", tt.dsn, got, tt.want)
			}
		}
	})

	t.Run("mode defaults to relaxed", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nsource: games.db\n")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if mode, _ := cfg.ParseMode(); mode != parser.Relaxed {
			t.Fatalf("expected relaxed mode, got %v", mode)
		}
		if cfg.StoreKind() != "" {
			t.Fatalf("expected no store, got %q", cfg.StoreKind())
		}
	})

	t.Run("absolute paths are kept", func(t *testing.T) {
		abs := filepath.Join(t.TempDir(), "elsewhere.db")
		path := writeTempConfig(t, "version: 1\nsource: "+abs+"\n")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Source != abs {
			t.Fatalf("expected %q, got %q", abs, cfg.Source)
		}
	})

	t.Run("missing source", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nmode: strict\n")
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		path := writeTempConfig(t, "version: 2\nsource: games.db\n")
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nsource: games.db\nmode: lenient\n")
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown store scheme", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nsource: games.db\nstore:\n  dsn: mysql://localhost/games\n")
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("postgres store", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nsource: games.db\nstore:\n  dsn: postgres://localhost:5432/games\n")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.StoreKind() != "postgres" {
			t.Fatalf("expected postgres store, got %q", cfg.StoreKind())
		}
	})

	t.Run("file not found", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeTempConfig(t, "source: [\n")
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestDefault(t *testing.T) {
	cfg := Default("games.db")
	if err := validate(cfg); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	path := writeTempConfig(t, string(data))
	if _, err := Load(path); err != nil {
		t.Fatalf("expected marshalled default to load, got %v", err)
	}
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pobsd.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
