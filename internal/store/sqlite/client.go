package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pobsd/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*Client)(nil)

const connectTimeout = 30 * time.Second

type Client struct {
	db *sql.DB
}

// New opens the export database named by a sqlite:// DSN, creating the
// directory of a file database when it is missing.
func New(ctx context.Context, dsn string) (*Client, error) {
	driverDSN, err := parseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite DSN: %w", err)
	}
	memory := isMemory(driverDSN)
	if !memory {
		path, _, _ := strings.Cut(driverDSN, "?")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", driverDSN)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if memory {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	for _, pragma := range pragmas(memory) {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting %q: %w", pragma, err)
		}
	}
	return &Client{db: db}, nil
}

// Foreign keys carry the games -> sources cascade.
func pragmas(memory bool) []string {
	list := []string{
		"PRAGMA busy_timeout = 30000",
		"PRAGMA foreign_keys = ON",
	}
	if !memory {
		list = append(list, "PRAGMA journal_mode = WAL", "PRAGMA synchronous = NORMAL")
	}
	return list
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close()
}
