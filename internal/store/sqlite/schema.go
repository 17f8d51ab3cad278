package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS sources (
		path        TEXT PRIMARY KEY,
		hash        TEXT NOT NULL,
		game_count  INTEGER NOT NULL DEFAULT 0,
		ingested_at TEXT DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS games (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		uid             TEXT NOT NULL,
		source          TEXT NOT NULL REFERENCES sources(path) ON DELETE CASCADE,
		position        INTEGER NOT NULL,
		name            TEXT NOT NULL,
		name_normalized TEXT NOT NULL,
		engine          TEXT,
		runtime         TEXT,
		year            INTEGER,
		status_level    TEXT,
		added           TEXT,
		updated         TEXT,
		steam_id        INTEGER,
		igdb_id         INTEGER,
		genres          TEXT DEFAULT '[]',
		tags            TEXT DEFAULT '[]',
		devs            TEXT DEFAULT '[]',
		publishers      TEXT DEFAULT '[]',
		stores          TEXT DEFAULT '[]',
		record          TEXT NOT NULL,
		CONSTRAINT uq_game_position UNIQUE (source, position)
	);

	CREATE INDEX IF NOT EXISTS idx_games_uid ON games (uid);
	CREATE INDEX IF NOT EXISTS idx_games_name_norm ON games (name_normalized);
	CREATE INDEX IF NOT EXISTS idx_games_year ON games (year);
	CREATE INDEX IF NOT EXISTS idx_games_engine ON games (engine);
	CREATE INDEX IF NOT EXISTS idx_games_steam ON games (steam_id) WHERE steam_id IS NOT NULL;

	CREATE VIRTUAL TABLE IF NOT EXISTS games_fts USING fts5(
		name,
		genres,
		tags,
		content=games,
		content_rowid=id
	);

	CREATE TRIGGER IF NOT EXISTS games_ai AFTER INSERT ON games BEGIN
		INSERT INTO games_fts(rowid, name, genres, tags)
		VALUES (new.id, new.name, new.genres, new.tags);
	END;

	CREATE TRIGGER IF NOT EXISTS games_ad AFTER DELETE ON games BEGIN
		INSERT INTO games_fts(games_fts, rowid, name, genres, tags)
		VALUES ('delete', old.id, old.name, old.genres, old.tags);
	END;

	CREATE TRIGGER IF NOT EXISTS games_au AFTER UPDATE ON games BEGIN
		INSERT INTO games_fts(games_fts, rowid, name, genres, tags)
		VALUES ('delete', old.id, old.name, old.genres, old.tags);
		INSERT INTO games_fts(rowid, name, genres, tags)
		VALUES (new.id, new.name, new.genres, new.tags);
	END;
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}
	return nil
}

// splitStatements splits DDL on lines ending in ';'. Trigger bodies are kept
// whole because their inner statements are followed by END;.
func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder
	inTrigger := false

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		if strings.HasPrefix(strings.ToUpper(stripped), "CREATE TRIGGER") {
			inTrigger = true
		}
		current.WriteString(line)
		current.WriteString("\n")

		if !strings.HasSuffix(stripped, ";") {
			continue
		}
		if inTrigger && !strings.EqualFold(stripped, "END;") {
			continue
		}
		statements = append(statements, current.String())
		current.Reset()
		inTrigger = false
	}

	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}
	return statements
}
