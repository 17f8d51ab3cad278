package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	// A multi-statement Exec runs as one implicit transaction.
	ddl := `
CREATE TABLE IF NOT EXISTS sources (
    path        TEXT PRIMARY KEY,
    hash        TEXT NOT NULL,
    game_count  INTEGER NOT NULL DEFAULT 0,
    ingested_at TIMESTAMPTZ DEFAULT now()
);

CREATE TABLE IF NOT EXISTS games (
    id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    uid             TEXT NOT NULL,
    source          TEXT NOT NULL REFERENCES sources(path) ON DELETE CASCADE,
    position        INTEGER NOT NULL,
    name            TEXT NOT NULL,
    name_normalized TEXT NOT NULL,
    engine          TEXT,
    runtime         TEXT,
    year            INTEGER,
    status_level    TEXT,
    added           DATE,
    updated         DATE,
    steam_id        INTEGER,
    igdb_id         INTEGER,
    genres          TEXT[] DEFAULT '{}',
    tags            TEXT[] DEFAULT '{}',
    devs            TEXT[] DEFAULT '{}',
    publishers      TEXT[] DEFAULT '{}',
    stores          TEXT[] DEFAULT '{}',
    record          JSONB NOT NULL,
    CONSTRAINT uq_game_position UNIQUE (source, position)
);

ALTER TABLE games ADD COLUMN IF NOT EXISTS search_vector TSVECTOR;

CREATE INDEX IF NOT EXISTS idx_games_search ON games USING GIN (search_vector);
CREATE INDEX IF NOT EXISTS idx_games_uid ON games (uid);
CREATE INDEX IF NOT EXISTS idx_games_name_norm ON games (name_normalized);
CREATE INDEX IF NOT EXISTS idx_games_year ON games (year);
CREATE INDEX IF NOT EXISTS idx_games_engine ON games (engine);
CREATE INDEX IF NOT EXISTS idx_games_steam ON games (steam_id) WHERE steam_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_games_genres ON games USING GIN (genres);
CREATE INDEX IF NOT EXISTS idx_games_tags ON games USING GIN (tags);
`
	_, err := c.pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
