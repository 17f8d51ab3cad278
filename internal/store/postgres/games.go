package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pobsd/internal/game"
	"pobsd/internal/store"
)

const insertGame = `
INSERT INTO games (
    uid, source, position, name, name_normalized, engine, runtime, year,
    status_level, added, updated, steam_id, igdb_id,
    genres, tags, devs, publishers, stores, record, search_vector
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10::date, $11::date, $12, $13,
    $14, $15, $16, $17, $18, $19,
    setweight(to_tsvector('simple', coalesce($4, '')), 'A') ||
    setweight(to_tsvector('english', array_to_string($14::text[], ' ')), 'B') ||
    setweight(to_tsvector('english', array_to_string($15::text[], ' ')), 'B')
)
`

// ReplaceGames swaps every game of source for games in one transaction. The
// inserts are sent as a single batch.
func (c *Client) ReplaceGames(ctx context.Context, source, sourceHash string, games []game.Game) (int64, error) {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
INSERT INTO sources (path, hash, game_count, ingested_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (path) DO UPDATE SET
    hash = EXCLUDED.hash,
    game_count = EXCLUDED.game_count,
    ingested_at = now()
`, source, sourceHash, len(games))
	if err != nil {
		return 0, fmt.Errorf("upserting source: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM games WHERE source = $1`, source); err != nil {
		return 0, fmt.Errorf("clearing games: %w", err)
	}

	batch := &pgx.Batch{}
	for pos, g := range games {
		row, err := store.NewRow(pos, g)
		if err != nil {
			return 0, err
		}
		batch.Queue(insertGame,
			row.UID, source, row.Position, row.Name, row.NameNormalized,
			row.Engine, row.Runtime, row.Year,
			row.StatusLevel, row.Added, row.Updated, row.SteamID, row.IgdbID,
			row.Genres, row.Tags, row.Devs, row.Publishers, row.Stores,
			row.Record,
		)
	}

	results := tx.SendBatch(ctx, batch)
	var written int64
	for _, g := range games {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return 0, fmt.Errorf("inserting game %q: %w", g.Name, err)
		}
		written++
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("closing batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing games: %w", err)
	}
	return written, nil
}

func (c *Client) GetGame(ctx context.Context, uid string) (*game.Game, error) {
	var record []byte
	err := c.pool.QueryRow(ctx,
		`SELECT record FROM games WHERE uid = $1 ORDER BY source, position LIMIT 1`, uid,
	).Scan(&record)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, uid)
	}
	if err != nil {
		return nil, fmt.Errorf("getting game: %w", err)
	}
	return store.DecodeRecord(record)
}

func (c *Client) ListGames(ctx context.Context, source string) ([]store.GameSummary, error) {
	query := `
SELECT uid, name, source, position, year, coalesce(engine, '')
FROM games
WHERE ($1 = '' OR source = $1)
ORDER BY source, position
`
	return c.querySummaries(ctx, query, source)
}

func (c *Client) querySummaries(ctx context.Context, query string, args ...any) ([]store.GameSummary, error) {
	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	summaries := []store.GameSummary{}
	for rows.Next() {
		var s store.GameSummary
		if err := rows.Scan(&s.UID, &s.Name, &s.Source, &s.Position, &s.Year, &s.Engine); err != nil {
			return nil, fmt.Errorf("scanning game summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating game summaries: %w", err)
	}
	return summaries, nil
}
