package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pobsd/internal/game"
	"pobsd/internal/store"
)

const insertGame = `
INSERT INTO games (
	uid, source, position, name, name_normalized, engine, runtime, year,
	status_level, added, updated, steam_id, igdb_id,
	genres, tags, devs, publishers, stores, record
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// ReplaceGames swaps every game of source for games in one transaction.
func (c *Client) ReplaceGames(ctx context.Context, source, sourceHash string, games []game.Game) (int64, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO sources (path, hash, game_count, ingested_at)
	VALUES (?, ?, ?, datetime('now'))
	ON CONFLICT (path) DO UPDATE SET
		hash = excluded.hash,
		game_count = excluded.game_count,
		ingested_at = datetime('now')
	`, source, sourceHash, len(games))
	if err != nil {
		return 0, fmt.Errorf("upserting source: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM games WHERE source = ?`, source); err != nil {
		return 0, fmt.Errorf("clearing games: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertGame)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var written int64
	for pos, g := range games {
		row, err := store.NewRow(pos, g)
		if err != nil {
			return 0, err
		}
		lists := make([]string, 0, 5)
		for _, values := range [][]string{row.Genres, row.Tags, row.Devs, row.Publishers, row.Stores} {
			data, err := store.MarshalList(values)
			if err != nil {
				return 0, fmt.Errorf("marshaling list: %w", err)
			}
			lists = append(lists, string(data))
		}

		_, err = stmt.ExecContext(ctx,
			row.UID, source, row.Position, row.Name, row.NameNormalized,
			row.Engine, row.Runtime, row.Year,
			row.StatusLevel, row.Added, row.Updated, row.SteamID, row.IgdbID,
			lists[0], lists[1], lists[2], lists[3], lists[4],
			string(row.Record),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting game %q: %w", g.Name, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing games: %w", err)
	}
	return written, nil
}

func (c *Client) GetGame(ctx context.Context, uid string) (*game.Game, error) {
	var record []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT record FROM games WHERE uid = ? ORDER BY source, position LIMIT 1`, uid,
	).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, uid)
	}
	if err != nil {
		return nil, fmt.Errorf("getting game: %w", err)
	}
	return store.DecodeRecord(record)
}

func (c *Client) ListGames(ctx context.Context, source string) ([]store.GameSummary, error) {
	query := `
	SELECT uid, name, source, position, year, engine
	FROM games
	WHERE (? = '' OR source = ?)
	ORDER BY source, position
	`
	return c.querySummaries(ctx, query, source, source)
}

func (c *Client) querySummaries(ctx context.Context, query string, args ...any) ([]store.GameSummary, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	summaries := []store.GameSummary{}
	for rows.Next() {
		var s store.GameSummary
		var year sql.NullInt64
		var engine sql.NullString
		if err := rows.Scan(&s.UID, &s.Name, &s.Source, &s.Position, &year, &engine); err != nil {
			return nil, fmt.Errorf("scanning game summary: %w", err)
		}
		if year.Valid {
			y := int(year.Int64)
			s.Year = &y
		}
		s.Engine = engine.String
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating game summaries: %w", err)
	}
	return summaries, nil
}
