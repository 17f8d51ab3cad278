package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// RemoveStaleSources drops every source not listed, with its games.
func (c *Client) RemoveStaleSources(ctx context.Context, currentSources []string) (int64, error) {
	if len(currentSources) == 0 {
		return 0, nil
	}

	tag, err := c.pool.Exec(ctx, `DELETE FROM sources WHERE NOT (path = ANY($1))`, currentSources)
	if err != nil {
		return 0, fmt.Errorf("removing stale sources: %w", err)
	}
	return tag.RowsAffected(), nil
}

// GetSourceHash returns "" for a source that was never ingested.
func (c *Client) GetSourceHash(ctx context.Context, source string) (string, error) {
	var hash string
	err := c.pool.QueryRow(ctx, `SELECT hash FROM sources WHERE path = $1`, source).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query source hash: %w", err)
	}
	return hash, nil
}
