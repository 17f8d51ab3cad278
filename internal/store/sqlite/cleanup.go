package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// RemoveStaleSources drops every source not listed, with its games.
func (c *Client) RemoveStaleSources(ctx context.Context, currentSources []string) (int64, error) {
	if len(currentSources) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(currentSources))
	args := make([]any, len(currentSources))
	for i, s := range currentSources {
		placeholders[i] = "?"
		args[i] = s
	}

	query := fmt.Sprintf(`DELETE FROM sources WHERE path NOT IN (%s)`, strings.Join(placeholders, ", "))

	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("removing stale sources: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return affected, nil
}

// GetSourceHash returns "" for a source that was never ingested.
func (c *Client) GetSourceHash(ctx context.Context, source string) (string, error) {
	var hash string
	err := c.db.QueryRowContext(ctx, `SELECT hash FROM sources WHERE path = ?`, source).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query source hash: %w", err)
	}
	return hash, nil
}
