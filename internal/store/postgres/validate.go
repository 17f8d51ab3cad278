package postgres

import (
	"context"

	"pobsd/internal/store"
)

func (c *Client) ListDuplicateNames(ctx context.Context) ([]store.GameSummary, error) {
	query := `
SELECT uid, name, source, position, year, coalesce(engine, '') FROM games
WHERE name_normalized IN (
    SELECT name_normalized FROM games
    GROUP BY name_normalized
    HAVING COUNT(*) > 1
)
ORDER BY name_normalized, source, position
`
	return c.querySummaries(ctx, query)
}
