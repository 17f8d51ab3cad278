package postgres

import (
	"context"
	"fmt"
	"strings"

	"pobsd/internal/store"
)

func (c *Client) Search(ctx context.Context, query, source string) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	sql := `
SELECT uid, name, source, genres, tags,
    ts_rank(search_vector, websearch_to_tsquery('english', $1)) AS score,
    ts_headline('simple', name, websearch_to_tsquery('english', $1), 'StartSel=**, StopSel=**') AS snippet
FROM games
WHERE search_vector @@ websearch_to_tsquery('english', $1)
  AND ($2 = '' OR source = $2)
ORDER BY score DESC, name ASC
LIMIT 50
`

	rows, err := c.pool.Query(ctx, sql, query, source)
	if err != nil {
		return nil, fmt.Errorf("searching games: %w", err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		var score float32
		if err := rows.Scan(&r.UID, &r.Name, &r.Source, &r.Genres, &r.Tags, &score, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		r.Score = float64(score)
		if r.Genres == nil {
			r.Genres = []string{}
		}
		if r.Tags == nil {
			r.Tags = []string{}
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}
	return results, nil
}
