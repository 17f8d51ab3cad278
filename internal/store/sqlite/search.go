package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"pobsd/internal/store"
)

func (c *Client) Search(ctx context.Context, query, source string) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	ftsQuery, err := convertWebsearchToFTS5(query)
	if err != nil {
		return nil, err
	}

	sqlQuery := `
	SELECT g.uid, g.name, g.source, g.genres, g.tags,
		   bm25(games_fts, 10.0, 2.0, 2.0) AS score,
		   snippet(games_fts, 0, '**', '**', '...', 16) AS snippet
	FROM games_fts
	JOIN games g ON games_fts.rowid = g.id
	WHERE games_fts MATCH ?
	  AND (? = '' OR g.source = ?)
	ORDER BY score ASC, g.name ASC
	LIMIT 50
	`

	rows, err := c.db.QueryContext(ctx, sqlQuery, ftsQuery, source, source)
	if err != nil {
		return nil, fmt.Errorf("searching games: %w", err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		var genres, tags []byte
		if err := rows.Scan(&r.UID, &r.Name, &r.Source, &genres, &tags, &r.Score, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		if r.Genres, err = store.UnmarshalList(genres); err != nil {
			return nil, fmt.Errorf("unmarshaling genres: %w", err)
		}
		if r.Tags, err = store.UnmarshalList(tags); err != nil {
			return nil, fmt.Errorf("unmarshaling tags: %w", err)
		}
		// bm25 ranks better matches lower
		r.Score = -r.Score
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}
	return results, nil
}

var errNegationOnly = errors.New("query needs at least one term that is not negated")

// convertWebsearchToFTS5 rewrites web-search style input ("quoted phrases",
// -negation, OR) into an FTS5 match expression. Terms with punctuation are
// quoted so titles like "Mr. Hat" stay valid FTS5 syntax. FTS5 cannot start
// an expression with NOT, so leading negations follow the first plain term.
func convertWebsearchToFTS5(query string) (string, error) {
	var result strings.Builder
	var current strings.Builder
	var held []string
	inQuote := false
	negateNext := false
	pendingOp := ""

	emit := func(term string) {
		negate := negateNext
		negateNext = false
		if result.Len() == 0 {
			if negate {
				held = append(held, term)
				return
			}
			result.WriteString(term)
			for _, h := range held {
				result.WriteString(" NOT " + h)
			}
			held = nil
			pendingOp = ""
			return
		}
		switch {
		case negate:
			result.WriteString(" NOT ")
		case pendingOp != "":
			result.WriteString(" " + pendingOp + " ")
		default:
			result.WriteString(" AND ")
		}
		pendingOp = ""
		result.WriteString(term)
	}

	flushToken := func() {
		token := current.String()
		current.Reset()
		switch strings.ToUpper(token) {
		case "":
			return
		case "-", "NOT":
			negateNext = true
			return
		case "AND", "OR":
			if result.Len() > 0 {
				pendingOp = strings.ToUpper(token)
			}
			return
		}

		if strings.HasPrefix(token, "-") {
			negateNext = true
			token = token[1:]
		}
		emit(quoteTerm(token))
	}

	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '"':
			if inQuote {
				inQuote = false
				phrase := strings.ReplaceAll(current.String(), `"`, "")
				current.Reset()
				if strings.TrimSpace(phrase) != "" {
					emit(`"` + phrase + `"`)
				}
			} else {
				flushToken()
				inQuote = true
			}
		case inQuote:
			current.WriteByte(ch)
		case ch == ' ' || ch == '\t':
			flushToken()
		default:
			current.WriteByte(ch)
		}
	}
	flushToken()

	if result.Len() == 0 {
		if len(held) > 0 {
			return "", errNegationOnly
		}
		return "", fmt.Errorf("query has no search terms")
	}
	return result.String(), nil
}

func quoteTerm(term string) string {
	prefix := strings.HasSuffix(term, "*")
	bare := strings.TrimSuffix(term, "*")
	plain := bare != ""
	for _, r := range bare {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			plain = false
			break
		}
	}
	if plain {
		return term
	}
	quoted := `"` + strings.ReplaceAll(bare, `"`, `""`) + `"`
	if prefix {
		quoted += "*"
	}
	return quoted
}
