package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrReadOnly is returned by RunSQL for statements that would modify the
// store. Games only change through ReplaceGames so source hashes stay true.
var ErrReadOnly = errors.New("only read queries are allowed")

var readVerbs = map[string]bool{
	"SELECT":  true,
	"WITH":    true,
	"EXPLAIN": true,
	"VALUES":  true,
}

var writeWords = map[string]bool{
	"INSERT": true, "UPDATE": true, "DELETE": true, "REPLACE": true,
	"MERGE": true, "UPSERT": true, "TRUNCATE": true,
	"CREATE": true, "DROP": true, "ALTER": true,
	"ATTACH": true, "DETACH": true, "PRAGMA": true,
	"VACUUM": true, "REINDEX": true, "GRANT": true, "COPY": true,
}

// CheckReadOnly rejects a query unless it is a single statement starting
// with a read verb and naming no write keyword outside string literals and
// comments. The backends still run RunSQL read-only; this gives the early
// error.
func CheckReadOnly(query string) error {
	words, multiple := sqlWords(query)
	if len(words) == 0 {
		return fmt.Errorf("query must not be empty")
	}
	if multiple {
		return fmt.Errorf("%w: multiple statements", ErrReadOnly)
	}
	if !readVerbs[words[0]] {
		return fmt.Errorf("%w: %s", ErrReadOnly, words[0])
	}
	for _, w := range words[1:] {
		if writeWords[w] {
			return fmt.Errorf("%w: %s", ErrReadOnly, w)
		}
	}
	return nil
}

// sqlWords returns the upper-cased bare words of query, skipping quoted text
// and comments, and whether anything follows the first semicolon.
func sqlWords(query string) ([]string, bool) {
	var words []string
	ended := false
	multiple := false
	for i := 0; i < len(query); {
		ch := query[i]
		switch {
		case ch == '\'' || ch == '"' || ch == '`':
			end := strings.IndexByte(query[i+1:], ch)
			if end < 0 {
				i = len(query)
			} else {
				i += end + 2
			}
			if ended {
				multiple = true
			}
		case strings.HasPrefix(query[i:], "--"):
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				end = len(query) - i
			}
			i += end
		case strings.HasPrefix(query[i:], "/*"):
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				i = len(query)
			} else {
				i += end + 4
			}
		case ch == ';':
			ended = true
			i++
		case isWordByte(ch):
			j := i
			for j < len(query) && isWordByte(query[j]) {
				j++
			}
			// a later word directly followed by "(" is a function call, as in replace(name, 'a', 'b')
			if k := skipSpace(query, j); len(words) == 0 || k >= len(query) || query[k] != '(' {
				words = append(words, strings.ToUpper(query[i:j]))
			}
			if ended {
				multiple = true
			}
			i = j
		default:
			if ended && ch != ' ' && ch != '\t' && ch != '\n' && ch != '\r' {
				multiple = true
			}
			i++
		}
	}
	return words, multiple
}

func isWordByte(ch byte) bool {
	return ch == '_' || ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

// PositionalArgs orders params keyed "1", "2", ... into driver arguments.
func PositionalArgs(params map[string]any) ([]any, error) {
	args := make([]any, len(params))
	for key, val := range params {
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 || n > len(params) {
			return nil, fmt.Errorf("parameter %q: keys must be 1..%d", key, len(params))
		}
		args[n-1] = val
	}
	return args, nil
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}
