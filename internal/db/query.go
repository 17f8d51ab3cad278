package db

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"pobsd/internal/game"
)

// QueryResult is an ordered set of positions into a Database. Filters never
// add games, so applying them in any order gives the same set.
type QueryResult struct {
	db        *Database
	positions []int
}

func (r QueryResult) Len() int {
	return len(r.positions)
}

func (r QueryResult) Positions() []int {
	return slices.Clone(r.positions)
}

func (r QueryResult) Games() []game.Game {
	if r.db == nil || len(r.positions) == 0 {
		return nil
	}
	games := make([]game.Game, len(r.positions))
	for i, pos := range r.positions {
		games[i] = r.db.games[pos]
	}
	return games
}

// SortedByName returns the games ordered by name, ignoring a leading article.
// Ties keep collection order.
func (r QueryResult) SortedByName() []game.Game {
	games := r.Games()
	slices.SortStableFunc(games, game.Compare)
	return games
}

func (r QueryResult) ByName(needle string) QueryResult {
	if r.db == nil {
		return r
	}
	needle = strings.ToLower(needle)
	var positions []int
	for _, pos := range r.positions {
		if strings.Contains(r.db.lowered[pos], needle) {
			positions = append(positions, pos)
		}
	}
	return QueryResult{db: r.db, positions: positions}
}

func (r QueryResult) ByYear(year string) (QueryResult, error) {
	n, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return QueryResult{}, fmt.Errorf("%w: year %q is not an integer", ErrMalformedQueryArgument, year)
	}
	return r.narrow(DimYear, strconv.Itoa(n)), nil
}

func (r QueryResult) ByEngine(engine string) QueryResult {
	return r.narrow(DimEngine, engine)
}

func (r QueryResult) ByRuntime(runtime string) QueryResult {
	return r.narrow(DimRuntime, runtime)
}

func (r QueryResult) ByGenre(genre string) QueryResult {
	return r.narrow(DimGenre, genre)
}

func (r QueryResult) ByTag(tag string) QueryResult {
	return r.narrow(DimTag, tag)
}

func (r QueryResult) ByDev(dev string) QueryResult {
	return r.narrow(DimDev, dev)
}

func (r QueryResult) ByPublisher(publisher string) QueryResult {
	return r.narrow(DimPublisher, publisher)
}

// ByStatus accepts a level name or digit.
func (r QueryResult) ByStatus(level string) (QueryResult, error) {
	l, ok := game.ParseLevel(level)
	if !ok {
		return QueryResult{}, fmt.Errorf("%w: unknown status level %q", ErrMalformedQueryArgument, level)
	}
	return r.narrow(DimStatus, l.String()), nil
}

func (r QueryResult) ByStore(store string) (QueryResult, error) {
	s, ok := game.ParseStore(store)
	if !ok {
		return QueryResult{}, fmt.Errorf("%w: unknown store %q", ErrMalformedQueryArgument, store)
	}
	return r.narrow(DimStore, s.String()), nil
}

func (r QueryResult) narrow(dim Dimension, value string) QueryResult {
	if r.db == nil {
		return r
	}
	return QueryResult{db: r.db, positions: intersect(r.positions, r.db.indices[dim].lookup(value))}
}

// intersect merges two ascending position lists.
func intersect(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// Filter holds optional criteria; every non-empty field must match.
type Filter struct {
	Name      string `json:"name,omitempty" jsonschema:"substring of the game name"`
	Year      string `json:"year,omitempty" jsonschema:"release year"`
	Engine    string `json:"engine,omitempty" jsonschema:"engine name"`
	Runtime   string `json:"runtime,omitempty" jsonschema:"runtime name"`
	Genre     string `json:"genre,omitempty" jsonschema:"genre"`
	Tag       string `json:"tag,omitempty" jsonschema:"tag"`
	Dev       string `json:"dev,omitempty" jsonschema:"developer"`
	Publisher string `json:"publisher,omitempty" jsonschema:"publisher"`
	Status    string `json:"status,omitempty" jsonschema:"status level name or digit 0-6"`
	Store     string `json:"store,omitempty" jsonschema:"store kind: steam, gog, humble, itch, epic"`
}

func (f Filter) IsEmpty() bool {
	return f == Filter{}
}

func (r QueryResult) Apply(f Filter) (QueryResult, error) {
	var err error
	if f.Name != "" {
		r = r.ByName(f.Name)
	}
	if f.Year != "" {
		if r, err = r.ByYear(f.Year); err != nil {
			return QueryResult{}, err
		}
	}
	if f.Engine != "" {
		r = r.ByEngine(f.Engine)
	}
	if f.Runtime != "" {
		r = r.ByRuntime(f.Runtime)
	}
	if f.Genre != "" {
		r = r.ByGenre(f.Genre)
	}
	if f.Tag != "" {
		r = r.ByTag(f.Tag)
	}
	if f.Dev != "" {
		r = r.ByDev(f.Dev)
	}
	if f.Publisher != "" {
		r = r.ByPublisher(f.Publisher)
	}
	if f.Status != "" {
		if r, err = r.ByStatus(f.Status); err != nil {
			return QueryResult{}, err
		}
	}
	if f.Store != "" {
		if r, err = r.ByStore(f.Store); err != nil {
			return QueryResult{}, err
		}
	}
	return r, nil
}
