// Package db is the in-memory query engine over a parsed games collection.
//
// A Database is built once from a collection and is read-only afterwards, so
// it is safe for concurrent readers. Queries return a QueryResult which can be
// narrowed further by chaining filters; results keep collection order.
package db

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"pobsd/internal/game"
)

var ErrMalformedQueryArgument = errors.New("malformed query argument")

type Dimension int

const (
	DimEngine Dimension = iota
	DimRuntime
	DimGenre
	DimTag
	DimYear
	DimDev
	DimPublisher
	DimStatus
	DimStore
)

var dimensionNames = []string{"engine", "runtime", "genre", "tag", "year", "dev", "publisher", "status", "store"}

func (d Dimension) String() string {
	if int(d) >= 0 && int(d) < len(dimensionNames) {
		return dimensionNames[d]
	}
	return fmt.Sprintf("dimension(%d)", int(d))
}

func Dimensions() []Dimension {
	out := make([]Dimension, len(dimensionNames))
	for i := range dimensionNames {
		out[i] = Dimension(i)
	}
	return out
}

func ParseDimension(s string) (Dimension, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "pub":
		return DimPublisher, nil
	case "genres", "tags", "engines", "runtimes", "years", "devs", "publishers", "stores":
		s = strings.TrimSuffix(s, "s")
	}
	for i, name := range dimensionNames {
		if name == s {
			return Dimension(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown dimension %q", ErrMalformedQueryArgument, s)
}

type Item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Database struct {
	games   []game.Game
	lowered []string
	names   index
	steam   map[int][]int
	uids    map[uint64][]int
	indices map[Dimension]index
}

func New(games []game.Game) *Database {
	d := &Database{
		games:   games,
		lowered: make([]string, len(games)),
		names:   index{},
		steam:   map[int][]int{},
		uids:    map[uint64][]int{},
		indices: map[Dimension]index{},
	}
	for _, dim := range Dimensions() {
		d.indices[dim] = index{}
	}

	for pos, g := range games {
		d.lowered[pos] = strings.ToLower(g.Name)
		d.names.add(g.Name, pos)
		d.uids[g.UID] = append(d.uids[g.UID], pos)

		d.indices[DimEngine].add(deref(g.Engine), pos)
		d.indices[DimRuntime].add(deref(g.Runtime), pos)
		for _, v := range g.Genres {
			d.indices[DimGenre].add(v, pos)
		}
		for _, v := range g.Tags {
			d.indices[DimTag].add(v, pos)
		}
		for _, v := range g.Devs {
			d.indices[DimDev].add(v, pos)
		}
		for _, v := range g.Publishers {
			d.indices[DimPublisher].add(v, pos)
		}
		if g.Year != nil {
			d.indices[DimYear].add(strconv.Itoa(*g.Year), pos)
		}
		if g.Status != nil {
			d.indices[DimStatus].add(g.Status.Level.String(), pos)
		}
		for _, link := range g.Stores {
			d.indices[DimStore].add(link.Store.String(), pos)
			if link.Store == game.Steam && link.ID != nil {
				d.steam[*link.ID] = appendUnique(d.steam[*link.ID], pos)
			}
		}
	}
	return d
}

func (d *Database) Len() int {
	return len(d.games)
}

func (d *Database) Get(pos int) (game.Game, bool) {
	if pos < 0 || pos >= len(d.games) {
		return game.Game{}, false
	}
	return d.games[pos], true
}

func (d *Database) All() QueryResult {
	positions := make([]int, len(d.games))
	for i := range positions {
		positions[i] = i
	}
	return QueryResult{db: d, positions: positions}
}

// SearchByName matches names containing needle, ignoring case. An empty
// needle matches every game.
func (d *Database) SearchByName(needle string) QueryResult {
	return d.All().ByName(needle)
}

func (d *Database) GetExact(name string) QueryResult {
	return d.result(d.names.lookup(name))
}

func (d *Database) GetByUID(uid uint64) QueryResult {
	return d.result(d.uids[uid])
}

func (d *Database) GetBySteamID(id int) QueryResult {
	return d.result(d.steam[id])
}

// Items lists the distinct values of a dimension with the number of games
// carrying each, sorted by value.
func (d *Database) Items(dim Dimension) []Item {
	ix := d.indices[dim]
	items := make([]Item, 0, len(ix))
	for _, b := range ix {
		items = append(items, Item{Name: b.label, Count: len(b.positions)})
	}
	slices.SortFunc(items, func(a, b Item) int {
		if dim == DimYear {
			x, _ := strconv.Atoi(a.Name)
			y, _ := strconv.Atoi(b.Name)
			return x - y
		}
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return items
}

func (d *Database) Filter(f Filter) (QueryResult, error) {
	return d.All().Apply(f)
}

func (d *Database) result(positions []int) QueryResult {
	return QueryResult{db: d, positions: slices.Clone(positions)}
}

type bucket struct {
	label     string
	positions []int
}

type index map[string]*bucket

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func (ix index) add(value string, pos int) {
	key := normalize(value)
	if key == "" {
		return
	}
	b, ok := ix[key]
	if !ok {
		b = &bucket{label: strings.TrimSpace(value)}
		ix[key] = b
	}
	b.positions = appendUnique(b.positions, pos)
}

func (ix index) lookup(value string) []int {
	if b, ok := ix[normalize(value)]; ok {
		return b.positions
	}
	return nil
}

// appendUnique relies on positions being added in ascending order.
func appendUnique(positions []int, pos int) []int {
	if n := len(positions); n > 0 && positions[n-1] == pos {
		return positions
	}
	return append(positions, pos)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
