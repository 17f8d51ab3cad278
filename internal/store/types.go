package store

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"pobsd/internal/game"
)

type GameSummary struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Source   string `json:"source"`
	Position int    `json:"position"`
	Year     *int   `json:"year,omitempty"`
	Engine   string `json:"engine,omitempty"`
}

type SearchResult struct {
	UID     string   `json:"uid"`
	Name    string   `json:"name"`
	Source  string   `json:"source"`
	Genres  []string `json:"genres"`
	Tags    []string `json:"tags"`
	Score   float64  `json:"score"`
	Snippet string   `json:"snippet,omitempty"`
}

// Row is the column form of a game shared by the SQL backends. Record holds
// the full game as JSON so GetGame can return it unchanged.
type Row struct {
	UID            string
	Position       int
	Name           string
	NameNormalized string
	Engine         *string
	Runtime        *string
	Year           *int
	StatusLevel    *string
	Added          *string
	Updated        *string
	SteamID        *int
	IgdbID         *int
	Genres         []string
	Tags           []string
	Devs           []string
	Publishers     []string
	Stores         []string
	Record         []byte
}

func NewRow(position int, g game.Game) (Row, error) {
	record, err := json.Marshal(g)
	if err != nil {
		return Row{}, fmt.Errorf("marshaling game %q: %w", g.Name, err)
	}

	row := Row{
		UID:            g.ID(),
		Position:       position,
		Name:           g.Name,
		NameNormalized: strings.ToLower(g.Name),
		Engine:         g.Engine,
		Runtime:        g.Runtime,
		Year:           g.Year,
		IgdbID:         g.IgdbID,
		Genres:         nonNil(g.Genres),
		Tags:           nonNil(g.Tags),
		Devs:           nonNil(g.Devs),
		Publishers:     nonNil(g.Publishers),
		Stores:         []string{},
		Record:         record,
	}
	for _, link := range g.Stores {
		row.Stores = append(row.Stores, link.URL)
	}
	if id, ok := g.SteamID(); ok {
		row.SteamID = &id
	}
	if g.Status != nil {
		level := g.Status.Level.String()
		row.StatusLevel = &level
	}
	if g.Added != nil {
		added := g.Added.Format(game.DateLayout)
		row.Added = &added
	}
	if g.Updated != nil {
		updated := g.Updated.Format(game.DateLayout)
		row.Updated = &updated
	}
	return row, nil
}

func DecodeRecord(record []byte) (*game.Game, error) {
	var g game.Game
	if err := json.Unmarshal(record, &g); err != nil {
		return nil, fmt.Errorf("unmarshaling game record: %w", err)
	}
	return &g, nil
}

// MarshalList encodes a list column for backends without array types.
func MarshalList(values []string) ([]byte, error) {
	return json.Marshal(nonNil(values))
}

func UnmarshalList(data []byte) ([]string, error) {
	if len(data) == 0 {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return nonNil(values), nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
