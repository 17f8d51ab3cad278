package mcp

import (
	"context"
	"fmt"
	"strconv"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"pobsd/internal/db"
	"pobsd/internal/game"
)

type SearchGamesInput struct {
	Query  string `json:"query" jsonschema:"substring of the game name, case insensitive"`
	Sorted bool   `json:"sorted,omitempty" jsonschema:"order results by name instead of database order"`
}

type GetGameInput struct {
	Name string `json:"name,omitempty" jsonschema:"exact game name, case insensitive"`
	UID  string `json:"uid,omitempty" jsonschema:"16 digit hexadecimal game identifier"`
}

type ListItemsInput struct {
	Dimension string `json:"dimension" jsonschema:"one of engine, runtime, genre, tag, year, dev, publisher, status, store"`
}

type GameSummaryOutput struct {
	UID    string `json:"uid"`
	Name   string `json:"name"`
	Year   int    `json:"year,omitempty"`
	Engine string `json:"engine,omitempty"`
}

type StoreLinkOutput struct {
	Store string `json:"store"`
	URL   string `json:"url"`
	ID    int    `json:"id,omitempty"`
}

type GameOutput struct {
	UID        string            `json:"uid"`
	Name       string            `json:"name"`
	Cover      string            `json:"cover,omitempty"`
	Engine     string            `json:"engine,omitempty"`
	Setup      string            `json:"setup,omitempty"`
	Runtime    string            `json:"runtime,omitempty"`
	Stores     []StoreLinkOutput `json:"stores"`
	Hints      string            `json:"hints,omitempty"`
	Genres     []string          `json:"genres"`
	Tags       []string          `json:"tags"`
	Year       int               `json:"year,omitempty"`
	Devs       []string          `json:"devs"`
	Publishers []string          `json:"publishers"`
	Version    string            `json:"version,omitempty"`
	Status     string            `json:"status,omitempty"`
	Level      string            `json:"level,omitempty"`
	Added      string            `json:"added,omitempty"`
	Updated    string            `json:"updated,omitempty"`
	IgdbID     int               `json:"igdb_id,omitempty"`
}

type GamesOutput struct {
	Games []GameSummaryOutput `json:"games"`
}

type GetGameOutput struct {
	Games []GameOutput `json:"games"`
}

type ListItemsOutput struct {
	Dimension string    `json:"dimension"`
	Items     []db.Item `json:"items"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_games",
		Description: "Search games whose name contains the query",
	}, s.handleSearchGames)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_game",
		Description: "Retrieve every field of a game by exact name or identifier",
	}, s.handleGetGame)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_items",
		Description: "List the distinct values of a dimension with game counts",
	}, s.handleListItems)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "filter_games",
		Description: "List games matching every given filter",
	}, s.handleFilterGames)
}

func (s *Server) handleSearchGames(ctx context.Context, req *sdk.CallToolRequest, input SearchGamesInput) (*sdk.CallToolResult, GamesOutput, error) {
	if input.Query == "" {
		return nil, GamesOutput{}, fmt.Errorf("query is required")
	}
	result := s.db.SearchByName(input.Query)
	games := result.Games()
	if input.Sorted {
		games = result.SortedByName()
	}
	s.logger.Debug("search_games", zap.String("query", input.Query), zap.Int("matches", len(games)))
	return nil, GamesOutput{Games: summaryOutputs(games)}, nil
}

func (s *Server) handleGetGame(ctx context.Context, req *sdk.CallToolRequest, input GetGameInput) (*sdk.CallToolResult, GetGameOutput, error) {
	var result db.QueryResult
	switch {
	case input.UID != "":
		uid, err := strconv.ParseUint(input.UID, 16, 64)
		if err != nil {
			return nil, GetGameOutput{}, fmt.Errorf("%w: uid %q", db.ErrMalformedQueryArgument, input.UID)
		}
		result = s.db.GetByUID(uid)
	case input.Name != "":
		result = s.db.GetExact(input.Name)
	default:
		return nil, GetGameOutput{}, fmt.Errorf("name or uid is required")
	}

	games := result.Games()
	if len(games) == 0 {
		return nil, GetGameOutput{}, fmt.Errorf("game not found")
	}
	output := make([]GameOutput, 0, len(games))
	for _, g := range games {
		output = append(output, gameOutput(g))
	}
	return nil, GetGameOutput{Games: output}, nil
}

func (s *Server) handleListItems(ctx context.Context, req *sdk.CallToolRequest, input ListItemsInput) (*sdk.CallToolResult, ListItemsOutput, error) {
	dim, err := db.ParseDimension(input.Dimension)
	if err != nil {
		return nil, ListItemsOutput{}, err
	}
	return nil, ListItemsOutput{Dimension: dim.String(), Items: s.db.Items(dim)}, nil
}

func (s *Server) handleFilterGames(ctx context.Context, req *sdk.CallToolRequest, input db.Filter) (*sdk.CallToolResult, GamesOutput, error) {
	if input.IsEmpty() {
		return nil, GamesOutput{}, fmt.Errorf("at least one filter is required")
	}
	result, err := s.db.Filter(input)
	if err != nil {
		return nil, GamesOutput{}, err
	}
	return nil, GamesOutput{Games: summaryOutputs(result.SortedByName())}, nil
}

func summaryOutputs(games []game.Game) []GameSummaryOutput {
	output := make([]GameSummaryOutput, 0, len(games))
	for _, g := range games {
		summary := GameSummaryOutput{UID: g.ID(), Name: g.Name, Engine: deref(g.Engine)}
		if g.Year != nil {
			summary.Year = *g.Year
		}
		output = append(output, summary)
	}
	return output
}

func gameOutput(g game.Game) GameOutput {
	out := GameOutput{
		UID:        g.ID(),
		Name:       g.Name,
		Cover:      deref(g.Cover),
		Engine:     deref(g.Engine),
		Setup:      deref(g.Setup),
		Runtime:    deref(g.Runtime),
		Stores:     make([]StoreLinkOutput, 0, len(g.Stores)),
		Hints:      deref(g.Hints),
		Genres:     append([]string{}, g.Genres...),
		Tags:       append([]string{}, g.Tags...),
		Devs:       append([]string{}, g.Devs...),
		Publishers: append([]string{}, g.Publishers...),
		Version:    deref(g.Version),
	}
	for _, link := range g.Stores {
		l := StoreLinkOutput{Store: link.Store.String(), URL: link.URL}
		if link.ID != nil {
			l.ID = *link.ID
		}
		out.Stores = append(out.Stores, l)
	}
	if g.Year != nil {
		out.Year = *g.Year
	}
	if g.IgdbID != nil {
		out.IgdbID = *g.IgdbID
	}
	if g.Status != nil {
		out.Status = g.Status.String()
		out.Level = g.Status.Level.String()
	}
	if g.Added != nil {
		out.Added = g.Added.Format(game.DateLayout)
	}
	if g.Updated != nil {
		out.Updated = g.Updated.Format(game.DateLayout)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
