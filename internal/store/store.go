package store

import (
	"context"
	"errors"

	"pobsd/internal/game"
)

var ErrNotFound = errors.New("game not found")

// Store is an exported copy of parsed games in a SQL database. Games are
// grouped by the source file they were parsed from.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	ReplaceGames(ctx context.Context, source, sourceHash string, games []game.Game) (int64, error)
	GetSourceHash(ctx context.Context, source string) (string, error)
	RemoveStaleSources(ctx context.Context, currentSources []string) (int64, error)

	GetGame(ctx context.Context, uid string) (*game.Game, error)
	ListGames(ctx context.Context, source string) ([]GameSummary, error)
	Search(ctx context.Context, query, source string) ([]SearchResult, error)
	ListDuplicateNames(ctx context.Context) ([]GameSummary, error)

	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}
