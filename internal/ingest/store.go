package ingest

import (
	"context"

	"pobsd/internal/game"
)

type Store interface {
	EnsureSchema(ctx context.Context) error
	GetSourceHash(ctx context.Context, source string) (string, error)
	ReplaceGames(ctx context.Context, source, sourceHash string, games []game.Game) (int64, error)
	RemoveStaleSources(ctx context.Context, currentSources []string) (int64, error)
}
