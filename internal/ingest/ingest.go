package ingest

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"pobsd/internal/parser"
)

type Result struct {
	GamesWritten   int
	Diagnostics    int
	SourcesSkipped int
	SourcesRemoved int
	Errors         []error
}

type Options struct {
	Full   bool
	Prune  bool
	Mode   parser.Mode
	Logger *zap.Logger
}

// Run exports each source file into db. A source whose content hash matches
// the stored one is skipped unless Full is set. In Strict mode a source with
// a malformed line is reported and left untouched in the store.
func Run(ctx context.Context, sources []string, db Store, options Options) (*Result, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	result := &Result{}
	current := make([]string, 0, len(sources))

	for _, path := range sources {
		source := filepath.Clean(path)
		current = append(current, source)

		data, err := os.ReadFile(source)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("reading %s: %w: %w", source, parser.ErrSourceUnavailable, err))
			continue
		}
		hash := computeHash(data)

		if !options.Full {
			existing, err := db.GetSourceHash(ctx, source)
			if err != nil {
				return nil, fmt.Errorf("get source hash for %s: %w", source, err)
			}
			if existing == hash {
				logger.Debug("source unchanged", zap.String("source", source))
				result.SourcesSkipped++
				continue
			}
		}

		res := parser.ParseString(options.Mode, string(data))
		diagnostics := parser.Diagnostics(res)
		result.Diagnostics += len(diagnostics)
		for _, d := range diagnostics {
			logger.Debug("malformed line", zap.String("source", source), zap.Int("line", d.Line), zap.Error(d))
		}
		if options.Mode == parser.Strict && len(diagnostics) > 0 {
			result.Errors = append(result.Errors, fmt.Errorf("parsing %s: %w", source, diagnostics[0]))
			continue
		}

		written, err := db.ReplaceGames(ctx, source, hash, parser.Games(res))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("writing %s: %w", source, err))
			continue
		}
		result.GamesWritten += int(written)
		logger.Info("source ingested",
			zap.String("source", source),
			zap.Int64("games", written),
			zap.Int("diagnostics", len(diagnostics)),
		)
	}

	if options.Prune {
		removed, err := db.RemoveStaleSources(ctx, current)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("removing stale sources: %w", err))
		} else {
			result.SourcesRemoved = int(removed)
		}
	}

	return result, nil
}

func computeHash(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
