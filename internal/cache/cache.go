// Package cache keeps a compressed snapshot of a parse result next to the
// database file so repeated runs can skip parsing.
//
// A snapshot is JSON compressed with zstd. It is keyed by the xxh3 hash of
// the source bytes and the parse mode; any change to either makes it stale.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"pobsd/internal/game"
	"pobsd/internal/parser"
)

const snapshotVersion = 1

var (
	ErrStale   = errors.New("snapshot is stale")
	ErrCorrupt = errors.New("snapshot is corrupt")
)

// Both are safe for concurrent use and costly to build.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil)
)

type snapshot struct {
	Version     int                 `json:"version"`
	Key         string              `json:"key"`
	Games       []game.Game         `json:"games"`
	Diagnostics []parser.Diagnostic `json:"diagnostics,omitempty"`
}

type Cache struct {
	path   string
	logger *zap.Logger
}

type Option func(*Cache)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(path string, opts ...Option) *Cache {
	c := &Cache{path: path, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Path() string {
	return c.path
}

// Key identifies a parse of source in mode.
func Key(source []byte, mode parser.Mode) string {
	return fmt.Sprintf("%016x-%s", xxh3.Hash(source), mode)
}

func (c *Cache) Load(key string) (parser.Result, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}
	raw, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %w", ErrCorrupt, err)
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: json: %w", ErrCorrupt, err)
	}
	if snap.Version != snapshotVersion || snap.Key != key {
		return nil, ErrStale
	}
	return parser.NewResult(snap.Games, snap.Diagnostics), nil
}

// Save writes the snapshot atomically through a temporary file.
func (c *Cache) Save(key string, res parser.Result) error {
	raw, err := json.Marshal(snapshot{
		Version:     snapshotVersion,
		Key:         key,
		Games:       parser.Games(res),
		Diagnostics: parser.Diagnostics(res),
	})
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(zstdEncoder.EncodeAll(raw, nil)); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// ParseFile answers from the snapshot when it matches the file and mode, and
// otherwise parses and refreshes the snapshot. A failed refresh is logged and
// does not fail the parse.
func (c *Cache) ParseFile(mode parser.Mode, path string) (parser.Result, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", parser.ErrSourceUnavailable, err)
	}
	if !info.Mode().IsRegular() {
		return nil, false, fmt.Errorf("%w: %s is not a regular file", parser.ErrSourceUnavailable, path)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", parser.ErrSourceUnavailable, err)
	}

	key := Key(source, mode)
	res, err := c.Load(key)
	if err == nil {
		c.logger.Debug("snapshot hit", zap.String("path", c.path), zap.Int("games", len(parser.Games(res))))
		return res, true, nil
	}
	switch {
	case errors.Is(err, os.ErrNotExist):
		c.logger.Debug("no snapshot", zap.String("path", c.path))
	case errors.Is(err, ErrStale), errors.Is(err, ErrCorrupt):
		c.logger.Info("rebuilding snapshot", zap.String("path", c.path), zap.Error(err))
	default:
		c.logger.Warn("reading snapshot", zap.String("path", c.path), zap.Error(err))
	}

	res = parser.ParseString(mode, string(source))
	if err := c.Save(key, res); err != nil {
		c.logger.Warn("saving snapshot", zap.String("path", c.path), zap.Error(err))
	}
	return res, false, nil
}
