package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"pobsd/internal/game"
)

type Mode int

const (
	Relaxed Mode = iota
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "relaxed"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "relaxed":
		return Relaxed, nil
	case "strict":
		return Strict, nil
	default:
		return Relaxed, fmt.Errorf("unknown parse mode %q (expected relaxed or strict)", s)
	}
}

// Result is either WithoutError or WithError.
type Result interface {
	records() []game.Game
}

type WithoutError struct {
	Games []game.Game
}

type WithError struct {
	Games       []game.Game
	Diagnostics []Diagnostic
}

func (r WithoutError) records() []game.Game { return r.Games }
func (r WithError) records() []game.Game    { return r.Games }

func Games(r Result) []game.Game {
	if r == nil {
		return nil
	}
	return r.records()
}

func Diagnostics(r Result) []Diagnostic {
	if r, ok := r.(WithError); ok {
		return r.Diagnostics
	}
	return nil
}

// NewResult picks the variant matching the diagnostics.
func NewResult(games []game.Game, diagnostics []Diagnostic) Result {
	if len(diagnostics) == 0 {
		return WithoutError{Games: games}
	}
	return WithError{Games: games, Diagnostics: diagnostics}
}

func ParseFile(mode Mode, path string) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrSourceUnavailable, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return ParseString(mode, string(data)), nil
}

func Parse(mode Mode, r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return ParseString(mode, string(data)), nil
}

func ParseString(mode Mode, data string) Result {
	p := &parser{mode: mode}
	p.run(strings.TrimPrefix(data, "\ufeff"))
	return NewResult(p.games, p.diagnostics)
}

type parser struct {
	mode        Mode
	games       []game.Game
	current     *game.Game
	dropping    bool
	diagnostics []Diagnostic
}

func (p *parser) run(data string) {
	for i, raw := range strings.Split(data, "\n") {
		line := strings.TrimSuffix(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		d, ok := p.consume(line)
		if ok {
			continue
		}
		d.Line = i + 1
		d.Content = line
		p.diagnostics = append(p.diagnostics, d)
		if p.mode == Strict {
			p.current = nil
			return
		}
	}
	p.flush()
}

func (p *parser) consume(line string) (Diagnostic, bool) {
	key, value, found := strings.Cut(line, "\t")
	value = strings.TrimSpace(value)

	if !found && !game.IsKey(key) {
		return Diagnostic{Kind: KindMissingSeparator}, false
	}
	if !game.IsKey(key) {
		return Diagnostic{Kind: KindUnknownKey, Key: key}, false
	}

	if key == game.KeyGame {
		p.flush()
		if value == "" {
			p.dropping = true
			return Diagnostic{Kind: KindMissingName, Key: key}, false
		}
		p.current = &game.Game{Name: value}
		return Diagnostic{}, true
	}

	if p.current == nil {
		if p.dropping {
			return Diagnostic{}, true
		}
		return Diagnostic{Kind: KindOutsideRecord, Key: key}, false
	}

	if err := setField(p.current, key, value); err != nil {
		return Diagnostic{Kind: KindInvalidValue, Key: key, Detail: err.Error()}, false
	}
	return Diagnostic{}, true
}

func (p *parser) flush() {
	if p.current != nil {
		p.current.UID = game.ComputeUID(p.current.Name, p.current.Added)
		p.games = append(p.games, *p.current)
	}
	p.current = nil
	p.dropping = false
}
