package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pobsd/internal/game"
)

// setField applies one line to g. On a type error the field is cleared.
func setField(g *game.Game, key, value string) error {
	switch key {
	case game.KeyCover:
		g.Cover = optional(value)
	case game.KeyEngine:
		g.Engine = optional(value)
	case game.KeySetup:
		g.Setup = optional(value)
	case game.KeyRuntime:
		g.Runtime = optional(value)
	case game.KeyHints:
		g.Hints = optional(value)
	case game.KeyVersion:
		g.Version = optional(value)
	case game.KeyStore:
		g.Stores = game.ParseStoreLinks(value)
	case game.KeyGenre:
		g.Genres = splitList(value)
	case game.KeyTags:
		g.Tags = splitList(value)
	case game.KeyDev:
		g.Devs = splitList(value)
	case game.KeyPub:
		g.Publishers = splitList(value)
	case game.KeyYear:
		n, err := optionalInt(value)
		g.Year = n
		if err != nil {
			return fmt.Errorf("year: %w", err)
		}
	case game.KeyIgdbID:
		n, err := optionalInt(value)
		g.IgdbID = n
		if err != nil {
			return fmt.Errorf("igdb id: %w", err)
		}
	case game.KeyAdded:
		d, err := optionalDate(value)
		g.Added = d
		if err != nil {
			return fmt.Errorf("added: %w", err)
		}
	case game.KeyUpdated:
		d, err := optionalDate(value)
		g.Updated = d
		if err != nil {
			return fmt.Errorf("updated: %w", err)
		}
	case game.KeyStatus:
		g.Status = nil
		if value == "" {
			return nil
		}
		status, err := game.ParseStatus(value)
		if err != nil {
			return err
		}
		g.Status = &status
	}
	return nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func optionalInt(value string) (*int, error) {
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("%q is not an integer", value)
	}
	return &n, nil
}

func optionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := game.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("%q is not a YYYY-MM-DD date", value)
	}
	return &d, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}
