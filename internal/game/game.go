package game

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
)

// DateLayout is the calendar date form used by the Added, Updated and Status
// fields.
const DateLayout = "2006-01-02"

const (
	KeyGame    = "Game"
	KeyCover   = "Cover"
	KeyEngine  = "Engine"
	KeySetup   = "Setup"
	KeyRuntime = "Runtime"
	KeyStore   = "Store"
	KeyHints   = "Hints"
	KeyGenre   = "Genre"
	KeyTags    = "Tags"
	KeyYear    = "Year"
	KeyDev     = "Dev"
	KeyPub     = "Pub"
	KeyVersion = "Version"
	KeyStatus  = "Status"
	KeyAdded   = "Added"
	KeyUpdated = "Updated"
	KeyIgdbID  = "IgdbId"
)

var Keys = []string{
	KeyGame, KeyCover, KeyEngine, KeySetup, KeyRuntime, KeyStore, KeyHints,
	KeyGenre, KeyTags, KeyYear, KeyDev, KeyPub, KeyVersion, KeyStatus,
	KeyAdded, KeyUpdated, KeyIgdbID,
}

var knownKeys = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Keys))
	for _, k := range Keys {
		m[k] = struct{}{}
	}
	return m
}()

func IsKey(key string) bool {
	_, ok := knownKeys[key]
	return ok
}

type Game struct {
	UID        uint64      `json:"uid"`
	Name       string      `json:"name"`
	Cover      *string     `json:"cover,omitempty"`
	Engine     *string     `json:"engine,omitempty"`
	Setup      *string     `json:"setup,omitempty"`
	Runtime    *string     `json:"runtime,omitempty"`
	Stores     []StoreLink `json:"stores,omitempty"`
	Hints      *string     `json:"hints,omitempty"`
	Genres     []string    `json:"genres,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
	Year       *int        `json:"year,omitempty"`
	Devs       []string    `json:"dev,omitempty"`
	Publishers []string    `json:"pub,omitempty"`
	Version    *string     `json:"version,omitempty"`
	Status     *Status     `json:"status,omitempty"`
	Added      *time.Time  `json:"added,omitempty"`
	Updated    *time.Time  `json:"updated,omitempty"`
	IgdbID     *int        `json:"igdb_id,omitempty"`
}

func ComputeUID(name string, added *time.Time) uint64 {
	return xxh3.HashString(formatDate(added) + "|" + name)
}

func (g Game) ID() string {
	return fmt.Sprintf("%016x", g.UID)
}

func (g Game) SteamID() (int, bool) {
	for _, link := range g.Stores {
		if link.Store == Steam && link.ID != nil {
			return *link.ID, true
		}
	}
	return 0, false
}

// OrderingName is the name used for alphabetical listing: a leading "The "
// or "A " is ignored.
func (g Game) OrderingName() string {
	for _, prefix := range []string{"The ", "the ", "A ", "a "} {
		if rest, ok := strings.CutPrefix(g.Name, prefix); ok {
			return rest
		}
	}
	return g.Name
}

func Compare(a, b Game) int {
	return strings.Compare(a.OrderingName(), b.OrderingName())
}

func (g Game) String() string {
	var b strings.Builder
	line := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(key)
		if value != "" {
			b.WriteByte('\t')
			b.WriteString(value)
		}
	}

	stores := make([]string, 0, len(g.Stores))
	for _, link := range g.Stores {
		stores = append(stores, link.URL)
	}
	status := ""
	if g.Status != nil {
		status = g.Status.String()
	}

	line(KeyGame, g.Name)
	line(KeyCover, deref(g.Cover))
	line(KeyEngine, deref(g.Engine))
	line(KeySetup, deref(g.Setup))
	line(KeyRuntime, deref(g.Runtime))
	line(KeyStore, strings.Join(stores, " "))
	line(KeyHints, deref(g.Hints))
	line(KeyGenre, strings.Join(g.Genres, ", "))
	line(KeyTags, strings.Join(g.Tags, ", "))
	line(KeyYear, formatInt(g.Year))
	line(KeyDev, strings.Join(g.Devs, ", "))
	line(KeyPub, strings.Join(g.Publishers, ", "))
	line(KeyVersion, deref(g.Version))
	line(KeyStatus, status)
	line(KeyAdded, formatDate(g.Added))
	line(KeyUpdated, formatDate(g.Updated))
	line(KeyIgdbID, formatInt(g.IgdbID))
	return b.String()
}

func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
