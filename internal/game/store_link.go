package game

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Store int

const (
	StoreUnknown Store = iota
	Steam
	GOG
	HumbleBundle
	ItchIO
	Epic
)

var storeNames = map[Store]string{
	StoreUnknown: "unknown",
	Steam:        "steam",
	GOG:          "gog",
	HumbleBundle: "humble",
	ItchIO:       "itch",
	Epic:         "epic",
}

func (s Store) String() string {
	if name, ok := storeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("store(%d)", int(s))
}

func ParseStore(s string) (Store, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "humblebundle":
		return HumbleBundle, true
	case "itch.io":
		return ItchIO, true
	}
	for store, name := range storeNames {
		if name == s {
			return store, true
		}
	}
	return StoreUnknown, false
}

func (s Store) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Store) UnmarshalText(b []byte) error {
	store, ok := ParseStore(string(b))
	if !ok {
		return fmt.Errorf("unknown store %q", string(b))
	}
	*s = store
	return nil
}

type StoreLink struct {
	Store Store  `json:"store"`
	URL   string `json:"url"`
	ID    *int   `json:"id,omitempty"`
}

var steamApp = regexp.MustCompile(`^https?://store\.steampowered\.com/app/(\d+)`)

func NewStoreLink(url string) StoreLink {
	link := StoreLink{Store: StoreUnknown, URL: url}
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, "steampowered.com"):
		link.Store = Steam
		if m := steamApp.FindStringSubmatch(url); m != nil {
			if id, err := strconv.Atoi(m[1]); err == nil {
				link.ID = &id
			}
		}
	case strings.Contains(lower, "gog.com"):
		link.Store = GOG
	case strings.Contains(lower, "humblebundle.com"):
		link.Store = HumbleBundle
	case strings.Contains(lower, "itch.io"):
		link.Store = ItchIO
	case strings.Contains(lower, "epicgames.com"):
		link.Store = Epic
	}
	return link
}

func ParseStoreLinks(value string) []StoreLink {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil
	}
	links := make([]StoreLink, 0, len(fields))
	for _, url := range fields {
		links = append(links, NewStoreLink(url))
	}
	return links
}
