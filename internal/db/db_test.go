package db

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pobsd/internal/game"
	"pobsd/internal/parser"
)

const source = `Game	AaaaaAAaaaAAAaaAAAAaAAAAA!!! for the Awesome
Runtime	HumblePlay
Store	https://www.humblebundle.com/store/aaaaaaaaaaaaaaaaaaaaaaaaa-for-the-awesome
Year	2011
Added	1970-01-01
Game	The Adventures of Mr. Hat
Engine	godot
Runtime	godot
Store	https://store.steampowered.com/app/1869200/The_Adventures_of_Mr_Hat/
Genre	Puzzle Platformer
Tags	indie
Dev	AX-GAME
Pub	Fun Quarter
Status	runs (2022-05-13)
Added	2022-05-13
Game	Barony
Engine	Custom
Genre	RPG, Roguelike
Tags	indie, dungeon crawler
Year	2015
Dev	Turning Wheel
Status	5 works (2023-01-02)
Store	https://store.steampowered.com/app/371970/Barony/ https://www.gog.com/game/barony_cursed_edition
Game	A Hat in Time
Engine	Unreal Engine 3
Genre	Platformer
Tags	indie
Year	2017
Status	0 needs dxvk
Game	barony
Engine	custom
Year	2015
`

func newTestDB(t *testing.T) *Database {
	t.Helper()
	res := parser.ParseString(parser.Strict, source)
	if diags := parser.Diagnostics(res); len(diags) > 0 {
		t.Fatalf("fixture has diagnostics: %v", diags)
	}
	return New(parser.Games(res))
}

func gameNames(r QueryResult) []string {
	var out []string
	for _, g := range r.Games() {
		out = append(out, g.Name)
	}
	return out
}

func TestScenario(t *testing.T) {
	db := newTestDB(t)

	hat := db.SearchByName("Adventures")
	if hat.Len() != 1 {
		t.Fatalf("expected 1 result, got %d", hat.Len())
	}
	if diff := cmp.Diff([]string{"The Adventures of Mr. Hat"}, gameNames(hat.ByEngine("godot"))); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if got := hat.ByEngine("unreal"); got.Len() != 0 {
		t.Fatalf("expected empty result, got %v", gameNames(got))
	}
}

func TestSearchByName(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		needle string
		want   []string
	}{
		{"hat", []string{"The Adventures of Mr. Hat", "A Hat in Time"}},
		{"BARONY", []string{"Barony", "barony"}},
		{"zzz-no-such-title", nil},
		{"", []string{"AaaaaAAaaaAAAaaAAAAaAAAAA!!! for the Awesome", "The Adventures of Mr. Hat", "Barony", "A Hat in Time", "barony"}},
	}
	for _, tt := range tests {
		t.Run(tt.needle, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, gameNames(db.SearchByName(tt.needle))); diff != "" {
				t.Fatalf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetExact(t *testing.T) {
	db := newTestDB(t)
	if got := db.GetExact("BARONY"); got.Len() != 2 {
		t.Fatalf("expected both duplicates, got %v", gameNames(got))
	}
	if got := db.GetExact("Baron"); got.Len() != 0 {
		t.Fatalf("expected no partial match, got %v", gameNames(got))
	}
}

func TestFilters(t *testing.T) {
	db := newTestDB(t)
	all := db.All()

	t.Run("multi valued membership", func(t *testing.T) {
		if diff := cmp.Diff([]string{"The Adventures of Mr. Hat", "Barony", "A Hat in Time"}, gameNames(all.ByTag("indie"))); diff != "" {
			t.Fatalf("names mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"Barony"}, gameNames(all.ByGenre("roguelike"))); diff != "" {
			t.Fatalf("names mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("year", func(t *testing.T) {
		got, err := all.ByYear("2015")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if diff := cmp.Diff([]string{"Barony", "barony"}, gameNames(got)); diff != "" {
			t.Fatalf("names mismatch (-want +got):\n%s", diff)
		}
		if _, err := all.ByYear("twenty"); !errors.Is(err, ErrMalformedQueryArgument) {
			t.Fatalf("expected ErrMalformedQueryArgument, got %v", err)
		}
	})

	t.Run("status", func(t *testing.T) {
		got, err := all.ByStatus("completable")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if diff := cmp.Diff([]string{"Barony"}, gameNames(got)); diff != "" {
			t.Fatalf("names mismatch (-want +got):\n%s", diff)
		}
		got, _ = all.ByStatus("0")
		if diff := cmp.Diff([]string{"A Hat in Time"}, gameNames(got)); diff != "" {
			t.Fatalf("names mismatch (-want +got):\n%s", diff)
		}
		if _, err := all.ByStatus("sideways"); !errors.Is(err, ErrMalformedQueryArgument) {
			t.Fatalf("expected ErrMalformedQueryArgument, got %v", err)
		}
	})

	t.Run("store", func(t *testing.T) {
		got, err := all.ByStore("steam")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if diff := cmp.Diff([]string{"The Adventures of Mr. Hat", "Barony"}, gameNames(got)); diff != "" {
			t.Fatalf("names mismatch (-want +got):\n%s", diff)
		}
		if _, err := all.ByStore("blockbuster"); !errors.Is(err, ErrMalformedQueryArgument) {
			t.Fatalf("expected ErrMalformedQueryArgument, got %v", err)
		}
	})

	t.Run("commutative", func(t *testing.T) {
		a := all.ByTag("indie").ByEngine("custom").ByDev("turning wheel")
		b := all.ByDev("turning wheel").ByTag("indie").ByEngine("custom")
		if diff := cmp.Diff(a.Positions(), b.Positions()); diff != "" {
			t.Fatalf("filter order changed the result (-a +b):\n%s", diff)
		}
		if a.Len() != 1 {
			t.Fatalf("expected 1 result, got %d", a.Len())
		}
	})

	t.Run("never expands", func(t *testing.T) {
		narrow := db.SearchByName("adventures")
		if got := narrow.ByTag("indie"); got.Len() > narrow.Len() {
			t.Fatalf("filter expanded the result")
		}
	})

	t.Run("zero value result", func(t *testing.T) {
		var r QueryResult
		if r.ByEngine("godot").Len() != 0 || r.Games() != nil {
			t.Fatalf("expected zero value to stay empty")
		}
	})
}

func TestFilter(t *testing.T) {
	db := newTestDB(t)

	got, err := db.Filter(Filter{Tag: "indie", Year: "2017", Status: "doesnotrun"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if diff := cmp.Diff([]string{"A Hat in Time"}, gameNames(got)); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	got, err = db.Filter(Filter{})
	if err != nil || got.Len() != db.Len() {
		t.Fatalf("expected empty filter to match all, got %d (%v)", got.Len(), err)
	}

	if _, err := db.Filter(Filter{Store: "nowhere"}); !errors.Is(err, ErrMalformedQueryArgument) {
		t.Fatalf("expected ErrMalformedQueryArgument, got %v", err)
	}
	if !(Filter{}).IsEmpty() || (Filter{Dev: "x"}).IsEmpty() {
		t.Fatalf("unexpected IsEmpty result")
	}
}

func TestLookups(t *testing.T) {
	db := newTestDB(t)

	if diff := cmp.Diff([]string{"Barony"}, gameNames(db.GetBySteamID(371970))); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	hat, ok := db.Get(1)
	if !ok {
		t.Fatalf("expected position 1")
	}
	if diff := cmp.Diff([]int{1}, db.GetByUID(hat.UID).Positions()); diff != "" {
		t.Fatalf("positions mismatch (-want +got):\n%s", diff)
	}
	if _, ok := db.Get(99); ok {
		t.Fatalf("expected out of range position to be missing")
	}
}

func TestItems(t *testing.T) {
	db := newTestDB(t)

	want := []Item{{"Custom", 2}, {"godot", 1}, {"Unreal Engine 3", 1}}
	if diff := cmp.Diff(want, db.Items(DimEngine)); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	want = []Item{{"2011", 1}, {"2015", 2}, {"2017", 1}}
	if diff := cmp.Diff(want, db.Items(DimYear)); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	want = []Item{{"gog", 1}, {"humble", 1}, {"steam", 2}}
	if diff := cmp.Diff(want, db.Items(DimStore)); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestSortedByName(t *testing.T) {
	db := newTestDB(t)
	var names []string
	for _, g := range db.SearchByName("hat").SortedByName() {
		names = append(names, g.Name)
	}
	if diff := cmp.Diff([]string{"The Adventures of Mr. Hat", "A Hat in Time"}, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if db.All().Positions()[0] != 0 {
		t.Fatalf("sorting must not reorder the result itself")
	}
}

func TestParseDimension(t *testing.T) {
	for _, dim := range Dimensions() {
		got, err := ParseDimension(dim.String())
		if err != nil || got != dim {
			t.Errorf("ParseDimension(%q) = %v, %v", dim.String(), got, err)
		}
	}
	if got, _ := ParseDimension("Tags"); got != DimTag {
		t.Errorf("expected plural alias, got %v", got)
	}
	if _, err := ParseDimension("colour"); !errors.Is(err, ErrMalformedQueryArgument) {
		t.Errorf("expected ErrMalformedQueryArgument, got %v", err)
	}
}

func TestIndexIgnoresDuplicateValuesInOneGame(t *testing.T) {
	db := New([]game.Game{{Name: "x", Tags: []string{"a", "A", " a "}}})
	if got := db.Items(DimTag); len(got) != 1 || got[0].Count != 1 {
		t.Fatalf("unexpected items %v", got)
	}
}
