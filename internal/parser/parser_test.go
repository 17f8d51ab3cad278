package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"

	"pobsd/internal/game"
)

const fixture = `Game	AaaaaAAaaaAAAaaAAAAaAAAAA!!! for the Awesome
Cover	AaaaaA_for_the_Awesome_Cover.jpg
Engine
Setup
Runtime	HumblePlay
Store	https://www.humblebundle.com/store/aaaaaaaaaaaaaaaaaaaaaaaaa-for-the-awesome
Hints	Demo on HumbleBundle store page
Genre
Tags
Year	2011
Dev
Pub
Version
Status
Added	1970-01-01
Updated	1970-01-01
IgdbId	12
Game	The Adventures of Mr. Hat
Cover
Engine	godot
Setup
Runtime	godot
Store	https://store.steampowered.com/app/1869200/The_Adventures_of_Mr_Hat/
Hints
Genre	Puzzle Platformer
Tags	indie
Year
Dev	AX-GAME
Pub	Fun Quarter
Version	Early Access
Status	runs (2022-05-13)
Added	2022-05-13
Updated	2022-05-13
IgdbId	13
`

func names(games []game.Game) []string {
	out := make([]string, 0, len(games))
	for _, g := range games {
		out = append(out, g.Name)
	}
	return out
}

func TestParseString(t *testing.T) {
	t.Run("clean input", func(t *testing.T) {
		res := ParseString(Relaxed, fixture)
		ok, isClean := res.(WithoutError)
		if !isClean {
			t.Fatalf("expected WithoutError, got %T: %v", res, Diagnostics(res))
		}
		if len(ok.Games) != 2 {
			t.Fatalf("expected 2 games, got %d", len(ok.Games))
		}

		hat := ok.Games[1]
		if hat.Name != "The Adventures of Mr. Hat" {
			t.Fatalf("unexpected name %q", hat.Name)
		}
		if hat.Engine == nil || *hat.Engine != "godot" {
			t.Fatalf("expected engine godot, got %v", hat.Engine)
		}
		if hat.Year != nil {
			t.Fatalf("expected no year, got %d", *hat.Year)
		}
		if hat.Cover != nil {
			t.Fatalf("expected bare key to leave cover unset, got %q", *hat.Cover)
		}
		if diff := cmp.Diff([]string{"Puzzle Platformer"}, hat.Genres); diff != "" {
			t.Fatalf("genres mismatch (-want +got):\n%s", diff)
		}
		if id, found := hat.SteamID(); !found || id != 1869200 {
			t.Fatalf("expected steam id 1869200, got %d", id)
		}
		if hat.Status == nil || hat.Status.Tested == nil || hat.Status.Tested.Format(game.DateLayout) != "2022-05-13" {
			t.Fatalf("unexpected status %+v", hat.Status)
		}
		if hat.UID != game.ComputeUID(hat.Name, hat.Added) {
			t.Fatalf("expected uid to be computed")
		}

		awesome := ok.Games[0]
		if awesome.Year == nil || *awesome.Year != 2011 {
			t.Fatalf("expected year 2011, got %v", awesome.Year)
		}
		if awesome.Genres != nil {
			t.Fatalf("expected empty genre to be absent, got %#v", awesome.Genres)
		}
		if len(awesome.Stores) != 1 || awesome.Stores[0].Store != game.HumbleBundle {
			t.Fatalf("unexpected stores %+v", awesome.Stores)
		}
	})

	t.Run("strict and relaxed agree on clean input", func(t *testing.T) {
		relaxed := ParseString(Relaxed, fixture)
		strict := ParseString(Strict, fixture)
		if _, ok := strict.(WithoutError); !ok {
			t.Fatalf("expected WithoutError, got %T", strict)
		}
		if diff := cmp.Diff(Games(relaxed), Games(strict)); diff != "" {
			t.Fatalf("records differ (-relaxed +strict):\n%s", diff)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		res := ParseString(Strict, "")
		if _, ok := res.(WithoutError); !ok || len(Games(res)) != 0 {
			t.Fatalf("expected empty WithoutError, got %#v", res)
		}
	})

	t.Run("crlf and blank lines", func(t *testing.T) {
		res := ParseString(Strict, "Game\tOne\r\nYear\t1999\r\n\r\n\nGame\tTwo\r\n")
		if _, ok := res.(WithoutError); !ok {
			t.Fatalf("expected WithoutError, got %v", Diagnostics(res))
		}
		games := Games(res)
		if diff := cmp.Diff([]string{"One", "Two"}, names(games)); diff != "" {
			t.Fatalf("names mismatch (-want +got):\n%s", diff)
		}
		if games[0].Year == nil || *games[0].Year != 1999 {
			t.Fatalf("expected year 1999, got %v", games[0].Year)
		}
	})

	t.Run("last occurrence wins", func(t *testing.T) {
		games := Games(ParseString(Strict, "Game\tX\nGenre\tRPG, Action\nGenre\t Puzzle ,, \nEngine\ta\nEngine\tb\n"))
		if diff := cmp.Diff([]string{"Puzzle"}, games[0].Genres); diff != "" {
			t.Fatalf("genres mismatch (-want +got):\n%s", diff)
		}
		if *games[0].Engine != "b" {
			t.Fatalf("expected engine b, got %q", *games[0].Engine)
		}
	})

	t.Run("duplicate names are kept", func(t *testing.T) {
		games := Games(ParseString(Relaxed, "Game\tTwin\nGame\tTwin\n"))
		if len(games) != 2 {
			t.Fatalf("expected 2 games, got %d", len(games))
		}
	})

	t.Run("byte order mark", func(t *testing.T) {
		res := ParseString(Strict, "\ufeffGame\tBOM\n")
		if _, ok := res.(WithoutError); !ok {
			t.Fatalf("expected WithoutError, got %v", Diagnostics(res))
		}
	})
}

func TestRelaxedRecovery(t *testing.T) {
	input := strings.Join([]string{
		"Game\tFirst",       // 1
		"Year\tsoon",        // 2 invalid value
		"Engine\tgodot",     // 3
		"Colour\tblue",      // 4 unknown key
		"Game\tSecond",      // 5
		"just some words",   // 6 missing separator
		"Game",              // 7 missing name
		"Engine\tdropped",   // 8 skipped with its block
		"Game\tThird",       // 9
		"Added\t2022-02-30", // 10 invalid date
	}, "\n")

	res := ParseString(Relaxed, input)
	werr, ok := res.(WithError)
	if !ok {
		t.Fatalf("expected WithError, got %T", res)
	}

	if diff := cmp.Diff([]string{"First", "Second", "Third"}, names(werr.Games)); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if werr.Games[0].Year != nil {
		t.Fatalf("expected malformed year to stay unset")
	}
	if werr.Games[0].Engine == nil || *werr.Games[0].Engine != "godot" {
		t.Fatalf("expected parsing to continue after a malformed line")
	}
	if werr.Games[2].Added != nil {
		t.Fatalf("expected invalid date to stay unset")
	}

	type got struct {
		Line int
		Kind Kind
		Key  string
	}
	var diags []got
	for _, d := range werr.Diagnostics {
		diags = append(diags, got{d.Line, d.Kind, d.Key})
	}
	want := []got{
		{2, KindInvalidValue, "Year"},
		{4, KindUnknownKey, "Colour"},
		{6, KindMissingSeparator, ""},
		{7, KindMissingName, "Game"},
		{10, KindInvalidValue, "Added"},
	}
	if diff := cmp.Diff(want, diags); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}

	if !errors.Is(werr.Diagnostics[1], ErrUnknownKey) {
		t.Fatalf("expected diagnostic to unwrap to ErrUnknownKey")
	}
	if werr.Diagnostics[2].Content != "just some words" {
		t.Fatalf("expected raw content, got %q", werr.Diagnostics[2].Content)
	}
}

func TestOutsideRecord(t *testing.T) {
	res := ParseString(Relaxed, "Year\t2000\nGame\tAfter\n")
	diags := Diagnostics(res)
	if len(diags) != 1 || diags[0].Kind != KindOutsideRecord || diags[0].Line != 1 {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
	if diff := cmp.Diff([]string{"After"}, names(Games(res))); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestStrictTruncation(t *testing.T) {
	complete := "Game\tA\nYear\t2001\nGame\tB\nGame\tC\nTags\tx\n"

	tests := []struct {
		name string
		tail string
		line int
		kind Kind
	}{
		{"unknown key", "Game\tD\nBogus\tvalue\n", 7, KindUnknownKey},
		{"bad year", "Game\tD\nYear\tlater\n", 7, KindInvalidValue},
		{"missing separator", "Game\tD\nno separator here\nGame\tE\n", 7, KindMissingSeparator},
		{"nameless game", "Game\t\nEngine\tx\n", 6, KindMissingName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := complete + tt.tail
			strict := ParseString(Strict, input)
			werr, ok := strict.(WithError)
			if !ok {
				t.Fatalf("expected WithError, got %T", strict)
			}
			if diff := cmp.Diff([]string{"A", "B", "C"}, names(werr.Games)); diff != "" {
				t.Fatalf("names mismatch (-want +got):\n%s", diff)
			}
			if len(werr.Diagnostics) != 1 {
				t.Fatalf("expected exactly one diagnostic, got %d", len(werr.Diagnostics))
			}
			if d := werr.Diagnostics[0]; d.Line != tt.line || d.Kind != tt.kind {
				t.Fatalf("unexpected diagnostic %+v", d)
			}

			relaxed := Games(ParseString(Relaxed, input))
			if len(relaxed) < len(werr.Games) {
				t.Fatalf("relaxed returned fewer records (%d) than strict (%d)", len(relaxed), len(werr.Games))
			}
			if diff := cmp.Diff(werr.Games, relaxed[:len(werr.Games)]); diff != "" {
				t.Fatalf("strict records are not a prefix of relaxed (-strict +relaxed):\n%s", diff)
			}
		})
	}
}

func TestRenderRoundTrip(t *testing.T) {
	original := Games(ParseString(Strict, fixture))
	var rendered []string
	for _, g := range original {
		rendered = append(rendered, g.String())
	}
	again := ParseString(Strict, strings.Join(rendered, "\n"))
	if _, ok := again.(WithoutError); !ok {
		t.Fatalf("expected rendered output to parse cleanly, got %v", Diagnostics(again))
	}
	if diff := cmp.Diff(original, Games(again)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFile(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "db.txt")
		if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
			t.Fatal(err)
		}
		res, err := ParseFile(Relaxed, path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(Games(res)) != 2 {
			t.Fatalf("expected 2 games, got %d", len(Games(res)))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ParseFile(Relaxed, filepath.Join(t.TempDir(), "nope.txt"))
		if !errors.Is(err, ErrSourceUnavailable) {
			t.Fatalf("expected ErrSourceUnavailable, got %v", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		_, err := ParseFile(Relaxed, t.TempDir())
		if !errors.Is(err, ErrSourceUnavailable) {
			t.Fatalf("expected ErrSourceUnavailable, got %v", err)
		}
	})
}

func TestParseReader(t *testing.T) {
	res, err := Parse(Strict, strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(Games(res)) != 2 {
		t.Fatalf("expected 2 games, got %d", len(Games(res)))
	}

	_, err = Parse(Strict, iotest.ErrReader(errors.New("disk on fire")))
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", Relaxed, false},
		{"relaxed", Relaxed, false},
		{"STRICT", Strict, false},
		{"lenient", Relaxed, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v", tt.input, got, err)
		}
	}
}
