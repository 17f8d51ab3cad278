package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"

	"pobsd/internal/game"
)

func printJSON(out io.Writer, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	_, err = fmt.Fprintln(out, string(payload))
	return err
}

func printGames(out io.Writer, games []game.Game, asJSON bool) error {
	if asJSON {
		if games == nil {
			games = []game.Game{}
		}
		return printJSON(out, games)
	}
	if len(games) == 0 {
		fmt.Fprintln(out, "No matches found.")
		return nil
	}
	for _, g := range games {
		year := "-"
		if g.Year != nil {
			year = strconv.Itoa(*g.Year)
		}
		fmt.Fprintf(out, "%s  %-4s  %s\n", g.ID(), year, g.Name)
	}
	return nil
}
