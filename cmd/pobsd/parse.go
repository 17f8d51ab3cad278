package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pobsd/internal/parser"
)

func parseCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse the games database and report malformed lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			res, err := parseSource(cfg)
			if err != nil {
				return err
			}
			games := parser.Games(res)
			diagnostics := parser.Diagnostics(res)

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, struct {
					Source      string              `json:"source"`
					Mode        string              `json:"mode"`
					Games       int                 `json:"games"`
					Diagnostics []parser.Diagnostic `json:"diagnostics"`
				}{cfg.Source, cfg.Mode, len(games), append([]parser.Diagnostic{}, diagnostics...)})
			}

			fmt.Fprintf(out, "Parsed %s (%s mode).\n", cfg.Source, cfg.Mode)
			fmt.Fprintf(out, "  Games:           %d\n", len(games))
			fmt.Fprintf(out, "  Malformed lines: %d\n", len(diagnostics))
			for _, d := range diagnostics {
				fmt.Fprintf(out, "  - %v\n", d)
			}
			if len(diagnostics) > 0 && cfg.Mode == parser.Strict.String() {
				return fmt.Errorf("parsing stopped at line %d", diagnostics[0].Line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}
