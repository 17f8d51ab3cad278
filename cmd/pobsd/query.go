package main

import (
	"github.com/spf13/cobra"

	"pobsd/internal/db"
	"pobsd/internal/game"
)

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the games database from the CLI",
	}
	cmd.AddCommand(querySearchCmd())
	cmd.AddCommand(queryGetCmd())
	cmd.AddCommand(queryListCmd())
	cmd.AddCommand(queryItemsCmd())
	cmd.AddCommand(querySQLCmd())
	cmd.AddCommand(queryFullTextCmd())
	return cmd
}

type queryOptions struct {
	filter db.Filter
	asJSON bool
	sorted bool
}

func addFilterFlags(cmd *cobra.Command, opts *queryOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.filter.Year, "year", "", "Release year")
	flags.StringVar(&opts.filter.Engine, "engine", "", "Engine name")
	flags.StringVar(&opts.filter.Runtime, "runtime", "", "Runtime name")
	flags.StringVar(&opts.filter.Genre, "genre", "", "Genre")
	flags.StringVar(&opts.filter.Tag, "tag", "", "Tag")
	flags.StringVar(&opts.filter.Dev, "dev", "", "Developer")
	flags.StringVar(&opts.filter.Publisher, "pub", "", "Publisher")
	flags.StringVar(&opts.filter.Status, "status", "", "Status level name or digit")
	flags.StringVar(&opts.filter.Store, "store", "", "Store kind (steam, gog, humble, itch, epic)")
	addOutputFlags(cmd, opts)
}

func addOutputFlags(cmd *cobra.Command, opts *queryOptions) {
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print games as JSON")
	cmd.Flags().BoolVar(&opts.sorted, "sorted", false, "Order games by name instead of database order")
}

func (o *queryOptions) games(result db.QueryResult) []game.Game {
	if o.sorted {
		return result.SortedByName()
	}
	return result.Games()
}
