package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pobsd/internal/db"
)

func queryItemsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:       "items <dimension>",
		Short:     "List the distinct values of a dimension with game counts",
		Args:      cobra.ExactArgs(1),
		ValidArgs: dimensionNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			dim, err := db.ParseDimension(args[0])
			if err != nil {
				return err
			}
			database, _, err := loadDatabase()
			if err != nil {
				return err
			}
			items := database.Items(dim)
			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, items)
			}
			for _, item := range items {
				fmt.Fprintf(out, "%5d  %s\n", item.Count, item.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print items as JSON")
	return cmd
}

func dimensionNames() []string {
	dims := db.Dimensions()
	names := make([]string, 0, len(dims))
	for _, dim := range dims {
		names = append(names, dim.String())
	}
	return names
}
