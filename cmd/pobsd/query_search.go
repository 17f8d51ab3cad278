package main

import (
	"github.com/spf13/cobra"
)

func querySearchCmd() *cobra.Command {
	var opts queryOptions
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "List games whose name contains the text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _, err := loadDatabase()
			if err != nil {
				return err
			}
			result, err := database.SearchByName(args[0]).Apply(opts.filter)
			if err != nil {
				return err
			}
			return printGames(cmd.OutOrStdout(), opts.games(result), opts.asJSON)
		},
	}
	addFilterFlags(cmd, &opts)
	return cmd
}
