package main

import (
	"github.com/spf13/cobra"
)

func queryListCmd() *cobra.Command {
	var opts queryOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games matching every given filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _, err := loadDatabase()
			if err != nil {
				return err
			}
			result, err := database.Filter(opts.filter)
			if err != nil {
				return err
			}
			return printGames(cmd.OutOrStdout(), opts.games(result), opts.asJSON)
		},
	}
	addFilterFlags(cmd, &opts)
	return cmd
}
