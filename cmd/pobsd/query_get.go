package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pobsd/internal/db"
)

func queryGetCmd() *cobra.Command {
	var opts queryOptions
	var uid string
	var steamID int
	cmd := &cobra.Command{
		Use:   "get [name]",
		Short: "Print games by exact name, identifier or Steam app id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _, err := loadDatabase()
			if err != nil {
				return err
			}

			var result db.QueryResult
			switch {
			case len(args) == 1:
				result = database.GetExact(args[0])
			case uid != "":
				id, err := strconv.ParseUint(uid, 16, 64)
				if err != nil {
					return fmt.Errorf("%w: uid %q", db.ErrMalformedQueryArgument, uid)
				}
				result = database.GetByUID(id)
			case steamID > 0:
				result = database.GetBySteamID(steamID)
			default:
				return fmt.Errorf("a name, --uid or --steam is required")
			}

			games := opts.games(result)
			out := cmd.OutOrStdout()
			if opts.asJSON || len(games) == 0 {
				return printGames(out, games, opts.asJSON)
			}
			for i, g := range games {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, g.String())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&uid, "uid", "", "16 digit hexadecimal game identifier")
	cmd.Flags().IntVar(&steamID, "steam", 0, "Steam app id")
	addOutputFlags(cmd, &opts)
	return cmd
}
