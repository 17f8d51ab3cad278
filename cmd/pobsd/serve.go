package main

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"pobsd/internal/mcp"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _, err := loadDatabase()
			if err != nil {
				return err
			}
			server := mcp.NewServer(database, resolvedVersion(), logger)
			return server.Run(context.Background(), &sdk.StdioTransport{})
		},
	}
}
