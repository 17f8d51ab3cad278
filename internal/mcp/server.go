package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"pobsd/internal/db"
)

type Server struct {
	db     *db.Database
	logger *zap.Logger
	mcp    *sdk.Server
}

func NewServer(database *db.Database, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		db:     database,
		logger: logger,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "pobsd",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	s.logger.Info("mcp server starting", zap.Int("games", s.db.Len()))
	return s.mcp.Run(ctx, transport)
}
