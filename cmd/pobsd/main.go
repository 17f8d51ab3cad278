package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pobsd/internal/config"
	"pobsd/internal/logging"
)

var (
	configPath string
	sourcePath string
	strict     bool
	verbose    bool

	logger = zap.NewNop()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pobsd",
		Short:         "Parse and query a PlayOnBSD games database",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.Version = resolvedVersion()
	root.SetVersionTemplate("{{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default "+config.DefaultPath+")")
	flags.StringVar(&sourcePath, "source", "", "Games database file, overrides the config")
	flags.BoolVar(&strict, "strict", false, "Stop at the first malformed line")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(parseCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(queryCmd())
	root.AddCommand(ingestCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	return root
}
