package main

import (
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/KodiMate/internal/config"
	mcpserver "github.com/vadimtrunov/KodiMate/internal/mcp"
)

// newServeCmd returns the "serve" subcommand. It starts the MCP server over
// stdin/stdout; this is the command an MCP client config points at.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			logger := config.SetupLogger(cfg.App.LogLevel)

			client, svc, err := initServices(cfg, logger)
			if err != nil {
				return err
			}

			srv := mcpserver.NewServer(mcpserver.Deps{
				Library: svc,
				Player:  client,
			}, logger)
			return srv.ServeStdio(cmd.Context())
		},
	}
}
