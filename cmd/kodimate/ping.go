package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/KodiMate/internal/config"
	"github.com/vadimtrunov/KodiMate/internal/core"
)

// newPingCmd returns the "ping" subcommand: a connection test to run before
// wiring the server into an MCP client.
func newPingCmd() *cobra.Command {
	var viaSocks5 bool

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Test the connection to Kodi",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPing(viaSocks5)
		},
	}
	cmd.Flags().BoolVar(&viaSocks5, "socks5", false, "route the request through the configured SOCKS5 proxy")
	return cmd
}

func runPing(viaSocks5 bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger := config.SetupLogger(cfg.App.LogLevel)
	client, err := initKodi(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if viaSocks5 {
		ctx = core.WithProxy(ctx)
	}

	target := fmt.Sprintf("%s:%d", cfg.Kodi.Host, cfg.Kodi.Port)
	if viaSocks5 {
		target += " (via SOCKS5)"
	}
	fmt.Println(styleDim.Render("Pinging Kodi at " + target + "..."))

	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	fmt.Println(styleSuccess.Render("Kodi is reachable."))
	return nil
}
