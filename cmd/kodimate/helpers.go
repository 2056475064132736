package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vadimtrunov/KodiMate/internal/config"
	"github.com/vadimtrunov/KodiMate/internal/kodi"
	"github.com/vadimtrunov/KodiMate/internal/library"
)

// Lipgloss styles used across commands.
var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("5")).
			MarginBottom(1)

	styleTitle = lipgloss.NewStyle().Bold(true)
)

// loadConfig loads and validates the configuration.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// initKodi creates a Kodi client from the configuration.
func initKodi(cfg *config.Config, logger *slog.Logger) (*kodi.Client, error) {
	opts := kodi.Options{
		Host:     cfg.Kodi.Host,
		Port:     cfg.Kodi.Port,
		Username: cfg.Kodi.Username,
		Password: cfg.Kodi.Password,
		UseHTTPS: cfg.Kodi.UseHTTPS,
		Timeout:  time.Duration(cfg.Kodi.Timeout) * time.Second,
	}
	if cfg.SOCKS5 != nil {
		opts.SOCKS5 = &kodi.SOCKS5Options{
			Host:     cfg.SOCKS5.Host,
			Port:     cfg.SOCKS5.Port,
			Username: cfg.SOCKS5.Username,
			Password: cfg.SOCKS5.Password,
		}
	}

	client, err := kodi.New(opts, logger)
	if err != nil {
		return nil, fmt.Errorf("create kodi client: %w", err)
	}
	logger.Info("kodi client initialized",
		slog.String("host", cfg.Kodi.Host),
		slog.Int("port", cfg.Kodi.Port),
		slog.Bool("socks5", cfg.SOCKS5 != nil),
	)
	return client, nil
}

// initServices creates the Kodi client and the library service over it.
func initServices(cfg *config.Config, logger *slog.Logger) (*kodi.Client, *library.Service, error) {
	client, err := initKodi(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, library.NewService(client, client, logger), nil
}

// episodeCode formats season/episode numbers as S01E02.
func episodeCode(season, episode int) string {
	return fmt.Sprintf("S%02dE%02d", season, episode)
}
