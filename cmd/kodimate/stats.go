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

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show library statistics",
		Long:  "Display an overview of the Kodi library: counts and top genres.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runStats()
		},
	}
}

func runStats() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger := config.SetupLogger(cfg.App.LogLevel)
	_, svc, err := initServices(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stats, err := svc.Stats(ctx)
	if err != nil {
		return fmt.Errorf("get library stats: %w", err)
	}

	fmt.Println(styleHeader.Render("Library"))
	fmt.Printf("%s %d\n", styleDim.Render("Movies:"), stats.Movies)
	fmt.Printf("%s %d\n", styleDim.Render("TV shows:"), stats.TVShows)
	fmt.Printf("%s %d\n", styleDim.Render("Episodes:"), stats.TotalEpisodes)

	printGenres("Top movie genres", stats.MovieGenres)
	printGenres("Top TV genres", stats.TVGenres)
	return nil
}

func printGenres(header string, genres []core.GenreCount) {
	if len(genres) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(styleHeader.Render(header))
	for _, g := range genres {
		fmt.Printf("%s %d\n", styleDim.Render(g.Genre+":"), g.Count)
	}
}
