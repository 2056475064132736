package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/KodiMate/internal/config"
)

func newRecentCmd() *cobra.Command {
	var mediaType string
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recently added content",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRecent(mediaType, limit)
		},
	}
	cmd.Flags().StringVarP(&mediaType, "type", "t", "both", "media type: movies, episodes, or both")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of items")
	return cmd
}

func runRecent(mediaType string, limit int) error {
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

	recent, err := svc.Recent(ctx, mediaType, limit)
	if err != nil {
		return fmt.Errorf("get recently added: %w", err)
	}

	if len(recent.Movies) == 0 && len(recent.Episodes) == 0 {
		fmt.Println(styleDim.Render("No recently added content."))
		return nil
	}

	if len(recent.Movies) > 0 {
		fmt.Println(styleHeader.Render("Recently added movies"))
		for _, m := range recent.Movies {
			line := styleTitle.Render(m.Title)
			if m.Year > 0 {
				line += styleDim.Render(fmt.Sprintf(" (%d)", m.Year))
			}
			if m.DateAdded != "" {
				line += "  " + styleDim.Render(m.DateAdded)
			}
			fmt.Println(line)
		}
	}

	if len(recent.Episodes) > 0 {
		if len(recent.Movies) > 0 {
			fmt.Println()
		}
		fmt.Println(styleHeader.Render("Recently added episodes"))
		for _, ep := range recent.Episodes {
			line := styleTitle.Render(ep.ShowTitle) + " " +
				episodeCode(ep.Season, ep.Episode) + ": " + ep.Title
			if ep.DateAdded != "" {
				line += "  " + styleDim.Render(ep.DateAdded)
			}
			fmt.Println(line)
		}
	}
	return nil
}
