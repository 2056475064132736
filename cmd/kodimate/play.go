package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/KodiMate/internal/config"
	"github.com/vadimtrunov/KodiMate/internal/library"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a movie or episode",
	}
	cmd.AddCommand(
		newPlayMovieCmd(),
		newPlayEpisodeCmd(),
		newPlayNextCmd(),
	)
	return cmd
}

func newPlayMovieCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "movie <title>",
		Short: "Play a movie by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runPlayMovie(strings.Join(args, " "), year)
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", 0, "release year (for disambiguation)")
	return cmd
}

func newPlayEpisodeCmd() *cobra.Command {
	var season, episode int

	cmd := &cobra.Command{
		Use:   "episode <show title>",
		Short: "Play a specific episode of a show",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runPlayEpisode(strings.Join(args, " "), season, episode)
		},
	}
	cmd.Flags().IntVarP(&season, "season", "s", 0, "season number")
	cmd.Flags().IntVarP(&episode, "episode", "e", 0, "episode number")
	_ = cmd.MarkFlagRequired("season")
	_ = cmd.MarkFlagRequired("episode")
	return cmd
}

func newPlayNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next <show title>",
		Short: "Play the next unwatched episode of a show",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runPlayNext(strings.Join(args, " "))
		},
	}
}

func playService() (*library.Service, context.Context, context.CancelFunc, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := config.SetupLogger(cfg.App.LogLevel)
	_, svc, err := initServices(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return svc, ctx, cancel, nil
}

func runPlayMovie(title string, year int) error {
	svc, ctx, cancel, err := playService()
	if err != nil {
		return err
	}
	defer cancel()

	movie, err := svc.PlayMovie(ctx, title, year)
	var ambiguous *library.AmbiguousError
	if errors.As(err, &ambiguous) {
		fmt.Println(styleError.Render(ambiguous.Error()))
		for i, m := range ambiguous.Matches {
			fmt.Printf("%s %s (%d)\n", styleDim.Render(fmt.Sprintf("%d.", i+1)), m.Title, m.Year)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("play movie: %w", err)
	}
	fmt.Println(styleSuccess.Render(fmt.Sprintf("Playing %s (%d)", movie.Title, movie.Year)))
	return nil
}

func runPlayEpisode(showTitle string, season, episode int) error {
	svc, ctx, cancel, err := playService()
	if err != nil {
		return err
	}
	defer cancel()

	ep, err := svc.PlayEpisode(ctx, showTitle, season, episode)
	if err != nil {
		return fmt.Errorf("play episode: %w", err)
	}
	fmt.Println(styleSuccess.Render(fmt.Sprintf("Playing %s %s: %s",
		ep.ShowTitle, episodeCode(ep.Season, ep.Episode), ep.Title)))
	return nil
}

func runPlayNext(showTitle string) error {
	svc, ctx, cancel, err := playService()
	if err != nil {
		return err
	}
	defer cancel()

	ep, err := svc.PlayNextUnwatched(ctx, showTitle)
	if err != nil {
		return fmt.Errorf("play next unwatched: %w", err)
	}
	fmt.Println(styleSuccess.Render(fmt.Sprintf("Playing %s %s: %s",
		ep.ShowTitle, episodeCode(ep.Season, ep.Episode), ep.Title)))
	return nil
}
