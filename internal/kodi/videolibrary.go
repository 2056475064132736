package kodi

import (
	"context"
	"fmt"

	"github.com/vadimtrunov/KodiMate/internal/core"
)

// Default property sets requested from the library.
var (
	movieProperties   = []string{"title", "year", "file", "genre", "rating", "runtime", "plot", "director"}
	tvShowProperties  = []string{"title", "year", "genre", "rating", "plot", "episode", "season"}
	episodeProperties = []string{"title", "season", "episode", "file", "tvshowid", "showtitle", "plot", "rating", "playcount", "lastplayed"}

	recentMovieProperties   = []string{"title", "year", "file", "genre", "dateadded"}
	recentEpisodeProperties = []string{"title", "season", "episode", "showtitle", "file", "dateadded"}
)

// Movies returns all movies in the library, sorted by title.
func (c *Client) Movies(ctx context.Context) ([]core.Movie, error) {
	params := listParams{
		Properties: movieProperties,
		Sort:       sortSpec{Order: "ascending", Method: "title"},
	}

	var result moviesResult
	if err := c.call(ctx, "VideoLibrary.GetMovies", params, &result); err != nil {
		return nil, fmt.Errorf("get movies: %w", err)
	}
	return result.Movies, nil
}

// TVShows returns all TV shows in the library, sorted by title.
func (c *Client) TVShows(ctx context.Context) ([]core.TVShow, error) {
	params := listParams{
		Properties: tvShowProperties,
		Sort:       sortSpec{Order: "ascending", Method: "title"},
	}

	var result tvShowsResult
	if err := c.call(ctx, "VideoLibrary.GetTVShows", params, &result); err != nil {
		return nil, fmt.Errorf("get tv shows: %w", err)
	}
	return result.TVShows, nil
}

// Episodes returns episodes for a show in episode order. A non-nil season
// restricts the result to that season.
func (c *Client) Episodes(ctx context.Context, showID int, season *int) ([]core.Episode, error) {
	params := episodesParams{
		TVShowID:   showID,
		Properties: episodeProperties,
		Sort:       sortSpec{Order: "ascending", Method: "episode"},
		Season:     season,
	}

	var result episodesResult
	if err := c.call(ctx, "VideoLibrary.GetEpisodes", params, &result); err != nil {
		return nil, fmt.Errorf("get episodes: %w", err)
	}
	return result.Episodes, nil
}

// RecentMovies returns the most recently added movies, newest first.
func (c *Client) RecentMovies(ctx context.Context, limit int) ([]core.Movie, error) {
	params := listParams{
		Properties: recentMovieProperties,
		Sort:       sortSpec{Order: "descending", Method: "dateadded"},
		Limits:     &limitsSpec{End: limit},
	}

	var result moviesResult
	if err := c.call(ctx, "VideoLibrary.GetRecentlyAddedMovies", params, &result); err != nil {
		return nil, fmt.Errorf("get recently added movies: %w", err)
	}
	return result.Movies, nil
}

// RecentEpisodes returns the most recently added episodes, newest first.
func (c *Client) RecentEpisodes(ctx context.Context, limit int) ([]core.Episode, error) {
	params := listParams{
		Properties: recentEpisodeProperties,
		Sort:       sortSpec{Order: "descending", Method: "dateadded"},
		Limits:     &limitsSpec{End: limit},
	}

	var result episodesResult
	if err := c.call(ctx, "VideoLibrary.GetRecentlyAddedEpisodes", params, &result); err != nil {
		return nil, fmt.Errorf("get recently added episodes: %w", err)
	}
	return result.Episodes, nil
}

// Scan triggers a library scan. An empty directory scans the whole library;
// otherwise only the given source directory is scanned.
func (c *Client) Scan(ctx context.Context, directory string) error {
	var params any
	if directory != "" {
		params = map[string]string{"directory": directory}
	}
	if err := c.call(ctx, "VideoLibrary.Scan", params, nil); err != nil {
		return fmt.Errorf("scan library: %w", err)
	}
	return nil
}

// Clean removes library entries whose files no longer exist.
func (c *Client) Clean(ctx context.Context) error {
	if err := c.call(ctx, "VideoLibrary.Clean", nil, nil); err != nil {
		return fmt.Errorf("clean library: %w", err)
	}
	return nil
}
