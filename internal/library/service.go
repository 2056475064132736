package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vadimtrunov/KodiMate/internal/core"
)

// ErrNotFound marks lookups that resolved nothing in the library.
var ErrNotFound = errors.New("not found")

// AmbiguousError is returned when a play request matches several movies.
// Playback is not started; the caller should disambiguate with a year.
type AmbiguousError struct {
	Title   string
	Matches []core.Movie
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%d movies match %q, specify a year or exact title", len(e.Matches), e.Title)
}

// topGenreLimit caps the genre distributions in library stats.
const topGenreLimit = 5

// MovieFilter narrows a movie search. Zero values mean "no constraint".
type MovieFilter struct {
	Title string
	Year  int
	Genre string
}

// ShowFilter narrows a TV show search. Zero values mean "no constraint".
type ShowFilter struct {
	Title string
	Genre string
}

// RecentContent holds recently added movies and episodes.
type RecentContent struct {
	Movies   []core.Movie   `json:"movies,omitempty"`
	Episodes []core.Episode `json:"episodes,omitempty"`
}

// Service resolves user-supplied titles against the library and drives
// playback and scans. All lookups fetch the full list and filter locally;
// Kodi's own filter API predates fuzzy matching.
type Service struct {
	library core.Library
	player  core.Player
	logger  *slog.Logger
}

// NewService creates a library service.
func NewService(library core.Library, player core.Player, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{library: library, player: player, logger: logger}
}

// SearchMovies returns movies matching the filter.
func (s *Service) SearchMovies(ctx context.Context, f MovieFilter) ([]core.Movie, error) {
	movies, err := s.library.Movies(ctx)
	if err != nil {
		return nil, err
	}

	var matched []core.Movie
	for _, m := range movies {
		if f.Title != "" && !MatchTitle(f.Title, m.Title) {
			continue
		}
		if f.Year != 0 && m.Year != f.Year {
			continue
		}
		if f.Genre != "" && !matchGenre(f.Genre, m.Genres) {
			continue
		}
		matched = append(matched, m)
	}
	return matched, nil
}

// SearchShows returns TV shows matching the filter.
func (s *Service) SearchShows(ctx context.Context, f ShowFilter) ([]core.TVShow, error) {
	shows, err := s.library.TVShows(ctx)
	if err != nil {
		return nil, err
	}

	var matched []core.TVShow
	for _, sh := range shows {
		if f.Title != "" && !MatchTitle(f.Title, sh.Title) {
			continue
		}
		if f.Genre != "" && !matchGenre(f.Genre, sh.Genres) {
			continue
		}
		matched = append(matched, sh)
	}
	return matched, nil
}

// FindMovies returns movies fuzzy-matching a title, optionally pinned to a year.
func (s *Service) FindMovies(ctx context.Context, title string, year int) ([]core.Movie, error) {
	return s.SearchMovies(ctx, MovieFilter{Title: title, Year: year})
}

// FindShow resolves a title to a single show: the first fuzzy match in title
// order. Returns ErrNotFound when nothing matches.
func (s *Service) FindShow(ctx context.Context, title string) (*core.TVShow, error) {
	shows, err := s.library.TVShows(ctx)
	if err != nil {
		return nil, err
	}
	for _, sh := range shows {
		if MatchTitle(title, sh.Title) {
			return &sh, nil
		}
	}
	return nil, fmt.Errorf("tv show %q: %w", title, ErrNotFound)
}

// Episodes returns a show's episodes, optionally restricted to a season.
func (s *Service) Episodes(ctx context.Context, showID int, season *int) ([]core.Episode, error) {
	return s.library.Episodes(ctx, showID, season)
}

// PlayMovie resolves a title (and optional year) to exactly one movie and
// starts playback. Several matches return an AmbiguousError and play nothing.
func (s *Service) PlayMovie(ctx context.Context, title string, year int) (*core.Movie, error) {
	matches, err := s.FindMovies(ctx, title, year)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("movie %q: %w", title, ErrNotFound)
	}
	if len(matches) > 1 {
		return nil, &AmbiguousError{Title: title, Matches: matches}
	}

	movie := matches[0]
	if err := s.player.PlayMovie(ctx, movie.ID); err != nil {
		return nil, err
	}
	s.logger.Info("playback started",
		slog.String("title", movie.Title),
		slog.Int("year", movie.Year),
	)
	return &movie, nil
}

// PlayEpisode resolves a show plus season/episode numbers and starts playback.
func (s *Service) PlayEpisode(ctx context.Context, showTitle string, season, episode int) (*core.Episode, error) {
	show, err := s.FindShow(ctx, showTitle)
	if err != nil {
		return nil, err
	}

	episodes, err := s.library.Episodes(ctx, show.ID, nil)
	if err != nil {
		return nil, err
	}
	for _, ep := range episodes {
		if ep.Season == season && ep.Episode == episode {
			if err := s.player.PlayEpisode(ctx, ep.ID); err != nil {
				return nil, err
			}
			return &ep, nil
		}
	}
	return nil, fmt.Errorf("episode S%02dE%02d of %q: %w", season, episode, show.Title, ErrNotFound)
}

// NextUnwatched returns the next unwatched episode of a show without playing it.
func (s *Service) NextUnwatched(ctx context.Context, showTitle string) (*core.Episode, error) {
	show, err := s.FindShow(ctx, showTitle)
	if err != nil {
		return nil, err
	}
	episodes, err := s.library.Episodes(ctx, show.ID, nil)
	if err != nil {
		return nil, err
	}

	next := NextUnwatched(episodes)
	if next == nil {
		return nil, fmt.Errorf("unwatched episode of %q: %w", show.Title, ErrNotFound)
	}
	return next, nil
}

// PlayNextUnwatched finds the next unwatched episode of a show and plays it.
func (s *Service) PlayNextUnwatched(ctx context.Context, showTitle string) (*core.Episode, error) {
	next, err := s.NextUnwatched(ctx, showTitle)
	if err != nil {
		return nil, err
	}
	if err := s.player.PlayEpisode(ctx, next.ID); err != nil {
		return nil, err
	}
	s.logger.Info("playback started",
		slog.String("show", next.ShowTitle),
		slog.Int("season", next.Season),
		slog.Int("episode", next.Episode),
	)
	return next, nil
}

// ScanShow triggers a library scan scoped to one show's directory, derived
// from its episode file paths. Returns the directory that was scanned.
func (s *Service) ScanShow(ctx context.Context, showTitle string) (string, error) {
	show, err := s.FindShow(ctx, showTitle)
	if err != nil {
		return "", err
	}
	episodes, err := s.library.Episodes(ctx, show.ID, nil)
	if err != nil {
		return "", err
	}

	dir, err := ShowDirectory(episodes)
	if err != nil {
		return "", fmt.Errorf("scan %q: %w (run a full library scan instead)", show.Title, err)
	}
	if err := s.library.Scan(ctx, dir); err != nil {
		return "", err
	}
	s.logger.Info("directory scan started",
		slog.String("show", show.Title),
		slog.String("directory", dir),
	)
	return dir, nil
}

// UpdateLibrary triggers a library scan; an empty directory scans everything.
func (s *Service) UpdateLibrary(ctx context.Context, directory string) error {
	return s.library.Scan(ctx, directory)
}

// CleanLibrary removes library entries whose files no longer exist.
func (s *Service) CleanLibrary(ctx context.Context) error {
	return s.library.Clean(ctx)
}

// Stats computes an overview of the library.
func (s *Service) Stats(ctx context.Context) (*core.LibraryStats, error) {
	movies, err := s.library.Movies(ctx)
	if err != nil {
		return nil, err
	}
	shows, err := s.library.TVShows(ctx)
	if err != nil {
		return nil, err
	}

	stats := &core.LibraryStats{
		Movies:  len(movies),
		TVShows: len(shows),
	}
	movieGenres := make(map[string]int)
	for _, m := range movies {
		for _, g := range m.Genres {
			movieGenres[g]++
		}
	}
	tvGenres := make(map[string]int)
	for _, sh := range shows {
		stats.TotalEpisodes += sh.Episodes
		for _, g := range sh.Genres {
			tvGenres[g]++
		}
	}
	stats.MovieGenres = topGenres(movieGenres, topGenreLimit)
	stats.TVGenres = topGenres(tvGenres, topGenreLimit)
	return stats, nil
}

// Recent returns recently added content. mediaType is "movies", "episodes" or
// "both"; for "both" the limit is split between the two lists.
func (s *Service) Recent(ctx context.Context, mediaType string, limit int) (*RecentContent, error) {
	if limit <= 0 {
		limit = 20
	}
	switch mediaType {
	case "movies", "episodes", "both":
	default:
		return nil, fmt.Errorf("media type must be movies, episodes or both, got %q", mediaType)
	}

	recent := &RecentContent{}
	perType := limit
	if mediaType == "both" {
		perType = limit / 2
	}

	if mediaType == "movies" || mediaType == "both" {
		movies, err := s.library.RecentMovies(ctx, perType)
		if err != nil {
			return nil, err
		}
		recent.Movies = movies
	}
	if mediaType == "episodes" || mediaType == "both" {
		episodes, err := s.library.RecentEpisodes(ctx, perType)
		if err != nil {
			return nil, err
		}
		recent.Episodes = episodes
	}
	return recent, nil
}

// topGenres sorts a genre count map descending and keeps the first n.
func topGenres(counts map[string]int, n int) []core.GenreCount {
	if len(counts) == 0 {
		return nil
	}
	genres := make([]core.GenreCount, 0, len(counts))
	for g, c := range counts {
		genres = append(genres, core.GenreCount{Genre: g, Count: c})
	}
	sort.Slice(genres, func(i, j int) bool {
		if genres[i].Count != genres[j].Count {
			return genres[i].Count > genres[j].Count
		}
		return genres[i].Genre < genres[j].Genre
	})
	if len(genres) > n {
		genres = genres[:n]
	}
	return genres
}
