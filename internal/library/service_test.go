package library

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/vadimtrunov/KodiMate/internal/core"
)

// mockLibrary implements core.Library over fixed data.
type mockLibrary struct {
	movies   []core.Movie
	shows    []core.TVShow
	episodes map[int][]core.Episode // keyed by show ID

	scannedDirs []string
	err         error
}

func (m *mockLibrary) Movies(context.Context) ([]core.Movie, error) {
	return m.movies, m.err
}

func (m *mockLibrary) TVShows(context.Context) ([]core.TVShow, error) {
	return m.shows, m.err
}

func (m *mockLibrary) Episodes(_ context.Context, showID int, season *int) ([]core.Episode, error) {
	if m.err != nil {
		return nil, m.err
	}
	eps := m.episodes[showID]
	if season == nil {
		return eps, nil
	}
	var filtered []core.Episode
	for _, ep := range eps {
		if ep.Season == *season {
			filtered = append(filtered, ep)
		}
	}
	return filtered, nil
}

func (m *mockLibrary) RecentMovies(_ context.Context, limit int) ([]core.Movie, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.movies) {
		return m.movies[:limit], nil
	}
	return m.movies, nil
}

func (m *mockLibrary) RecentEpisodes(_ context.Context, limit int) ([]core.Episode, error) {
	if m.err != nil {
		return nil, m.err
	}
	eps := m.episodes[1]
	if limit < len(eps) {
		return eps[:limit], nil
	}
	return eps, nil
}

func (m *mockLibrary) Scan(_ context.Context, directory string) error {
	m.scannedDirs = append(m.scannedDirs, directory)
	return m.err
}

func (m *mockLibrary) Clean(context.Context) error { return m.err }

// mockPlayer implements core.Player and records what was played.
type mockPlayer struct {
	playedMovies   []int
	playedEpisodes []int
	err            error
}

func (m *mockPlayer) ActivePlayers(context.Context) ([]core.PlayerInfo, error) {
	return []core.PlayerInfo{{PlayerID: 1, Type: "video"}}, m.err
}

func (m *mockPlayer) PlayMovie(_ context.Context, movieID int) error {
	m.playedMovies = append(m.playedMovies, movieID)
	return m.err
}

func (m *mockPlayer) PlayEpisode(_ context.Context, episodeID int) error {
	m.playedEpisodes = append(m.playedEpisodes, episodeID)
	return m.err
}

func (m *mockPlayer) PlayPause(context.Context, int) error { return m.err }
func (m *mockPlayer) Stop(context.Context, int) error      { return m.err }

func (m *mockPlayer) NowPlaying(context.Context, int) (*core.NowPlaying, error) {
	return &core.NowPlaying{Title: "Inception", Type: "movie", Speed: 1}, m.err
}

func testLibrary() *mockLibrary {
	return &mockLibrary{
		movies: []core.Movie{
			{ID: 1, Title: "Inception", Year: 2010, Genres: []string{"Sci-Fi", "Thriller"}},
			{ID: 2, Title: "The Matrix", Year: 1999, Genres: []string{"Sci-Fi"}},
			{ID: 3, Title: "The Matrix Reloaded", Year: 2003, Genres: []string{"Sci-Fi"}},
		},
		shows: []core.TVShow{
			{ID: 1, Title: "Breaking Bad", Genres: []string{"Drama"}, Episodes: 62},
			{ID: 2, Title: "Severance", Genres: []string{"Drama", "Mystery"}, Episodes: 19},
		},
		episodes: map[int][]core.Episode{
			1: {
				{ID: 11, Title: "Pilot", Season: 1, Episode: 1, ShowID: 1, PlayCount: 1, File: "/tv/Breaking Bad/Season 1/e1.mkv"},
				{ID: 12, Title: "Cat's in the Bag...", Season: 1, Episode: 2, ShowID: 1, File: "/tv/Breaking Bad/Season 1/e2.mkv"},
			},
			2: {
				{ID: 21, Title: "Good News About Hell", Season: 1, Episode: 1, ShowID: 2, PlayCount: 2},
				{ID: 22, Title: "Half Loop", Season: 1, Episode: 2, ShowID: 2, PlayCount: 1},
			},
		},
	}
}

func newTestService(lib *mockLibrary, player *mockPlayer) *Service {
	return NewService(lib, player, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSearchMovies(t *testing.T) {
	svc := newTestService(testLibrary(), &mockPlayer{})

	tests := []struct {
		name   string
		filter MovieFilter
		want   int
	}{
		{"by title fuzzy", MovieFilter{Title: "matrix"}, 2},
		{"by title and year", MovieFilter{Title: "matrix", Year: 1999}, 1},
		{"by genre", MovieFilter{Genre: "thriller"}, 1},
		{"no filter returns all", MovieFilter{}, 3},
		{"no match", MovieFilter{Title: "casablanca"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.SearchMovies(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("expected %d movies, got %d", tt.want, len(got))
			}
		})
	}
}

func TestSearchShows(t *testing.T) {
	svc := newTestService(testLibrary(), &mockPlayer{})

	shows, err := svc.SearchShows(context.Background(), ShowFilter{Genre: "mystery"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shows) != 1 || shows[0].Title != "Severance" {
		t.Errorf("unexpected result: %+v", shows)
	}
}

func TestFindShowNotFound(t *testing.T) {
	svc := newTestService(testLibrary(), &mockPlayer{})

	_, err := svc.FindShow(context.Background(), "the wire")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlayMovie(t *testing.T) {
	player := &mockPlayer{}
	svc := newTestService(testLibrary(), player)

	movie, err := svc.PlayMovie(context.Background(), "inception", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if movie.ID != 1 {
		t.Errorf("expected movie 1, got %d", movie.ID)
	}
	if len(player.playedMovies) != 1 || player.playedMovies[0] != 1 {
		t.Errorf("expected movie 1 played, got %v", player.playedMovies)
	}
}

func TestPlayMovieAmbiguous(t *testing.T) {
	player := &mockPlayer{}
	svc := newTestService(testLibrary(), player)

	_, err := svc.PlayMovie(context.Background(), "matrix", 0)
	var ambiguous *AmbiguousError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousError, got %v", err)
	}
	if len(ambiguous.Matches) != 2 {
		t.Errorf("expected 2 candidates, got %d", len(ambiguous.Matches))
	}
	if len(player.playedMovies) != 0 {
		t.Error("nothing must be played on an ambiguous match")
	}
}

func TestPlayMovieYearDisambiguates(t *testing.T) {
	player := &mockPlayer{}
	svc := newTestService(testLibrary(), player)

	movie, err := svc.PlayMovie(context.Background(), "matrix", 2003)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if movie.ID != 3 {
		t.Errorf("expected movie 3, got %d", movie.ID)
	}
}

func TestPlayMovieNotFound(t *testing.T) {
	svc := newTestService(testLibrary(), &mockPlayer{})

	_, err := svc.PlayMovie(context.Background(), "casablanca", 0)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlayEpisode(t *testing.T) {
	player := &mockPlayer{}
	svc := newTestService(testLibrary(), player)

	ep, err := svc.PlayEpisode(context.Background(), "breaking bad", 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ep.ID != 12 {
		t.Errorf("expected episode 12, got %d", ep.ID)
	}
	if len(player.playedEpisodes) != 1 || player.playedEpisodes[0] != 12 {
		t.Errorf("expected episode 12 played, got %v", player.playedEpisodes)
	}
}

func TestPlayEpisodeNotFound(t *testing.T) {
	svc := newTestService(testLibrary(), &mockPlayer{})

	_, err := svc.PlayEpisode(context.Background(), "breaking bad", 9, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNextUnwatchedService(t *testing.T) {
	svc := newTestService(testLibrary(), &mockPlayer{})

	ep, err := svc.NextUnwatched(context.Background(), "breaking bad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ep.ID != 12 {
		t.Errorf("expected episode 12, got %d", ep.ID)
	}
}

func TestNextUnwatchedAllWatched(t *testing.T) {
	svc := newTestService(testLibrary(), &mockPlayer{})

	_, err := svc.NextUnwatched(context.Background(), "severance")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlayNextUnwatched(t *testing.T) {
	player := &mockPlayer{}
	svc := newTestService(testLibrary(), player)

	ep, err := svc.PlayNextUnwatched(context.Background(), "breaking bad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ep.ID != 12 {
		t.Errorf("expected episode 12, got %d", ep.ID)
	}
	if len(player.playedEpisodes) != 1 || player.playedEpisodes[0] != 12 {
		t.Errorf("expected episode 12 played, got %v", player.playedEpisodes)
	}
}

func TestScanShow(t *testing.T) {
	lib := testLibrary()
	svc := newTestService(lib, &mockPlayer{})

	dir, err := svc.ScanShow(context.Background(), "breaking bad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "/tv/Breaking Bad/" {
		t.Errorf("unexpected scan directory: %q", dir)
	}
	if len(lib.scannedDirs) != 1 || lib.scannedDirs[0] != dir {
		t.Errorf("expected scan of %q, got %v", dir, lib.scannedDirs)
	}
}

func TestScanShowNoFilePaths(t *testing.T) {
	lib := testLibrary()
	svc := newTestService(lib, &mockPlayer{})

	_, err := svc.ScanShow(context.Background(), "severance")
	if err == nil {
		t.Fatal("expected error when episodes carry no file paths")
	}
	if len(lib.scannedDirs) != 0 {
		t.Error("no scan must be triggered without a directory")
	}
}

func TestUpdateLibrary(t *testing.T) {
	lib := testLibrary()
	svc := newTestService(lib, &mockPlayer{})

	if err := svc.UpdateLibrary(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lib.scannedDirs) != 1 || lib.scannedDirs[0] != "" {
		t.Errorf("expected full-library scan, got %v", lib.scannedDirs)
	}
}

func TestCleanLibrary(t *testing.T) {
	lib := testLibrary()
	svc := newTestService(lib, &mockPlayer{})

	if err := svc.CleanLibrary(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lib.err = errors.New("rpc failed")
	if err := svc.CleanLibrary(context.Background()); err == nil {
		t.Error("expected error from CleanLibrary")
	}
}

func TestStats(t *testing.T) {
	svc := newTestService(testLibrary(), &mockPlayer{})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Movies != 3 || stats.TVShows != 2 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.TotalEpisodes != 81 {
		t.Errorf("expected 81 total episodes, got %d", stats.TotalEpisodes)
	}
	if len(stats.MovieGenres) == 0 || stats.MovieGenres[0].Genre != "Sci-Fi" || stats.MovieGenres[0].Count != 3 {
		t.Errorf("unexpected movie genres: %+v", stats.MovieGenres)
	}
	if len(stats.TVGenres) == 0 || stats.TVGenres[0].Genre != "Drama" || stats.TVGenres[0].Count != 2 {
		t.Errorf("unexpected tv genres: %+v", stats.TVGenres)
	}
}

func TestRecentBothSplitsLimit(t *testing.T) {
	lib := testLibrary()
	svc := newTestService(lib, &mockPlayer{})

	recent, err := svc.Recent(context.Background(), "both", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recent.Movies) != 2 {
		t.Errorf("expected limit split to 2 movies, got %d", len(recent.Movies))
	}
	if len(recent.Episodes) != 2 {
		t.Errorf("expected limit split to 2 episodes, got %d", len(recent.Episodes))
	}
}

func TestRecentMoviesOnly(t *testing.T) {
	svc := newTestService(testLibrary(), &mockPlayer{})

	recent, err := svc.Recent(context.Background(), "movies", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recent.Movies) != 3 {
		t.Errorf("expected 3 movies, got %d", len(recent.Movies))
	}
	if len(recent.Episodes) != 0 {
		t.Errorf("expected no episodes, got %d", len(recent.Episodes))
	}
}

func TestRecentInvalidMediaType(t *testing.T) {
	svc := newTestService(testLibrary(), &mockPlayer{})

	_, err := svc.Recent(context.Background(), "albums", 10)
	if err == nil {
		t.Fatal("expected error for invalid media type")
	}
}

func TestServiceLibraryError(t *testing.T) {
	lib := testLibrary()
	lib.err = errors.New("connection refused")
	svc := newTestService(lib, &mockPlayer{})

	if _, err := svc.SearchMovies(context.Background(), MovieFilter{}); err == nil {
		t.Error("expected error from SearchMovies")
	}
	if _, err := svc.Stats(context.Background()); err == nil {
		t.Error("expected error from Stats")
	}
	if _, err := svc.NextUnwatched(context.Background(), "breaking bad"); err == nil {
		t.Error("expected error from NextUnwatched")
	}
}
