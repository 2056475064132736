package core

import "context"

// Library defines the interface for a remote video library (Kodi's VideoLibrary namespace)
type Library interface {
	// Movies returns all movies in the library, sorted by title
	Movies(ctx context.Context) ([]Movie, error)

	// TVShows returns all TV shows in the library, sorted by title
	TVShows(ctx context.Context) ([]TVShow, error)

	// Episodes returns episodes for a show, sorted by episode number.
	// A non-nil season restricts the result to that season.
	Episodes(ctx context.Context, showID int, season *int) ([]Episode, error)

	// RecentMovies returns the most recently added movies, newest first
	RecentMovies(ctx context.Context, limit int) ([]Movie, error)

	// RecentEpisodes returns the most recently added episodes, newest first
	RecentEpisodes(ctx context.Context, limit int) ([]Episode, error)

	// Scan triggers a library scan; an empty directory scans everything
	Scan(ctx context.Context, directory string) error

	// Clean removes entries whose files no longer exist
	Clean(ctx context.Context) error
}

// Player defines the interface for remote playback control (Kodi's Player namespace)
type Player interface {
	// ActivePlayers returns the currently active players
	ActivePlayers(ctx context.Context) ([]PlayerInfo, error)

	// PlayMovie starts playback of a movie by library ID
	PlayMovie(ctx context.Context, movieID int) error

	// PlayEpisode starts playback of an episode by library ID
	PlayEpisode(ctx context.Context, episodeID int) error

	// PlayPause toggles pause on a player
	PlayPause(ctx context.Context, playerID int) error

	// Stop stops playback on a player
	Stop(ctx context.Context, playerID int) error

	// NowPlaying returns the item and progress of a player
	NowPlaying(ctx context.Context, playerID int) (*NowPlaying, error)
}

// Remote defines the interface for navigation input (Kodi's Input namespace)
type Remote interface {
	// Navigate sends a single input action to the media center
	Navigate(ctx context.Context, action InputAction) error
}

// Pinger checks connectivity to the media center
type Pinger interface {
	// Ping performs a JSONRPC.Ping round trip
	Ping(ctx context.Context) error
}

// InputAction is a navigation action understood by the media center
type InputAction string

// Input actions, mapped 1:1 to Kodi's Input.* JSON-RPC methods.
const (
	InputUp     InputAction = "Up"
	InputDown   InputAction = "Down"
	InputLeft   InputAction = "Left"
	InputRight  InputAction = "Right"
	InputSelect InputAction = "Select"
	InputBack   InputAction = "Back"
	InputHome   InputAction = "Home"
)

// Movie represents a movie library entry
type Movie struct {
	ID        int      `json:"movieid"`
	Title     string   `json:"title"`
	Year      int      `json:"year,omitempty"`
	File      string   `json:"file,omitempty"`
	Genres    []string `json:"genre,omitempty"`
	Rating    float64  `json:"rating,omitempty"`
	Runtime   int      `json:"runtime,omitempty"` // minutes
	Plot      string   `json:"plot,omitempty"`
	Directors []string `json:"director,omitempty"`
	DateAdded string   `json:"dateadded,omitempty"`
}

// TVShow represents a TV show library entry
type TVShow struct {
	ID       int      `json:"tvshowid"`
	Title    string   `json:"title"`
	Year     int      `json:"year,omitempty"`
	Genres   []string `json:"genre,omitempty"`
	Rating   float64  `json:"rating,omitempty"`
	Plot     string   `json:"plot,omitempty"`
	Episodes int      `json:"episode,omitempty"` // total episode count
	Seasons  int      `json:"season,omitempty"`  // total season count
}

// Episode represents a single episode of a TV show
type Episode struct {
	ID         int     `json:"episodeid"`
	Title      string  `json:"title"`
	Season     int     `json:"season"`
	Episode    int     `json:"episode"`
	File       string  `json:"file,omitempty"`
	ShowID     int     `json:"tvshowid,omitempty"`
	ShowTitle  string  `json:"showtitle,omitempty"`
	Plot       string  `json:"plot,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
	PlayCount  int     `json:"playcount"`
	LastPlayed string  `json:"lastplayed,omitempty"`
	DateAdded  string  `json:"dateadded,omitempty"`
}

// Watched reports whether the episode has been played at least once.
func (e Episode) Watched() bool { return e.PlayCount > 0 }

// PlayerInfo identifies an active player
type PlayerInfo struct {
	PlayerID int    `json:"playerid"`
	Type     string `json:"type"` // "video", "audio", "picture"
}

// NowPlaying describes what a player is currently playing
type NowPlaying struct {
	Title      string  `json:"title"`
	Type       string  `json:"type"` // "movie", "episode", ...
	ShowTitle  string  `json:"showtitle,omitempty"`
	Season     int     `json:"season,omitempty"`
	Episode    int     `json:"episode,omitempty"`
	Speed      int     `json:"speed"`      // 0 = paused
	Percentage float64 `json:"percentage"` // 0-100
	Time       string  `json:"time,omitempty"`
	TotalTime  string  `json:"totaltime,omitempty"`
}

// Paused reports whether playback is paused.
func (n *NowPlaying) Paused() bool { return n.Speed == 0 }

// LibraryStats is an overview of the library contents
type LibraryStats struct {
	Movies        int          `json:"movies"`
	TVShows       int          `json:"tv_shows"`
	TotalEpisodes int          `json:"total_episodes"`
	MovieGenres   []GenreCount `json:"top_movie_genres,omitempty"`
	TVGenres      []GenreCount `json:"top_tv_genres,omitempty"`
}

// GenreCount is a genre and how many items carry it
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}
