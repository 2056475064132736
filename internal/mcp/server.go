package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vadimtrunov/KodiMate/internal/core"
	"github.com/vadimtrunov/KodiMate/internal/library"
)

// Deps holds backend dependencies for MCP tool handlers.
type Deps struct {
	Library *library.Service
	Player  core.Player
}

// Server wraps an MCP SDK server with the Kodi tool handlers.
type Server struct {
	server *mcpsdk.Server
	deps   Deps
	logger *slog.Logger
}

// NewServer creates an MCP server with all Kodi tools registered.
func NewServer(deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "kodimate",
			Version: "1.0.0",
		},
		&mcpsdk.ServerOptions{Logger: logger},
	)

	srv := &Server{server: s, deps: deps, logger: logger}
	srv.registerTools()
	return srv
}

// ServeStdio runs the MCP server over stdin/stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcpsdk.StdioTransport{})
}

// MCPServer returns the underlying MCP SDK server (for testing).
func (s *Server) MCPServer() *mcpsdk.Server {
	return s.server
}

// registerTools registers all 12 Kodi tools on the MCP server.
func (s *Server) registerTools() {
	s.server.AddTool(searchMoviesTool(), s.handleSearchMovies)
	s.server.AddTool(searchTVShowsTool(), s.handleSearchTVShows)
	s.server.AddTool(checkMovieExistsTool(), s.handleCheckMovieExists)
	s.server.AddTool(checkTVShowExistsTool(), s.handleCheckTVShowExists)
	s.server.AddTool(playMovieTool(), s.handlePlayMovie)
	s.server.AddTool(playEpisodeTool(), s.handlePlayEpisode)
	s.server.AddTool(playNextUnwatchedTool(), s.handlePlayNextUnwatched)
	s.server.AddTool(controlPlaybackTool(), s.handleControlPlayback)
	s.server.AddTool(getLibraryStatsTool(), s.handleGetLibraryStats)
	s.server.AddTool(getRecentlyAddedTool(), s.handleGetRecentlyAdded)
	s.server.AddTool(updateLibraryTool(), s.handleUpdateLibrary)
	s.server.AddTool(scanTVShowTool(), s.handleScanTVShow)
}

// Tool definitions. Every tool takes an optional use_socks5 flag that routes
// the underlying JSON-RPC requests through the configured SOCKS5 proxy.

func searchMoviesTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "search_movies",
		Description: "Search for movies in the Kodi library by title, year, or genre.",
		InputSchema: withProxyFlag(map[string]any{
			"title": map[string]any{"type": "string", "description": "Movie title to search for"},
			"year":  map[string]any{"type": "integer", "description": "Release year"},
			"genre": map[string]any{"type": "string", "description": "Genre to filter by"},
		}),
	}
}

func searchTVShowsTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "search_tv_shows",
		Description: "Search for TV shows in the Kodi library by title or genre.",
		InputSchema: withProxyFlag(map[string]any{
			"title": map[string]any{"type": "string", "description": "TV show title to search for"},
			"genre": map[string]any{"type": "string", "description": "Genre to filter by"},
		}),
	}
}

func checkMovieExistsTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "check_movie_exists",
		Description: "Check if a specific movie exists in the Kodi library.",
		InputSchema: withProxyFlag(map[string]any{
			"title": map[string]any{"type": "string", "description": "Movie title"},
			"year":  map[string]any{"type": "integer", "description": "Release year (optional)"},
		}, "title"),
	}
}

func checkTVShowExistsTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "check_tv_show_exists",
		Description: "Check if a TV show, season, or episode exists in the Kodi library.",
		InputSchema: withProxyFlag(map[string]any{
			"title":   map[string]any{"type": "string", "description": "TV show title"},
			"season":  map[string]any{"type": "integer", "description": "Season number (optional)"},
			"episode": map[string]any{"type": "integer", "description": "Episode number (optional)"},
		}, "title"),
	}
}

func playMovieTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "play_movie",
		Description: "Play a movie in Kodi by title and optional year. Ambiguous matches are listed instead of played.",
		InputSchema: withProxyFlag(map[string]any{
			"title": map[string]any{"type": "string", "description": "Movie title"},
			"year":  map[string]any{"type": "integer", "description": "Release year (optional, for disambiguation)"},
		}, "title"),
	}
}

func playEpisodeTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "play_episode",
		Description: "Play a TV episode in Kodi.",
		InputSchema: withProxyFlag(map[string]any{
			"show_title": map[string]any{"type": "string", "description": "TV show title"},
			"season":     map[string]any{"type": "integer", "description": "Season number"},
			"episode":    map[string]any{"type": "integer", "description": "Episode number"},
		}, "show_title", "season", "episode"),
	}
}

func playNextUnwatchedTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "play_next_unwatched",
		Description: "Find and play the next unwatched episode of a TV show, based on watch status.",
		InputSchema: withProxyFlag(map[string]any{
			"show_title": map[string]any{"type": "string", "description": "TV show title"},
		}, "show_title"),
	}
}

func controlPlaybackTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "control_playback",
		Description: "Control Kodi playback: pause, stop, or get the playback status.",
		InputSchema: withProxyFlag(map[string]any{
			"action": map[string]any{
				"type":        "string",
				"enum":        []any{"pause", "stop", "status"},
				"description": "Playback action to perform",
			},
		}, "action"),
	}
}

func getLibraryStatsTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "get_library_stats",
		Description: "Get overview statistics of the Kodi media library.",
		InputSchema: withProxyFlag(map[string]any{}),
	}
}

func getRecentlyAddedTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "get_recently_added",
		Description: "Get recently added movies and TV episodes.",
		InputSchema: withProxyFlag(map[string]any{
			"media_type": map[string]any{
				"type":        "string",
				"enum":        []any{"movies", "episodes", "both"},
				"description": "Type of media to retrieve",
				"default":     "both",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of items to return",
				"default":     20,
			},
		}),
	}
}

func updateLibraryTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "update_library",
		Description: "Trigger a Kodi library scan for new content, optionally scoped to a directory.",
		InputSchema: withProxyFlag(map[string]any{
			"directory": map[string]any{"type": "string", "description": "Specific directory to scan (optional)"},
		}),
	}
}

func scanTVShowTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "scan_tv_show",
		Description: "Scan only a TV show's directory for new episodes, instead of the whole library.",
		InputSchema: withProxyFlag(map[string]any{
			"show_title": map[string]any{"type": "string", "description": "TV show title"},
		}, "show_title"),
	}
}

// withProxyFlag builds an input schema with the shared use_socks5 property.
func withProxyFlag(properties map[string]any, required ...string) map[string]any {
	properties["use_socks5"] = map[string]any{
		"type":        "boolean",
		"description": "Route this request through the configured SOCKS5 proxy (default: false)",
		"default":     false,
	}
	req := make([]any, len(required))
	for i, r := range required {
		req[i] = r
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   req,
	}
}

// Tool handlers. Each parses arguments, applies the proxy flag to the
// context, calls the library service, and returns JSON text content.

func (s *Server) handleSearchMovies(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Library == nil {
		return toolError("library service not configured"), nil
	}

	var args struct {
		Title     string `json:"title"`
		Year      int    `json:"year"`
		Genre     string `json:"genre"`
		UseSocks5 bool   `json:"use_socks5"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	ctx = maybeProxy(ctx, args.UseSocks5)

	movies, err := s.deps.Library.SearchMovies(ctx, library.MovieFilter{
		Title: args.Title,
		Year:  args.Year,
		Genre: args.Genre,
	})
	if err != nil {
		return toolError(fmt.Sprintf("search movies failed: %v", err)), nil
	}
	return toolJSON(map[string]any{
		"count":  len(movies),
		"movies": movies,
	})
}

func (s *Server) handleSearchTVShows(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Library == nil {
		return toolError("library service not configured"), nil
	}

	var args struct {
		Title     string `json:"title"`
		Genre     string `json:"genre"`
		UseSocks5 bool   `json:"use_socks5"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	ctx = maybeProxy(ctx, args.UseSocks5)

	shows, err := s.deps.Library.SearchShows(ctx, library.ShowFilter{
		Title: args.Title,
		Genre: args.Genre,
	})
	if err != nil {
		return toolError(fmt.Sprintf("search tv shows failed: %v", err)), nil
	}
	return toolJSON(map[string]any{
		"count":    len(shows),
		"tv_shows": shows,
	})
}

func (s *Server) handleCheckMovieExists(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Library == nil {
		return toolError("library service not configured"), nil
	}

	var args struct {
		Title     string `json:"title"`
		Year      int    `json:"year"`
		UseSocks5 bool   `json:"use_socks5"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Title == "" {
		return toolError("check_movie_exists requires a 'title' argument"), nil
	}
	ctx = maybeProxy(ctx, args.UseSocks5)

	matches, err := s.deps.Library.FindMovies(ctx, args.Title, args.Year)
	if err != nil {
		return toolError(fmt.Sprintf("check movie failed: %v", err)), nil
	}
	return toolJSON(map[string]any{
		"found":   len(matches) > 0,
		"matches": matches,
	})
}

func (s *Server) handleCheckTVShowExists(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Library == nil {
		return toolError("library service not configured"), nil
	}

	var args struct {
		Title     string `json:"title"`
		Season    *int   `json:"season"`
		Episode   *int   `json:"episode"`
		UseSocks5 bool   `json:"use_socks5"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Title == "" {
		return toolError("check_tv_show_exists requires a 'title' argument"), nil
	}
	ctx = maybeProxy(ctx, args.UseSocks5)

	show, err := s.deps.Library.FindShow(ctx, args.Title)
	if errors.Is(err, library.ErrNotFound) {
		return toolJSON(map[string]any{"found": false})
	}
	if err != nil {
		return toolError(fmt.Sprintf("check tv show failed: %v", err)), nil
	}

	// Show-level check only.
	if args.Season == nil && args.Episode == nil {
		return toolJSON(map[string]any{"found": true, "show": show})
	}

	episodes, err := s.deps.Library.Episodes(ctx, show.ID, args.Season)
	if err != nil {
		return toolError(fmt.Sprintf("get episodes failed: %v", err)), nil
	}

	if args.Season != nil && args.Episode == nil {
		if len(episodes) == 0 {
			return toolJSON(map[string]any{"found": false, "show": show, "season": *args.Season})
		}
		first, last := episodeRange(episodes)
		return toolJSON(map[string]any{
			"found":              true,
			"show":               show,
			"season":             *args.Season,
			"episodes_in_season": len(episodes),
			"first_episode":      first,
			"last_episode":       last,
		})
	}

	for _, ep := range episodes {
		if args.Episode != nil && ep.Episode == *args.Episode {
			return toolJSON(map[string]any{"found": true, "show": show, "episode": ep})
		}
	}
	return toolJSON(map[string]any{"found": false, "show": show})
}

func (s *Server) handlePlayMovie(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Library == nil {
		return toolError("library service not configured"), nil
	}

	var args struct {
		Title     string `json:"title"`
		Year      int    `json:"year"`
		UseSocks5 bool   `json:"use_socks5"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Title == "" {
		return toolError("play_movie requires a 'title' argument"), nil
	}
	ctx = maybeProxy(ctx, args.UseSocks5)

	movie, err := s.deps.Library.PlayMovie(ctx, args.Title, args.Year)
	var ambiguous *library.AmbiguousError
	if errors.As(err, &ambiguous) {
		return toolJSON(map[string]any{
			"status":  "ambiguous",
			"matches": ambiguous.Matches,
		})
	}
	if err != nil {
		return toolError(fmt.Sprintf("play movie failed: %v", err)), nil
	}
	return toolJSON(map[string]any{"status": "playing", "movie": movie})
}

func (s *Server) handlePlayEpisode(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Library == nil {
		return toolError("library service not configured"), nil
	}

	var args struct {
		ShowTitle string `json:"show_title"`
		Season    *int   `json:"season"`
		Episode   *int   `json:"episode"`
		UseSocks5 bool   `json:"use_socks5"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.ShowTitle == "" || args.Season == nil || args.Episode == nil {
		return toolError("play_episode requires 'show_title', 'season', and 'episode' arguments"), nil
	}
	ctx = maybeProxy(ctx, args.UseSocks5)

	episode, err := s.deps.Library.PlayEpisode(ctx, args.ShowTitle, *args.Season, *args.Episode)
	if err != nil {
		return toolError(fmt.Sprintf("play episode failed: %v", err)), nil
	}
	return toolJSON(map[string]any{"status": "playing", "episode": episode})
}

func (s *Server) handlePlayNextUnwatched(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Library == nil {
		return toolError("library service not configured"), nil
	}

	var args struct {
		ShowTitle string `json:"show_title"`
		UseSocks5 bool   `json:"use_socks5"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.ShowTitle == "" {
		return toolError("play_next_unwatched requires a 'show_title' argument"), nil
	}
	ctx = maybeProxy(ctx, args.UseSocks5)

	episode, err := s.deps.Library.PlayNextUnwatched(ctx, args.ShowTitle)
	if err != nil {
		return toolError(fmt.Sprintf("play next unwatched failed: %v", err)), nil
	}
	return toolJSON(map[string]any{"status": "playing", "episode": episode})
}

func (s *Server) handleControlPlayback(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Player == nil {
		return toolError("player not configured"), nil
	}

	var args struct {
		Action    string `json:"action"`
		UseSocks5 bool   `json:"use_socks5"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	ctx = maybeProxy(ctx, args.UseSocks5)

	players, err := s.deps.Player.ActivePlayers(ctx)
	if err != nil {
		return toolError(fmt.Sprintf("get active players failed: %v", err)), nil
	}

	switch args.Action {
	case "status":
		status := make([]map[string]any, 0, len(players))
		for _, p := range players {
			entry := map[string]any{"player": p}
			if np, err := s.deps.Player.NowPlaying(ctx, p.PlayerID); err == nil {
				entry["now_playing"] = np
			}
			status = append(status, entry)
		}
		return toolJSON(map[string]any{
			"active_players": len(players),
			"players":        status,
		})

	case "pause", "stop":
		if len(players) == 0 {
			return toolJSON(map[string]any{"status": "no_active_playback"})
		}
		p := players[0]
		if args.Action == "pause" {
			err = s.deps.Player.PlayPause(ctx, p.PlayerID)
		} else {
			err = s.deps.Player.Stop(ctx, p.PlayerID)
		}
		if err != nil {
			return toolError(fmt.Sprintf("%s failed: %v", args.Action, err)), nil
		}
		return toolJSON(map[string]any{"status": args.Action + "d", "player": p})

	default:
		return toolError(fmt.Sprintf("unknown action %q (want pause, stop, or status)", args.Action)), nil
	}
}

func (s *Server) handleGetLibraryStats(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Library == nil {
		return toolError("library service not configured"), nil
	}

	var args struct {
		UseSocks5 bool `json:"use_socks5"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	ctx = maybeProxy(ctx, args.UseSocks5)

	stats, err := s.deps.Library.Stats(ctx)
	if err != nil {
		return toolError(fmt.Sprintf("get library stats failed: %v", err)), nil
	}
	return toolJSON(stats)
}

func (s *Server) handleGetRecentlyAdded(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Library == nil {
		return toolError("library service not configured"), nil
	}

	var args struct {
		MediaType string `json:"media_type"`
		Limit     int    `json:"limit"`
		UseSocks5 bool   `json:"use_socks5"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.MediaType == "" {
		args.MediaType = "both"
	}
	ctx = maybeProxy(ctx, args.UseSocks5)

	recent, err := s.deps.Library.Recent(ctx, args.MediaType, args.Limit)
	if err != nil {
		return toolError(fmt.Sprintf("get recently added failed: %v", err)), nil
	}
	return toolJSON(recent)
}

func (s *Server) handleUpdateLibrary(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Library == nil {
		return toolError("library service not configured"), nil
	}

	var args struct {
		Directory string `json:"directory"`
		UseSocks5 bool   `json:"use_socks5"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	ctx = maybeProxy(ctx, args.UseSocks5)

	if err := s.deps.Library.UpdateLibrary(ctx, args.Directory); err != nil {
		return toolError(fmt.Sprintf("library scan failed: %v", err)), nil
	}

	result := map[string]any{"status": "scan_started"}
	if args.Directory != "" {
		result["directory"] = args.Directory
	}
	return toolJSON(result)
}

func (s *Server) handleScanTVShow(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Library == nil {
		return toolError("library service not configured"), nil
	}

	var args struct {
		ShowTitle string `json:"show_title"`
		UseSocks5 bool   `json:"use_socks5"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.ShowTitle == "" {
		return toolError("scan_tv_show requires a 'show_title' argument"), nil
	}
	ctx = maybeProxy(ctx, args.UseSocks5)

	dir, err := s.deps.Library.ScanShow(ctx, args.ShowTitle)
	if err != nil {
		return toolError(fmt.Sprintf("scan tv show failed: %v", err)), nil
	}
	return toolJSON(map[string]any{
		"status":    "scan_started",
		"directory": dir,
	})
}

// Helper functions.

// maybeProxy marks the context for SOCKS5 routing when the tool asked for it.
func maybeProxy(ctx context.Context, useSocks5 bool) context.Context {
	if useSocks5 {
		return core.WithProxy(ctx)
	}
	return ctx
}

// toolJSON marshals v to JSON and returns it as text content.
func toolJSON(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil
}

// toolError returns a tool result indicating an error.
func toolError(msg string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: msg}},
		IsError: true,
	}
}

// episodeRange returns the lowest and highest episode numbers in a list.
func episodeRange(episodes []core.Episode) (first, last int) {
	first, last = episodes[0].Episode, episodes[0].Episode
	for _, ep := range episodes[1:] {
		if ep.Episode < first {
			first = ep.Episode
		}
		if ep.Episode > last {
			last = ep.Episode
		}
	}
	return first, last
}
