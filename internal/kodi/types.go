package kodi

import (
	"encoding/json"
	"fmt"

	"github.com/vadimtrunov/KodiMate/internal/core"
)

// rpcRequest is the JSON-RPC 2.0 request envelope.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// rpcResponse is the JSON-RPC 2.0 response envelope.
type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// RPCError is an error object returned by the Kodi JSON-RPC API.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("kodi API error: %s (code %d)", e.Message, e.Code)
}

// sortSpec is Kodi's List.Sort parameter.
type sortSpec struct {
	Order  string `json:"order"`  // "ascending" or "descending"
	Method string `json:"method"` // "title", "episode", "dateadded", ...
}

// limitsSpec is Kodi's List.Limits parameter.
type limitsSpec struct {
	End int `json:"end"`
}

// listParams covers the VideoLibrary list methods.
type listParams struct {
	Properties []string    `json:"properties"`
	Sort       sortSpec    `json:"sort"`
	Limits     *limitsSpec `json:"limits,omitempty"`
}

// episodesParams is the VideoLibrary.GetEpisodes parameter set.
type episodesParams struct {
	TVShowID   int      `json:"tvshowid"`
	Properties []string `json:"properties"`
	Sort       sortSpec `json:"sort"`
	Season     *int     `json:"season,omitempty"` // Kodi rejects a null season
}

type moviesResult struct {
	Movies []core.Movie `json:"movies"`
}

type tvShowsResult struct {
	TVShows []core.TVShow `json:"tvshows"`
}

type episodesResult struct {
	Episodes []core.Episode `json:"episodes"`
}

// playerItem is the Player.GetItem result payload.
type playerItem struct {
	Item struct {
		Title     string `json:"title"`
		Type      string `json:"type"`
		ShowTitle string `json:"showtitle"`
		Season    int    `json:"season"`
		Episode   int    `json:"episode"`
	} `json:"item"`
}

// playerProperties is the Player.GetProperties result payload.
type playerProperties struct {
	Speed      int       `json:"speed"`
	Percentage float64   `json:"percentage"`
	Time       timeValue `json:"time"`
	TotalTime  timeValue `json:"totaltime"`
}

// timeValue is Kodi's Global.Time object.
type timeValue struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// String renders the time as h:mm:ss.
func (t timeValue) String() string {
	return fmt.Sprintf("%d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
}
