package kodi

import (
	"context"
	"fmt"

	"github.com/vadimtrunov/KodiMate/internal/core"
)

// ActivePlayers returns the currently active players.
func (c *Client) ActivePlayers(ctx context.Context) ([]core.PlayerInfo, error) {
	var players []core.PlayerInfo
	if err := c.call(ctx, "Player.GetActivePlayers", nil, &players); err != nil {
		return nil, fmt.Errorf("get active players: %w", err)
	}
	return players, nil
}

// PlayMovie starts playback of a movie by library ID.
func (c *Client) PlayMovie(ctx context.Context, movieID int) error {
	params := map[string]any{
		"item": map[string]int{"movieid": movieID},
	}
	if err := c.call(ctx, "Player.Open", params, nil); err != nil {
		return fmt.Errorf("play movie %d: %w", movieID, err)
	}
	return nil
}

// PlayEpisode starts playback of an episode by library ID.
func (c *Client) PlayEpisode(ctx context.Context, episodeID int) error {
	params := map[string]any{
		"item": map[string]int{"episodeid": episodeID},
	}
	if err := c.call(ctx, "Player.Open", params, nil); err != nil {
		return fmt.Errorf("play episode %d: %w", episodeID, err)
	}
	return nil
}

// PlayPause toggles pause on a player.
func (c *Client) PlayPause(ctx context.Context, playerID int) error {
	params := map[string]int{"playerid": playerID}
	if err := c.call(ctx, "Player.PlayPause", params, nil); err != nil {
		return fmt.Errorf("play/pause player %d: %w", playerID, err)
	}
	return nil
}

// Stop stops playback on a player.
func (c *Client) Stop(ctx context.Context, playerID int) error {
	params := map[string]int{"playerid": playerID}
	if err := c.call(ctx, "Player.Stop", params, nil); err != nil {
		return fmt.Errorf("stop player %d: %w", playerID, err)
	}
	return nil
}

// NowPlaying returns the item and progress of a player. Two round trips:
// Player.GetItem for the item, Player.GetProperties for speed and position.
func (c *Client) NowPlaying(ctx context.Context, playerID int) (*core.NowPlaying, error) {
	itemParams := map[string]any{
		"playerid":   playerID,
		"properties": []string{"title", "showtitle", "season", "episode"},
	}
	var item playerItem
	if err := c.call(ctx, "Player.GetItem", itemParams, &item); err != nil {
		return nil, fmt.Errorf("get player item: %w", err)
	}

	propParams := map[string]any{
		"playerid":   playerID,
		"properties": []string{"speed", "percentage", "time", "totaltime"},
	}
	var props playerProperties
	if err := c.call(ctx, "Player.GetProperties", propParams, &props); err != nil {
		return nil, fmt.Errorf("get player properties: %w", err)
	}

	return &core.NowPlaying{
		Title:      item.Item.Title,
		Type:       item.Item.Type,
		ShowTitle:  item.Item.ShowTitle,
		Season:     item.Item.Season,
		Episode:    item.Item.Episode,
		Speed:      props.Speed,
		Percentage: props.Percentage,
		Time:       props.Time.String(),
		TotalTime:  props.TotalTime.String(),
	}, nil
}

// Navigate sends a single input action (Input.Up, Input.Select, ...).
func (c *Client) Navigate(ctx context.Context, action core.InputAction) error {
	if err := c.call(ctx, "Input."+string(action), nil, nil); err != nil {
		return fmt.Errorf("input %s: %w", action, err)
	}
	return nil
}
