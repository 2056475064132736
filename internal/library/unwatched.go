package library

import (
	"math"
	"sort"

	"github.com/vadimtrunov/KodiMate/internal/core"
)

// NextUnwatched picks the next episode to watch from playcount metadata.
//
// Episodes are ordered by (season, episode) with specials (season 0) last, so
// they never preempt the main run. The result is the first unwatched episode
// after the highest-ordered watched one; if nothing is watched yet, the first
// unwatched episode overall. Returns nil when everything is watched.
func NextUnwatched(episodes []core.Episode) *core.Episode {
	if len(episodes) == 0 {
		return nil
	}

	ordered := make([]core.Episode, len(episodes))
	copy(ordered, episodes)
	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := seasonOrder(ordered[i].Season), seasonOrder(ordered[j].Season)
		if si != sj {
			return si < sj
		}
		return ordered[i].Episode < ordered[j].Episode
	})

	lastWatched := -1
	for i, ep := range ordered {
		if ep.Watched() {
			lastWatched = i
		}
	}

	for i := lastWatched + 1; i < len(ordered); i++ {
		if !ordered[i].Watched() {
			return &ordered[i]
		}
	}
	// A watched episode after a gap: fall back to the earliest unwatched one.
	for i := range ordered {
		if !ordered[i].Watched() {
			return &ordered[i]
		}
	}
	return nil
}

func seasonOrder(season int) int {
	if season == 0 {
		return math.MaxInt
	}
	return season
}
