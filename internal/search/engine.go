// Package search filters a loaded universe down to the planets and systems a
// query selects.
package search

import (
	"cmp"
	"slices"

	"starmap-server/internal/universe"
)

// Search runs q over u in a single pass. It returns nil when q filters nothing,
// which is distinct from a non-nil Result with no systems.
func Search(u *universe.Universe, q Query) *Result {
	if q.IsZero() {
		return nil
	}

	m := newMatcher(q)
	ranked := q.colorRanked()

	res := &Result{
		Systems: []*SystemView{},
		Matches: []*universe.Planet{},
		Index:   make(map[string]universe.Body),
	}

	var scores map[*universe.Planet]int
	if ranked {
		scores = make(map[*universe.Planet]int)
	}

	for _, sys := range u.Systems {
		if !m.systemAllowed(sys) {
			continue
		}

		var planets []*universe.Planet
		for _, p := range sys.Planets {
			if !m.planetMatches(p) {
				continue
			}
			planets = append(planets, p)
			if ranked {
				scores[p] = m.colorScore(p)
			}
		}
		if len(planets) == 0 {
			continue
		}

		res.Systems = append(res.Systems, &SystemView{
			Coordinate: sys.Coordinate,
			Stars:      sys.Stars,
			Planets:    planets,
		})
		res.Matches = append(res.Matches, planets...)
	}

	if ranked {
		rankByColor(res, scores)
	}

	for _, view := range res.Systems {
		view.Resources = []universe.PlanetResource{}
		for _, p := range view.Planets {
			view.Resources = append(view.Resources, p.Resources...)
		}
		for _, s := range view.Stars {
			res.Index[s.Coordinate.String()] = s
		}
		// Planets go in last so they replace a synthesized star at the same coordinate.
		for _, p := range view.Planets {
			res.Index[p.Coordinate.String()] = p
		}
	}

	return res
}

// rankByColor orders matches by ascending color score, keeping universe order on
// ties, then orders systems by their best ranked planet and each system's planets
// by rank.
func rankByColor(res *Result, scores map[*universe.Planet]int) {
	slices.SortStableFunc(res.Matches, func(a, b *universe.Planet) int {
		return cmp.Compare(scores[a], scores[b])
	})

	rank := make(map[*universe.Planet]int, len(res.Matches))
	for i, p := range res.Matches {
		rank[p] = i
	}

	best := make(map[*SystemView]int, len(res.Systems))
	for _, view := range res.Systems {
		slices.SortFunc(view.Planets, func(a, b *universe.Planet) int {
			return cmp.Compare(rank[a], rank[b])
		})
		best[view] = rank[view.Planets[0]]
	}

	slices.SortFunc(res.Systems, func(a, b *SystemView) int {
		return cmp.Compare(best[a], best[b])
	})
}
