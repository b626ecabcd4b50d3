package search

import (
	"strings"

	"starmap-server/internal/universe"
)

// matcher holds a query with its derived values computed once per search.
type matcher struct {
	q Query

	planetTypesActive bool
	planetIncludes    bool
	starTypesActive   bool
	starIncludes      bool

	name   string
	ranmat string

	primaryTol2   float64
	secondaryTol2 float64
}

func newMatcher(q Query) *matcher {
	m := &matcher{
		q:                 q,
		planetTypesActive: anyActive(q.PlanetTypes),
		planetIncludes:    anyInclude(q.PlanetTypes),
		starTypesActive:   anyActive(q.StarTypes),
		starIncludes:      anyInclude(q.StarTypes),
		name:              q.Name.needle(),
		ranmat:            q.RandomMaterial.needle(),
	}
	if q.PrimaryColor.Active() {
		tol := q.PrimaryColor.Tolerance()
		m.primaryTol2 = tol * tol
	}
	if q.SecondaryColor.Active() {
		tol := q.SecondaryColor.Tolerance()
		m.secondaryTol2 = tol * tol
	}
	return m
}

// systemAllowed applies the system level filters. A rejected system is skipped
// before any of its planets are looked at.
func (m *matcher) systemAllowed(sys *universe.SolarSystem) bool {
	if m.q.EarthlikesInSystem != TriStateAny {
		hasEarthlike := false
		for _, p := range sys.Planets {
			if p.Type == universe.PlanetTypeEarthLike {
				hasEarthlike = true
				break
			}
		}
		if !m.q.EarthlikesInSystem.allows(hasEarthlike) {
			return false
		}
	}

	if m.starTypesActive {
		included := false
		for _, s := range sys.Stars {
			switch m.q.StarTypes[s.Type] {
			case TriStateNo:
				return false
			case TriStateYes:
				included = true
			}
		}
		if m.starIncludes && !included {
			return false
		}
	}

	return true
}

// planetMatches evaluates the planet level predicates in order and stops at the
// first failure.
func (m *matcher) planetMatches(p *universe.Planet) bool {
	if m.planetTypesActive {
		state := m.q.PlanetTypes[p.Type]
		if state == TriStateNo {
			return false
		}
		if m.planetIncludes && state != TriStateYes {
			return false
		}
	}

	if !m.q.Rings.allows(p.Ring != nil) {
		return false
	}
	if !m.q.Atmosphere.allows(p.Atmosphere) {
		return false
	}
	if !m.q.TidallyLocked.allows(p.TidallyLocked()) {
		return false
	}
	if !m.q.Temperature.contains(float64(p.Temperature)) {
		return false
	}
	if !m.q.Gravity.contains(p.Gravity) {
		return false
	}

	if m.name != "" && !textMatches(p.Name, m.name, m.q.Name.Mode) {
		return false
	}
	if m.ranmat != "" {
		if p.RandomMaterial == "" || !textMatches(p.RandomMaterial, m.ranmat, m.q.RandomMaterial.Mode) {
			return false
		}
	}

	if !m.q.Coordinates.Matches(p.Coordinate) {
		return false
	}
	if !hasResources(p, m.q.Resources) {
		return false
	}
	for r, state := range m.q.ResourceStates {
		if !state.allows(p.ResourceAmount(r) > 0) {
			return false
		}
	}

	if m.q.PrimaryColor.Active() && float64(p.PrimaryColor.DistanceSquared(*m.q.PrimaryColor.Target)) > m.primaryTol2 {
		return false
	}
	if m.q.SecondaryColor.Active() && float64(p.SecondaryColor.DistanceSquared(*m.q.SecondaryColor.Target)) > m.secondaryTol2 {
		return false
	}

	return true
}

// colorScore is the ranking key of a matched planet. Inactive color filters add 0.
func (m *matcher) colorScore(p *universe.Planet) int {
	score := 0
	if m.q.PrimaryColor.Active() {
		score += p.PrimaryColor.DistanceSquared(*m.q.PrimaryColor.Target)
	}
	if m.q.SecondaryColor.Active() {
		score += p.SecondaryColor.DistanceSquared(*m.q.SecondaryColor.Target)
	}
	return score
}

// textMatches compares s against an already lowercased needle.
func textMatches(s, needle string, mode TextMode) bool {
	s = strings.ToLower(s)
	switch mode {
	case TextModeContains:
		return strings.Contains(s, needle)
	case TextModeEndsWith:
		return strings.HasSuffix(s, needle)
	default:
		return strings.HasPrefix(s, needle)
	}
}

// hasResources requires every listed resource to be present with at least the
// given amount.
func hasResources(p *universe.Planet, required []universe.PlanetResource) bool {
	for _, req := range required {
		found := false
		for _, pr := range p.Resources {
			if pr.Resource == req.Resource {
				found = pr.Amount >= req.Amount
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
