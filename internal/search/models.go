package search

import (
	"fmt"
	"math"
	"strings"

	"starmap-server/internal/universe"
)

// TriState is an optional boolean filter: any (no effect), yes (require) or no (forbid).
type TriState int

const (
	TriStateNo  TriState = -1
	TriStateAny TriState = 0
	TriStateYes TriState = 1
)

func (t TriState) String() string {
	switch t {
	case TriStateYes:
		return "yes"
	case TriStateNo:
		return "no"
	default:
		return "any"
	}
}

func (t TriState) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts "any", "yes", "no" and the ring filter spelling "has".
func (t *TriState) UnmarshalText(b []byte) error {
	v, err := ParseTriState(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func ParseTriState(s string) (TriState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return TriStateAny, nil
	case "yes", "has":
		return TriStateYes, nil
	case "no":
		return TriStateNo, nil
	default:
		return TriStateAny, fmt.Errorf("invalid tri-state %q", s)
	}
}

// allows reports whether a boolean property passes the filter.
func (t TriState) allows(v bool) bool {
	switch t {
	case TriStateYes:
		return v
	case TriStateNo:
		return !v
	default:
		return true
	}
}

type TextMode int

const (
	TextModeStartsWith TextMode = iota
	TextModeContains
	TextModeEndsWith
)

var textModeNames = []string{"starts_with", "contains", "ends_with"}

func (m TextMode) String() string {
	if m < 0 || int(m) >= len(textModeNames) {
		return fmt.Sprintf("TextMode(%d)", int(m))
	}
	return textModeNames[m]
}

func (m TextMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *TextMode) UnmarshalText(b []byte) error {
	v, err := ParseTextMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func ParseTextMode(s string) (TextMode, error) {
	if s == "" {
		return TextModeStartsWith, nil
	}
	for i, name := range textModeNames {
		if name == s {
			return TextMode(i), nil
		}
	}
	return TextModeStartsWith, fmt.Errorf("invalid text mode %q", s)
}

// TextMatch is a case-insensitive string filter; a blank query is inactive.
type TextMatch struct {
	Query string   `json:"query,omitempty"`
	Mode  TextMode `json:"mode"`
}

func (m TextMatch) needle() string {
	return strings.ToLower(strings.TrimSpace(m.Query))
}

func (m TextMatch) Active() bool {
	return m.needle() != ""
}

// Range is an inclusive interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r *Range) contains(v float64) bool {
	return r == nil || (v >= r.Min && v <= r.Max)
}

var (
	// DefaultTemperatureRange and DefaultGravityRange are the full slider ranges of the
	// UI. A query carrying exactly these bounds does not filter.
	DefaultTemperatureRange = Range{Min: -350, Max: 350}
	DefaultGravityRange     = Range{Min: 0, Max: 350}
)

// ColorFilter matches planets whose color lies within a distance of Target derived
// from Similarity (0 to 100).
type ColorFilter struct {
	Target     *universe.RGBColor `json:"target,omitempty"`
	Similarity float64            `json:"similarity,omitempty"`
}

func (f ColorFilter) Active() bool {
	return f.Target != nil && f.Similarity > 0
}

// Tolerance maps the similarity percentage onto an RGB distance ceiling of at least 1.
func (f ColorFilter) Tolerance() float64 {
	return math.Max(1, f.Similarity/100*255)
}

// Query holds every filter. The zero value filters nothing.
type Query struct {
	PlanetTypes        map[universe.PlanetType]TriState `json:"planet_types,omitempty"`
	StarTypes          map[universe.StarType]TriState   `json:"star_types,omitempty"`
	Rings              TriState                         `json:"rings"`
	Atmosphere         TriState                         `json:"atmosphere"`
	TidallyLocked      TriState                         `json:"tidally_locked"`
	EarthlikesInSystem TriState                         `json:"earthlikes_in_system"`
	Temperature        *Range                           `json:"temperature,omitempty"`
	Gravity            *Range                           `json:"gravity,omitempty"`
	Name               TextMatch                        `json:"name"`
	RandomMaterial     TextMatch                        `json:"random_material"`
	Coordinates        universe.CoordinatePattern       `json:"coordinates"`
	Resources          []universe.PlanetResource        `json:"resources,omitempty"`
	ResourceStates     map[universe.Resource]TriState   `json:"resource_states,omitempty"`
	PrimaryColor       ColorFilter                      `json:"primary_color"`
	SecondaryColor     ColorFilter                      `json:"secondary_color"`
}

// IsZero reports whether every filter is at its neutral value.
func (q Query) IsZero() bool {
	return !anyActive(q.PlanetTypes) &&
		!anyActive(q.StarTypes) &&
		q.Rings == TriStateAny &&
		q.Atmosphere == TriStateAny &&
		q.TidallyLocked == TriStateAny &&
		q.EarthlikesInSystem == TriStateAny &&
		q.Temperature == nil &&
		q.Gravity == nil &&
		!q.Name.Active() &&
		!q.RandomMaterial.Active() &&
		q.Coordinates.IsZero() &&
		len(q.Resources) == 0 &&
		!anyActive(q.ResourceStates) &&
		!q.PrimaryColor.Active() &&
		!q.SecondaryColor.Active()
}

func (q Query) colorRanked() bool {
	return q.PrimaryColor.Active() || q.SecondaryColor.Active()
}

func anyActive[K comparable](m map[K]TriState) bool {
	for _, v := range m {
		if v != TriStateAny {
			return true
		}
	}
	return false
}

func anyInclude[K comparable](m map[K]TriState) bool {
	for _, v := range m {
		if v == TriStateYes {
			return true
		}
	}
	return false
}

// SystemView is a solar system as it appears in a result: its matched planets, its
// complete star list and the resources of the matched planets.
type SystemView struct {
	Coordinate universe.SystemCoordinate `json:"coordinate"`
	Stars      []*universe.Star          `json:"stars"`
	Planets    []*universe.Planet        `json:"planets"`
	Resources  []universe.PlanetResource `json:"resources"`
}

// Result is a non-empty query outcome. Index maps canonical coordinate keys to the
// bodies to highlight.
type Result struct {
	Systems []*SystemView            `json:"systems"`
	Matches []*universe.Planet       `json:"matches"`
	Index   map[string]universe.Body `json:"index"`
}
