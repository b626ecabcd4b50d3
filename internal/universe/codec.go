package universe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	starTypeNames       = []string{"Red", "Orange", "Yellow", "Blue", "Neutron", "BlackHole", "AsteroidField", "RoguePlanet"}
	planetTypeNames     = []string{"Terra", "EarthLike", "Desert", "Ocean", "Tundra", "Forest", "Exotic", "Barren", "Gas", "RobotDepot", "RobotFactory"}
	planetMaterialNames = []string{"Grass", "Sand", "Snow", "Rock1", "Rock2"}
	resourceNames       = []string{"Iron", "Copper", "Coal", "Lead", "Titanium", "Uranium", "Jade", "Gold", "Diamond", "Beryllium", "Aluminum"}
	ringTypeNames       = []string{"Ice", "Stone"}
)

var starColors = map[StarType]RGBColor{
	StarTypeRed:           {R: 255, G: 68, B: 68},
	StarTypeOrange:        {R: 255, G: 136, B: 68},
	StarTypeYellow:        {R: 255, G: 255, B: 102},
	StarTypeBlue:          {R: 50, G: 50, B: 255},
	StarTypeNeutron:       {R: 187, G: 204, B: 255},
	StarTypeBlackHole:     {R: 255, G: 93, B: 0},
	StarTypeAsteroidField: {R: 136, G: 136, B: 136},
	StarTypeRoguePlanet:   {R: 100, G: 100, B: 100},
}

func parseName(names []string, s string) (int, bool) {
	for i, name := range names {
		if name == s {
			return i, true
		}
	}
	return 0, false
}

func nameOf(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return strconv.Itoa(i)
	}
	return names[i]
}

func ParseStarType(s string) (StarType, bool) {
	i, ok := parseName(starTypeNames, s)
	return StarType(i), ok
}

func ParsePlanetType(s string) (PlanetType, bool) {
	i, ok := parseName(planetTypeNames, s)
	return PlanetType(i), ok
}

func ParseMaterial(s string) (PlanetMaterial, bool) {
	i, ok := parseName(planetMaterialNames, s)
	return PlanetMaterial(i), ok
}

func ParseResource(s string) (Resource, bool) {
	i, ok := parseName(resourceNames, s)
	return Resource(i), ok
}

func ParseRingType(s string) (RingType, bool) {
	i, ok := parseName(ringTypeNames, s)
	return RingType(i), ok
}

func StarTypes() []StarType {
	types := make([]StarType, len(starTypeNames))
	for i := range types {
		types[i] = StarType(i)
	}
	return types
}

func PlanetTypes() []PlanetType {
	types := make([]PlanetType, len(planetTypeNames))
	for i := range types {
		types[i] = PlanetType(i)
	}
	return types
}

// StarColor returns the display color for a star type.
func StarColor(t StarType) RGBColor {
	return starColors[t]
}

func (t StarType) String() string       { return nameOf(starTypeNames, int(t)) }
func (t PlanetType) String() string     { return nameOf(planetTypeNames, int(t)) }
func (m PlanetMaterial) String() string { return nameOf(planetMaterialNames, int(m)) }
func (r Resource) String() string       { return nameOf(resourceNames, int(r)) }
func (t RingType) String() string       { return nameOf(ringTypeNames, int(t)) }

func (t StarType) MarshalText() ([]byte, error)       { return []byte(t.String()), nil }
func (t PlanetType) MarshalText() ([]byte, error)     { return []byte(t.String()), nil }
func (m PlanetMaterial) MarshalText() ([]byte, error) { return []byte(m.String()), nil }
func (r Resource) MarshalText() ([]byte, error)       { return []byte(r.String()), nil }
func (t RingType) MarshalText() ([]byte, error)       { return []byte(t.String()), nil }

func (t *StarType) UnmarshalText(b []byte) error {
	v, ok := ParseStarType(string(b))
	if !ok {
		return fmt.Errorf("unknown star type %q", b)
	}
	*t = v
	return nil
}

func (t *PlanetType) UnmarshalText(b []byte) error {
	v, ok := ParsePlanetType(string(b))
	if !ok {
		return fmt.Errorf("unknown planet type %q", b)
	}
	*t = v
	return nil
}

func (r *Resource) UnmarshalText(b []byte) error {
	v, ok := ParseResource(string(b))
	if !ok {
		return fmt.Errorf("unknown resource %q", b)
	}
	*r = v
	return nil
}

// ParseCoordinate parses a full "x, y, z, w" key. Separators may be "," with or
// without surrounding whitespace.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Coordinate{}, fmt.Errorf("coordinate %q: expected 4 components, got %d", s, len(parts))
	}
	var v [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Coordinate{}, fmt.Errorf("coordinate %q: component %d: %w", s, i, err)
		}
		v[i] = n
	}
	return Coordinate{X: v[0], Y: v[1], Z: v[2], W: v[3]}, nil
}

// NormalizeCoordinateKey rewrites loosely formatted keys ("1,2,3,4") into the canonical form.
func NormalizeCoordinateKey(s string) (string, error) {
	c, err := ParseCoordinate(s)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// CoordinatePattern matches coordinates axis by axis; a nil axis matches anything.
type CoordinatePattern struct {
	X *int `json:"x,omitempty"`
	Y *int `json:"y,omitempty"`
	Z *int `json:"z,omitempty"`
	W *int `json:"w,omitempty"`
}

var patternSeparator = regexp.MustCompile(`,\s|,|\s`)

// ParseCoordinatePattern parses user input such as "-10, 5, ?, 2". Missing, "?" and
// non-numeric components are wildcards.
func ParseCoordinatePattern(s string) CoordinatePattern {
	var axes [4]*int
	for i, part := range patternSeparator.Split(strings.TrimSpace(s), -1) {
		if i >= len(axes) {
			break
		}
		if part == "?" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		axes[i] = &n
	}
	return CoordinatePattern{X: axes[0], Y: axes[1], Z: axes[2], W: axes[3]}
}

func (p CoordinatePattern) IsZero() bool {
	return p.X == nil && p.Y == nil && p.Z == nil && p.W == nil
}

func (p CoordinatePattern) Matches(c Coordinate) bool {
	return axisMatches(p.X, c.X) && axisMatches(p.Y, c.Y) && axisMatches(p.Z, c.Z) && axisMatches(p.W, c.W)
}

func axisMatches(want *int, got int) bool {
	return want == nil || *want == got
}

// ParseHexColor accepts "#rgb", "#rrggbb" or the same without the leading '#'.
func ParseHexColor(s string) (RGBColor, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGBColor{}, fmt.Errorf("invalid hex color %q", s)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGBColor{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

func (c RGBColor) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
