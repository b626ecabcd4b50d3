package universe

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Coordinate is a body position: (X, Y) select the solar system, (Z, W) the
// position inside it.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
	W int `json:"w"`
}

// String returns the canonical lookup key, e.g. "-3, 12, 0, 0".
func (c Coordinate) String() string {
	return fmt.Sprintf("%d, %d, %d, %d", c.X, c.Y, c.Z, c.W)
}

func (c Coordinate) System() SystemCoordinate {
	return SystemCoordinate{X: c.X, Y: c.Y}
}

// IsSystemCenter reports whether the body sits at local offset (0, 0).
func (c Coordinate) IsSystemCenter() bool {
	return c.Z == 0 && c.W == 0
}

// Local returns the (Z, W) offset inside the system.
func (c Coordinate) Local() (int, int) {
	return c.Z, c.W
}

type SystemCoordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// DistanceSquared is the squared Euclidean distance between two colors in RGB space.
func (c RGBColor) DistanceSquared(o RGBColor) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

type StarType int

const (
	StarTypeRed StarType = iota
	StarTypeOrange
	StarTypeYellow
	StarTypeBlue
	StarTypeNeutron
	StarTypeBlackHole
	StarTypeAsteroidField
	StarTypeRoguePlanet
)

type PlanetType int

const (
	PlanetTypeTerra PlanetType = iota
	PlanetTypeEarthLike
	PlanetTypeDesert
	PlanetTypeOcean
	PlanetTypeTundra
	PlanetTypeForest
	PlanetTypeExotic
	PlanetTypeBarren
	PlanetTypeGas
	PlanetTypeRobotDepot
	PlanetTypeRobotFactory
)

type PlanetMaterial int

const (
	MaterialGrass PlanetMaterial = iota
	MaterialSand
	MaterialSnow
	MaterialRock1
	MaterialRock2
)

type Resource int

const (
	ResourceIron Resource = iota
	ResourceCopper
	ResourceCoal
	ResourceLead
	ResourceTitanium
	ResourceUranium
	ResourceJade
	ResourceGold
	ResourceDiamond
	ResourceBeryllium
	ResourceAluminum
)

// RingType keeps Ice before Stone. The binary format encodes Stone as 1 and Ice as 2,
// so the enum value is not the wire code.
type RingType int

const (
	RingTypeIce RingType = iota
	RingTypeStone
)

type PlanetResource struct {
	Resource Resource `json:"resource"`
	Amount   int      `json:"amount"`
}

type PlanetRing struct {
	Type RingType `json:"type"`
}

type BodyKind string

const (
	BodyKindStar   BodyKind = "star"
	BodyKindPlanet BodyKind = "planet"
)

// Body is implemented by *Star and *Planet only.
type Body interface {
	Kind() BodyKind
	Coord() Coordinate
}

type Star struct {
	Coordinate Coordinate `json:"coordinate"`
	Type       StarType   `json:"type"`
	Size       int        `json:"size"`
	Color      RGBColor   `json:"color"`
}

func (s *Star) Kind() BodyKind    { return BodyKindStar }
func (s *Star) Coord() Coordinate { return s.Coordinate }

func (s *Star) MarshalJSON() ([]byte, error) {
	type alias Star
	return json.Marshal(struct {
		Kind BodyKind `json:"kind"`
		*alias
	}{BodyKindStar, (*alias)(s)})
}

type Planet struct {
	Coordinate        Coordinate       `json:"coordinate"`
	Type              PlanetType       `json:"type"`
	Name              string           `json:"name"`
	RandomMaterial    string           `json:"random_material,omitempty"`
	PrimaryColor      RGBColor         `json:"primary_color"`
	SecondaryColor    RGBColor         `json:"secondary_color"`
	Material          PlanetMaterial   `json:"material"`
	Atmosphere        bool             `json:"atmosphere"`
	DayCycleIncrement int              `json:"daycycle_increment"`
	Temperature       int              `json:"temperature"`
	Gravity           float64          `json:"gravity"`
	Resources         []PlanetResource `json:"resources"`
	Ring              *PlanetRing      `json:"ring,omitempty"`
}

func (p *Planet) Kind() BodyKind    { return BodyKindPlanet }
func (p *Planet) Coord() Coordinate { return p.Coordinate }

func (p *Planet) MarshalJSON() ([]byte, error) {
	type alias Planet
	return json.Marshal(struct {
		Kind BodyKind `json:"kind"`
		*alias
	}{BodyKindPlanet, (*alias)(p)})
}

// TidallyLocked reports a planet without a day cycle.
func (p *Planet) TidallyLocked() bool {
	return p.DayCycleIncrement == 0
}

// ResourceAmount returns the amount of r on the planet, 0 when absent.
func (p *Planet) ResourceAmount(r Resource) int {
	for _, pr := range p.Resources {
		if pr.Resource == r {
			return pr.Amount
		}
	}
	return 0
}

// SolarSystem groups every body sharing the same (X, Y).
type SolarSystem struct {
	Coordinate SystemCoordinate `json:"coordinate"`
	Stars      []*Star          `json:"stars"`
	Planets    []*Planet        `json:"planets"`
	Resources  []PlanetResource `json:"resources"`
}

// Universe is built once per load and never mutated afterwards.
type Universe struct {
	Planets []*Planet
	Stars   []*Star
	Systems []*SolarSystem

	bodies  map[Coordinate]Body
	systems map[SystemCoordinate]*SolarSystem
}

// Lookup returns the body at c. A planet wins over a synthesized rogue-planet star at
// the same coordinate.
func (u *Universe) Lookup(c Coordinate) (Body, bool) {
	b, ok := u.bodies[c]
	return b, ok
}

func (u *Universe) System(c SystemCoordinate) (*SolarSystem, bool) {
	s, ok := u.systems[c]
	return s, ok
}

// Region is an inclusive rectangle of system coordinates.
type Region struct {
	MinX, MinY, MaxX, MaxY int
}

func (r Region) Contains(c SystemCoordinate) bool {
	return c.X >= r.MinX && c.X <= r.MaxX && c.Y >= r.MinY && c.Y <= r.MaxY
}

// SystemsIn returns the systems inside r in universe order.
func (u *Universe) SystemsIn(r Region) []*SolarSystem {
	systems := []*SolarSystem{}
	for _, sys := range u.Systems {
		if r.Contains(sys.Coordinate) {
			systems = append(systems, sys)
		}
	}
	return systems
}

// FindByRandomMaterialPrefix returns the first planet, in universe order, whose
// random material starts with prefix. Matching ignores case.
func (u *Universe) FindByRandomMaterialPrefix(prefix string) (*Planet, bool) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, false
	}
	for _, p := range u.Planets {
		if p.RandomMaterial != "" && strings.HasPrefix(strings.ToLower(p.RandomMaterial), prefix) {
			return p, true
		}
	}
	return nil, false
}

type Stats struct {
	Planets        int                `json:"planets"`
	Stars          int                `json:"stars"`
	Systems        int                `json:"systems"`
	PlanetsByType  map[PlanetType]int `json:"planets_by_type"`
	StarsByType    map[StarType]int   `json:"stars_by_type"`
	RoguePlanets   int                `json:"rogue_planets"`
	RingedPlanets  int                `json:"ringed_planets"`
	TidallyLocked  int                `json:"tidally_locked"`
	WithAtmosphere int                `json:"with_atmosphere"`
}

func (u *Universe) Stats() Stats {
	stats := Stats{
		Planets:       len(u.Planets),
		Stars:         len(u.Stars),
		Systems:       len(u.Systems),
		PlanetsByType: make(map[PlanetType]int),
		StarsByType:   make(map[StarType]int),
	}
	for _, p := range u.Planets {
		stats.PlanetsByType[p.Type]++
		if p.Ring != nil {
			stats.RingedPlanets++
		}
		if p.TidallyLocked() {
			stats.TidallyLocked++
		}
		if p.Atmosphere {
			stats.WithAtmosphere++
		}
	}
	for _, s := range u.Stars {
		stats.StarsByType[s.Type]++
		if s.Type == StarTypeRoguePlanet {
			stats.RoguePlanets++
		}
	}
	return stats
}
