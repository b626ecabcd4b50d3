package universe

import (
	"fmt"
	"log/slog"

	"starmap-server/internal/metrics"
	"starmap-server/internal/universe/gab"
)

// DefaultStarSize applies to star records that carry no size (asteroid fields).
const DefaultStarSize = 1000

// Build turns decoded records into a Universe. Entries whose names do not map to a
// known enum value are logged and skipped; the rest of the build continues.
func Build(entries *gab.Entries, logger *slog.Logger) *Universe {
	logger = logger.With("component", "universe_builder", "operation", "build")

	u := &Universe{
		bodies:  make(map[Coordinate]Body, entries.Len()),
		systems: make(map[SystemCoordinate]*SolarSystem),
	}

	for _, entry := range entries.All() {
		coord := Coordinate{
			X: int(entry.Coordinate[0]),
			Y: int(entry.Coordinate[1]),
			Z: int(entry.Coordinate[2]),
			W: int(entry.Coordinate[3]),
		}

		switch rec := entry.Record.(type) {
		case *gab.PlanetRecord:
			planet, err := planetFromRecord(coord, rec)
			if err != nil {
				logger.Warn("Skipping malformed planet", "coordinate", coord.String(), "error", err)
				metrics.UniverseBuildWarnings.WithLabelValues("planet").Inc()
				continue
			}
			u.Planets = append(u.Planets, planet)
			u.bodies[coord] = planet
			sys := u.systemFor(coord)
			sys.Planets = append(sys.Planets, planet)
			sys.Resources = append(sys.Resources, planet.Resources...)
		case *gab.StarRecord:
			star, err := starFromRecord(coord, rec)
			if err != nil {
				logger.Warn("Skipping malformed star", "coordinate", coord.String(), "error", err)
				metrics.UniverseBuildWarnings.WithLabelValues("star").Inc()
				continue
			}
			u.Stars = append(u.Stars, star)
			u.bodies[coord] = star
			sys := u.systemFor(coord)
			sys.Stars = append(sys.Stars, star)
		default:
			logger.Warn("Skipping unknown record", "coordinate", coord.String(), "type", fmt.Sprintf("%T", rec))
			metrics.UniverseBuildWarnings.WithLabelValues("unknown").Inc()
		}
	}

	u.synthesizeRogueStars()

	logger.Debug("Universe built",
		"planets", len(u.Planets),
		"stars", len(u.Stars),
		"systems", len(u.Systems))

	return u
}

func (u *Universe) systemFor(c Coordinate) *SolarSystem {
	key := c.System()
	if sys, ok := u.systems[key]; ok {
		return sys
	}
	sys := &SolarSystem{Coordinate: key}
	u.systems[key] = sys
	u.Systems = append(u.Systems, sys)
	return sys
}

// synthesizeRogueStars gives every starless system with a planet at its center a
// RoguePlanet star marker at that planet's coordinate.
func (u *Universe) synthesizeRogueStars() {
	for _, sys := range u.Systems {
		if len(sys.Stars) > 0 {
			continue
		}
		for _, p := range sys.Planets {
			if !p.Coordinate.IsSystemCenter() {
				continue
			}
			star := &Star{
				Coordinate: p.Coordinate,
				Type:       StarTypeRoguePlanet,
				Color:      StarColor(StarTypeRoguePlanet),
			}
			sys.Stars = append(sys.Stars, star)
			u.Stars = append(u.Stars, star)
			break
		}
	}
}

func starFromRecord(coord Coordinate, rec *gab.StarRecord) (*Star, error) {
	var t StarType
	switch rec.Kind {
	case gab.KindAsteroidField:
		t = StarTypeAsteroidField
	case gab.KindBlackHole:
		t = StarTypeBlackHole
	case gab.KindStar:
		var ok bool
		if t, ok = ParseStarType(rec.SubType); !ok {
			return nil, fmt.Errorf("unknown star type %q", rec.SubType)
		}
	default:
		return nil, fmt.Errorf("unknown star kind %d", rec.Kind)
	}

	size := DefaultStarSize
	if rec.HasSize && rec.Size != 0 {
		size = int(rec.Size)
	}

	return &Star{
		Coordinate: coord,
		Type:       t,
		Size:       size,
		Color:      StarColor(t),
	}, nil
}

func planetFromRecord(coord Coordinate, rec *gab.PlanetRecord) (*Planet, error) {
	t, ok := ParsePlanetType(rec.SubType)
	if !ok {
		return nil, fmt.Errorf("unknown planet type %q", rec.SubType)
	}
	material, ok := ParseMaterial(rec.Material)
	if !ok {
		return nil, fmt.Errorf("unknown planet material %q", rec.Material)
	}

	resources := make([]PlanetResource, 0, len(rec.Resources))
	for _, ra := range rec.Resources {
		r, ok := ParseResource(ra.Name)
		if !ok {
			return nil, fmt.Errorf("unknown resource %q", ra.Name)
		}
		resources = append(resources, PlanetResource{Resource: r, Amount: ra.Amount})
	}

	var ring *PlanetRing
	if rec.Ring != "" {
		rt, ok := ParseRingType(rec.Ring)
		if !ok {
			return nil, fmt.Errorf("unknown ring type %q", rec.Ring)
		}
		ring = &PlanetRing{Type: rt}
	}

	gravity := float64(rec.Gravity)
	if t == PlanetTypeEarthLike {
		gravity = gab.EarthLikeGravity
	}

	dayCycle := 0
	if rec.DayCycle {
		dayCycle = 1
	}

	return &Planet{
		Coordinate:        coord,
		Type:              t,
		Name:              rec.Name,
		RandomMaterial:    rec.RandomMaterial,
		PrimaryColor:      RGBColor{R: rec.PrimaryColor[0], G: rec.PrimaryColor[1], B: rec.PrimaryColor[2]},
		SecondaryColor:    RGBColor{R: rec.SecondaryColor[0], G: rec.SecondaryColor[1], B: rec.SecondaryColor[2]},
		Material:          material,
		Atmosphere:        rec.Atmosphere,
		DayCycleIncrement: dayCycle,
		Temperature:       int(rec.Temperature),
		Gravity:           gravity,
		Resources:         resources,
		Ring:              ring,
	}, nil
}
