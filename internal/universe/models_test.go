package universe

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"starmap-server/internal/universe/gab"
)

func TestUniverseQueries(t *testing.T) {
	u := buildFrom(t,
		gab.Entry{Coordinate: gab.Coordinate{0, 0, 0, 0}, Record: &gab.StarRecord{Kind: gab.KindStar, SubType: "Red", Size: 10, HasSize: true}},
		gab.Entry{Coordinate: gab.Coordinate{0, 0, 1, 0}, Record: &gab.PlanetRecord{SubType: "Forest", Name: "Alpha", RandomMaterial: "BarkWood_2", Material: "Grass", Ring: "Ice"}},
		gab.Entry{Coordinate: gab.Coordinate{10, -10, 0, 0}, Record: &gab.PlanetRecord{SubType: "Terra", Name: "Beta", RandomMaterial: "barkstone", Material: "Rock1", DayCycle: true, Atmosphere: true}},
		gab.Entry{Coordinate: gab.Coordinate{50, 50, 1, 1}, Record: &gab.PlanetRecord{SubType: "Gas", Name: "Gamma", Material: "Rock2"}},
	)

	t.Run("stats", func(t *testing.T) {
		stats := u.Stats()
		if stats.Planets != 3 || stats.Stars != 2 || stats.Systems != 3 {
			t.Errorf("counts = %d planets, %d stars, %d systems", stats.Planets, stats.Stars, stats.Systems)
		}
		if stats.RoguePlanets != 1 || stats.RingedPlanets != 1 || stats.TidallyLocked != 2 || stats.WithAtmosphere != 1 {
			t.Errorf("stats = %+v", stats)
		}
		if stats.PlanetsByType[PlanetTypeForest] != 1 || stats.StarsByType[StarTypeRed] != 1 {
			t.Errorf("per type counts = %v %v", stats.PlanetsByType, stats.StarsByType)
		}
	})

	t.Run("random material prefix", func(t *testing.T) {
		p, ok := u.FindByRandomMaterialPrefix("BARK")
		if !ok || p.Name != "Alpha" {
			t.Errorf("FindByRandomMaterialPrefix(BARK) = %v, %v; want Alpha", p, ok)
		}
		p, ok = u.FindByRandomMaterialPrefix("barks")
		if !ok || p.Name != "Beta" {
			t.Errorf("FindByRandomMaterialPrefix(barks) = %v, %v; want Beta", p, ok)
		}
		if _, ok := u.FindByRandomMaterialPrefix("   "); ok {
			t.Error("blank prefix matched")
		}
		if _, ok := u.FindByRandomMaterialPrefix("zzz"); ok {
			t.Error("unknown prefix matched")
		}
	})

	t.Run("region", func(t *testing.T) {
		systems := u.SystemsIn(Region{MinX: -1, MinY: -20, MaxX: 10, MaxY: 0})
		if len(systems) != 2 {
			t.Fatalf("got %d systems, want 2", len(systems))
		}
		if systems[0].Coordinate != (SystemCoordinate{0, 0}) || systems[1].Coordinate != (SystemCoordinate{10, -10}) {
			t.Errorf("systems = %v, %v", systems[0].Coordinate, systems[1].Coordinate)
		}
		if got := u.SystemsIn(Region{MinX: 100, MinY: 100, MaxX: 110, MaxY: 110}); len(got) != 0 {
			t.Errorf("empty region returned %d systems", len(got))
		}
	})

	t.Run("lookup", func(t *testing.T) {
		body, ok := u.Lookup(Coordinate{0, 0, 0, 0})
		if !ok || body.Kind() != BodyKindStar {
			t.Errorf("Lookup(0,0,0,0) = %v, %v", body, ok)
		}
		if _, ok := u.Lookup(Coordinate{9, 9, 9, 9}); ok {
			t.Error("Lookup found a body at an empty coordinate")
		}
	})
}

func TestBodyJSON(t *testing.T) {
	planet := &Planet{
		Coordinate: Coordinate{1, 2, 3, 4},
		Type:       PlanetTypeOcean,
		Name:       "Wet",
		Material:   MaterialSand,
		Ring:       &PlanetRing{Type: RingTypeIce},
		Resources:  []PlanetResource{{Resource: ResourceGold, Amount: 1}},
	}

	b, err := json.Marshal(planet)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(b)
	for _, want := range []string{`"kind":"planet"`, `"type":"Ocean"`, `"material":"Sand"`, `"ring":{"type":"Ice"}`, `"resource":"Gold"`} {
		if !strings.Contains(out, want) {
			t.Errorf("planet JSON %s missing %s", out, want)
		}
	}

	b, err = json.Marshal(&Star{Type: StarTypeBlackHole, Size: 5})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(b), `"kind":"star"`) || !strings.Contains(string(b), `"type":"BlackHole"`) {
		t.Errorf("star JSON = %s", b)
	}
}
