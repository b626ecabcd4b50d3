package search

import (
	"github.com/go-playground/validator/v10"

	"starmap-server/internal/shared/errors"
	"starmap-server/internal/universe"
)

var validate = validator.New()

type TextFilterRequest struct {
	Query string `json:"query" validate:"max=128"`
	Mode  string `json:"mode" validate:"omitempty,oneof=starts_with contains ends_with"`
}

type ColorFilterRequest struct {
	Color      string  `json:"color" validate:"max=7"`
	Similarity float64 `json:"similarity" validate:"min=0,max=100"`
}

type ResourceRequest struct {
	Resource string `json:"resource" validate:"required"`
	Amount   int    `json:"amount" validate:"min=0"`
}

// Request is the wire form of a Query as the map viewer sends it.
type Request struct {
	Name               TextFilterRequest   `json:"name"`
	Ranmat             TextFilterRequest   `json:"ranmat"`
	Coords             string              `json:"coords" validate:"max=64"`
	PlanetTypes        map[string]string   `json:"planet_types,omitempty" validate:"dive,oneof=any yes no"`
	StarTypes          map[string]string   `json:"star_types,omitempty" validate:"dive,oneof=any yes no"`
	Rings              string              `json:"rings,omitempty" validate:"omitempty,oneof=any has yes no"`
	Atmosphere         string              `json:"atmosphere,omitempty" validate:"omitempty,oneof=any yes no"`
	TidallyLocked      string              `json:"tidally_locked,omitempty" validate:"omitempty,oneof=any yes no"`
	EarthlikesInSystem string              `json:"earthlikes_in_system,omitempty" validate:"omitempty,oneof=any yes no"`
	TemperatureRange   []float64           `json:"temperature_range,omitempty" validate:"omitempty,len=2"`
	GravityRange       []float64           `json:"gravity_range,omitempty" validate:"omitempty,len=2"`
	Resources          []ResourceRequest   `json:"resources,omitempty" validate:"max=11,dive"`
	ResourceStates     map[string]string   `json:"resource_states,omitempty" validate:"dive,oneof=any yes no"`
	PrimaryColor       *ColorFilterRequest `json:"primary_color,omitempty"`
	SecondaryColor     *ColorFilterRequest `json:"secondary_color,omitempty"`
}

// Query validates the request and converts it. Every failure is a validation error.
func (r *Request) Query() (Query, error) {
	if err := validate.Struct(r); err != nil {
		return Query{}, errors.WrapValidation("invalid search request", err)
	}

	var q Query
	var err error

	if q.Name, err = textMatch(r.Name); err != nil {
		return Query{}, err
	}
	if q.RandomMaterial, err = textMatch(r.Ranmat); err != nil {
		return Query{}, err
	}
	q.Coordinates = universe.ParseCoordinatePattern(r.Coords)

	if len(r.PlanetTypes) > 0 {
		q.PlanetTypes = make(map[universe.PlanetType]TriState, len(r.PlanetTypes))
		for name, state := range r.PlanetTypes {
			t, ok := universe.ParsePlanetType(name)
			if !ok {
				return Query{}, errors.Validationf("unknown planet type %q", name)
			}
			q.PlanetTypes[t], _ = ParseTriState(state)
		}
	}
	if len(r.StarTypes) > 0 {
		q.StarTypes = make(map[universe.StarType]TriState, len(r.StarTypes))
		for name, state := range r.StarTypes {
			t, ok := universe.ParseStarType(name)
			if !ok {
				return Query{}, errors.Validationf("unknown star type %q", name)
			}
			q.StarTypes[t], _ = ParseTriState(state)
		}
	}

	q.Rings, _ = ParseTriState(r.Rings)
	q.Atmosphere, _ = ParseTriState(r.Atmosphere)
	q.TidallyLocked, _ = ParseTriState(r.TidallyLocked)
	q.EarthlikesInSystem, _ = ParseTriState(r.EarthlikesInSystem)

	if q.Temperature, err = rangeFilter("temperature_range", r.TemperatureRange, DefaultTemperatureRange); err != nil {
		return Query{}, err
	}
	if q.Gravity, err = rangeFilter("gravity_range", r.GravityRange, DefaultGravityRange); err != nil {
		return Query{}, err
	}

	for _, rr := range r.Resources {
		res, ok := universe.ParseResource(rr.Resource)
		if !ok {
			return Query{}, errors.Validationf("unknown resource %q", rr.Resource)
		}
		q.Resources = append(q.Resources, universe.PlanetResource{Resource: res, Amount: rr.Amount})
	}
	if len(r.ResourceStates) > 0 {
		q.ResourceStates = make(map[universe.Resource]TriState, len(r.ResourceStates))
		for name, state := range r.ResourceStates {
			res, ok := universe.ParseResource(name)
			if !ok {
				return Query{}, errors.Validationf("unknown resource %q", name)
			}
			q.ResourceStates[res], _ = ParseTriState(state)
		}
	}

	if q.PrimaryColor, err = colorFilter(r.PrimaryColor); err != nil {
		return Query{}, err
	}
	if q.SecondaryColor, err = colorFilter(r.SecondaryColor); err != nil {
		return Query{}, err
	}

	return q, nil
}

func textMatch(r TextFilterRequest) (TextMatch, error) {
	mode, err := ParseTextMode(r.Mode)
	if err != nil {
		return TextMatch{}, errors.WrapValidation("invalid text filter", err)
	}
	return TextMatch{Query: r.Query, Mode: mode}, nil
}

// rangeFilter returns nil for an absent range or one equal to the full default range.
func rangeFilter(field string, bounds []float64, full Range) (*Range, error) {
	if len(bounds) == 0 {
		return nil, nil
	}
	r := Range{Min: bounds[0], Max: bounds[1]}
	if r.Min > r.Max {
		return nil, errors.Validationf("%s: min %v is greater than max %v", field, r.Min, r.Max)
	}
	if r == full {
		return nil, nil
	}
	return &r, nil
}

func colorFilter(r *ColorFilterRequest) (ColorFilter, error) {
	if r == nil || r.Color == "" {
		return ColorFilter{}, nil
	}
	c, err := universe.ParseHexColor(r.Color)
	if err != nil {
		return ColorFilter{}, errors.WrapValidation("invalid color filter", err)
	}
	return ColorFilter{Target: &c, Similarity: r.Similarity}, nil
}
