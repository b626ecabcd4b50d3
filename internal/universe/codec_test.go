package universe

import (
	"strconv"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestEnumNamesRoundTrip(t *testing.T) {
	for _, st := range StarTypes() {
		got, ok := ParseStarType(st.String())
		if !ok || got != st {
			t.Errorf("ParseStarType(%q) = %v, %v", st, got, ok)
		}
	}
	for _, pt := range PlanetTypes() {
		got, ok := ParsePlanetType(pt.String())
		if !ok || got != pt {
			t.Errorf("ParsePlanetType(%q) = %v, %v", pt, got, ok)
		}
	}
	if _, ok := ParseResource("Unobtainium"); ok {
		t.Error("ParseResource accepted an unknown name")
	}
	if got := StarType(42).String(); got != "42" {
		t.Errorf("out of range StarType.String() = %q", got)
	}
}

func TestRingTypeOrder(t *testing.T) {
	if RingTypeIce != 0 || RingTypeStone != 1 {
		t.Errorf("RingType values = Ice %d, Stone %d; want 0, 1", RingTypeIce, RingTypeStone)
	}
}

func TestStarColor(t *testing.T) {
	tests := []struct {
		star StarType
		want RGBColor
	}{
		{StarTypeRed, RGBColor{255, 68, 68}},
		{StarTypeBlue, RGBColor{50, 50, 255}},
		{StarTypeBlackHole, RGBColor{255, 93, 0}},
		{StarTypeRoguePlanet, RGBColor{100, 100, 100}},
	}
	for _, tt := range tests {
		if got := StarColor(tt.star); got != tt.want {
			t.Errorf("StarColor(%v) = %v, want %v", tt.star, got, tt.want)
		}
	}
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in      string
		want    Coordinate
		wantErr bool
	}{
		{in: "1, 2, 3, 4", want: Coordinate{1, 2, 3, 4}},
		{in: "1,2,3,4", want: Coordinate{1, 2, 3, 4}},
		{in: " -10 ,5, 0,  -128 ", want: Coordinate{-10, 5, 0, -128}},
		{in: "1, 2, 3", wantErr: true},
		{in: "1, 2, 3, 4, 5", wantErr: true},
		{in: "1, 2, ?, 4", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCoordinate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCoordinate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseCoordinate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeCoordinateKey(t *testing.T) {
	got, err := NormalizeCoordinateKey("3,-4,0,0")
	if err != nil {
		t.Fatalf("NormalizeCoordinateKey() error = %v", err)
	}
	if got != "3, -4, 0, 0" {
		t.Errorf("NormalizeCoordinateKey() = %q", got)
	}
	if _, err := NormalizeCoordinateKey("3,-4"); err == nil {
		t.Error("NormalizeCoordinateKey accepted a short key")
	}
}

func TestParseCoordinatePattern(t *testing.T) {
	tests := []struct {
		in   string
		want CoordinatePattern
	}{
		{"", CoordinatePattern{}},
		{"5, ?, ?, ?", CoordinatePattern{X: intPtr(5)}},
		{"5", CoordinatePattern{X: intPtr(5)}},
		{"-10, 5, ?, 2", CoordinatePattern{X: intPtr(-10), Y: intPtr(5), W: intPtr(2)}},
		{"1,2,3,4", CoordinatePattern{X: intPtr(1), Y: intPtr(2), Z: intPtr(3), W: intPtr(4)}},
		{"1 2 abc 4", CoordinatePattern{X: intPtr(1), Y: intPtr(2), W: intPtr(4)}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseCoordinatePattern(tt.in)
			if !equalAxis(got.X, tt.want.X) || !equalAxis(got.Y, tt.want.Y) ||
				!equalAxis(got.Z, tt.want.Z) || !equalAxis(got.W, tt.want.W) {
				t.Errorf("ParseCoordinatePattern(%q) = %s, want %s", tt.in, describe(got), describe(tt.want))
			}
		})
	}
}

func TestCoordinatePatternWildcard(t *testing.T) {
	p := ParseCoordinatePattern("5, ?, ?, ?")
	for _, c := range []Coordinate{{5, 0, 0, 0}, {5, -3, 7, 1}, {5, 127, -128, 9}} {
		if !p.Matches(c) {
			t.Errorf("pattern x=5 does not match %v", c)
		}
	}
	if p.Matches(Coordinate{4, 0, 0, 0}) {
		t.Error("pattern x=5 matches x=4")
	}
	if !(CoordinatePattern{}).IsZero() || p.IsZero() {
		t.Error("IsZero is wrong")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    RGBColor
		wantErr bool
	}{
		{in: "#ff8800", want: RGBColor{255, 136, 0}},
		{in: "FF8800", want: RGBColor{255, 136, 0}},
		{in: "#f80", want: RGBColor{255, 136, 0}},
		{in: "abc", want: RGBColor{0xaa, 0xbb, 0xcc}},
		{in: "#ff88", wantErr: true},
		{in: "#gggggg", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHexColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if got := (RGBColor{255, 136, 0}).Hex(); got != "#ff8800" {
		t.Errorf("Hex() = %q", got)
	}
}

func equalAxis(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func describe(p CoordinatePattern) string {
	axis := func(v *int) string {
		if v == nil {
			return "?"
		}
		return strconv.Itoa(*v)
	}
	return axis(p.X) + "," + axis(p.Y) + "," + axis(p.Z) + "," + axis(p.W)
}
