package preset

import (
	"fmt"
	"testing"
	"time"
)

type rowStub struct {
	values []any
}

func (r rowStub) Scan(dest ...interface{}) error {
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.values))
	}
	for i, v := range r.values {
		switch d := dest[i].(type) {
		case *int:
			*d = v.(int)
		case *string:
			*d = v.(string)
		case *[]byte:
			*d = v.([]byte)
		case *time.Time:
			*d = v.(time.Time)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

func TestScanPreset(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	row := rowStub{values: []any{
		7, "Ringed gas", "Gas giants with rings",
		[]byte(`{"planet_types":{"Gas":"yes"},"rings":"has"}`),
		"ops", now, now,
	}}

	p, err := scanPreset(row)
	if err != nil {
		t.Fatalf("scanPreset() error = %v", err)
	}
	if p.ID != 7 || p.Name != "Ringed gas" || p.CreatedBy != "ops" || !p.CreatedAt.Equal(now) {
		t.Errorf("preset = %+v", p)
	}
	if p.Query.PlanetTypes["Gas"] != "yes" || p.Query.Rings != "has" {
		t.Errorf("query = %+v", p.Query)
	}
}

func TestScanPresetBadQuery(t *testing.T) {
	now := time.Now()
	row := rowStub{values: []any{1, "broken", "", []byte(`{"planet_types":`), "", now, now}}

	if _, err := scanPreset(row); err == nil {
		t.Error("scanPreset() accepted a corrupt query column")
	}
}
