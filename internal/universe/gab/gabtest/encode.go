// Package gabtest builds binary universe payloads for tests.
package gabtest

import (
	"encoding/binary"
	"fmt"
	"math"

	"starmap-server/internal/universe/gab"
)

// Encode writes entries in the wire layout read by gab.Decode. It panics on
// records that cannot be represented, which is a bug in the calling test.
func Encode(entries ...gab.Entry) []byte {
	var buf []byte
	for _, e := range entries {
		for _, c := range e.Coordinate {
			buf = append(buf, byte(c))
		}
		switch rec := e.Record.(type) {
		case *gab.StarRecord:
			buf = appendStar(buf, rec)
		case *gab.PlanetRecord:
			buf = appendPlanet(buf, rec)
		default:
			panic(fmt.Sprintf("gabtest: unsupported record %T", rec))
		}
	}
	return buf
}

func appendStar(buf []byte, rec *gab.StarRecord) []byte {
	var idx int
	switch rec.Kind {
	case gab.KindAsteroidField:
		idx = index(gab.StarTypes, "AsteroidField")
	case gab.KindBlackHole:
		idx = index(gab.StarTypes, "BlackHole")
	default:
		idx = index(gab.StarTypes, rec.SubType)
	}
	buf = append(buf, 0, byte(idx))
	return binary.LittleEndian.AppendUint16(buf, rec.Size)
}

func appendPlanet(buf []byte, rec *gab.PlanetRecord) []byte {
	buf = append(buf, 1, byte(index(gab.PlanetTypes, rec.SubType)))
	buf = append(buf, rec.Name...)
	buf = append(buf, 0)
	buf = append(buf, rec.RandomMaterial...)
	buf = append(buf, 0)
	buf = append(buf, rec.PrimaryColor[:]...)
	buf = append(buf, rec.SecondaryColor[:]...)

	packed := byte(index(gab.PlanetMaterials, rec.Material))
	if rec.Atmosphere {
		packed |= 1 << 3
	}
	if rec.DayCycle {
		packed |= 1 << 4
	}
	switch rec.Ring {
	case "":
	case "Stone":
		packed |= 1 << 5
	case "Ice":
		packed |= 2 << 5
	default:
		panic(fmt.Sprintf("gabtest: unknown ring %q", rec.Ring))
	}
	buf = append(buf, packed)

	buf = binary.LittleEndian.AppendUint16(buf, uint16(rec.Temperature))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(rec.Gravity))

	var mask uint16
	for _, r := range rec.Resources {
		mask |= 1 << index(gab.Resources, r.Name)
	}
	return binary.LittleEndian.AppendUint16(buf, mask)
}

func index(table []string, name string) int {
	for i, v := range table {
		if v == name {
			return i
		}
	}
	panic(fmt.Sprintf("gabtest: %q not in table", name))
}
