// Package gab decodes the flat binary universe format shipped as Universe.gab.
//
// The payload is a sequence of variable-length records with no header, no padding and
// no length prefix. Multi-byte numeric fields are little-endian.
package gab

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Lookup tables indexed by the values stored on the wire.
var (
	StarTypes       = []string{"Red", "Orange", "Yellow", "Blue", "Neutron", "BlackHole", "AsteroidField", "RoguePlanet"}
	PlanetTypes     = []string{"Terra", "EarthLike", "Desert", "Ocean", "Tundra", "Forest", "Exotic", "Barren", "Gas", "RobotDepot", "RobotFactory"}
	PlanetMaterials = []string{"Grass", "Sand", "Snow", "Rock1", "Rock2"}
	Resources       = []string{"Iron", "Copper", "Coal", "Lead", "Titanium", "Uranium", "Jade", "Gold", "Diamond", "Beryllium", "Aluminum"}
)

const (
	starSubtypeBlackHole     = 5
	starSubtypeAsteroidField = 6
	starSubtypeRoguePlanet   = 7

	ringCodeNone  = 0
	ringCodeStone = 1
	ringCodeIce   = 2

	// EarthLikeGravity replaces whatever gravity an EarthLike planet carries on the wire.
	EarthLikeGravity = 196.2
)

var (
	ErrTruncated    = errors.New("truncated record")
	ErrUnknownIndex = errors.New("unknown table index")
)

// DecodeError reports where in the buffer decoding stopped.
type DecodeError struct {
	Offset int
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("gab: decode %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Coordinate is the raw 4-component position of a record.
type Coordinate [4]int8

// Record is either a *StarRecord or a *PlanetRecord.
type Record interface {
	record()
}

type StarKind uint8

const (
	KindStar StarKind = iota
	KindBlackHole
	KindAsteroidField
)

// StarRecord covers the star family: ordinary stars, black holes and asteroid fields.
// SubType is only set for KindStar. HasSize is false for asteroid fields.
type StarRecord struct {
	Kind    StarKind
	SubType string
	Size    uint16
	HasSize bool
}

type ResourceAmount struct {
	Name   string
	Amount int
}

type PlanetRecord struct {
	SubType        string
	Name           string
	RandomMaterial string
	PrimaryColor   [3]uint8
	SecondaryColor [3]uint8
	Material       string
	Atmosphere     bool
	DayCycle       bool
	Ring           string
	Temperature    int16
	Gravity        float32
	Resources      []ResourceAmount
}

func (*StarRecord) record()   {}
func (*PlanetRecord) record() {}

type Entry struct {
	Coordinate Coordinate
	Record     Record
}

// Entries is an insertion-ordered coordinate -> record mapping. Writing an existing
// coordinate replaces the record but keeps the original position.
type Entries struct {
	items []Entry
	index map[Coordinate]int
}

func NewEntries(capacity int) *Entries {
	return &Entries{
		items: make([]Entry, 0, capacity),
		index: make(map[Coordinate]int, capacity),
	}
}

func (e *Entries) Set(coord Coordinate, rec Record) {
	if i, ok := e.index[coord]; ok {
		e.items[i].Record = rec
		return
	}
	e.index[coord] = len(e.items)
	e.items = append(e.items, Entry{Coordinate: coord, Record: rec})
}

func (e *Entries) Get(coord Coordinate) (Record, bool) {
	i, ok := e.index[coord]
	if !ok {
		return nil, false
	}
	return e.items[i].Record, true
}

func (e *Entries) Len() int {
	return len(e.items)
}

// All returns the entries in insertion order. The slice must not be modified.
func (e *Entries) All() []Entry {
	return e.items
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) take(n int, field string) ([]byte, error) {
	if len(r.buf)-r.off < n {
		return nil, &DecodeError{Offset: r.off, Field: field, Err: ErrTruncated}
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) readByte(field string) (byte, error) {
	b, err := r.take(1, field)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) readUint16(field string) (uint16, error) {
	b, err := r.take(2, field)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) readCString(field string) (string, error) {
	for i := r.off; i < len(r.buf); i++ {
		if r.buf[i] == 0 {
			s := string(r.buf[r.off:i])
			r.off = i + 1
			return s, nil
		}
	}
	return "", &DecodeError{Offset: r.off, Field: field, Err: ErrTruncated}
}

func (r *reader) lookup(table []string, idx int, field string) (string, error) {
	if idx < 0 || idx >= len(table) {
		return "", &DecodeError{Offset: r.off - 1, Field: field, Err: fmt.Errorf("%w: %d", ErrUnknownIndex, idx)}
	}
	return table[idx], nil
}

// Decode parses a decompressed universe payload. It either decodes every record or
// returns a *DecodeError; there is no partial result.
func Decode(buf []byte) (*Entries, error) {
	r := &reader{buf: buf}
	// Planets are the bulk of the payload at roughly 30 bytes each.
	entries := NewEntries(len(buf) / 24)

	for r.off < len(r.buf) {
		raw, err := r.take(4, "coordinate")
		if err != nil {
			return nil, err
		}
		coord := Coordinate{int8(raw[0]), int8(raw[1]), int8(raw[2]), int8(raw[3])}

		kind, err := r.readByte("kind")
		if err != nil {
			return nil, err
		}

		var rec Record
		if kind == 0 {
			rec, err = r.star()
		} else {
			rec, err = r.planet()
		}
		if err != nil {
			return nil, err
		}
		entries.Set(coord, rec)
	}

	return entries, nil
}

func (r *reader) star() (*StarRecord, error) {
	idx, err := r.readByte("star subtype")
	if err != nil {
		return nil, err
	}
	subtype, err := r.lookup(StarTypes, int(idx), "star subtype")
	if err != nil {
		return nil, err
	}
	size, err := r.readUint16("star size")
	if err != nil {
		return nil, err
	}

	switch idx {
	case starSubtypeAsteroidField:
		return &StarRecord{Kind: KindAsteroidField}, nil
	case starSubtypeBlackHole:
		return &StarRecord{Kind: KindBlackHole, Size: size, HasSize: true}, nil
	default:
		// RoguePlanet (7) is an ordinary star record tagged with its subtype.
		return &StarRecord{Kind: KindStar, SubType: subtype, Size: size, HasSize: true}, nil
	}
}

func (r *reader) planet() (*PlanetRecord, error) {
	idx, err := r.readByte("planet subtype")
	if err != nil {
		return nil, err
	}
	subtype, err := r.lookup(PlanetTypes, int(idx), "planet subtype")
	if err != nil {
		return nil, err
	}

	p := &PlanetRecord{SubType: subtype}

	if p.Name, err = r.readCString("name"); err != nil {
		return nil, err
	}
	if p.RandomMaterial, err = r.readCString("random material"); err != nil {
		return nil, err
	}

	colors, err := r.take(6, "colors")
	if err != nil {
		return nil, err
	}
	copy(p.PrimaryColor[:], colors[0:3])
	copy(p.SecondaryColor[:], colors[3:6])

	packed, err := r.readByte("flags")
	if err != nil {
		return nil, err
	}
	if p.Material, err = r.lookup(PlanetMaterials, int(packed&0x7), "material"); err != nil {
		return nil, err
	}
	p.Atmosphere = packed>>3&1 == 1
	p.DayCycle = packed>>4&1 == 1
	switch ring := packed >> 5 & 0x3; ring {
	case ringCodeNone:
	case ringCodeStone:
		p.Ring = "Stone"
	case ringCodeIce:
		p.Ring = "Ice"
	default:
		return nil, &DecodeError{Offset: r.off - 1, Field: "ring", Err: fmt.Errorf("%w: %d", ErrUnknownIndex, ring)}
	}

	temp, err := r.readUint16("temperature")
	if err != nil {
		return nil, err
	}
	p.Temperature = int16(temp)

	grav, err := r.take(4, "gravity")
	if err != nil {
		return nil, err
	}
	p.Gravity = math.Float32frombits(binary.LittleEndian.Uint32(grav))
	if subtype == "EarthLike" {
		p.Gravity = EarthLikeGravity
	}

	mask, err := r.readUint16("resources")
	if err != nil {
		return nil, err
	}
	if mask>>len(Resources) != 0 {
		return nil, &DecodeError{Offset: r.off - 2, Field: "resources", Err: fmt.Errorf("%w: mask %#04x", ErrUnknownIndex, mask)}
	}
	for i, name := range Resources {
		if mask&(1<<i) != 0 {
			p.Resources = append(p.Resources, ResourceAmount{Name: name, Amount: 1})
		}
	}

	return p, nil
}
