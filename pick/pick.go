// Package pick implements unique-color picking support: allocation of one
// framebuffer color per pickable object within a picking session, and
// resolution of a sampled color back to the object it identifies.
package pick

import (
	"image/color"

	"github.com/gogpu/globe"
)

// Object is the result unit of a pick resolution.
type Object struct {
	// ColorCode is the 24-bit RGB code the object was drawn with.
	ColorCode uint32
	// Owner is the picked object or its delegate owner.
	Owner any
	// Position is the geographic position under the pick point, when
	// known.
	Position globe.Position
	// IsTerrain marks a pick of bare terrain rather than an object.
	IsTerrain bool
}

// Session allocates unique pick colors and maps them back to objects. A
// session spans one pick resolution pass; batch picking draws many objects
// within a single session to amortize its setup cost.
//
// Color code 0 (black) is reserved for "nothing picked" and is never
// allocated.
type Session struct {
	next    uint32
	byColor map[uint32]*Object
}

// NewSession creates an empty picking session.
func NewSession() *Session {
	return &Session{byColor: make(map[uint32]*Object)}
}

// Register allocates the next unique color for an object and records the
// mapping. The returned color is fully opaque.
func (s *Session) Register(owner any, pos globe.Position, terrain bool) color.NRGBA {
	s.next++
	code := s.next & 0xFFFFFF
	o := &Object{ColorCode: code, Owner: owner, Position: pos, IsTerrain: terrain}
	s.byColor[code] = o
	return ColorFor(code)
}

// Resolve maps a sampled framebuffer color back to the object drawn with
// it. Returns false for the reserved background code or an unknown color.
func (s *Session) Resolve(c color.NRGBA) (*Object, bool) {
	code := CodeOf(c)
	if code == 0 {
		return nil, false
	}
	o, ok := s.byColor[code]
	return o, ok
}

// Count returns the number of objects registered in the session.
func (s *Session) Count() int { return len(s.byColor) }

// CodeOf returns the 24-bit code encoded in a color's RGB channels.
func CodeOf(c color.NRGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// ColorFor returns the opaque color encoding a 24-bit code.
func ColorFor(code uint32) color.NRGBA {
	return color.NRGBA{
		R: uint8(code >> 16),
		G: uint8(code >> 8),
		B: uint8(code),
		A: 0xFF,
	}
}
