package shape

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/gogpu/globe"
)

// SurfacePolygon is a draped polygon with an outer boundary and optional
// hole boundaries. Boundaries need not be pre-closed; edges follow the
// configured path type and are subdivided to the rendering resolution.
// Polygons crossing the antimeridian or enclosing a pole are handled
// transparently.
type SurfacePolygon struct {
	SurfaceShape

	outer  []globe.LatLon
	inners [][]globe.LatLon
	uv     [][2]float64
}

// NewSurfacePolygon creates a polygon with the given outer boundary and
// default attributes.
func NewSurfacePolygon(outer []globe.LatLon) *SurfacePolygon {
	p := &SurfacePolygon{}
	p.SurfaceShape = newSurfaceShape(p, p)
	p.SetOuterBoundary(outer)
	return p
}

// OuterBoundary returns a copy of the outer boundary locations.
func (p *SurfacePolygon) OuterBoundary() []globe.LatLon {
	out := make([]globe.LatLon, len(p.outer))
	copy(out, p.outer)
	return out
}

// SetOuterBoundary replaces the outer boundary.
func (p *SurfacePolygon) SetOuterBoundary(locations []globe.LatLon) {
	p.outer = make([]globe.LatLon, len(locations))
	copy(p.outer, locations)
	p.noteChange()
}

// AddInnerBoundary appends a hole boundary. Holes whose bounds fall
// outside the outer boundary are ignored at tessellation time.
func (p *SurfacePolygon) AddInnerBoundary(locations []globe.LatLon) {
	inner := make([]globe.LatLon, len(locations))
	copy(inner, locations)
	p.inners = append(p.inners, inner)
	p.noteChange()
}

// InnerBoundaryCount returns the number of hole boundaries.
func (p *SurfacePolygon) InnerBoundaryCount() int { return len(p.inners) }

// SetTextureCoords attaches explicit (u, v) pairs to the outer boundary,
// one per location. Pass nil to fall back to per-sector planar
// coordinates.
func (p *SurfacePolygon) SetTextureCoords(uv [][2]float64) {
	if uv == nil {
		p.uv = nil
	} else {
		p.uv = make([][2]float64, len(uv))
		copy(p.uv, uv)
	}
	p.noteChange()
}

// ReferenceLocation returns the planar centroid of the outer boundary,
// or the zero location for an empty polygon.
func (p *SurfacePolygon) ReferenceLocation() globe.LatLon {
	if len(p.outer) < 3 {
		return globe.LatLon{}
	}
	ring := make(orb.Ring, 0, len(p.outer)+1)
	for _, ll := range p.outer {
		ring = append(ring, orb.Point{ll.Lon, ll.Lat})
	}
	ring = append(ring, ring[0])
	c, _ := planar.CentroidArea(ring)
	return globe.LL(c[1], c[0])
}

func (p *SurfacePolygon) outerBoundary() []globe.LatLon     { return p.outer }
func (p *SurfacePolygon) innerBoundaries() [][]globe.LatLon { return p.inners }
func (p *SurfacePolygon) textureCoords() [][2]float64       { return p.uv }

func (p *SurfacePolygon) clearBoundaries() {
	p.outer = nil
	p.inners = nil
	p.uv = nil
}
