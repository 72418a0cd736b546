// Package geom prepares closed geographic contours for planar
// tessellation. It closes and subdivides contour edges and rewrites
// contours that cross the antimeridian or enclose a pole into equivalent
// contours that are contiguous in a single unwrapped longitude range, so a
// flat-plane triangulator never has to understand spherical topology.
package geom

import (
	"math"

	"github.com/gogpu/globe"
)

// Vertex is a geographic location with texture coordinates and an edge
// flag. The edge flag marks vertices that originate from the boundary
// sample set, as opposed to interior interpolation; the tessellator uses
// it to reconstruct outline indices.
type Vertex struct {
	globe.LatLon
	U, V float64
	Edge bool
}

// Contour is an ordered, closed sequence of vertices.
type Contour []Vertex

// minEdgeDeg is the edge length below which subdivision treats an edge as
// already within tolerance. Guards against infinite recursion on
// zero-length or near-degenerate edges.
const minEdgeDeg = 1e-9

// Close appends a copy of the first vertex unless the last vertex already
// has the same location. Idempotent. Contours with fewer than one vertex
// are returned unchanged.
func Close(c Contour) Contour {
	if len(c) == 0 {
		return c
	}
	first, last := c[0], c[len(c)-1]
	if first.Lat == last.Lat && first.Lon == last.Lon {
		return c
	}
	return append(c, first)
}

// Subdivide walks consecutive vertex pairs and recursively inserts
// midpoints, interpolated by the given path type, until every edge's
// great-circle length is at most maxEdgeDeg degrees of arc. Original
// vertices are preserved in order. Texture coordinates are linearly
// interpolated at each inserted midpoint and the edge flag is the OR of
// the endpoints' flags.
func Subdivide(c Contour, maxEdgeDeg float64, path globe.PathType) Contour {
	if len(c) < 2 || maxEdgeDeg <= 0 {
		return c
	}
	out := make(Contour, 0, len(c)*2)
	out = append(out, c[0])
	for i := 1; i < len(c); i++ {
		out = subdivideEdge(out, c[i-1], c[i], maxEdgeDeg, path)
	}
	return out
}

// subdivideEdge appends the interior subdivision points of edge a→b and
// then b itself. a is assumed already appended.
func subdivideEdge(out Contour, a, b Vertex, maxEdgeDeg float64, path globe.PathType) Contour {
	d := a.AngularDistance(b.LatLon)
	if d <= maxEdgeDeg || d <= minEdgeDeg {
		return append(out, b)
	}
	mid := midVertex(a, b, path)
	out = subdivideEdge(out, a, mid, maxEdgeDeg, path)
	return subdivideEdge(out, mid, b, maxEdgeDeg, path)
}

func midVertex(a, b Vertex, path globe.PathType) Vertex {
	return Vertex{
		LatLon: a.Midpoint(b.LatLon, path),
		U:      (a.U + b.U) / 2,
		V:      (a.V + b.V) / 2,
		Edge:   a.Edge || b.Edge,
	}
}

// CrossesDateline reports whether any edge of the contour crosses the
// ±180° meridian, detected as a longitude jump greater than 180°.
func CrossesDateline(c Contour) bool {
	for i := 1; i < len(c); i++ {
		if math.Abs(c[i].Lon-c[i-1].Lon) > 180 {
			return true
		}
	}
	return false
}

// Pole identifies one of the geographic poles.
type Pole int

const (
	// PoleNone means the contour encloses neither pole.
	PoleNone Pole = iota
	// PoleNorth is the north pole.
	PoleNorth
	// PoleSouth is the south pole.
	PoleSouth
)

// String returns the pole's name.
func (p Pole) String() string {
	switch p {
	case PoleNorth:
		return "North"
	case PoleSouth:
		return "South"
	}
	return "None"
}

// Latitude returns the pole's latitude in degrees.
func (p Pole) Latitude() float64 {
	switch p {
	case PoleNorth:
		return 90
	case PoleSouth:
		return -90
	}
	return 0
}

// EnclosedPole reports which pole, if any, the contour's great-circle path
// winds around. A contour encloses a pole when its net longitudinal
// winding is a full turn; the enclosed pole is the one nearer the
// contour's latitude extremes.
func EnclosedPole(c Contour) Pole {
	if len(c) < 3 {
		return PoleNone
	}
	var winding float64
	for i := 1; i < len(c); i++ {
		winding += lonDelta(c[i-1].Lon, c[i].Lon)
	}
	// A contour that does not wind the globe sums to ~0; a polar contour
	// sums to ±360.
	if math.Abs(winding) < 180 {
		return PoleNone
	}
	minLat, maxLat := c[0].Lat, c[0].Lat
	for _, v := range c[1:] {
		minLat = math.Min(minLat, v.Lat)
		maxLat = math.Max(maxLat, v.Lat)
	}
	if 90-maxLat <= minLat+90 {
		return PoleNorth
	}
	return PoleSouth
}

// lonDelta returns the signed longitude difference b-a taking the shorter
// way around, in (-180, 180].
func lonDelta(a, b float64) float64 {
	d := b - a
	for d > 180 {
		d -= 360
	}
	for d <= -180 {
		d += 360
	}
	return d
}

// Locations returns the contour's bare locations.
func (c Contour) Locations() []globe.LatLon {
	out := make([]globe.LatLon, len(c))
	for i, v := range c {
		out[i] = v.LatLon
	}
	return out
}

// BoundingSector returns the smallest sector containing the contour.
func (c Contour) BoundingSector() globe.Sector {
	return globe.SectorFromLatLons(c.Locations())
}
