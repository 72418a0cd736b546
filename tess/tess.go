// Package tess triangulates geographic contours into render-ready meshes.
//
// Input contours must already be safe for flat-plane tessellation: closed,
// and unwrapped across the antimeridian (see the geom package). The first
// contour is the outer boundary; any further contours are holes.
//
// All state is per call. There is no shared tessellator instance, so calls
// may run concurrently for distinct shapes.
package tess

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/rclancey/earcut"

	"github.com/gogpu/globe"
	"github.com/gogpu/globe/geom"
)

// Mesh is the tessellation output for one shape: a vertex list with a
// triangle index list covering the interior and a line-segment index list
// tracing the boundary outline.
type Mesh struct {
	Vertices []geom.Vertex
	// Interior holds triangle indices, three per triangle.
	Interior []uint32
	// Outline holds line-segment indices, two per segment. Segments are
	// emitted only for true polygon boundary edges, reconstructed from
	// the vertices' edge flags.
	Outline []uint32
}

// Tessellate triangulates the contours into a Mesh. Coordinates are
// de-referenced against ref before triangulation to preserve floating
// point precision at large geographic coordinates; the output vertices
// keep their original locations.
//
// Degenerate input that produces no triangles fails with an error wrapping
// globe.ErrTessellation. The caller's policy is to clear the offending
// shape's boundary data rather than retry every frame.
func Tessellate(contours []geom.Contour, ref globe.LatLon) (*Mesh, error) {
	rings := make([]geom.Contour, 0, len(contours))
	for _, c := range contours {
		r := openRing(c)
		if len(r) >= 3 {
			rings = append(rings, r)
		}
	}
	if len(rings) == 0 {
		return nil, fmt.Errorf("%w: no usable contour", globe.ErrTessellation)
	}

	// Normalize winding so the triangulator identifies interior versus
	// hole regions: outer boundary counter-clockwise, holes clockwise.
	for i, r := range rings {
		ccw := orientation(r) == orb.CCW
		if (i == 0 && !ccw) || (i > 0 && ccw) {
			reverse(rings[i])
		}
	}

	var (
		verts []geom.Vertex
		flat  []float64
		holes []int
	)
	for i, r := range rings {
		if i > 0 {
			holes = append(holes, len(verts))
		}
		for _, v := range r {
			verts = append(verts, v)
			flat = append(flat, v.Lon-ref.Lon, v.Lat-ref.Lat)
		}
	}

	indices, err := earcut.Earcut(flat, holes, 2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", globe.ErrTessellation, err)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: degenerate contour produced no triangles", globe.ErrTessellation)
	}

	m := &Mesh{
		Vertices: verts,
		Interior: make([]uint32, len(indices)),
	}
	for i, idx := range indices {
		m.Interior[i] = uint32(idx)
	}
	m.Outline = outlineIndices(rings)
	return m, nil
}

// Merge concatenates meshes into one, rebasing the index lists. Nil
// meshes are skipped; merging zero or one mesh is cheap.
func Merge(meshes ...*Mesh) *Mesh {
	var kept []*Mesh
	for _, m := range meshes {
		if m != nil {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	if len(kept) == 1 {
		return kept[0]
	}
	out := &Mesh{}
	for _, m := range kept {
		base := uint32(len(out.Vertices))
		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, i := range m.Interior {
			out.Interior = append(out.Interior, base+i)
		}
		for _, i := range m.Outline {
			out.Outline = append(out.Outline, base+i)
		}
	}
	return out
}

// openRing drops a closing duplicate vertex; the triangulator and outline
// builder treat rings as implicitly closed.
func openRing(c geom.Contour) geom.Contour {
	if len(c) >= 2 {
		first, last := c[0], c[len(c)-1]
		if first.Lat == last.Lat && first.Lon == last.Lon {
			return c[:len(c)-1]
		}
	}
	return c
}

// outlineIndices emits one index pair per boundary edge, closing each ring
// back to its first vertex. Edges are emitted only where both endpoints
// carry the boundary edge flag, so synthetic interior vertices never
// contribute outline segments.
func outlineIndices(rings []geom.Contour) []uint32 {
	var out []uint32
	base := 0
	for _, r := range rings {
		n := len(r)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			if r[i].Edge && r[j].Edge {
				out = append(out, uint32(base+i), uint32(base+j))
			}
		}
		base += n
	}
	return out
}

// orientation reports the ring's winding using planar longitude/latitude
// coordinates.
func orientation(c geom.Contour) orb.Orientation {
	ring := make(orb.Ring, 0, len(c)+1)
	for _, v := range c {
		ring = append(ring, orb.Point{v.Lon, v.Lat})
	}
	ring = append(ring, ring[0])
	return ring.Orientation()
}

func reverse(c geom.Contour) {
	for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
		c[i], c[j] = c[j], c[i]
	}
}
