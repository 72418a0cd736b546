package geom

import (
	"fmt"
	"math"

	"github.com/gogpu/globe"
)

// Options configures contour assembly.
type Options struct {
	// MaxEdgeDeg is the maximum edge length, in degrees of arc, permitted
	// after subdivision. Values <= 0 disable subdivision.
	MaxEdgeDeg float64

	// Path is the interpolation rule used when inserting midpoints.
	Path globe.PathType
}

// AssembleContour prepares one closed boundary for tessellation: it
// attaches explicit texture coordinates when given, closes and subdivides
// the contour, then rewrites it for spherical wrap-around. Boundaries that
// cross the antimeridian yield exactly two contours, one per unwrapped
// hemisphere copy; boundaries that enclose a pole yield one contour with
// the polar cap traced explicitly; all others pass through unchanged.
//
// texCoords, when non-nil, must supply one (u, v) pair per location.
// A boundary that both encloses a pole and crosses the dateline is
// rejected with ErrPoleAndDateline.
func AssembleContour(locations []globe.LatLon, texCoords [][2]float64, opt Options) ([]Contour, error) {
	if len(locations) == 0 {
		return nil, globe.ErrNilGeometry
	}
	if texCoords != nil && len(texCoords) != len(locations) {
		return nil, fmt.Errorf("globe: %d texture coordinates for %d locations", len(texCoords), len(locations))
	}

	c := make(Contour, len(locations))
	for i, ll := range locations {
		v := Vertex{LatLon: ll, Edge: true}
		if texCoords != nil {
			v.U, v.V = texCoords[i][0], texCoords[i][1]
		}
		c[i] = v
	}

	c = Close(c)
	c = Subdivide(c, opt.MaxEdgeDeg, opt.Path)

	pole := EnclosedPole(c)
	switch {
	case pole != PoleNone:
		// A polar contour necessarily jumps longitude at the
		// antimeridian; that alone is not a conflict with dateline
		// handling. A contour that additionally crosses the dateline
		// (more than one crossing) is unsupported and rejected by
		// ClipPole with ErrPoleAndDateline.
		clipped, err := ClipPole(c, pole, opt.MaxEdgeDeg, opt.Path)
		if err != nil {
			return nil, err
		}
		return []Contour{clipped}, nil
	case CrossesDateline(c):
		east, west := ClipDateline(c)
		return []Contour{east, west}, nil
	default:
		return []Contour{c}, nil
	}
}

// ClipDateline rewrites a contour that crosses the ±180° meridian into two
// contours. The first is the input unwrapped into a single contiguous
// longitude range (longitudes beyond ±180 permitted); the second is a copy
// shifted by a full turn in the opposite direction, so both halves of the
// shape are renderable in their respective hemisphere tiles.
func ClipDateline(c Contour) (Contour, Contour) {
	unwrapped := make(Contour, len(c))
	copy(unwrapped, c)

	offset := 0.0
	applied := false
	for i := 1; i < len(unwrapped); i++ {
		prev := c[i-1].Lon
		cur := c[i].Lon
		if math.Abs(cur-prev) > 180 {
			applied = !applied
			if applied {
				// Crossing from the east side unwraps subsequent
				// longitudes upward, from the west side downward.
				if prev > 0 {
					offset = 360
				} else {
					offset = -360
				}
			}
		}
		if applied {
			unwrapped[i].Lon = cur + offset
		}
	}

	// Mirror into the opposite hemisphere copy.
	shift := -360.0
	if unwrapped.BoundingSector().Centroid().Lon < 0 {
		shift = 360.0
	}
	mirrored := make(Contour, len(unwrapped))
	copy(mirrored, unwrapped)
	for i := range mirrored {
		mirrored[i].Lon += shift
	}
	return unwrapped, mirrored
}

// ClipPole rewrites a contour that encloses a pole so that, when
// tessellated on a flat plane, it covers the correct polar cap. At the
// contour's antimeridian crossing, five vertices are synthesized tracing
// up to the pole, across it, and back down on the far side; the two
// pole-approach edges are subdivided like any other edge.
//
// The synthesized pole vertices carry texture coordinates formed by
// inverse-distance weighting over all original contour vertices.
func ClipPole(c Contour, pole Pole, maxEdgeDeg float64, path globe.PathType) (Contour, error) {
	if pole == PoleNone {
		return c, nil
	}
	poleLat := pole.Latitude()
	poleU, poleV := poleTexCoord(c, pole)

	out := make(Contour, 0, len(c)+16)
	crossings := 0
	for i := 0; i < len(c)-1; i++ {
		a, b := c[i], c[i+1]
		out = append(out, a)
		if math.Abs(b.Lon-a.Lon) <= 180 {
			continue
		}
		crossings++
		if crossings > 1 {
			return nil, globe.ErrPoleAndDateline
		}

		// sign is +1 when the edge exits through +180°, -1 through -180°.
		sign := 1.0
		if a.Lon < 0 {
			sign = -1.0
		}
		t := clamp01(crossingFraction(a.Lon, b.Lon, sign))
		latX := a.Lat + (b.Lat-a.Lat)*t

		down := Vertex{
			LatLon: globe.LL(latX, 180*sign),
			U:      a.U + (b.U-a.U)*t,
			V:      a.V + (b.V-a.V)*t,
			Edge:   a.Edge || b.Edge,
		}
		up := down
		up.Lon = -180 * sign

		nearPole := Vertex{LatLon: globe.LL(poleLat, 180*sign), U: poleU, V: poleV, Edge: true}
		atPole := Vertex{LatLon: globe.LL(poleLat, 0), U: poleU, V: poleV, Edge: true}
		farPole := Vertex{LatLon: globe.LL(poleLat, -180*sign), U: poleU, V: poleV, Edge: true}

		out = append(out, down)
		out = appendEdge(out, down, nearPole, maxEdgeDeg, path)
		out = append(out, atPole, farPole)
		out = appendEdge(out, farPole, up, maxEdgeDeg, path)
	}
	if len(c) > 0 {
		out = append(out, c[len(c)-1])
	}
	if crossings == 0 {
		// Winding says polar but no antimeridian crossing was found;
		// nothing sensible to synthesize.
		return nil, globe.ErrPoleAndDateline
	}
	return out, nil
}

// appendEdge appends b, subdividing a→b first when a subdivision
// tolerance is in effect.
func appendEdge(out Contour, a, b Vertex, maxEdgeDeg float64, path globe.PathType) Contour {
	if maxEdgeDeg <= 0 {
		return append(out, b)
	}
	return subdivideEdge(out, a, b, maxEdgeDeg, path)
}

// crossingFraction returns the fraction along edge a→b (longitudes in
// degrees) at which the edge reaches the meridian 180*sign.
func crossingFraction(lonA, lonB, sign float64) float64 {
	d := lonDelta(lonA, lonB)
	if d == 0 {
		return 0
	}
	target := 180 * sign
	return lonDelta(lonA, target) / d
}

// poleTexCoord computes the texture coordinates assigned to the
// pole-straddling vertices: the inverse-distance weighted average over all
// original contour vertices, measured from the pole.
func poleTexCoord(c Contour, pole Pole) (u, v float64) {
	polePt := globe.LL(pole.Latitude(), 0)
	const eps = 1e-9
	var wSum float64
	for _, vert := range c {
		d := polePt.AngularDistance(vert.LatLon)
		w := 1 / math.Max(d, eps)
		u += vert.U * w
		v += vert.V * w
		wSum += w
	}
	if wSum == 0 {
		return 0, 0
	}
	return u / wSum, v / wSum
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}
