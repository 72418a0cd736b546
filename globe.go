package globe

import (
	"math"

	"github.com/golang/geo/r3"
)

// EarthRadius is the mean radius of the Earth in meters.
const EarthRadius = 6371008.8

// Extent is a bounding sphere around a region of the globe's surface, in
// model coordinates.
type Extent struct {
	Center r3.Vector
	Radius float64
}

// EyeDistance returns the distance from the eye point to the nearest point
// of the extent, clamped at zero when the eye is inside it.
func (e Extent) EyeDistance(eye r3.Vector) float64 {
	d := e.Center.Sub(eye).Norm() - e.Radius
	if d < 0 {
		return 0
	}
	return d
}

// StateKey identifies a globe configuration. It changes whenever the
// globe's shape or terrain sampling changes, invalidating any caches keyed
// by it. It is a comparable value and holds no reference to the globe.
type StateKey struct {
	Name    string
	Version uint64
}

// Globe converts between geographic positions and model coordinates and
// supplies terrain elevations. Implementations must be usable from the
// rendering goroutine without locking.
type Globe interface {
	// PointFromPosition returns the model-coordinate point for a
	// geographic position.
	PointFromPosition(p Position) r3.Vector

	// Elevation returns the terrain elevation in meters at a location.
	Elevation(ll LatLon) float64

	// SectorExtent returns a bounding sphere for the terrain within the
	// sector.
	SectorExtent(s Sector) Extent

	// StateKey returns the globe's current state key.
	StateKey() StateKey
}

// Sphere is a spherical globe with a constant radius and zero elevation
// everywhere. It is the reference Globe implementation; host applications
// with real terrain provide their own.
type Sphere struct {
	Radius float64
}

// NewSphere creates a spherical globe with the given radius in meters.
// If radius <= 0, EarthRadius is used.
func NewSphere(radius float64) *Sphere {
	if radius <= 0 {
		radius = EarthRadius
	}
	return &Sphere{Radius: radius}
}

// PointFromPosition returns the cartesian point for a position on the
// sphere. The Y axis points at the north pole, the Z axis at (0°N, 0°E).
func (g *Sphere) PointFromPosition(p Position) r3.Vector {
	lat := p.Lat * (math.Pi / 180)
	lon := p.Lon * (math.Pi / 180)
	r := g.Radius + p.Elevation
	cosLat := math.Cos(lat)
	return r3.Vector{
		X: r * cosLat * math.Sin(lon),
		Y: r * math.Sin(lat),
		Z: r * cosLat * math.Cos(lon),
	}
}

// Elevation returns 0 for every location.
func (g *Sphere) Elevation(LatLon) float64 { return 0 }

// SectorExtent returns a bounding sphere containing the sector's corners
// and centroid on the globe surface.
func (g *Sphere) SectorExtent(s Sector) Extent {
	pts := make([]r3.Vector, 0, 5)
	for _, c := range s.Corners() {
		pts = append(pts, g.PointFromPosition(Position{LatLon: c}))
	}
	center := g.PointFromPosition(Position{LatLon: s.Centroid()})
	pts = append(pts, center)

	var radius float64
	for _, p := range pts {
		radius = math.Max(radius, p.Sub(center).Norm())
	}
	return Extent{Center: center, Radius: radius}
}

// StateKey returns a key that varies with the sphere's radius.
func (g *Sphere) StateKey() StateKey {
	return StateKey{Name: "sphere", Version: math.Float64bits(g.Radius)}
}
