package globe

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// LatLon represents a geographic location in degrees.
// Latitude is positive north, longitude positive east.
type LatLon struct {
	Lat, Lon float64
}

// LL is a convenience function to create a LatLon.
func LL(lat, lon float64) LatLon {
	return LatLon{Lat: lat, Lon: lon}
}

// Position is a geographic location with an elevation in meters above the
// globe's reference surface.
type Position struct {
	LatLon
	Elevation float64
}

// Pos is a convenience function to create a Position.
func Pos(lat, lon, elev float64) Position {
	return Position{LatLon: LatLon{Lat: lat, Lon: lon}, Elevation: elev}
}

// PathType selects the interpolation rule used when inserting intermediate
// locations along an edge between two geographic locations.
type PathType int

const (
	// GreatCircle interpolates along the shortest arc on the sphere.
	GreatCircle PathType = iota
	// Rhumb interpolates along a line of constant heading.
	Rhumb
	// Linear interpolates latitude and longitude independently.
	Linear
)

// String returns the name of the path type.
func (p PathType) String() string {
	switch p {
	case GreatCircle:
		return "GreatCircle"
	case Rhumb:
		return "Rhumb"
	case Linear:
		return "Linear"
	}
	return fmt.Sprintf("PathType(%d)", int(p))
}

// s2LatLng converts to the s2 representation.
func (l LatLon) s2LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(l.Lat, l.Lon)
}

// AngularDistance returns the great-circle distance to q as an angle in
// degrees.
func (l LatLon) AngularDistance(q LatLon) float64 {
	return l.s2LatLng().Distance(q.s2LatLng()).Degrees()
}

// DistanceMeters returns the great-circle distance to q in meters on a
// sphere of the given radius.
func (l LatLon) DistanceMeters(q LatLon, radius float64) float64 {
	return l.s2LatLng().Distance(q.s2LatLng()).Radians() * radius
}

// Interpolate returns the location a fraction t of the way from l to q
// along the given path type. t=0 returns l, t=1 returns q.
//
// Great-circle interpolation is performed on the unit sphere. Linear and
// rhumb interpolation account for antimeridian-crossing longitude spans by
// taking the shorter longitudinal direction.
func (l LatLon) Interpolate(q LatLon, t float64, path PathType) LatLon {
	switch path {
	case Linear:
		return l.interpolateLinear(q, t)
	case Rhumb:
		return l.interpolateRhumb(q, t)
	default:
		a := s2.PointFromLatLng(l.s2LatLng())
		b := s2.PointFromLatLng(q.s2LatLng())
		ll := s2.LatLngFromPoint(s2.Interpolate(t, a, b))
		return LatLon{Lat: ll.Lat.Degrees(), Lon: ll.Lng.Degrees()}
	}
}

// Midpoint returns the location halfway between l and q along the given
// path type.
func (l LatLon) Midpoint(q LatLon, path PathType) LatLon {
	return l.Interpolate(q, 0.5, path)
}

func (l LatLon) interpolateLinear(q LatLon, t float64) LatLon {
	return LatLon{
		Lat: l.Lat + (q.Lat-l.Lat)*t,
		Lon: l.Lon + shortestLonDelta(l.Lon, q.Lon)*t,
	}
}

// interpolateRhumb interpolates along a loxodrome using the Mercator
// projection of latitude. Falls back to linear latitude interpolation at
// the poles, where the projection is singular.
func (l LatLon) interpolateRhumb(q LatLon, t float64) LatLon {
	lat1 := l.Lat * (math.Pi / 180)
	lat2 := q.Lat * (math.Pi / 180)
	lat := lat1 + (lat2-lat1)*t

	m1 := mercatorLat(lat1)
	m2 := mercatorLat(lat2)
	dLon := shortestLonDelta(l.Lon, q.Lon) * (math.Pi / 180)

	var lon float64
	if math.Abs(m2-m1) < 1e-12 {
		// Constant latitude (or antipodal in projection): interpolate
		// longitude directly.
		lon = l.Lon*(math.Pi/180) + dLon*t
	} else {
		m := mercatorLat(lat)
		lon = l.Lon*(math.Pi/180) + dLon*(m-m1)/(m2-m1)
	}
	return LatLon{Lat: lat * (180 / math.Pi), Lon: NormalizeLon(lon * (180 / math.Pi))}
}

func mercatorLat(lat float64) float64 {
	// Clamp away from the poles to keep tan finite.
	const maxLat = math.Pi/2 - 1e-9
	lat = math.Max(-maxLat, math.Min(maxLat, lat))
	return math.Log(math.Tan(math.Pi/4 + lat/2))
}

// shortestLonDelta returns the signed longitude difference from a to b in
// degrees, taking the shorter way around the globe. The result is in
// (-180, 180].
func shortestLonDelta(a, b float64) float64 {
	d := b - a
	for d > 180 {
		d -= 360
	}
	for d <= -180 {
		d += 360
	}
	return d
}

// NormalizeLon wraps a longitude into [-180, 180].
func NormalizeLon(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon > 180 {
		lon -= 360
	} else if lon < -180 {
		lon += 360
	}
	return lon
}

// NormalizeLat clamps a latitude into [-90, 90].
func NormalizeLat(lat float64) float64 {
	return math.Max(-90, math.Min(90, lat))
}

// Heading returns the initial great-circle heading from l to q in degrees
// clockwise from north.
func (l LatLon) Heading(q LatLon) float64 {
	lat1 := l.Lat * (math.Pi / 180)
	lat2 := q.Lat * (math.Pi / 180)
	dLon := shortestLonDelta(l.Lon, q.Lon) * (math.Pi / 180)
	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Atan2(y, x) * (180 / math.Pi)
}

// Offset returns the location reached by traveling the given angular
// distance (degrees of arc) from l along the given heading (degrees
// clockwise from north) on a great circle.
func (l LatLon) Offset(headingDeg, arcDeg float64) LatLon {
	lat1 := l.Lat * (math.Pi / 180)
	lon1 := l.Lon * (math.Pi / 180)
	brg := headingDeg * (math.Pi / 180)
	arc := arcDeg * (math.Pi / 180)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(arc) + math.Cos(lat1)*math.Sin(arc)*math.Cos(brg))
	lon2 := lon1 + math.Atan2(
		math.Sin(brg)*math.Sin(arc)*math.Cos(lat1),
		math.Cos(arc)-math.Sin(lat1)*math.Sin(lat2),
	)
	return LatLon{
		Lat: lat2 * (180 / math.Pi),
		Lon: NormalizeLon(lon2 * (180 / math.Pi)),
	}
}
