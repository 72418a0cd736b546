package globe

import (
	"math"

	"github.com/paulmach/orb"
)

// Sector is a rectangular geographic region bounded by minimum and maximum
// latitude and longitude, in degrees. Longitudes may exceed [-180, 180] for
// sectors describing contours that were unwrapped across the antimeridian.
type Sector struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// FullSphere is the sector covering the entire globe.
var FullSphere = Sector{MinLat: -90, MaxLat: 90, MinLon: -180, MaxLon: 180}

// SectorFromLatLons returns the smallest sector containing all the given
// locations. Returns the zero Sector when locations is empty.
func SectorFromLatLons(locations []LatLon) Sector {
	if len(locations) == 0 {
		return Sector{}
	}
	s := Sector{
		MinLat: locations[0].Lat, MaxLat: locations[0].Lat,
		MinLon: locations[0].Lon, MaxLon: locations[0].Lon,
	}
	for _, ll := range locations[1:] {
		s.MinLat = math.Min(s.MinLat, ll.Lat)
		s.MaxLat = math.Max(s.MaxLat, ll.Lat)
		s.MinLon = math.Min(s.MinLon, ll.Lon)
		s.MaxLon = math.Max(s.MaxLon, ll.Lon)
	}
	return s
}

// IsEmpty reports whether the sector has zero or negative extent in either
// dimension.
func (s Sector) IsEmpty() bool {
	return s.MaxLat <= s.MinLat || s.MaxLon <= s.MinLon
}

// DeltaLat returns the latitudinal span in degrees.
func (s Sector) DeltaLat() float64 { return s.MaxLat - s.MinLat }

// DeltaLon returns the longitudinal span in degrees.
func (s Sector) DeltaLon() float64 { return s.MaxLon - s.MinLon }

// Centroid returns the sector's center location.
func (s Sector) Centroid() LatLon {
	return LatLon{
		Lat: (s.MinLat + s.MaxLat) / 2,
		Lon: (s.MinLon + s.MaxLon) / 2,
	}
}

// Contains reports whether the location lies within the sector, inclusive
// of its boundary.
func (s Sector) Contains(ll LatLon) bool {
	return ll.Lat >= s.MinLat && ll.Lat <= s.MaxLat &&
		ll.Lon >= s.MinLon && ll.Lon <= s.MaxLon
}

// Intersects reports whether the two sectors share any area. Sectors that
// merely touch along an edge are considered intersecting; the compositor
// relies on this when assigning shapes to adjacent tiles.
func (s Sector) Intersects(o Sector) bool {
	return s.MinLat <= o.MaxLat && s.MaxLat >= o.MinLat &&
		s.MinLon <= o.MaxLon && s.MaxLon >= o.MinLon
}

// Intersection returns the overlapping region of two sectors, and false if
// they do not overlap.
func (s Sector) Intersection(o Sector) (Sector, bool) {
	r := Sector{
		MinLat: math.Max(s.MinLat, o.MinLat),
		MaxLat: math.Min(s.MaxLat, o.MaxLat),
		MinLon: math.Max(s.MinLon, o.MinLon),
		MaxLon: math.Min(s.MaxLon, o.MaxLon),
	}
	if r.MinLat > r.MaxLat || r.MinLon > r.MaxLon {
		return Sector{}, false
	}
	return r, true
}

// Union returns the smallest sector containing both sectors.
func (s Sector) Union(o Sector) Sector {
	if s.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return s
	}
	return Sector{
		MinLat: math.Min(s.MinLat, o.MinLat),
		MaxLat: math.Max(s.MaxLat, o.MaxLat),
		MinLon: math.Min(s.MinLon, o.MinLon),
		MaxLon: math.Max(s.MaxLon, o.MaxLon),
	}
}

// Bound returns the sector as an orb.Bound (x = longitude, y = latitude).
func (s Sector) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{s.MinLon, s.MinLat},
		Max: orb.Point{s.MaxLon, s.MaxLat},
	}
}

// Corners returns the sector's four corner locations in counter-clockwise
// order starting at the southwest corner.
func (s Sector) Corners() [4]LatLon {
	return [4]LatLon{
		{Lat: s.MinLat, Lon: s.MinLon},
		{Lat: s.MinLat, Lon: s.MaxLon},
		{Lat: s.MaxLat, Lon: s.MaxLon},
		{Lat: s.MaxLat, Lon: s.MinLon},
	}
}
