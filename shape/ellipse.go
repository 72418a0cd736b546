package shape

import (
	"math"

	"github.com/gogpu/globe"
)

// DefaultEllipseIntervals is the boundary sample count used when none is
// set.
const DefaultEllipseIntervals = 64

// SurfaceEllipse is a draped ellipse defined by a center, semi-axis
// lengths in meters, and a heading for the major axis. The boundary is
// generated by offsetting the center along geodesics, so large ellipses
// bend correctly with the globe and polar or dateline-spanning ellipses
// work like any other shape.
type SurfaceEllipse struct {
	SurfaceShape

	center    globe.LatLon
	majorM    float64
	minorM    float64
	heading   float64
	intervals int

	boundary []globe.LatLon
	cleared  bool
}

// NewSurfaceEllipse creates an ellipse centered at center with the given
// semi-major and semi-minor axis lengths in meters.
func NewSurfaceEllipse(center globe.LatLon, majorMeters, minorMeters float64) *SurfaceEllipse {
	e := &SurfaceEllipse{
		center:    center,
		majorM:    majorMeters,
		minorM:    minorMeters,
		intervals: DefaultEllipseIntervals,
	}
	e.SurfaceShape = newSurfaceShape(e, e)
	return e
}

// Center returns the ellipse center.
func (e *SurfaceEllipse) Center() globe.LatLon { return e.center }

// SetCenter moves the ellipse.
func (e *SurfaceEllipse) SetCenter(c globe.LatLon) {
	e.center = c
	e.invalidateBoundary()
}

// SetAxes sets the semi-major and semi-minor axis lengths in meters.
func (e *SurfaceEllipse) SetAxes(majorMeters, minorMeters float64) {
	e.majorM = majorMeters
	e.minorM = minorMeters
	e.invalidateBoundary()
}

// SetHeading sets the clockwise-from-north heading of the major axis in
// degrees.
func (e *SurfaceEllipse) SetHeading(deg float64) {
	e.heading = deg
	e.invalidateBoundary()
}

// SetIntervals sets the number of boundary samples. Values below 8 are
// raised to 8.
func (e *SurfaceEllipse) SetIntervals(n int) {
	if n < 8 {
		n = 8
	}
	e.intervals = n
	e.invalidateBoundary()
}

func (e *SurfaceEllipse) invalidateBoundary() {
	e.boundary = nil
	e.noteChange()
}

// outerBoundary generates and caches the ellipse's boundary samples.
// Each sample offsets the center by the parametric radius along the
// parametric azimuth rotated by the heading.
func (e *SurfaceEllipse) outerBoundary() []globe.LatLon {
	if e.cleared || e.majorM <= 0 || e.minorM <= 0 {
		return nil
	}
	if e.boundary != nil {
		return e.boundary
	}
	n := e.intervals
	if n < 8 {
		n = DefaultEllipseIntervals
	}
	out := make([]globe.LatLon, 0, n)
	for i := 0; i < n; i++ {
		t := 2 * math.Pi * float64(i) / float64(n)
		// North along the major axis, east along the minor axis.
		north := e.majorM * math.Cos(t)
		east := e.minorM * math.Sin(t)
		dist := math.Hypot(north, east)
		az := math.Atan2(east, north)*180/math.Pi + e.heading
		arcDeg := dist / globe.EarthRadius * 180 / math.Pi
		out = append(out, e.center.Offset(az, arcDeg))
	}
	e.boundary = out
	return out
}

func (e *SurfaceEllipse) innerBoundaries() [][]globe.LatLon { return nil }
func (e *SurfaceEllipse) textureCoords() [][2]float64       { return nil }

func (e *SurfaceEllipse) clearBoundaries() {
	e.boundary = nil
	e.cleared = true
}
