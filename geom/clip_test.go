package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/globe"
)

func TestAssembleContourPassthrough(t *testing.T) {
	locs := []globe.LatLon{globe.LL(0, 0), globe.LL(0, 10), globe.LL(10, 5)}
	contours, err := AssembleContour(locs, nil, Options{})
	if err != nil {
		t.Fatalf("AssembleContour: %v", err)
	}
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}
	// Closed: one extra vertex.
	if len(contours[0]) != len(locs)+1 {
		t.Errorf("contour has %d vertices, want %d", len(contours[0]), len(locs)+1)
	}
}

func TestAssembleContourNilLocations(t *testing.T) {
	if _, err := AssembleContour(nil, nil, Options{}); !errors.Is(err, globe.ErrNilGeometry) {
		t.Errorf("err = %v, want ErrNilGeometry", err)
	}
}

func TestAssembleContourTexCoordMismatch(t *testing.T) {
	locs := []globe.LatLon{globe.LL(0, 0), globe.LL(0, 10), globe.LL(10, 5)}
	if _, err := AssembleContour(locs, [][2]float64{{0, 0}}, Options{}); err == nil {
		t.Error("mismatched texture coordinates were accepted")
	}
}

func TestAssembleContourDateline(t *testing.T) {
	locs := []globe.LatLon{
		globe.LL(-10, 170), globe.LL(-10, -170), globe.LL(10, -170), globe.LL(10, 170),
	}
	contours, err := AssembleContour(locs, nil, Options{})
	if err != nil {
		t.Fatalf("AssembleContour: %v", err)
	}
	if len(contours) != 2 {
		t.Fatalf("got %d contours, want 2", len(contours))
	}

	// Each copy must be contiguous: no edge jumps more than 180°.
	for i, c := range contours {
		for j := 1; j < len(c); j++ {
			if math.Abs(c[j].Lon-c[j-1].Lon) > 180 {
				t.Errorf("contour %d still jumps at edge %d", i, j)
			}
		}
	}

	// The two copies are the same shape shifted by a full turn.
	a, b := contours[0], contours[1]
	if len(a) != len(b) {
		t.Fatalf("copies differ in length: %d vs %d", len(a), len(b))
	}
	shift := b[0].Lon - a[0].Lon
	if math.Abs(math.Abs(shift)-360) > 1e-9 {
		t.Fatalf("copy shift = %v, want ±360", shift)
	}
	for i := range a {
		if a[i].Lat != b[i].Lat || math.Abs(b[i].Lon-a[i].Lon-shift) > 1e-9 {
			t.Errorf("vertex %d: %v vs %v not a pure shift", i, a[i].LatLon, b[i].LatLon)
		}
	}
}

func TestAssembleContourPole(t *testing.T) {
	// A constant-latitude ring around the north pole.
	var locs []globe.LatLon
	for lon := -180.0; lon < 180; lon += 45 {
		locs = append(locs, globe.LL(80, lon))
	}
	contours, err := AssembleContour(locs, nil, Options{})
	if err != nil {
		t.Fatalf("AssembleContour: %v", err)
	}
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}
	c := contours[0]

	// The rewritten contour must reach the pole and stay contiguous.
	atPole := 0
	for _, v := range c {
		if v.Lat == 90 {
			atPole++
		}
	}
	if atPole < 3 {
		t.Errorf("only %d vertices at the pole, want the synthesized cap trace", atPole)
	}
	for j := 1; j < len(c); j++ {
		if math.Abs(c[j].Lon-c[j-1].Lon) > 180+1e-9 {
			t.Errorf("polar contour still jumps at edge %d", j)
		}
	}

	// Planar shoelace area of the rewritten contour approximates the cap:
	// 360° of longitude by 10° of latitude.
	area := math.Abs(shoelace(c))
	want := 360.0 * 10.0
	if math.Abs(area-want) > want*0.05 {
		t.Errorf("cap area = %v, want ~%v", area, want)
	}
}

func TestClipPoleSubdividesApproaches(t *testing.T) {
	var locs []globe.LatLon
	for lon := -180.0; lon < 180; lon += 45 {
		locs = append(locs, globe.LL(80, lon))
	}
	contours, err := AssembleContour(locs, nil, Options{MaxEdgeDeg: 2})
	if err != nil {
		t.Fatalf("AssembleContour: %v", err)
	}
	c := contours[0]
	for j := 1; j < len(c); j++ {
		// Pole-cap traverse edges run along lat 90 and have zero
		// great-circle length; everything else obeys the bound.
		d := c[j-1].AngularDistance(c[j].LatLon)
		if d > 2+1e-9 {
			t.Errorf("edge %d length %v exceeds tolerance", j, d)
		}
	}
}

func TestClipPoleRejectsMixedCase(t *testing.T) {
	// Figure-eight-like input: winding suggests a pole but the contour
	// crosses the antimeridian more than once.
	c := Close(contourOf(
		globe.LL(80, 0), globe.LL(80, 90), globe.LL(40, 175), globe.LL(40, -175),
		globe.LL(80, -170), globe.LL(85, 170), globe.LL(80, -90),
	))
	if _, err := ClipPole(c, PoleNorth, 0, globe.GreatCircle); !errors.Is(err, globe.ErrPoleAndDateline) {
		t.Errorf("err = %v, want ErrPoleAndDateline", err)
	}
}

func TestClipPoleRejectsNoCrossing(t *testing.T) {
	c := Close(contourOf(globe.LL(10, 0), globe.LL(10, 20), globe.LL(30, 10)))
	if _, err := ClipPole(c, PoleNorth, 0, globe.GreatCircle); !errors.Is(err, globe.ErrPoleAndDateline) {
		t.Errorf("err = %v, want ErrPoleAndDateline", err)
	}
}

// shoelace computes the signed planar area of a closed contour in
// degree coordinates.
func shoelace(c Contour) float64 {
	var sum float64
	for i := 1; i < len(c); i++ {
		a, b := c[i-1], c[i]
		sum += a.Lon*b.Lat - b.Lon*a.Lat
	}
	return sum / 2
}
