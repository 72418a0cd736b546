package render

import (
	"image"
	"testing"

	"github.com/gogpu/globe"
	"github.com/gogpu/globe/internal/fb"
	"github.com/gogpu/globe/tess"
)

func TestProjectUnprojectRoundTrip(t *testing.T) {
	dc := NewDrawContext(globe.NewSphere(0), fb.New(512, 256))
	dc.BeginFrame(globe.Sector{MinLat: -45, MaxLat: 45, MinLon: -90, MaxLon: 90})

	for _, ll := range []globe.LatLon{
		globe.LL(0, 0), globe.LL(30, -60), globe.LL(-44, 89),
	} {
		x, y, ok := dc.Project(globe.Position{LatLon: ll})
		if !ok {
			t.Fatalf("Project(%v) failed", ll)
		}
		back, ok := dc.Unproject(x, y)
		if !ok {
			t.Fatalf("Unproject failed for %v", ll)
		}
		if d := ll.AngularDistance(back.LatLon); d > 0.01 {
			t.Errorf("round trip of %v drifted %v degrees", ll, d)
		}
	}
}

func TestBeginFrameResets(t *testing.T) {
	dc := NewDrawContext(globe.NewSphere(0), fb.New(64, 64))
	dc.BeginFrame(globe.FullSphere)
	stamp := dc.FrameStamp

	dc.Ordered.Add(&fakeRenderable{dist: 1}, 1, AddOptions{})
	dc.AddPickFrustum(image.Rect(0, 0, 4, 4))
	dc.PickingMode = true

	dc.BeginFrame(globe.FullSphere)
	if dc.FrameStamp != stamp+1 {
		t.Errorf("FrameStamp = %d, want %d", dc.FrameStamp, stamp+1)
	}
	if dc.Ordered.Len() != 0 || len(dc.PickFrustums) != 0 || dc.PickingMode {
		t.Error("BeginFrame did not reset frame state")
	}
}

func TestSectorInPickFrustum(t *testing.T) {
	dc := NewDrawContext(globe.NewSphere(0), fb.New(256, 256))
	dc.BeginFrame(globe.Sector{MinLat: -45, MaxLat: 45, MinLon: -90, MaxLon: 90})

	target := globe.Sector{MinLat: 0, MaxLat: 20, MinLon: 0, MaxLon: 20}
	if dc.SectorInPickFrustum(target) {
		t.Error("sector in frustum with no frustums registered")
	}

	// A frustum over the sector's screen footprint.
	x, y, _ := dc.Project(globe.Position{LatLon: globe.LL(10, 10)})
	dc.AddPickFrustum(image.Rect(int(x)-2, int(y)-2, int(x)+2, int(y)+2))
	if !dc.SectorInPickFrustum(target) {
		t.Error("sector not detected under its own frustum")
	}
	if dc.SectorInPickFrustum(globe.Sector{MinLat: -40, MaxLat: -30, MinLon: -80, MaxLon: -70}) {
		t.Error("distant sector detected under the frustum")
	}
}

func TestInvalidateShape(t *testing.T) {
	dc := NewDrawContext(globe.NewSphere(0), fb.New(64, 64))
	keyFor := func(id uint64, edge int64) GeometryKey {
		return GeometryKey{
			Shape:           globe.SurfaceStateKey{ID: id, Modified: 1},
			Globe:           dc.Globe.StateKey(),
			MaxEdgeMilliDeg: edge,
		}
	}
	dc.Geometry.Put(keyFor(1, 100), &tess.Mesh{})
	dc.Geometry.Put(keyFor(1, 500), &tess.Mesh{})
	dc.Geometry.Put(keyFor(2, 100), &tess.Mesh{})

	if n := dc.InvalidateShape(1); n != 2 {
		t.Errorf("InvalidateShape removed %d entries, want 2", n)
	}
	if _, ok := dc.Geometry.Get(keyFor(2, 100)); !ok {
		t.Error("unrelated shape's geometry was removed")
	}
}

func TestQuantizeMaxEdge(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{-1, 0},
		{0.0001, 1},
		{0.5, 500},
		{2.5, 2500},
	}
	for _, tt := range tests {
		if got := QuantizeMaxEdge(tt.in); got != tt.want {
			t.Errorf("QuantizeMaxEdge(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTileContextPixel(t *testing.T) {
	tc := &TileContext{
		Sector: globe.Sector{MinLat: 0, MaxLat: 45, MinLon: 0, MaxLon: 90},
		Width:  256, Height: 256,
	}
	x, y := tc.Pixel(globe.LL(45, 0))
	if x != 0 || y != 0 {
		t.Errorf("northwest corner = (%v, %v), want (0, 0)", x, y)
	}
	x, y = tc.Pixel(globe.LL(0, 90))
	if x != 256 || y != 256 {
		t.Errorf("southeast corner = (%v, %v), want (256, 256)", x, y)
	}
}
