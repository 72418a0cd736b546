package render

import (
	"image"
	"testing"

	"github.com/gogpu/globe"
	"github.com/gogpu/globe/internal/fb"
)

func TestTerrainFillsTiles(t *testing.T) {
	dc := compositeContext()
	tc := NewTileCompositor()
	terrain := NewTerrain()
	terrain.ShadePerKm = 0

	if err := terrain.PreRender(dc); err != nil {
		t.Fatalf("PreRender: %v", err)
	}
	if err := tc.Composite(dc); err != nil {
		t.Fatalf("Composite: %v", err)
	}
	for _, pt := range []image.Point{{10, 10}, {256, 256}, {500, 500}} {
		if got := dc.Device.ReadPixel(pt.X, pt.Y); got != terrain.Color {
			t.Errorf("pixel %v = %+v, want ground color %+v", pt, got, terrain.Color)
		}
	}
}

func TestTerrainUnderliesShapes(t *testing.T) {
	dc := compositeContext()
	tc := NewTileCompositor()
	terrain := NewTerrain()
	terrain.ShadePerKm = 0
	obj := newFakeSurface(globe.Sector{MinLat: 10, MaxLat: 40, MinLon: 10, MaxLon: 80})

	// Terrain first, object second: the object paints over it.
	terrain.PreRender(dc)
	dc.Surface.Add(obj, nil)
	if err := tc.Composite(dc); err != nil {
		t.Fatalf("Composite: %v", err)
	}
	x, y, _ := dc.Project(globe.Position{LatLon: globe.LL(25, 45)})
	if got := dc.Device.ReadPixel(int(x), int(y)); got != obj.fill {
		t.Errorf("object pixel = %+v, want %+v", got, obj.fill)
	}
	x, y, _ = dc.Project(globe.Position{LatLon: globe.LL(-30, -60)})
	if got := dc.Device.ReadPixel(int(x), int(y)); got != terrain.Color {
		t.Errorf("bare pixel = %+v, want ground color %+v", got, terrain.Color)
	}
}

func TestTerrainPick(t *testing.T) {
	dc := NewDrawContext(globe.NewSphere(0), fb.New(64, 64))
	dc.BeginFrame(globe.Sector{MinLat: -45, MaxLat: 45, MinLon: -90, MaxLon: 90})
	terrain := NewTerrain()
	terrain.PreRender(dc)
	dc.Ordered.Add(terrain, terrain.EyeDistance(), AddOptions{Kind: "terrain"})

	o, err := (BatchPickResolver{}).Resolve(dc, image.Pt(32, 32))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if o == nil {
		t.Fatal("terrain pick resolved to nothing")
	}
	if !o.IsTerrain {
		t.Error("IsTerrain = false for a terrain pick")
	}
	// The pick position is the unprojected screen center.
	if d := o.Position.AngularDistance(globe.LL(0, 0)); d > 2 {
		t.Errorf("pick position %v too far from the view center", o.Position.LatLon)
	}
}
