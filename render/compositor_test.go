package render

import (
	"image/color"
	"testing"
	"time"

	"github.com/gogpu/globe"
	"github.com/gogpu/globe/internal/fb"
)

// fakeSurface draws a solid fill into every tile it is offered and counts
// the draws.
type fakeSurface struct {
	sector  globe.Sector
	key     globe.SurfaceStateKey
	renders int
	fill    color.NRGBA
}

func newFakeSurface(s globe.Sector) *fakeSurface {
	return &fakeSurface{
		sector: s,
		key:    globe.SurfaceStateKey{ID: globe.NextUniqueID(), Modified: time.Now().UnixNano()},
		fill:   color.NRGBA{R: 0xFF, A: 0xFF},
	}
}

func (f *fakeSurface) Sectors(globe.Globe) []globe.Sector { return []globe.Sector{f.sector} }

func (f *fakeSurface) StateKey() globe.SurfaceStateKey { return f.key }

func (f *fakeSurface) RenderTile(dc *DrawContext) error {
	f.renders++
	t := dc.Tile
	w, h := float32(t.Width), float32(t.Height)
	t.Device.FillTriangles(
		[]float32{0, 0, w, 0, w, h, 0, h},
		[]uint32{0, 1, 2, 0, 2, 3}, f.fill)
	return nil
}

func (f *fakeSurface) markChanged() {
	f.key.Modified++
}

func compositeContext() *DrawContext {
	dc := NewDrawContext(globe.NewSphere(0), fb.New(512, 512))
	dc.BeginFrame(globe.Sector{MinLat: -45, MaxLat: 45, MinLon: -90, MaxLon: 90})
	return dc
}

func TestCompositeDrawsQueuedObjects(t *testing.T) {
	dc := compositeContext()
	tc := NewTileCompositor()
	obj := newFakeSurface(dc.VisibleSector)
	dc.Surface.Add(obj, nil)

	if err := tc.Composite(dc); err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if obj.renders == 0 {
		t.Fatal("queued object was never drawn")
	}
	if dc.Surface.Len() != 0 {
		t.Error("surface queue not drained")
	}
	if tc.TileCacheLen() == 0 {
		t.Error("no tiles cached")
	}
	// The object's fill reached the screen.
	if got := dc.Device.ReadPixel(256, 256); got != obj.fill {
		t.Errorf("screen pixel = %+v, want %+v", got, obj.fill)
	}
}

func TestCompositeReusesUnchangedTiles(t *testing.T) {
	dc := compositeContext()
	tc := NewTileCompositor()
	obj := newFakeSurface(dc.VisibleSector)

	dc.Surface.Add(obj, nil)
	if err := tc.Composite(dc); err != nil {
		t.Fatalf("Composite: %v", err)
	}
	firstRenders := obj.renders

	// Same content next frame: cached tiles are reused, no redraw.
	dc.BeginFrame(dc.VisibleSector)
	dc.Surface.Add(obj, nil)
	if err := tc.Composite(dc); err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if obj.renders != firstRenders {
		t.Errorf("unchanged object redrawn: %d renders, want %d", obj.renders, firstRenders)
	}
}

func TestCompositeRebuildsOnStateChange(t *testing.T) {
	dc := compositeContext()
	tc := NewTileCompositor()
	obj := newFakeSurface(dc.VisibleSector)

	dc.Surface.Add(obj, nil)
	if err := tc.Composite(dc); err != nil {
		t.Fatalf("Composite: %v", err)
	}
	firstRenders := obj.renders

	obj.markChanged()
	dc.BeginFrame(dc.VisibleSector)
	dc.Surface.Add(obj, nil)
	if err := tc.Composite(dc); err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if obj.renders <= firstRenders {
		t.Error("mutated object's tiles were not rebuilt")
	}
}

func TestCompositeSkipsNonOverlappingTiles(t *testing.T) {
	dc := compositeContext()
	tc := NewTileCompositor()
	// Object confined to the northeast corner.
	obj := newFakeSurface(globe.Sector{MinLat: 30, MaxLat: 45, MinLon: 60, MaxLon: 90})
	dc.Surface.Add(obj, nil)

	if err := tc.Composite(dc); err != nil {
		t.Fatalf("Composite: %v", err)
	}
	grid := tc.TileCacheLen()
	cols, rows := tc.gridSize(dc)
	if grid >= cols*rows {
		t.Errorf("built %d tiles for a corner object, want fewer than the full %d-tile grid", grid, cols*rows)
	}
	// Southwest corner of the screen stays untouched.
	if got := dc.Device.ReadPixel(10, 500); got != (color.NRGBA{}) {
		t.Errorf("far pixel = %+v, want untouched", got)
	}
}

func TestCompositeNilContext(t *testing.T) {
	if err := NewTileCompositor().Composite(nil); err != globe.ErrNilDrawContext {
		t.Errorf("err = %v, want ErrNilDrawContext", err)
	}
}

func TestCompositePreservesQueueOrder(t *testing.T) {
	dc := compositeContext()
	tc := NewTileCompositor()
	under := newFakeSurface(dc.VisibleSector)
	over := newFakeSurface(dc.VisibleSector)
	over.fill = color.NRGBA{B: 0xFF, A: 0xFF}

	dc.Surface.Add(under, nil)
	dc.Surface.Add(over, nil)
	if err := tc.Composite(dc); err != nil {
		t.Fatalf("Composite: %v", err)
	}
	// Later submissions paint over earlier ones.
	if got := dc.Device.ReadPixel(256, 256); got != over.fill {
		t.Errorf("screen pixel = %+v, want %+v from the later submission", got, over.fill)
	}
}
