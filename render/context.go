package render

import (
	"image"

	"github.com/golang/geo/r3"

	"github.com/gogpu/globe"
	"github.com/gogpu/globe/cache"
	"github.com/gogpu/globe/pick"
	"github.com/gogpu/globe/tess"
)

// SurfaceRenderable is a surface object as seen by the composite-rendering
// pipeline: it reports the sectors it covers and draws itself into the
// tile attached to the draw context.
type SurfaceRenderable interface {
	// Sectors returns the geographic sectors the object covers on the
	// globe. Dateline-spanning objects return one sector per hemisphere
	// copy.
	Sectors(g globe.Globe) []globe.Sector

	// RenderTile draws the object into dc.Tile. Called with
	// dc.OrderedRenderingMode set during composite tile building.
	RenderTile(dc *DrawContext) error

	// StateKey returns the object's cache-coherence token.
	StateKey() globe.SurfaceStateKey
}

// surfaceEntry captures a queued surface object together with the layer
// current at enqueue time.
type surfaceEntry struct {
	object SurfaceRenderable
	layer  *Layer
}

// SurfaceQueue is the frame-scoped queue of surface objects awaiting
// composite tile building. FIFO: submission order is painting order
// within a shared tile.
type SurfaceQueue struct {
	entries []surfaceEntry
}

// Add enqueues a surface object under the given layer.
func (q *SurfaceQueue) Add(o SurfaceRenderable, layer *Layer) {
	q.entries = append(q.entries, surfaceEntry{object: o, layer: layer})
}

// Len returns the number of queued objects.
func (q *SurfaceQueue) Len() int { return len(q.entries) }

// Clear discards all entries, retaining capacity for the next frame.
func (q *SurfaceQueue) Clear() { q.entries = q.entries[:0] }

// TileContext is attached to the draw context while a composite tile is
// being built. It maps geographic degrees to tile pixels.
type TileContext struct {
	// Sector is the tile's geographic coverage. Longitudes may lie
	// outside [-180, 180] for tiles in an unwrapped hemisphere copy.
	Sector globe.Sector
	// Width, Height are the tile's pixel dimensions.
	Width, Height int
	// Device is the tile's own offscreen draw target.
	Device globe.Device
}

// Pixel maps a location to tile pixel coordinates. Locations outside the
// tile sector map outside the pixel bounds; the device's scissor clips
// them.
func (t *TileContext) Pixel(ll globe.LatLon) (x, y float32) {
	x = float32((ll.Lon - t.Sector.MinLon) / t.Sector.DeltaLon() * float64(t.Width))
	y = float32((t.Sector.MaxLat - ll.Lat) / t.Sector.DeltaLat() * float64(t.Height))
	return x, y
}

// DegreesPerPixel returns the tile's longitudinal pixel density.
func (t *TileContext) DegreesPerPixel() float64 {
	return t.Sector.DeltaLon() / float64(t.Width)
}

// GeometryKey fingerprints one tessellation of one shape: the shape's
// version, the globe configuration, and the resolution the geometry was
// built for. Resolution is quantized to milli-degrees so float jitter
// does not defeat the cache.
type GeometryKey struct {
	Shape           globe.SurfaceStateKey
	Globe           globe.StateKey
	MaxEdgeMilliDeg int64
}

// QuantizeMaxEdge converts an edge-length tolerance in degrees to the
// quantized form used in GeometryKey.
func QuantizeMaxEdge(deg float64) int64 {
	if deg <= 0 {
		return 0
	}
	q := int64(deg * 1000)
	if q < 1 {
		q = 1
	}
	return q
}

// DrawContext owns all frame-scoped rendering state. It is passed
// explicitly through every rendering entry point rather than held as
// ambient state; everything reachable from it is confined to the single
// rendering goroutine for the duration of a frame.
type DrawContext struct {
	Globe  globe.Globe
	Device globe.Device

	// VisibleSector is the geographic region in view this frame.
	VisibleSector globe.Sector
	// EyePoint is the view position in model coordinates.
	EyePoint r3.Vector
	// FrameStamp increments every frame.
	FrameStamp uint64

	// PickingMode is set while a pick is being resolved.
	PickingMode bool
	// OrderedRenderingMode is set while the compositor is invoking
	// queued surface objects against a tile context.
	OrderedRenderingMode bool
	// PickFrustums are screen-space rectangles around pending pick
	// points, used to cheaply reject objects from pick consideration.
	PickFrustums []image.Rectangle
	// PickSession is non-nil while a picking session is open.
	PickSession *pick.Session

	// CurrentLayer is the layer whose renderables are currently being
	// processed. Captured by queues at enqueue time.
	CurrentLayer *Layer

	// Surface is the frame's ordered-surface-renderable queue.
	Surface *SurfaceQueue
	// Ordered is the frame's general ordered-renderable queue.
	Ordered *OrderedQueue

	// Geometry memoizes tessellation output across frames.
	Geometry *cache.LRU[GeometryKey, *tess.Mesh]

	// Tile is non-nil while a composite tile is being built.
	Tile *TileContext

	projector   func(globe.Position) (float32, float32, bool)
	unprojector func(x, y float32) (globe.Position, bool)
}

// NewDrawContext creates a draw context for a globe and draw target.
// The default screen projector is a plate carrée mapping of the visible
// sector onto the device bounds; hosts with a perspective camera install
// their own with SetProjector.
func NewDrawContext(g globe.Globe, device globe.Device) *DrawContext {
	dc := &DrawContext{
		Globe:         g,
		Device:        device,
		VisibleSector: globe.FullSphere,
		Surface:       &SurfaceQueue{},
		Ordered:       NewOrderedQueue(),
		Geometry:      cache.NewLRU[GeometryKey, *tess.Mesh](cache.DefaultCapacity),
	}
	return dc
}

// BeginFrame resets the frame-scoped queues and flags for a new frame
// showing the given sector. Previous frame queues are discarded entirely.
func (dc *DrawContext) BeginFrame(visible globe.Sector) {
	dc.FrameStamp++
	dc.VisibleSector = visible
	dc.PickingMode = false
	dc.OrderedRenderingMode = false
	dc.PickFrustums = dc.PickFrustums[:0]
	dc.PickSession = nil
	dc.CurrentLayer = nil
	dc.Tile = nil
	dc.Surface.Clear()
	dc.Ordered.Clear()
}

// AddPickFrustum registers a screen rectangle around a pending pick point
// for this frame.
func (dc *DrawContext) AddPickFrustum(r image.Rectangle) {
	dc.PickFrustums = append(dc.PickFrustums, r)
}

// SetProjector installs the geographic-to-screen projection used for
// compositing tiles and placing icons and labels.
func (dc *DrawContext) SetProjector(p func(globe.Position) (x, y float32, ok bool)) {
	dc.projector = p
}

// Project maps a position to screen pixels using the installed projector,
// or the default plate carrée mapping of the visible sector.
func (dc *DrawContext) Project(p globe.Position) (x, y float32, ok bool) {
	if dc.projector != nil {
		return dc.projector(p)
	}
	b := dc.Device.Bounds()
	s := dc.VisibleSector
	if s.DeltaLon() == 0 || s.DeltaLat() == 0 {
		return 0, 0, false
	}
	x = float32((p.Lon - s.MinLon) / s.DeltaLon() * float64(b.Dx()))
	y = float32((s.MaxLat - p.Lat) / s.DeltaLat() * float64(b.Dy()))
	return x, y, true
}

// SetUnprojector installs the screen-to-geographic inverse projection
// used to attach a terrain position to pick results.
func (dc *DrawContext) SetUnprojector(u func(x, y float32) (globe.Position, bool)) {
	dc.unprojector = u
}

// Unproject maps screen pixels back to a position on the globe surface
// using the installed unprojector, or the inverse of the default plate
// carrée mapping.
func (dc *DrawContext) Unproject(x, y float32) (globe.Position, bool) {
	if dc.unprojector != nil {
		return dc.unprojector(x, y)
	}
	b := dc.Device.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return globe.Position{}, false
	}
	s := dc.VisibleSector
	lon := s.MinLon + float64(x)/float64(b.Dx())*s.DeltaLon()
	lat := s.MaxLat - float64(y)/float64(b.Dy())*s.DeltaLat()
	return globe.Position{LatLon: globe.LL(lat, lon)}, true
}

// DegreesPerPixel returns the approximate longitudinal degrees covered by
// one screen pixel this frame.
func (dc *DrawContext) DegreesPerPixel() float64 {
	w := dc.Device.Bounds().Dx()
	if w <= 0 {
		return 1
	}
	return dc.VisibleSector.DeltaLon() / float64(w)
}

// SectorVisible reports whether the sector intersects this frame's
// visible region.
func (dc *DrawContext) SectorVisible(s globe.Sector) bool {
	return dc.VisibleSector.Intersects(s)
}

// SectorInPickFrustum reports whether the sector's screen footprint
// intersects any pending pick frustum.
func (dc *DrawContext) SectorInPickFrustum(s globe.Sector) bool {
	if len(dc.PickFrustums) == 0 {
		return false
	}
	rect, ok := dc.screenRect(s)
	if !ok {
		return false
	}
	for _, f := range dc.PickFrustums {
		if rect.Overlaps(f) {
			return true
		}
	}
	return false
}

// screenRect projects a sector's corners to a screen-space bounding
// rectangle.
func (dc *DrawContext) screenRect(s globe.Sector) (image.Rectangle, bool) {
	var r image.Rectangle
	first := true
	for _, c := range s.Corners() {
		x, y, ok := dc.Project(globe.Position{LatLon: c})
		if !ok {
			return image.Rectangle{}, false
		}
		px := image.Pt(int(x), int(y))
		if first {
			r = image.Rectangle{Min: px, Max: px.Add(image.Pt(1, 1))}
			first = false
		} else {
			r = r.Union(image.Rectangle{Min: px, Max: px.Add(image.Pt(1, 1))})
		}
	}
	return r, true
}

// EyeDistanceTo returns the eye distance to the nearest point of an
// extent.
func (dc *DrawContext) EyeDistanceTo(e globe.Extent) float64 {
	return e.EyeDistance(dc.EyePoint)
}

// InvalidateShape drops every cached tessellation belonging to the shape
// with the given unique id, across all resolutions and globes.
func (dc *DrawContext) InvalidateShape(id uint64) int {
	return dc.Geometry.DeleteFunc(func(k GeometryKey) bool {
		return k.Shape.ID == id
	})
}
