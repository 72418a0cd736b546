package shape

import (
	"image"
	"log/slog"
	"math"

	"github.com/gogpu/globe"
	"github.com/gogpu/globe/geom"
	"github.com/gogpu/globe/pick"
	"github.com/gogpu/globe/render"
	"github.com/gogpu/globe/tess"
)

// Tessellation tolerance bounds, degrees of arc per edge.
const (
	minTessEdgeDeg = 0.005
	maxTessEdgeDeg = 10
	// tessEdgePixels is the target edge length in pixels at the current
	// tile resolution.
	tessEdgePixels = 8
)

// contourSource supplies a shape's boundaries to the shared tessellation
// pipeline. Concrete shapes implement it; SurfaceShape drives it.
type contourSource interface {
	// outerBoundary returns the outer ring's locations.
	outerBoundary() []globe.LatLon
	// innerBoundaries returns hole rings, or nil.
	innerBoundaries() [][]globe.LatLon
	// textureCoords returns explicit (u, v) pairs for the outer ring,
	// or nil.
	textureCoords() [][2]float64
	// clearBoundaries permanently empties the shape after a
	// tessellation failure.
	clearBoundaries()
}

// SurfaceShape implements the composite-rendering protocol shared by the
// tessellated surface shapes. Concrete shapes embed it and supply their
// boundaries through contourSource; the deep render/pick/cache logic
// lives here, composed rather than inherited.
type SurfaceShape struct {
	globe.SurfaceObject

	// Attrs controls interior and outline drawing.
	Attrs Attributes
	// Path is the interpolation rule for subdivided edges.
	Path globe.PathType

	owner any
	src   contourSource

	tessFailed  bool
	eyeDistance float64
	pickMesh    *tess.Mesh
}

// newSurfaceShape wires a concrete shape into the protocol. owner is the
// concrete shape, reported on pick (unless a delegate is set); src
// supplies its boundaries.
func newSurfaceShape(owner any, src contourSource) SurfaceShape {
	return SurfaceShape{
		SurfaceObject: globe.NewSurfaceObject(),
		Attrs:         DefaultAttributes(),
		Path:          globe.GreatCircle,
		owner:         owner,
		src:           src,
	}
}

// Sectors returns the geographic sectors the shape covers. A
// dateline-spanning shape reports one sector per unwrapped hemisphere
// copy. Implements render.SurfaceRenderable.
func (s *SurfaceShape) Sectors(globe.Globe) []globe.Sector {
	contours, err := s.assemble(0)
	if err != nil || len(contours) == 0 {
		return nil
	}
	out := make([]globe.Sector, 0, len(contours))
	for _, c := range contours {
		out = append(out, c.BoundingSector())
	}
	return out
}

// PreRender runs the first phase of the composite-rendering protocol:
// visibility and sector rejection, eager pick-geometry construction when
// a pick frustum intersects the shape, then self-enqueue onto the
// frame's surface queue. The current layer is captured at enqueue time.
func (s *SurfaceShape) PreRender(dc *render.DrawContext) error {
	if dc == nil {
		return globe.ErrNilDrawContext
	}
	if !s.Visible() || dc.OrderedRenderingMode {
		return nil
	}
	sectors := s.Sectors(dc.Globe)
	if len(sectors) == 0 {
		return nil
	}
	visible := false
	inPickFrustum := false
	for _, sec := range sectors {
		visible = visible || dc.SectorVisible(sec)
		inPickFrustum = inPickFrustum || dc.SectorInPickFrustum(sec)
	}
	if !visible && !inPickFrustum {
		return nil
	}

	layer := dc.CurrentLayer
	if inPickFrustum && (layer == nil || layer.Pickable) {
		// Build the pickable representation eagerly: this happens during
		// the pre-render pass, before any visible compositing.
		s.buildPickGeometry(dc)
	}

	dc.Surface.Add(s, layer)
	s.eyeDistance = dc.EyeDistanceTo(s.ExtentFor(dc.Globe, sectors))
	return nil
}

// Render participates in the frame's render pass.
//
// In ordered rendering mode the shape draws into the attached tile; a
// missing tile context is logged and skipped, recoverable next frame. In
// the general render pass in non-picking mode the shape does nothing:
// the compositing pass already draws it into shared tiles, and re-adding
// it to the ordered queue would double-process it. In picking mode the
// shape re-enqueues itself for a dedicated pick draw outside the
// shared-tile flow.
func (s *SurfaceShape) Render(dc *render.DrawContext) error {
	if dc == nil {
		return globe.ErrNilDrawContext
	}
	if dc.OrderedRenderingMode {
		if dc.Tile == nil {
			globe.Logger().Warn("ordered rendering without tile context; draw skipped",
				slog.Uint64("id", s.UniqueID()))
			return nil
		}
		return s.RenderTile(dc)
	}
	if !dc.PickingMode {
		return nil
	}
	dc.Ordered.Add(s, s.eyeDistance, render.AddOptions{
		Kind:        "surface",
		Layer:       dc.CurrentLayer,
		Batch:       s.BatchPicking(),
		LayerScoped: true,
	})
	return nil
}

// RenderTile draws the shape into the tile attached to the draw context.
// Implements render.SurfaceRenderable.
func (s *SurfaceShape) RenderTile(dc *render.DrawContext) error {
	if dc == nil {
		return globe.ErrNilDrawContext
	}
	t := dc.Tile
	if t == nil {
		return globe.ErrNilDrawContext
	}
	mesh, err := s.mesh(dc, s.maxEdgeFor(t.DegreesPerPixel()))
	if err != nil {
		return err
	}
	if mesh == nil {
		return nil
	}

	xy := make([]float32, 0, len(mesh.Vertices)*2)
	for _, v := range mesh.Vertices {
		x, y := t.Pixel(v.LatLon)
		xy = append(xy, x, y)
	}
	if s.Attrs.DrawInterior {
		t.Device.FillTriangles(xy, mesh.Interior, s.Attrs.InteriorColor)
	}
	if s.Attrs.DrawOutline {
		t.Device.StrokeLines(xy, mesh.Outline, s.Attrs.OutlineWidth, s.Attrs.OutlineColor)
	}
	if s.DebugSectors() {
		s.drawDebugSectors(dc)
	}
	return nil
}

// EyeDistance implements render.OrderedRenderable with the distance
// computed at enqueue time.
func (s *SurfaceShape) EyeDistance() float64 { return s.eyeDistance }

// Pick draws the shape's dedicated pick representation in a unique color
// allocated from the context's picking session, then leaves resolution
// to the batch pick resolver. Implements render.OrderedRenderable.
func (s *SurfaceShape) Pick(dc *render.DrawContext, pt image.Point) {
	if dc == nil {
		return
	}
	if dc.PickSession == nil {
		dc.PickSession = pick.NewSession()
	}
	mesh := s.pickMesh
	if mesh == nil {
		s.buildPickGeometry(dc)
		mesh = s.pickMesh
	}
	if mesh == nil {
		return
	}

	pos, _ := dc.Unproject(float32(pt.X), float32(pt.Y))
	c := dc.PickSession.Register(s.PickOwner(s.owner), pos, false)

	xy := make([]float32, 0, len(mesh.Vertices)*2)
	ok := true
	for _, v := range mesh.Vertices {
		x, y, projected := dc.Project(globe.Position{LatLon: v.LatLon})
		if !projected {
			ok = false
			break
		}
		xy = append(xy, x, y)
	}
	if ok {
		dc.Device.FillTriangles(xy, mesh.Interior, c)
	}
}

// buildPickGeometry eagerly builds the mesh drawn during pick, at a
// coarser resolution than the visible geometry.
func (s *SurfaceShape) buildPickGeometry(dc *render.DrawContext) {
	mesh, err := s.mesh(dc, s.maxEdgeFor(dc.DegreesPerPixel()*tessEdgePixels))
	if err != nil {
		return
	}
	s.pickMesh = mesh
}

// mesh returns the shape's tessellated geometry at the given edge
// tolerance, memoized in the draw context's geometry cache. The cache
// key embeds the shape's state key, so mutation never serves stale
// geometry.
//
// A tessellation failure permanently clears the shape's boundary data so
// the failure is not repeated every frame; the shape simply disappears.
func (s *SurfaceShape) mesh(dc *render.DrawContext, maxEdgeDeg float64) (*tess.Mesh, error) {
	if s.tessFailed || s.src == nil {
		return nil, nil
	}
	outer := s.src.outerBoundary()
	if len(outer) < 3 {
		return nil, nil
	}

	key := render.GeometryKey{
		Shape:           s.StateKey(),
		Globe:           dc.Globe.StateKey(),
		MaxEdgeMilliDeg: render.QuantizeMaxEdge(maxEdgeDeg),
	}
	if m, ok := dc.Geometry.Get(key); ok {
		return m, nil
	}

	m, err := s.tessellate(maxEdgeDeg)
	if err != nil {
		s.failTessellation(dc, err)
		return nil, err
	}
	dc.Geometry.Put(key, m)
	return m, nil
}

// tessellate assembles the shape's contours and triangulates them. Each
// unwrapped outer contour is tessellated together with the holes whose
// bounds fall within it; the per-contour meshes are merged into one.
func (s *SurfaceShape) tessellate(maxEdgeDeg float64) (*tess.Mesh, error) {
	outers, err := s.assemble(maxEdgeDeg)
	if err != nil {
		return nil, err
	}

	opt := geom.Options{MaxEdgeDeg: maxEdgeDeg, Path: s.Path}
	var holes []geom.Contour
	for _, inner := range s.src.innerBoundaries() {
		hc, err := geom.AssembleContour(inner, nil, opt)
		if err != nil {
			return nil, err
		}
		holes = append(holes, hc...)
	}

	meshes := make([]*tess.Mesh, 0, len(outers))
	for _, oc := range outers {
		group := []geom.Contour{oc}
		ocBounds := oc.BoundingSector()
		for _, h := range holes {
			if ocBounds.Intersects(h.BoundingSector()) {
				group = append(group, h)
			}
		}
		m, err := tess.Tessellate(group, ocBounds.Centroid())
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}
	return tess.Merge(meshes...), nil
}

// assemble prepares the outer boundary's contours at the given edge
// tolerance. maxEdgeDeg of 0 skips subdivision, producing the coarse
// contours used for bounding sectors.
func (s *SurfaceShape) assemble(maxEdgeDeg float64) ([]geom.Contour, error) {
	if s.src == nil || s.tessFailed {
		return nil, nil
	}
	outer := s.src.outerBoundary()
	if len(outer) < 3 {
		return nil, nil
	}
	return geom.AssembleContour(outer, s.src.textureCoords(), geom.Options{
		MaxEdgeDeg: maxEdgeDeg,
		Path:       s.Path,
	})
}

// failTessellation applies the give-up policy: log once, clear the
// boundary data, and never try again for this shape.
func (s *SurfaceShape) failTessellation(dc *render.DrawContext, err error) {
	globe.Logger().Error("tessellation failed; shape boundary cleared",
		slog.Uint64("id", s.UniqueID()),
		slog.Any("err", err))
	s.tessFailed = true
	s.pickMesh = nil
	s.src.clearBoundaries()
	s.MarkChanged()
	dc.InvalidateShape(s.UniqueID())
}

// drawDebugSectors strokes the shape's bounding sectors into the current
// tile for diagnosis.
func (s *SurfaceShape) drawDebugSectors(dc *render.DrawContext) {
	t := dc.Tile
	if t == nil {
		return
	}
	red := debugSectorColor
	for _, sec := range s.Sectors(dc.Globe) {
		corners := sec.Corners()
		xy := make([]float32, 0, 8)
		for _, c := range corners {
			x, y := t.Pixel(c)
			xy = append(xy, x, y)
		}
		t.Device.StrokeLines(xy, []uint32{0, 1, 1, 2, 2, 3, 3, 0}, 1, red)
	}
}

// maxEdgeFor derives the tessellation edge tolerance from a pixel
// density, clamped to sane bounds.
func (s *SurfaceShape) maxEdgeFor(degPerPixel float64) float64 {
	return math.Max(minTessEdgeDeg, math.Min(maxTessEdgeDeg, degPerPixel*tessEdgePixels))
}

// Invalidate records a boundary mutation: it advances the shape's state
// key and drops dependent caches, including any geometry memoized in the
// draw context. Concrete shapes call it from their setters; the context
// variant is optional because state-keyed caches already miss on the new
// key.
func (s *SurfaceShape) Invalidate(dc *render.DrawContext) {
	s.MarkChanged()
	s.pickMesh = nil
	s.tessFailed = false
	if dc != nil {
		dc.InvalidateShape(s.UniqueID())
	}
}

// noteChange is the internal mutation hook used by concrete shapes'
// setters.
func (s *SurfaceShape) noteChange() {
	s.MarkChanged()
	s.pickMesh = nil
	s.tessFailed = false
}
