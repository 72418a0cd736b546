package shape

import (
	"image"
	"log/slog"

	"github.com/gogpu/globe"
	"github.com/gogpu/globe/pick"
	"github.com/gogpu/globe/render"
	"github.com/gogpu/globe/texture"
)

// SurfaceImage drapes a texture over a geographic sector. While the
// texture loads, the image contributes nothing to a frame and the shape
// retries on later frames; a permanently failed texture leaves the shape
// silent.
//
// Picking uses a solid quad over the sector, so a click anywhere on the
// draped imagery hits the image regardless of texture transparency.
type SurfaceImage struct {
	globe.SurfaceObject

	sector globe.Sector
	tex    *texture.Texture

	eyeDistance float64
}

// NewSurfaceImage drapes tex over sector.
func NewSurfaceImage(sector globe.Sector, tex *texture.Texture) *SurfaceImage {
	return &SurfaceImage{
		SurfaceObject: globe.NewSurfaceObject(),
		sector:        sector,
		tex:           tex,
	}
}

// SetSector moves the image to a new sector.
func (s *SurfaceImage) SetSector(sec globe.Sector) {
	s.sector = sec
	s.MarkChanged()
}

// SetTexture replaces the draped texture.
func (s *SurfaceImage) SetTexture(tex *texture.Texture) {
	s.tex = tex
	s.MarkChanged()
}

// Sectors implements render.SurfaceRenderable.
func (s *SurfaceImage) Sectors(globe.Globe) []globe.Sector {
	if s.sector.IsEmpty() {
		return nil
	}
	return []globe.Sector{s.sector}
}

// PreRender enqueues the image onto the frame's surface queue when its
// sector is visible or under a pick frustum.
func (s *SurfaceImage) PreRender(dc *render.DrawContext) error {
	if dc == nil {
		return globe.ErrNilDrawContext
	}
	if !s.Visible() || dc.OrderedRenderingMode || s.sector.IsEmpty() {
		return nil
	}
	if !dc.SectorVisible(s.sector) && !dc.SectorInPickFrustum(s.sector) {
		return nil
	}
	dc.Surface.Add(s, dc.CurrentLayer)
	s.eyeDistance = dc.EyeDistanceTo(s.ExtentFor(dc.Globe, []globe.Sector{s.sector}))
	return nil
}

// Render mirrors the surface-shape protocol: draw into the tile in
// ordered rendering mode, re-enqueue for a dedicated pick draw in
// picking mode, and otherwise do nothing because the compositing pass
// already covers the image.
func (s *SurfaceImage) Render(dc *render.DrawContext) error {
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

// RenderTile blits the portion of the texture overlapping the tile's
// sector. A texture that is not ready yet is skipped without error.
// Implements render.SurfaceRenderable.
func (s *SurfaceImage) RenderTile(dc *render.DrawContext) error {
	if dc == nil || dc.Tile == nil {
		return globe.ErrNilDrawContext
	}
	if s.tex == nil {
		return nil
	}
	img, ok := s.tex.Bind()
	if !ok {
		return nil
	}
	t := dc.Tile
	overlap, ok := s.sector.Intersection(t.Sector)
	if !ok {
		return nil
	}

	// Source sub-rectangle proportional to the overlapping fraction of
	// the draped sector. Image rows run north to south.
	b := img.Bounds()
	sx0 := b.Min.X + int((overlap.MinLon-s.sector.MinLon)/s.sector.DeltaLon()*float64(b.Dx()))
	sx1 := b.Min.X + int((overlap.MaxLon-s.sector.MinLon)/s.sector.DeltaLon()*float64(b.Dx()))
	sy0 := b.Min.Y + int((s.sector.MaxLat-overlap.MaxLat)/s.sector.DeltaLat()*float64(b.Dy()))
	sy1 := b.Min.Y + int((s.sector.MaxLat-overlap.MinLat)/s.sector.DeltaLat()*float64(b.Dy()))
	srcRect := image.Rect(sx0, sy0, sx1, sy1).Intersect(b)
	if srcRect.Empty() {
		return nil
	}

	x0, y0 := t.Pixel(globe.LL(overlap.MaxLat, overlap.MinLon))
	x1, y1 := t.Pixel(globe.LL(overlap.MinLat, overlap.MaxLon))
	dstRect := image.Rect(int(x0), int(y0), int(x1), int(y1))
	if dstRect.Empty() {
		return nil
	}
	t.Device.Blit(img.SubImage(srcRect), dstRect)
	return nil
}

// EyeDistance implements render.OrderedRenderable.
func (s *SurfaceImage) EyeDistance() float64 { return s.eyeDistance }

// Pick draws a solid sector quad in a freshly allocated pick color.
// Implements render.OrderedRenderable.
func (s *SurfaceImage) Pick(dc *render.DrawContext, pt image.Point) {
	if dc == nil {
		return
	}
	if dc.PickSession == nil {
		dc.PickSession = pick.NewSession()
	}
	pos, _ := dc.Unproject(float32(pt.X), float32(pt.Y))
	c := dc.PickSession.Register(s.PickOwner(s), pos, false)

	corners := s.sector.Corners()
	xy := make([]float32, 0, 8)
	for _, ll := range corners {
		x, y, ok := dc.Project(globe.Position{LatLon: ll})
		if !ok {
			return
		}
		xy = append(xy, x, y)
	}
	dc.Device.FillTriangles(xy, []uint32{0, 1, 2, 0, 2, 3}, c)
}
