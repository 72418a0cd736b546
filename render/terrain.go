package render

import (
	"image"
	"image/color"
	"time"

	"github.com/gogpu/globe"
	"github.com/gogpu/globe/pick"
)

// Terrain is the base surface layer: it covers the whole globe, paints
// every composite tile with a ground color shaded by elevation, and
// resolves picks that hit no object to a terrain position. Hosts with
// real terrain imagery replace it; it exists so the compositing and
// picking pipelines run end to end without one.
type Terrain struct {
	// Color is the base ground color.
	Color color.NRGBA
	// ShadePerKm darkens the ground per kilometer of elevation. Zero
	// disables shading.
	ShadePerKm float64

	key         globe.SurfaceStateKey
	eyeDistance float64
}

// NewTerrain creates a terrain stand-in with a neutral ground color.
func NewTerrain() *Terrain {
	return &Terrain{
		Color:      color.NRGBA{R: 0x2E, G: 0x4A, B: 0x33, A: 0xFF},
		ShadePerKm: 0.05,
		key: globe.SurfaceStateKey{
			ID:       globe.NextUniqueID(),
			Modified: time.Now().UnixNano(),
		},
	}
}

// Sectors implements SurfaceRenderable: terrain covers everything.
func (t *Terrain) Sectors(globe.Globe) []globe.Sector {
	return []globe.Sector{globe.FullSphere}
}

// StateKey implements SurfaceRenderable.
func (t *Terrain) StateKey() globe.SurfaceStateKey { return t.key }

// PreRender enqueues the terrain onto the frame's surface queue. Submit
// it before any shapes so they paint over it within shared tiles.
func (t *Terrain) PreRender(dc *DrawContext) error {
	if dc == nil {
		return globe.ErrNilDrawContext
	}
	dc.Surface.Add(t, dc.CurrentLayer)
	e := dc.Globe.SectorExtent(dc.VisibleSector)
	t.eyeDistance = dc.EyeDistanceTo(e)
	return nil
}

// RenderTile fills the tile with the ground color, sampled per tile
// rather than per pixel: one elevation probe at the tile centroid shades
// the whole tile. Implements SurfaceRenderable.
func (t *Terrain) RenderTile(dc *DrawContext) error {
	if dc == nil || dc.Tile == nil {
		return globe.ErrNilDrawContext
	}
	tc := dc.Tile
	c := t.Color
	if t.ShadePerKm > 0 {
		elev := dc.Globe.Elevation(tc.Sector.Centroid())
		c = shade(c, elev/1000*t.ShadePerKm)
	}
	w, h := float32(tc.Width), float32(tc.Height)
	tc.Device.FillTriangles(
		[]float32{0, 0, w, 0, w, h, 0, h},
		[]uint32{0, 1, 2, 0, 2, 3}, c)
	return nil
}

// EyeDistance implements OrderedRenderable.
func (t *Terrain) EyeDistance() float64 { return t.eyeDistance }

// Render is a no-op outside ordered rendering: tiles carry the terrain.
func (t *Terrain) Render(dc *DrawContext) error {
	if dc == nil {
		return globe.ErrNilDrawContext
	}
	if dc.OrderedRenderingMode && dc.Tile != nil {
		return t.RenderTile(dc)
	}
	return nil
}

// Pick registers a terrain hit at the pick point's unprojected position
// and fills the screen under the point, so a click on bare ground
// resolves to a position rather than nothing. Implements
// OrderedRenderable.
func (t *Terrain) Pick(dc *DrawContext, pt image.Point) {
	if dc == nil {
		return
	}
	if dc.PickSession == nil {
		dc.PickSession = pick.NewSession()
	}
	pos, ok := dc.Unproject(float32(pt.X), float32(pt.Y))
	if !ok {
		return
	}
	pos.Elevation = dc.Globe.Elevation(pos.LatLon)
	c := dc.PickSession.Register(t, pos, true)
	b := dc.Device.Bounds()
	x0, y0 := float32(b.Min.X), float32(b.Min.Y)
	x1, y1 := float32(b.Max.X), float32(b.Max.Y)
	dc.Device.FillTriangles(
		[]float32{x0, y0, x1, y0, x1, y1, x0, y1},
		[]uint32{0, 1, 2, 0, 2, 3}, c)
}

// shade darkens a color by a fraction in [0, 1).
func shade(c color.NRGBA, f float64) color.NRGBA {
	if f <= 0 {
		return c
	}
	if f > 0.9 {
		f = 0.9
	}
	k := 1 - f
	return color.NRGBA{
		R: uint8(float64(c.R) * k),
		G: uint8(float64(c.G) * k),
		B: uint8(float64(c.B) * k),
		A: c.A,
	}
}
