// Package icon renders screen-facing imagery anchored to geographic
// positions. Icons do not drape onto the terrain; they are enqueued onto
// the frame's ordered queue and drawn back to front at a fixed pixel
// size regardless of eye distance.
package icon

import (
	"image"

	"github.com/gogpu/globe"
	"github.com/gogpu/globe/pick"
	"github.com/gogpu/globe/render"
	"github.com/gogpu/globe/texture"
)

// Kind is the ordered-queue kind shared by all icons. Icon pick batches
// are layer-scoped: a batch never crosses a layer boundary.
const Kind = "icon"

// DefaultSize is the on-screen icon edge length in pixels.
const DefaultSize = 32

// Icon is an image anchored to a position, drawn at a fixed screen size.
type Icon struct {
	globe.SurfaceObject

	// Position anchors the icon on the globe.
	Position globe.Position
	// Size is the on-screen edge length in pixels; 0 means DefaultSize.
	Size int

	tex *texture.Texture

	eyeDistance float64
}

// New creates a visible icon at pos backed by tex.
func New(pos globe.Position, tex *texture.Texture) *Icon {
	return &Icon{
		SurfaceObject: globe.NewSurfaceObject(),
		Position:      pos,
		tex:           tex,
	}
}

// SetTexture replaces the icon's image.
func (ic *Icon) SetTexture(tex *texture.Texture) {
	ic.tex = tex
	ic.MarkChanged()
}

// Enqueue adds the icon to the frame's ordered queue. Call once per
// frame from the scene traversal; the icon is then drawn back to front
// with its peers.
func (ic *Icon) Enqueue(dc *render.DrawContext) error {
	if dc == nil {
		return globe.ErrNilDrawContext
	}
	if !ic.Visible() {
		return nil
	}
	pt := dc.Globe.PointFromPosition(ic.Position)
	ic.eyeDistance = pt.Sub(dc.EyePoint).Norm()
	dc.Ordered.Add(ic, ic.eyeDistance, render.AddOptions{
		Kind:        Kind,
		Layer:       dc.CurrentLayer,
		Batch:       ic.BatchPicking(),
		LayerScoped: true,
	})
	return nil
}

// EyeDistance implements render.OrderedRenderable.
func (ic *Icon) EyeDistance() float64 { return ic.eyeDistance }

// Render blits the icon centered on its projected anchor. A texture that
// is not ready yet is skipped silently. Implements
// render.OrderedRenderable.
func (ic *Icon) Render(dc *render.DrawContext) error {
	if dc == nil {
		return globe.ErrNilDrawContext
	}
	if ic.tex == nil {
		return nil
	}
	img, ok := ic.tex.Bind()
	if !ok {
		return nil
	}
	r, ok := ic.screenRect(dc)
	if !ok {
		return nil
	}
	dc.Device.Blit(img, r)
	return nil
}

// Pick draws the icon's footprint quad in a unique session color.
// Implements render.OrderedRenderable.
func (ic *Icon) Pick(dc *render.DrawContext, pt image.Point) {
	if dc == nil {
		return
	}
	if dc.PickSession == nil {
		dc.PickSession = pick.NewSession()
	}
	r, ok := ic.screenRect(dc)
	if !ok {
		return
	}
	c := dc.PickSession.Register(ic.PickOwner(ic), ic.Position, false)
	x0, y0 := float32(r.Min.X), float32(r.Min.Y)
	x1, y1 := float32(r.Max.X), float32(r.Max.Y)
	xy := []float32{x0, y0, x1, y0, x1, y1, x0, y1}
	dc.Device.FillTriangles(xy, []uint32{0, 1, 2, 0, 2, 3}, c)
}

// screenRect returns the icon's screen footprint centered on the
// projected anchor.
func (ic *Icon) screenRect(dc *render.DrawContext) (image.Rectangle, bool) {
	x, y, ok := dc.Project(ic.Position)
	if !ok {
		return image.Rectangle{}, false
	}
	size := ic.Size
	if size <= 0 {
		size = DefaultSize
	}
	half := size / 2
	return image.Rect(int(x)-half, int(y)-half, int(x)-half+size, int(y)-half+size), true
}
