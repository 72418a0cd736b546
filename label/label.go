// Package label renders decluttered geographic text. Labels carry a
// priority; when two labels' screen footprints collide, the higher
// priority one survives and the other is culled for the frame. Culling
// is greedy over priority order, so a frame never shows two overlapping
// labels.
package label

import (
	"image"
	"image/color"

	"github.com/gogpu/globe"
	"github.com/gogpu/globe/pick"
	"github.com/gogpu/globe/render"
)

// Kind is the ordered-queue kind shared by all labels.
const Kind = "text"

// GeographicText is a text string anchored to a position.
type GeographicText struct {
	globe.SurfaceObject

	// Position anchors the text on the globe.
	Position globe.Position
	// Text is the rendered string.
	Text string
	// Priority drives decluttering; higher survives a collision.
	Priority float64
	// Color is the text color. The zero value draws white.
	Color color.NRGBA

	eyeDistance float64
	culled      bool
}

// New creates a visible label at pos.
func New(pos globe.Position, text string) *GeographicText {
	return &GeographicText{
		SurfaceObject: globe.NewSurfaceObject(),
		Position:      pos,
		Text:          text,
		Color:         color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	}
}

// Enqueue adds the label to the frame's ordered queue. The renderer's
// Declutter pass then decides which labels actually draw.
func (t *GeographicText) Enqueue(dc *render.DrawContext) error {
	if dc == nil {
		return globe.ErrNilDrawContext
	}
	if !t.Visible() || t.Text == "" {
		return nil
	}
	pt := dc.Globe.PointFromPosition(t.Position)
	t.eyeDistance = pt.Sub(dc.EyePoint).Norm()
	t.culled = false
	dc.Ordered.Add(t, t.eyeDistance, render.AddOptions{
		Kind:     Kind,
		Layer:    dc.CurrentLayer,
		Batch:    t.BatchPicking(),
		Priority: t.Priority,
	})
	return nil
}

// EyeDistance implements render.OrderedRenderable.
func (t *GeographicText) EyeDistance() float64 { return t.eyeDistance }

// Render draws the label unless the frame's declutter pass culled it.
// Implements render.OrderedRenderable.
func (t *GeographicText) Render(dc *render.DrawContext) error {
	if dc == nil {
		return globe.ErrNilDrawContext
	}
	if t.culled {
		return nil
	}
	r, ok := t.screenBounds(dc)
	if !ok {
		return nil
	}
	img := rasterize(t.Text, t.Color)
	dc.Device.Blit(img, r)
	return nil
}

// Pick draws the label's footprint quad in a unique session color.
// Culled labels are not pickable. Implements render.OrderedRenderable.
func (t *GeographicText) Pick(dc *render.DrawContext, pt image.Point) {
	if dc == nil || t.culled {
		return
	}
	if dc.PickSession == nil {
		dc.PickSession = pick.NewSession()
	}
	r, ok := t.screenBounds(dc)
	if !ok {
		return
	}
	c := dc.PickSession.Register(t.PickOwner(t), t.Position, false)
	x0, y0 := float32(r.Min.X), float32(r.Min.Y)
	x1, y1 := float32(r.Max.X), float32(r.Max.Y)
	xy := []float32{x0, y0, x1, y0, x1, y1, x0, y1}
	dc.Device.FillTriangles(xy, []uint32{0, 1, 2, 0, 2, 3}, c)
}

// screenBounds projects the anchor and returns the text's screen
// footprint, anchored at its baseline start.
func (t *GeographicText) screenBounds(dc *render.DrawContext) (image.Rectangle, bool) {
	x, y, ok := dc.Project(t.Position)
	if !ok {
		return image.Rectangle{}, false
	}
	w, h := Measure(t.Text)
	return image.Rect(int(x), int(y)-h, int(x)+w, int(y)), true
}
