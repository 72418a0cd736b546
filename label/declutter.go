package label

import (
	"image"
	"image/color"
	"log/slog"
	"sort"

	"github.com/tidwall/rtree"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/globe"
	"github.com/gogpu/globe/render"
)

// declutterPadding expands each accepted label's footprint before
// collision testing, keeping surviving labels visually separated.
const declutterPadding = 2

// face is the label typeface.
var face font.Face = basicfont.Face7x13

// Measure returns the pixel width and height of text in the label
// typeface.
func Measure(text string) (w, h int) {
	w = font.MeasureString(face, text).Ceil()
	m := face.Metrics()
	h = (m.Ascent + m.Descent).Ceil()
	return w, h
}

// rasterize draws text into a fresh transparent image sized to fit.
func rasterize(text string, c color.NRGBA) *image.NRGBA {
	w, h := Measure(text)
	if w < 1 {
		w = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
	return img
}

// Declutter resolves label collisions for the frame. Labels are visited
// in priority order, highest first, with eye distance breaking ties in
// favor of the nearer label; each label whose padded screen footprint
// overlaps an already accepted one is culled. Returns the number of
// labels culled.
//
// Call after all labels have been enqueued and before the ordered
// queue's back-to-front draw.
func Declutter(dc *render.DrawContext, labels []*GeographicText) int {
	if dc == nil || len(labels) == 0 {
		return 0
	}
	order := make([]*GeographicText, len(labels))
	copy(order, labels)
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Priority != order[j].Priority {
			return order[i].Priority > order[j].Priority
		}
		return order[i].eyeDistance < order[j].eyeDistance
	})

	var accepted rtree.RTreeGN[float32, int]
	culled := 0
	for _, t := range order {
		if !t.Visible() || t.Text == "" {
			continue
		}
		r, ok := t.screenBounds(dc)
		if !ok {
			t.culled = true
			culled++
			continue
		}
		r = r.Inset(-declutterPadding)
		min := [2]float32{float32(r.Min.X), float32(r.Min.Y)}
		max := [2]float32{float32(r.Max.X), float32(r.Max.Y)}

		hit := false
		accepted.Search(min, max, func(_, _ [2]float32, _ int) bool {
			hit = true
			return false
		})
		if hit {
			t.culled = true
			culled++
			continue
		}
		t.culled = false
		accepted.Insert(min, max, 0)
	}
	if culled > 0 {
		globe.Logger().Debug("labels decluttered",
			slog.Int("culled", culled),
			slog.Int("total", len(order)))
	}
	return culled
}
