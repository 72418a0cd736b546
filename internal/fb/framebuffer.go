// Package fb is a software framebuffer implementing globe.Device. It is
// the reference draw target: composite tiles are rasterized into it and
// the pick protocol samples it. It favors correctness over speed.
package fb

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/chewxy/math32"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/globe"
)

// Framebuffer is an in-memory RGBA render target.
type Framebuffer struct {
	img     *image.NRGBA
	scissor image.Rectangle
}

// New creates a framebuffer of the given pixel size.
func New(w, h int) *Framebuffer {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	r := image.Rect(0, 0, w, h)
	return &Framebuffer{img: image.NewNRGBA(r), scissor: r}
}

// Image returns the backing image. The framebuffer retains ownership;
// callers must not hold the image across a Clear.
func (f *Framebuffer) Image() *image.NRGBA { return f.img }

// Bounds returns the pixel bounds.
func (f *Framebuffer) Bounds() image.Rectangle { return f.img.Bounds() }

// NewTarget creates another software framebuffer.
func (f *Framebuffer) NewTarget(w, h int) globe.Device { return New(w, h) }

// Clear fills the whole target, ignoring the scissor.
func (f *Framebuffer) Clear(c color.NRGBA) {
	draw.Draw(f.img, f.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// SetScissor restricts subsequent draws to r.
func (f *Framebuffer) SetScissor(r image.Rectangle) {
	f.scissor = r.Intersect(f.img.Bounds())
}

// ClearScissor removes the scissor restriction.
func (f *Framebuffer) ClearScissor() { f.scissor = f.img.Bounds() }

// ReadPixel returns the color at (x, y), or the zero color outside bounds.
func (f *Framebuffer) ReadPixel(x, y int) color.NRGBA {
	if !image.Pt(x, y).In(f.img.Bounds()) {
		return color.NRGBA{}
	}
	return f.img.NRGBAAt(x, y)
}

// Blit draws src scaled into dst with source-over blending. When dst is
// clipped by the scissor or the target edge, the source is cropped
// proportionally so the visible part keeps its scale.
func (f *Framebuffer) Blit(src image.Image, dst image.Rectangle) {
	clipped := dst.Intersect(f.scissor)
	if clipped.Empty() {
		return
	}
	sb := src.Bounds()
	if clipped != dst {
		sb = image.Rect(
			sb.Min.X+(clipped.Min.X-dst.Min.X)*sb.Dx()/dst.Dx(),
			sb.Min.Y+(clipped.Min.Y-dst.Min.Y)*sb.Dy()/dst.Dy(),
			sb.Min.X+(clipped.Max.X-dst.Min.X)*sb.Dx()/dst.Dx(),
			sb.Min.Y+(clipped.Max.Y-dst.Min.Y)*sb.Dy()/dst.Dy(),
		)
	}
	xdraw.ApproxBiLinear.Scale(f.img, clipped, src, sb, xdraw.Over, nil)
}

// FillTriangles fills indexed triangles with a single color. Pixels are
// covered when their center lies inside the triangle; either winding is
// accepted.
func (f *Framebuffer) FillTriangles(xy []float32, indices []uint32, c color.NRGBA) {
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, d := indices[i], indices[i+1], indices[i+2]
		f.fillTriangle(
			xy[2*a], xy[2*a+1],
			xy[2*b], xy[2*b+1],
			xy[2*d], xy[2*d+1],
			c,
		)
	}
}

func (f *Framebuffer) fillTriangle(x0, y0, x1, y1, x2, y2 float32, c color.NRGBA) {
	// Signed doubled area; flip to a consistent winding.
	area := (x1-x0)*(y2-y0) - (y1-y0)*(x2-x0)
	if area == 0 {
		return
	}
	if area < 0 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}

	minX := int(math32.Floor(math32.Min(x0, math32.Min(x1, x2))))
	maxX := int(math32.Ceil(math32.Max(x0, math32.Max(x1, x2))))
	minY := int(math32.Floor(math32.Min(y0, math32.Min(y1, y2))))
	maxY := int(math32.Ceil(math32.Max(y0, math32.Max(y1, y2))))

	clip := f.scissor
	minX = max(minX, clip.Min.X)
	minY = max(minY, clip.Min.Y)
	maxX = min(maxX, clip.Max.X-1)
	maxY = min(maxY, clip.Max.Y-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			py := float32(y) + 0.5
			w0 := (x1-x0)*(py-y0) - (y1-y0)*(px-x0)
			w1 := (x2-x1)*(py-y1) - (y2-y1)*(px-x1)
			w2 := (x0-x2)*(py-y2) - (y0-y2)*(px-x2)
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				f.setPixel(x, y, c)
			}
		}
	}
}

// StrokeLines draws indexed line segments. Widths above one pixel are
// drawn as square stamps along the segment.
func (f *Framebuffer) StrokeLines(xy []float32, indices []uint32, width float32, c color.NRGBA) {
	if width < 1 {
		width = 1
	}
	for i := 0; i+1 < len(indices); i += 2 {
		a, b := indices[i], indices[i+1]
		f.strokeLine(xy[2*a], xy[2*a+1], xy[2*b], xy[2*b+1], width, c)
	}
}

func (f *Framebuffer) strokeLine(x0, y0, x1, y1, width float32, c color.NRGBA) {
	dx := x1 - x0
	dy := y1 - y0
	length := math32.Hypot(dx, dy)
	steps := int(math32.Ceil(length)) + 1
	r := int(width / 2)
	for i := 0; i < steps; i++ {
		t := float32(i) / float32(max(steps-1, 1))
		x := int(x0 + dx*t)
		y := int(y0 + dy*t)
		if r == 0 {
			f.setPixelClipped(x, y, c)
			continue
		}
		for sy := -r; sy <= r; sy++ {
			for sx := -r; sx <= r; sx++ {
				f.setPixelClipped(x+sx, y+sy, c)
			}
		}
	}
}

func (f *Framebuffer) setPixelClipped(x, y int, c color.NRGBA) {
	if image.Pt(x, y).In(f.scissor) {
		f.setPixel(x, y, c)
	}
}

// setPixel writes a pixel, source-over blending when the color is not
// fully opaque. Pick drawing always uses opaque colors, so readback sees
// exact color codes.
func (f *Framebuffer) setPixel(x, y int, c color.NRGBA) {
	if c.A == 0xFF {
		f.img.SetNRGBA(x, y, c)
		return
	}
	dst := f.img.NRGBAAt(x, y)
	a := uint32(c.A)
	ia := 255 - a
	f.img.SetNRGBA(x, y, color.NRGBA{
		R: uint8((uint32(c.R)*a + uint32(dst.R)*ia) / 255),
		G: uint8((uint32(c.G)*a + uint32(dst.G)*ia) / 255),
		B: uint8((uint32(c.B)*a + uint32(dst.B)*ia) / 255),
		A: uint8(a + uint32(dst.A)*ia/255),
	})
}
