package globe

import (
	"image"
	"image/color"
)

// Device is the draw primitive the rendering pipeline targets. It is
// deliberately small: screen-space triangles, lines, image blits, a
// scissor rectangle, and single-pixel readback for pick resolution.
//
// The toolkit ships a software implementation (internal/fb) used for
// composite tile building and tests; hosts may supply a GPU-backed
// implementation.
//
// Vertex coordinates are pixels, origin top-left, packed as x0,y0,x1,y1...
type Device interface {
	// Bounds returns the target's pixel bounds.
	Bounds() image.Rectangle

	// Clear fills the entire target, ignoring the scissor.
	Clear(c color.NRGBA)

	// SetScissor restricts subsequent draws to r.
	SetScissor(r image.Rectangle)

	// ClearScissor removes the scissor restriction.
	ClearScissor()

	// FillTriangles fills indexed triangles, three indices per triangle,
	// with a single color.
	FillTriangles(xy []float32, indices []uint32, c color.NRGBA)

	// StrokeLines draws indexed line segments, two indices per segment.
	StrokeLines(xy []float32, indices []uint32, width float32, c color.NRGBA)

	// Blit draws src scaled into the destination rectangle.
	Blit(src image.Image, dst image.Rectangle)

	// ReadPixel returns the color at a pixel, or zero outside bounds.
	ReadPixel(x, y int) color.NRGBA

	// NewTarget creates an offscreen target of the same kind, used for
	// composite tile building.
	NewTarget(w, h int) Device
}
