// Package shape provides surface shapes draped onto the globe's terrain:
// polygons with holes, ellipses, and sector-aligned images. Shapes
// participate in the composite-rendering protocol: they enqueue
// themselves during pre-render and are drawn into shared geographic tiles
// by the compositor.
package shape

import "image/color"

// Attributes controls how a shape's interior and outline are drawn.
// The zero value draws nothing; use DefaultAttributes for a visible
// starting point.
type Attributes struct {
	DrawInterior bool
	DrawOutline  bool

	InteriorColor color.NRGBA
	OutlineColor  color.NRGBA

	// OutlineWidth is the outline stroke width in pixels.
	OutlineWidth float32
}

// debugSectorColor is the stroke color for SetDebugSectors outlines.
var debugSectorColor = color.NRGBA{R: 0xFF, A: 0xFF}

// DefaultAttributes returns a filled light-gray interior with a white,
// one-pixel outline.
func DefaultAttributes() Attributes {
	return Attributes{
		DrawInterior:  true,
		DrawOutline:   true,
		InteriorColor: color.NRGBA{R: 0xBF, G: 0xBF, B: 0xBF, A: 0xFF},
		OutlineColor:  color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		OutlineWidth:  1,
	}
}
