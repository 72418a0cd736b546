package shape

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/globe"
	"github.com/gogpu/globe/internal/fb"
	"github.com/gogpu/globe/render"
	"github.com/gogpu/globe/texture"
)

func solidTexture(c color.NRGBA) *texture.Texture {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return texture.NewFromImage(img)
}

func TestSurfaceImageRenderTile(t *testing.T) {
	blue := color.NRGBA{B: 0xFF, A: 0xFF}
	sector := globe.Sector{MinLat: 0, MaxLat: 40, MinLon: 0, MaxLon: 80}
	s := NewSurfaceImage(sector, solidTexture(blue))

	dc := frameContext()
	dc.Tile = &render.TileContext{
		Sector: sector,
		Width:  128, Height: 128,
		Device: fb.New(128, 128),
	}
	if err := s.RenderTile(dc); err != nil {
		t.Fatalf("RenderTile: %v", err)
	}
	if got := dc.Tile.Device.ReadPixel(64, 64); got != blue {
		t.Errorf("tile center = %+v, want %+v", got, blue)
	}
}

func TestSurfaceImagePartialOverlap(t *testing.T) {
	blue := color.NRGBA{B: 0xFF, A: 0xFF}
	// Image covers only the eastern half of the tile.
	s := NewSurfaceImage(globe.Sector{MinLat: 0, MaxLat: 40, MinLon: 40, MaxLon: 80}, solidTexture(blue))

	dc := frameContext()
	dc.Tile = &render.TileContext{
		Sector: globe.Sector{MinLat: 0, MaxLat: 40, MinLon: 0, MaxLon: 80},
		Width:  128, Height: 128,
		Device: fb.New(128, 128),
	}
	if err := s.RenderTile(dc); err != nil {
		t.Fatalf("RenderTile: %v", err)
	}
	if got := dc.Tile.Device.ReadPixel(96, 64); got != blue {
		t.Errorf("covered pixel = %+v, want %+v", got, blue)
	}
	if got := dc.Tile.Device.ReadPixel(32, 64); got != (color.NRGBA{}) {
		t.Errorf("uncovered pixel = %+v, want untouched", got)
	}
}

func TestSurfaceImageUnloadedSkipped(t *testing.T) {
	// A texture that never loads contributes nothing and reports no
	// error.
	tex := texture.New(texture.FileSource("/nonexistent.png"))
	s := NewSurfaceImage(globe.Sector{MinLat: 0, MaxLat: 40, MinLon: 0, MaxLon: 80}, tex)

	dc := frameContext()
	dc.Tile = &render.TileContext{
		Sector: globe.Sector{MinLat: 0, MaxLat: 40, MinLon: 0, MaxLon: 80},
		Width:  64, Height: 64,
		Device: fb.New(64, 64),
	}
	if err := s.RenderTile(dc); err != nil {
		t.Fatalf("RenderTile: %v", err)
	}
	if got := dc.Tile.Device.ReadPixel(32, 32); got != (color.NRGBA{}) {
		t.Errorf("pixel = %+v, want untouched while unloaded", got)
	}
}

func TestSurfaceImagePreRender(t *testing.T) {
	dc := frameContext()
	s := NewSurfaceImage(globe.Sector{MinLat: 0, MaxLat: 40, MinLon: 0, MaxLon: 80}, nil)
	if err := s.PreRender(dc); err != nil {
		t.Fatalf("PreRender: %v", err)
	}
	if dc.Surface.Len() != 1 {
		t.Errorf("surface queue len = %d, want 1", dc.Surface.Len())
	}
}
