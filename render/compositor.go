package render

import (
	"image"
	"image/color"
	"log/slog"
	"math"
	"slices"

	"github.com/tidwall/rtree"

	"github.com/gogpu/globe"
	"github.com/gogpu/globe/cache"
)

// Compositor defaults.
const (
	// DefaultTileDim is the pixel edge length of a composite tile.
	DefaultTileDim = 256
	// DefaultTileCacheSize is the number of composite tiles retained
	// across frames.
	DefaultTileCacheSize = 64
	// maxTilesAcross bounds the frame's tile grid in each dimension.
	maxTilesAcross = 8
)

// TileCompositor implements the second phase of composite rendering: it
// drains the frame's surface queue, builds the shared geographic tiles by
// invoking each queued object's draw routine in ordered rendering mode,
// and composites finished tiles onto the terrain.
//
// Tiles are cached across frames; a tile is rebuilt only when the set of
// objects overlapping it, or any of their state keys, changes.
type TileCompositor struct {
	// TileDim is the pixel edge length of each tile.
	TileDim int

	tiles *cache.LRU[string, *Tile]
}

// NewTileCompositor creates a compositor with the default tile size and
// cache bound.
func NewTileCompositor() *TileCompositor {
	return &TileCompositor{
		TileDim: DefaultTileDim,
		tiles:   cache.NewLRU[string, *Tile](DefaultTileCacheSize),
	}
}

// TileCacheLen returns the number of cached composite tiles.
func (tc *TileCompositor) TileCacheLen() int { return tc.tiles.Len() }

// Composite drains the draw context's surface queue into shared tiles and
// draws the tiles onto the screen. The queue is left empty.
//
// A nil draw context is a caller bug and fails immediately. Failures of
// individual objects are logged and skipped; one malfunctioning shape
// must not abort the rest of the scene.
func (tc *TileCompositor) Composite(dc *DrawContext) error {
	if dc == nil {
		return globe.ErrNilDrawContext
	}
	entries := dc.Surface.entries
	defer dc.Surface.Clear()
	if len(entries) == 0 {
		return nil
	}

	// Spatially index the queue so each tile only visits overlapping
	// objects. Values are queue positions so painting order survives.
	var index rtree.RTreeGN[float64, int]
	for i, e := range entries {
		for _, s := range e.object.Sectors(dc.Globe) {
			index.Insert(
				[2]float64{s.MinLon, s.MinLat},
				[2]float64{s.MaxLon, s.MaxLat},
				i,
			)
		}
	}

	dim := tc.TileDim
	if dim <= 0 {
		dim = DefaultTileDim
	}
	gk := dc.Globe.StateKey()
	maxEdgeQ := QuantizeMaxEdge(dc.DegreesPerPixel() * float64(dim))

	for _, ts := range tc.tileSectors(dc) {
		overlapping := overlappingEntries(&index, entries, ts)
		if len(overlapping) == 0 {
			continue
		}

		level := tc.gridLevel(dc)
		key := tileKey(ts, level)
		hash := contentHash(overlapping, ts, gk, maxEdgeQ)

		tile, ok := tc.tiles.Get(key)
		if !ok || tile.contentHash != hash {
			tile = tc.buildTile(dc, ts, level, overlapping, hash, dim)
			tc.tiles.Put(key, tile)
		}
		tc.drawTile(dc, tile)
	}
	return nil
}

// buildTile renders every overlapping queue entry into a fresh offscreen
// tile, attaching a tile context and raising ordered rendering mode for
// the duration.
func (tc *TileCompositor) buildTile(dc *DrawContext, ts globe.Sector, level int, overlapping []surfaceEntry, hash uint64, dim int) *Tile {
	tile := &Tile{
		Sector:      ts,
		Level:       level,
		Device:      dc.Device.NewTarget(dim, dim),
		contentHash: hash,
	}
	tile.Device.Clear(color.NRGBA{})

	prevTile := dc.Tile
	prevMode := dc.OrderedRenderingMode
	dc.Tile = &TileContext{Sector: ts, Width: dim, Height: dim, Device: tile.Device}
	dc.OrderedRenderingMode = true
	defer func() {
		dc.Tile = prevTile
		dc.OrderedRenderingMode = prevMode
	}()

	for _, e := range overlapping {
		prevLayer := dc.CurrentLayer
		dc.CurrentLayer = e.layer
		if err := e.object.RenderTile(dc); err != nil {
			globe.Logger().Warn("surface object skipped during tile build",
				slog.Uint64("id", e.object.StateKey().ID),
				slog.Any("err", err))
		}
		dc.CurrentLayer = prevLayer
	}
	globe.Logger().Debug("composite tile built",
		slog.String("key", tileKey(ts, level)),
		slog.Int("objects", len(overlapping)))
	return tile
}

// drawTile composites a finished tile onto the screen.
func (tc *TileCompositor) drawTile(dc *DrawContext, tile *Tile) {
	rect, ok := dc.screenRect(tile.Sector)
	if !ok {
		return
	}
	src, ok := tile.Device.(interface{ Image() *image.NRGBA })
	if !ok {
		globe.Logger().Warn("tile device exposes no image; tile skipped")
		return
	}
	dc.Device.Blit(src.Image(), rect)
}

// gridLevel identifies the frame's tile subdivision so that tiles of
// different zooms do not collide in the cache.
func (tc *TileCompositor) gridLevel(dc *DrawContext) int {
	cols, rows := tc.gridSize(dc)
	return cols*100 + rows
}

// gridSize chooses how many tiles span the visible sector, matching the
// tile pixel density to the screen.
func (tc *TileCompositor) gridSize(dc *DrawContext) (cols, rows int) {
	b := dc.Device.Bounds()
	dim := tc.TileDim
	if dim <= 0 {
		dim = DefaultTileDim
	}
	cols = int(math.Ceil(float64(b.Dx()) / float64(dim)))
	rows = int(math.Ceil(float64(b.Dy()) / float64(dim)))
	cols = clampInt(cols, 1, maxTilesAcross)
	rows = clampInt(rows, 1, maxTilesAcross)
	return cols, rows
}

// tileSectors splits the visible sector into the frame's tile grid.
func (tc *TileCompositor) tileSectors(dc *DrawContext) []globe.Sector {
	cols, rows := tc.gridSize(dc)
	vs := dc.VisibleSector
	dLon := vs.DeltaLon() / float64(cols)
	dLat := vs.DeltaLat() / float64(rows)
	out := make([]globe.Sector, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out = append(out, globe.Sector{
				MinLat: vs.MinLat + float64(r)*dLat,
				MaxLat: vs.MinLat + float64(r+1)*dLat,
				MinLon: vs.MinLon + float64(c)*dLon,
				MaxLon: vs.MinLon + float64(c+1)*dLon,
			})
		}
	}
	return out
}

// overlappingEntries returns the queue entries whose sectors intersect
// ts, in original queue order.
func overlappingEntries(index *rtree.RTreeGN[float64, int], entries []surfaceEntry, ts globe.Sector) []surfaceEntry {
	seen := make(map[int]bool)
	var idxs []int
	index.Search(
		[2]float64{ts.MinLon, ts.MinLat},
		[2]float64{ts.MaxLon, ts.MaxLat},
		func(_, _ [2]float64, i int) bool {
			if !seen[i] {
				seen[i] = true
				idxs = append(idxs, i)
			}
			return true
		},
	)
	// Queue order, not index order.
	slices.Sort(idxs)
	out := make([]surfaceEntry, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, entries[i])
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
