package render

import (
	"encoding/binary"
	"hash/fnv"
	"strconv"

	"github.com/mmcloughlin/geohash"

	"github.com/gogpu/globe"
)

// Tile is one shared offscreen geographic tile. Many surface objects draw
// into the same tile; the tile is then composited onto the terrain.
type Tile struct {
	// Sector is the tile's geographic coverage.
	Sector globe.Sector
	// Level is the tile's subdivision level within the frame's grid.
	Level int
	// Device is the tile's offscreen draw target.
	Device globe.Device

	// contentHash fingerprints the state keys of every object drawn into
	// the tile, plus the resolution and globe state. A tile is rebuilt
	// when its hash no longer matches the queue's contents.
	contentHash uint64
}

// tileKey returns a stable cache key for a tile sector: the geohash of
// the sector centroid plus the subdivision level. Centroids of unwrapped
// hemisphere-copy tiles are normalized back into range first.
func tileKey(s globe.Sector, level int) string {
	c := s.Centroid()
	h := geohash.EncodeWithPrecision(globe.NormalizeLat(c.Lat), globe.NormalizeLon(c.Lon), 12)
	return h + "/" + strconv.Itoa(level)
}

// contentHash fingerprints the tile's would-be contents so unchanged
// tiles are reused across frames. Surface object state keys act as the
// cache-coherence tokens: any object mutation changes its key and forces
// a rebuild.
func contentHash(entries []surfaceEntry, s globe.Sector, gk globe.StateKey, maxEdgeQ int64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	writeF64 := func(v float64) {
		writeU64(uint64(int64(v * 1e6)))
	}
	for _, e := range entries {
		k := e.object.StateKey()
		writeU64(k.ID)
		writeU64(uint64(k.Modified))
	}
	writeF64(s.MinLat)
	writeF64(s.MaxLat)
	writeF64(s.MinLon)
	writeF64(s.MaxLon)
	h.Write([]byte(gk.Name))
	writeU64(gk.Version)
	writeU64(uint64(maxEdgeQ))
	return h.Sum64()
}
