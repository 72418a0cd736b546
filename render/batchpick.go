package render

import (
	"image"
	"log/slog"

	"github.com/gogpu/globe"
	"github.com/gogpu/globe/pick"
)

// BatchPickResolver resolves a pick point against the frame's ordered
// renderable queue. Each candidate is drawn in a unique allocated color;
// adjacent queue entries of the same kind (and layer, when the kind is
// layer-scoped) are consumed within one picking session, amortizing the
// session's fixed setup cost across many objects. Draws happen
// back-to-front, so a single framebuffer sample maps the click to the
// pickable object nearest the eye.
type BatchPickResolver struct{}

// Resolve drains the ordered queue in front-to-back batches, draws every
// entry's pick representation back-to-front, and samples the pick point.
// Returns nil and no error when nothing pickable is under the point.
//
// The queue is left empty; callers re-populate it next frame.
func (BatchPickResolver) Resolve(dc *DrawContext, pt image.Point) (*pick.Object, error) {
	if dc == nil {
		return nil, globe.ErrNilDrawContext
	}

	dc.PickingMode = true
	dc.PickSession = pick.NewSession()
	defer func() {
		dc.PickingMode = false
	}()

	var entries []Item
	for dc.Ordered.Len() > 0 {
		entries = append(entries, popBatch(dc)...)
	}
	// The sample reads whatever was drawn last, so the farthest entry is
	// drawn first and the nearest overwrites it at the pick point.
	for i := len(entries) - 1; i >= 0; i-- {
		entries[i].R.Pick(dc, pt)
	}
	globe.Logger().Debug("pick batch resolved",
		slog.Int("drawn", len(entries)),
		slog.Int("registered", dc.PickSession.Count()))

	c := dc.Device.ReadPixel(pt.X, pt.Y)
	o, ok := dc.PickSession.Resolve(c)
	if !ok {
		return nil, nil
	}
	return o, nil
}

// DrainBatch pops one batch off the queue head and draws its pick
// representations back-to-front. Returns the number of entries drawn.
func DrainBatch(dc *DrawContext, pt image.Point) int {
	batch := popBatch(dc)
	for i := len(batch) - 1; i >= 0; i-- {
		batch[i].R.Pick(dc, pt)
	}
	return len(batch)
}

// popBatch removes the queue head and, if the head allows batch picking,
// keeps popping while the next entry is of the same kind, also
// batch-eligible, and (for layer-scoped kinds) on the same layer.
//
// The batch stops at the first incompatible entry: only the maximal
// contiguous compatible prefix is consumed.
func popBatch(dc *DrawContext) []Item {
	head, ok := dc.Ordered.PopNearest()
	if !ok {
		return nil
	}
	batch := []Item{head}
	if !head.Batch {
		return batch
	}
	for {
		next, ok := dc.Ordered.PeekNearest()
		if !ok || next.Kind != head.Kind || !next.Batch {
			return batch
		}
		if head.LayerScoped && next.Layer != head.Layer {
			return batch
		}
		next, _ = dc.Ordered.PopNearest()
		batch = append(batch, next)
	}
}
