package render

import (
	"image"

	"github.com/tidwall/btree"
)

// OrderedRenderable is an entity deferred to the frame's sorted queue for
// back-to-front rendering or front-to-back pick processing.
type OrderedRenderable interface {
	// EyeDistance returns the distance from the eye point, in meters,
	// used for queue ordering.
	EyeDistance() float64

	// Render draws the renderable for the current frame.
	Render(dc *DrawContext) error

	// Pick draws the renderable's pick representation in a color
	// allocated from the context's picking session.
	Pick(dc *DrawContext, pt image.Point)
}

// Item is one queue entry. The layer pointer and batching flags are
// captured at enqueue time so pick batching can group entries without
// consulting the renderable again.
type Item struct {
	// Dist is the eye distance used as the primary sort key.
	Dist float64
	// Priority breaks ties and drives label culling; higher wins.
	Priority float64
	// Kind groups entries for batch picking ("icon", "text", "surface").
	Kind string
	// Layer is the owning layer captured at enqueue time.
	Layer *Layer
	// Batch marks the entry eligible for batch picking.
	Batch bool
	// LayerScoped restricts batch picking to entries of the same layer.
	LayerScoped bool
	// R is the renderable itself.
	R OrderedRenderable

	seq uint64
}

// AddOptions carries the enqueue-time metadata for an ordered renderable.
type AddOptions struct {
	Kind        string
	Layer       *Layer
	Batch       bool
	LayerScoped bool
	Priority    float64
}

// OrderedQueue is the frame-scoped, eye-distance-ordered renderable queue.
// It is rebuilt every frame and holds frame-lifetime references only; it
// must never be the sole owner of a renderable.
//
// Not safe for concurrent use; the frame's single rendering goroutine
// owns it.
type OrderedQueue struct {
	tr  *btree.BTreeG[Item]
	seq uint64
}

func lessItem(a, b Item) bool {
	if a.Dist != b.Dist {
		return a.Dist < b.Dist
	}
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.seq < b.seq
}

var queueOpts = btree.Options{NoLocks: true}

// NewOrderedQueue creates an empty queue.
func NewOrderedQueue() *OrderedQueue {
	return &OrderedQueue{tr: btree.NewBTreeGOptions(lessItem, queueOpts)}
}

// Add enqueues a renderable at the given eye distance.
func (q *OrderedQueue) Add(r OrderedRenderable, dist float64, opt AddOptions) {
	q.seq++
	q.tr.Set(Item{
		Dist:        dist,
		Priority:    opt.Priority,
		Kind:        opt.Kind,
		Layer:       opt.Layer,
		Batch:       opt.Batch,
		LayerScoped: opt.LayerScoped,
		R:           r,
		seq:         q.seq,
	})
}

// Len returns the number of queued entries.
func (q *OrderedQueue) Len() int { return q.tr.Len() }

// PopNearest removes and returns the entry nearest the eye.
func (q *OrderedQueue) PopNearest() (Item, bool) {
	return q.tr.PopMin()
}

// PeekNearest returns the entry nearest the eye without removing it.
func (q *OrderedQueue) PeekNearest() (Item, bool) {
	return q.tr.Min()
}

// BackToFront visits entries from farthest to nearest, the painting
// order. Return false from fn to stop early.
func (q *OrderedQueue) BackToFront(fn func(Item) bool) {
	q.tr.Reverse(fn)
}

// FrontToBack visits entries from nearest to farthest. Return false from
// fn to stop early.
func (q *OrderedQueue) FrontToBack(fn func(Item) bool) {
	q.tr.Scan(fn)
}

// Clear discards all entries. Called at the start of each frame.
func (q *OrderedQueue) Clear() {
	q.tr = btree.NewBTreeGOptions(lessItem, queueOpts)
}
