package globe

import (
	"sync/atomic"
	"time"

	"github.com/golang/geo/r3"
)

// nextUniqueID allocates process-wide surface object ids. Lock-free so
// objects may be constructed from any goroutine.
var nextUniqueID atomic.Uint64

// NextUniqueID returns a process-wide unique, strictly increasing id.
func NextUniqueID() uint64 {
	return nextUniqueID.Add(1)
}

// SurfaceStateKey is a cache-coherence token identifying one version of a
// surface object. Downstream tile caches compare state keys to decide when
// a rendered representation is stale. It is a value type and intentionally
// holds no reference to the object, so caches keyed by it cannot keep the
// object alive.
type SurfaceStateKey struct {
	ID       uint64
	Modified int64
}

// SurfaceObject carries the identity, visibility, and cache-coherence
// state shared by every draped shape. Concrete shapes embed it and call
// MarkChanged whenever a mutation changes their visual output.
//
// The extent cache is keyed by globe state key because the same shape can
// be rendered against multiple globes per frame; an extent is stable for a
// given globe until either the globe or the shape changes.
type SurfaceObject struct {
	id           uint64
	visible      bool
	lastModified int64
	delegate     any
	batchPicking bool
	debugSectors bool

	extents map[StateKey]Extent
}

// NewSurfaceObject initializes a surface object with a fresh unique id.
// The object starts visible and batch-picking eligible.
func NewSurfaceObject() SurfaceObject {
	return SurfaceObject{
		id:           NextUniqueID(),
		visible:      true,
		lastModified: time.Now().UnixNano(),
		batchPicking: true,
	}
}

// UniqueID returns the object's process-wide unique id.
func (o *SurfaceObject) UniqueID() uint64 { return o.id }

// Visible reports whether the object participates in rendering.
func (o *SurfaceObject) Visible() bool { return o.visible }

// SetVisible sets the visibility flag. Toggling visibility changes the
// frame's output, so it counts as a modification.
func (o *SurfaceObject) SetVisible(v bool) {
	if o.visible == v {
		return
	}
	o.visible = v
	o.MarkChanged()
}

// Delegate returns the delegate owner reported on pick, or nil.
func (o *SurfaceObject) Delegate() any { return o.delegate }

// SetDelegate sets an opaque handle returned in place of the object itself
// when the object is picked.
func (o *SurfaceObject) SetDelegate(d any) { o.delegate = d }

// PickOwner returns the delegate owner if one is set, otherwise owner
// itself. Shapes pass themselves as owner when registering pick colors.
func (o *SurfaceObject) PickOwner(owner any) any {
	if o.delegate != nil {
		return o.delegate
	}
	return owner
}

// BatchPicking reports whether the object may be consumed as part of a
// pick batch together with adjacent queue entries.
func (o *SurfaceObject) BatchPicking() bool { return o.batchPicking }

// SetBatchPicking sets the batch-picking eligibility flag.
func (o *SurfaceObject) SetBatchPicking(b bool) { o.batchPicking = b }

// DebugSectors reports whether bounding sectors are drawn for diagnosis.
func (o *SurfaceObject) DebugSectors() bool { return o.debugSectors }

// SetDebugSectors enables drawing the object's bounding sectors.
func (o *SurfaceObject) SetDebugSectors(d bool) {
	if o.debugSectors == d {
		return
	}
	o.debugSectors = d
	o.MarkChanged()
}

// LastModified returns the nanosecond timestamp of the last mutation.
func (o *SurfaceObject) LastModified() int64 { return o.lastModified }

// StateKey returns the object's current state key.
func (o *SurfaceObject) StateKey() SurfaceStateKey {
	return SurfaceStateKey{ID: o.id, Modified: o.lastModified}
}

// MarkChanged records a mutation that changes the object's visual output.
// It advances the modification timestamp, guaranteeing a new state key
// even for mutations within the clock's resolution, and drops all cached
// extents.
func (o *SurfaceObject) MarkChanged() {
	t := time.Now().UnixNano()
	if t <= o.lastModified {
		t = o.lastModified + 1
	}
	o.lastModified = t
	o.extents = nil
}

// ExtentFor returns a bounding extent for the given sectors on the globe,
// cached per globe state key. The cache is dropped by MarkChanged and
// repopulated on next use.
func (o *SurfaceObject) ExtentFor(g Globe, sectors []Sector) Extent {
	key := g.StateKey()
	if e, ok := o.extents[key]; ok {
		return e
	}
	e := combineExtents(g, sectors)
	if o.extents == nil {
		o.extents = make(map[StateKey]Extent)
	}
	o.extents[key] = e
	return e
}

// combineExtents merges the per-sector bounding spheres into one sphere
// that contains them all.
func combineExtents(g Globe, sectors []Sector) Extent {
	if len(sectors) == 0 {
		return Extent{}
	}
	e := g.SectorExtent(sectors[0])
	for _, s := range sectors[1:] {
		e = mergeSpheres(e, g.SectorExtent(s))
	}
	return e
}

func mergeSpheres(a, b Extent) Extent {
	d := b.Center.Sub(a.Center)
	dist := d.Norm()
	if dist+b.Radius <= a.Radius {
		return a
	}
	if dist+a.Radius <= b.Radius {
		return b
	}
	r := (dist + a.Radius + b.Radius) / 2
	var center r3.Vector
	if dist > 0 {
		center = a.Center.Add(d.Mul((r - a.Radius) / dist))
	} else {
		center = a.Center
	}
	return Extent{Center: center, Radius: r}
}
