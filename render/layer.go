// Package render implements the per-frame rendering pipeline: the draw
// context with its ordered-renderable queues, the composite tile builder
// for surface objects, and batch pick resolution.
package render

// Layer groups renderables for picking purposes. Picking semantics are
// per layer: one pick result per layer per click even when many of the
// layer's objects are under the cursor, and batch picking only groups
// entries belonging to the same layer.
type Layer struct {
	Name     string
	Enabled  bool
	Pickable bool
}

// NewLayer creates an enabled, pickable layer.
func NewLayer(name string) *Layer {
	return &Layer{Name: name, Enabled: true, Pickable: true}
}
