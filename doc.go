// Package globe provides a geospatial surface-rendering toolkit for Go.
//
// # Overview
//
// globe renders vector shapes (polygons, ellipses, images), icons, and text
// labels draped onto the terrain of a curved globe. Shapes are batched into
// shared offscreen geographic tiles instead of each doing its own
// render-to-texture pass, and hit-testing is resolved in batches through
// unique-color picking rather than one framebuffer readback per object.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/globe"
//	    "github.com/gogpu/globe/render"
//	    "github.com/gogpu/globe/shape"
//	)
//
//	g := globe.NewSphere(globe.EarthRadius)
//	dc := render.NewDrawContext(g, device)
//
//	poly := shape.NewSurfacePolygon([]globe.LatLon{
//	    globe.LL(0, 0), globe.LL(0, 10), globe.LL(10, 10), globe.LL(10, 0),
//	})
//
//	// Per frame: pre-render, composite, draw.
//	poly.PreRender(dc)
//	compositor.Composite(dc)
//
// # Architecture
//
// The library is organized into:
//   - Root package: geographic primitives (LatLon, Sector, Globe) and the
//     SurfaceObject identity/caching protocol
//   - geom: contour closing, great-circle subdivision, pole and dateline
//     clipping
//   - tess: polygon-with-holes triangulation into render-ready meshes
//   - render: the draw context, ordered-renderable queues, tile compositor,
//     and batch pick resolution
//   - shape, label, icon: concrete surface renderables
//   - texture: asynchronous image loading
//
// # Coordinate System
//
// Latitudes and longitudes are in degrees, latitude positive north and
// longitude positive east, normalized to [-90, 90] and [-180, 180].
// Contours that cross the antimeridian are unwrapped into a contiguous
// longitude range before tessellation; see the geom package.
//
// # Concurrency
//
// All per-frame state (queues, draw context, caches reached through it) is
// confined to a single rendering goroutine. Only texture loading runs in the
// background; the render thread polls readiness without blocking.
package globe

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"
)
