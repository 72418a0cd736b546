package globe

import "errors"

// Sentinel errors shared across sub-packages. All are handled locally at
// the component that detects them; none cross the frame-render boundary.
var (
	// ErrNilDrawContext indicates a caller bug: a rendering entry point
	// was invoked without a draw context.
	ErrNilDrawContext = errors.New("globe: nil draw context")

	// ErrNilGeometry indicates a caller bug: required geometry was nil or
	// empty at a call boundary that demands it.
	ErrNilGeometry = errors.New("globe: nil or empty geometry")

	// ErrTessellation reports that a contour set could not be
	// triangulated. The owning shape clears its boundary data so the
	// failure is not retried every frame.
	ErrTessellation = errors.New("globe: tessellation failed")

	// ErrPoleAndDateline reports a contour that both encloses a pole and
	// crosses the antimeridian. The two clipping strategies are mutually
	// exclusive; such contours are rejected rather than silently
	// mis-rendered.
	ErrPoleAndDateline = errors.New("globe: contour encloses a pole and crosses the dateline")

	// ErrNotReady reports a resource that is not resident this frame.
	// Callers skip the dependent draw and retry next frame.
	ErrNotReady = errors.New("globe: resource not ready")

	// ErrLoadFailed reports a background load that failed permanently.
	// Dependent draws are skipped from then on.
	ErrLoadFailed = errors.New("globe: background load failed")
)
