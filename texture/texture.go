// Package texture provides asynchronously loaded images for draping onto
// the globe. A Texture is created in the unloaded state and submitted to
// a Loader; rendering code calls Bind every frame and draws nothing until
// the pixels are ready. Decoding and scaling happen on the loader's
// worker goroutines, never on the rendering goroutine.
package texture

import (
	"image"
	"sync/atomic"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Load states.
const (
	// Unloaded means loading has not been requested or has not started.
	Unloaded = int32(iota)
	// Loading means a worker is decoding the source.
	Loading
	// Ready means pixels are available through Bind.
	Ready
	// Failed means decoding failed permanently; the texture never
	// retries.
	Failed
)

// Texture is an image in some stage of loading. Status transitions and
// the pixel pointer are atomic, so rendering may poll Bind while a
// worker finishes the load.
type Texture struct {
	source Source
	status atomic.Int32
	img    atomic.Pointer[image.NRGBA]

	// MaxDim, when positive, downscales the decoded image so its larger
	// dimension does not exceed it.
	MaxDim int
}

// New creates an unloaded texture backed by a source. Submit it to a
// Loader to start decoding.
func New(src Source) *Texture {
	return &Texture{source: src}
}

// NewFromImage creates a texture that is immediately ready, backed by the
// given pixels. Useful for tests and programmatically generated imagery.
func NewFromImage(img *image.NRGBA) *Texture {
	t := &Texture{}
	t.img.Store(img)
	t.status.Store(Ready)
	return t
}

// Status returns the current load state.
func (t *Texture) Status() int32 { return t.status.Load() }

// Source returns the texture's source, or nil for image-backed textures.
func (t *Texture) Source() Source { return t.source }

// Bind returns the texture's pixels if they are ready. Until then it
// returns nil and false; the caller skips drawing and tries again next
// frame.
func (t *Texture) Bind() (*image.NRGBA, bool) {
	if t.status.Load() != Ready {
		return nil, false
	}
	img := t.img.Load()
	return img, img != nil
}
