package texture

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/globe"
)

// Loader defaults.
const (
	// DefaultWorkers is the number of decode goroutines.
	DefaultWorkers = 2
	// DefaultQueueSize is the pending-request bound. Submissions beyond
	// it are dropped; the texture stays unloaded and a later Submit
	// retries.
	DefaultQueueSize = 32
)

// Source produces the bytes of a texture. Key identifies the source for
// request deduplication.
type Source interface {
	Key() string
	Open() (io.ReadCloser, error)
}

// FileSource loads a texture from the local filesystem.
type FileSource string

// Key returns the file path.
func (f FileSource) Key() string { return string(f) }

// Open opens the file for reading.
func (f FileSource) Open() (io.ReadCloser, error) { return os.Open(string(f)) }

// Loader decodes texture sources on a fixed pool of worker goroutines.
// The request queue is bounded: when it is full, Submit drops the
// request silently rather than stall the rendering goroutine. Duplicate
// submissions of a texture already queued or loading are ignored.
type Loader struct {
	queue chan *Texture

	mu      sync.Mutex
	pending map[string]bool

	wg sync.WaitGroup
}

// NewLoader starts a loader with the given worker count and queue bound.
// Non-positive arguments use the defaults.
func NewLoader(workers, queueSize int) *Loader {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	l := &Loader{
		queue:   make(chan *Texture, queueSize),
		pending: make(map[string]bool),
	}
	l.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go l.worker()
	}
	return l
}

// Close stops the workers after the queue drains. Submit must not be
// called after Close.
func (l *Loader) Close() {
	close(l.queue)
	l.wg.Wait()
}

// Submit queues a texture for loading. Returns true when the texture was
// accepted, false when it was dropped (queue full), already pending, or
// already resolved.
func (l *Loader) Submit(t *Texture) bool {
	if t == nil || t.source == nil {
		return false
	}
	if s := t.status.Load(); s == Ready || s == Failed {
		return false
	}

	key := t.source.Key()
	l.mu.Lock()
	if l.pending[key] {
		l.mu.Unlock()
		return false
	}
	l.pending[key] = true
	l.mu.Unlock()

	select {
	case l.queue <- t:
		return true
	default:
		// Queue full. Drop; the caller re-submits on a later frame.
		l.mu.Lock()
		delete(l.pending, key)
		l.mu.Unlock()
		return false
	}
}

func (l *Loader) worker() {
	defer l.wg.Done()
	for t := range l.queue {
		l.load(t)
		l.mu.Lock()
		delete(l.pending, t.source.Key())
		l.mu.Unlock()
	}
}

// load decodes one texture. Failure is permanent and logged once; the
// texture's status prevents any retry.
func (l *Loader) load(t *Texture) {
	if !t.status.CompareAndSwap(Unloaded, Loading) {
		return
	}
	img, err := decode(t.source)
	if err != nil {
		globe.Logger().Error("texture load failed",
			slog.String("source", t.source.Key()),
			slog.Any("err", err))
		t.status.Store(Failed)
		return
	}
	if t.MaxDim > 0 {
		img = downscale(img, t.MaxDim)
	}
	t.img.Store(img)
	t.status.Store(Ready)
}

func decode(src Source) (*image.NRGBA, error) {
	r, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.Key(), err)
	}
	defer r.Close()

	decoded, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src.Key(), err)
	}
	if n, ok := decoded.(*image.NRGBA); ok {
		return n, nil
	}
	b := decoded.Bounds()
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(n, n.Bounds(), decoded, b.Min, xdraw.Src)
	return n, nil
}

// downscale resizes img so its larger dimension is at most maxDim,
// preserving aspect ratio. Images already within the bound are returned
// unchanged.
func downscale(img *image.NRGBA, maxDim int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}
	if w >= h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), img, b, xdraw.Src, nil)
	return out
}
