package raster

import (
	"context"
	"errors"
	"github.com/willbeason/mandelbrot/pkg/escape"
	"github.com/willbeason/mandelbrot/pkg/palette"
	"github.com/willbeason/mandelbrot/pkg/plane"
	"image"
	"runtime"
	"sync"
)

var (
	ErrEmptyPalette = errors.New("palette is empty")
	ErrNilMapper    = errors.New("mapper is nil")
	ErrNilEvaluator = errors.New("evaluator is nil")

	// ErrStale is returned when the view changed while a pass was running.
	// The pass is discarded.
	ErrStale = errors.New("view changed during render")
)

type Option func(*Raster)

// WithWorkers shards rows across n goroutines. n <= 0 uses every CPU.
func WithWorkers(n int) Option {
	return func(r *Raster) {
		if n <= 0 {
			n = runtime.NumCPU()
		}
		r.workers = n
	}
}

// A Raster renders the fractal into a pixel buffer and caches the result
// until Invalidate is called.
type Raster struct {
	mapper  *plane.Mapper
	eval    escape.Evaluator
	pal     palette.Palette
	workers int

	// renderMu serializes passes, which share the back buffer.
	renderMu sync.Mutex

	mu         sync.Mutex
	dirty      bool
	generation uint64
	front      *image.RGBA
	back       *image.RGBA
}

// New returns a dirty Raster. The palette length is the iteration limit.
func New(mapper *plane.Mapper, eval escape.Evaluator, pal palette.Palette, opts ...Option) (*Raster, error) {
	switch {
	case mapper == nil:
		return nil, ErrNilMapper
	case eval == nil:
		return nil, ErrNilEvaluator
	case len(pal) == 0:
		return nil, ErrEmptyPalette
	}

	g := mapper.Grid()
	bounds := image.Rect(0, 0, g.Width, g.Height)

	r := &Raster{
		mapper:  mapper,
		eval:    eval,
		pal:     pal,
		workers: 1,
		dirty:   true,
		front:   image.NewRGBA(bounds),
		back:    image.NewRGBA(bounds),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Invalidate marks the cached frame stale. It may be called while a pass is
// running, in which case that pass is discarded.
func (r *Raster) Invalidate() {
	r.mu.Lock()
	r.dirty = true
	r.generation++
	r.mu.Unlock()
}

func (r *Raster) Dirty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dirty
}

// Buffer returns the most recently completed frame without rendering.
func (r *Raster) Buffer() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.front
}

// Render returns the current frame, recomputing it only if dirty.
//
// The returned buffer is owned by the Raster and is overwritten by a later
// pass; callers must not hold it across renders.
func (r *Raster) Render() *image.RGBA {
	buf, err := r.RenderContext(context.Background())
	if err != nil {
		// Only a concurrent Invalidate gets here; show the last complete frame.
		return r.Buffer()
	}
	return buf
}

// RenderContext is Render with cancellation. A cancelled or stale pass leaves
// the previous frame in place and the Raster dirty.
func (r *Raster) RenderContext(ctx context.Context) (*image.RGBA, error) {
	r.renderMu.Lock()
	defer r.renderMu.Unlock()

	r.mu.Lock()
	if !r.dirty {
		buf := r.front
		r.mu.Unlock()
		return buf, nil
	}
	gen := r.generation
	back := r.back
	r.mu.Unlock()

	// Every row of this pass maps pixels through the same view.
	snap := r.mapper.Snapshot()

	var err error
	if r.workers > 1 {
		err = r.fillParallel(ctx, back, snap)
	} else {
		err = r.fill(ctx, back, snap)
	}
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.generation {
		return nil, ErrStale
	}

	r.front, r.back = back, r.front
	r.dirty = false

	return r.front, nil
}

func (r *Raster) fill(ctx context.Context, buf *image.RGBA, snap plane.Snapshot) error {
	for y := 0; y < snap.Grid.Height; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.row(buf, snap, y)
	}
	return nil
}

// row colors one row of buf in place.
func (r *Raster) row(buf *image.RGBA, snap plane.Snapshot, y int) {
	maxIterations := len(r.pal)
	off := y * buf.Stride

	for x := 0; x < snap.Grid.Width; x++ {
		n := max(r.eval.Iterate(snap.At(x, y), maxIterations), 0)

		c := palette.InSet
		if n < maxIterations {
			c = r.pal[n]
		}

		p := buf.Pix[off : off+4 : off+4]
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
		off += 4
	}
}
