package raster

import (
	"context"
	"github.com/willbeason/mandelbrot/pkg/plane"
	"image"
	"sync"
)

// fillParallel hands rows out to r.workers goroutines. Rows are disjoint
// slices of buf.Pix so workers never write the same bytes.
func (r *Raster) fillParallel(ctx context.Context, buf *image.RGBA, snap plane.Snapshot) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	yChannel := make(chan int)

	go func() {
		defer close(yChannel)
		for y := 0; y < snap.Grid.Height; y++ {
			select {
			case yChannel <- y:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg := sync.WaitGroup{}
	wg.Add(r.workers)
	for i := 0; i < r.workers; i++ {
		go func() {
			defer wg.Done()
			for y := range yChannel {
				r.row(buf, snap, y)
			}
		}()
	}

	wg.Wait()

	return ctx.Err()
}
