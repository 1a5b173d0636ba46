package explorer

import (
	"context"
	"fmt"
	"github.com/willbeason/mandelbrot/pkg/palette"
	"github.com/willbeason/mandelbrot/pkg/plane"
	"github.com/willbeason/mandelbrot/pkg/raster"
	"github.com/willbeason/mandelbrot/pkg/viewport"
	"image"
)

type ZoomDirection int

const (
	ZoomIn ZoomDirection = iota
	ZoomOut
)

// Status is the view summary shown in a HUD.
type Status struct {
	Zoom            float64
	CenterReal      float64
	CenterImaginary float64
}

// An Explorer is the handle a host shell drives: feed it input events and
// pull frames from it.
//
// An Explorer is not safe for concurrent use. Hosts deliver one event at a
// time and ask for a frame between events.
type Explorer struct {
	cfg Config

	mapper     *plane.Mapper
	raster     *raster.Raster
	controller *viewport.Controller
}

// New validates cfg and builds an Explorer. Configuration errors are returned
// here and nowhere else.
func New(cfg Config) (*Explorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	pal, err := palette.Build(cfg.Anchors, cfg.MaxIterations)
	if err != nil {
		return nil, fmt.Errorf("building palette: %w", err)
	}

	eval, err := cfg.evaluator()
	if err != nil {
		return nil, err
	}

	mapper := plane.NewMapper(plane.Grid{Width: cfg.Width, Height: cfg.Height})

	r, err := raster.New(mapper, eval, pal, raster.WithWorkers(cfg.Workers))
	if err != nil {
		return nil, fmt.Errorf("creating raster: %w", err)
	}

	controller := viewport.NewController(mapper, r,
		viewport.WithZoomFactor(cfg.ZoomFactor),
		viewport.WithPanStep(cfg.PanStep),
	)

	return &Explorer{
		cfg:        cfg,
		mapper:     mapper,
		raster:     r,
		controller: controller,
	}, nil
}

func (e *Explorer) Config() Config {
	return e.cfg
}

func (e *Explorer) Grid() plane.Grid {
	return e.mapper.Grid()
}

// Handle applies any viewport event and reports whether a redraw is needed.
func (e *Explorer) Handle(ev viewport.Event) bool {
	return e.controller.Handle(ev)
}

// HandleZoom zooms while keeping the point under (x, y) fixed.
func (e *Explorer) HandleZoom(dir ZoomDirection, x, y int) bool {
	return e.Handle(zoomEvent(dir, x, y, true))
}

// HandleZoomCentered zooms about the grid center, as keyboard zoom does.
func (e *Explorer) HandleZoomCentered(dir ZoomDirection) bool {
	return e.Handle(zoomEvent(dir, 0, 0, false))
}

func zoomEvent(dir ZoomDirection, x, y int, cursor bool) viewport.Event {
	if dir == ZoomOut {
		return viewport.ZoomOut{X: x, Y: y, Cursor: cursor}
	}
	return viewport.ZoomIn{X: x, Y: y, Cursor: cursor}
}

func (e *Explorer) HandleClick(x, y int) bool {
	return e.Handle(viewport.Click{X: x, Y: y})
}

func (e *Explorer) HandlePan(dir viewport.Direction) bool {
	return e.Handle(viewport.Pan{Direction: dir})
}

func (e *Explorer) HandleReset() bool {
	return e.Handle(viewport.Reset{})
}

// Dirty reports whether the next Frame will render.
func (e *Explorer) Dirty() bool {
	return e.raster.Dirty()
}

// Frame returns the current frame, rendering it first if the view changed.
// The buffer belongs to the Explorer and is reused by later renders.
func (e *Explorer) Frame() *image.RGBA {
	return e.raster.Render()
}

// FrameContext is Frame with cancellation. A cancelled render is discarded
// and the previous frame stays current.
func (e *Explorer) FrameContext(ctx context.Context) (*image.RGBA, error) {
	return e.raster.RenderContext(ctx)
}

func (e *Explorer) Status() Status {
	s := e.mapper.State()
	return Status{
		Zoom:            s.Zoom,
		CenterReal:      s.CenterReal,
		CenterImaginary: s.CenterImaginary,
	}
}

// PixelToComplex exposes the current mapping for host overlays.
func (e *Explorer) PixelToComplex(x, y int) complex128 {
	return e.mapper.PixelToComplex(x, y)
}

// SetView jumps straight to a view. A non-positive zoom leaves the zoom as it
// was.
func (e *Explorer) SetView(centerReal, centerImaginary, zoom float64) {
	e.mapper.SetCenter(complex(centerReal, centerImaginary))
	e.mapper.SetZoom(zoom)
	e.raster.Invalidate()
}
