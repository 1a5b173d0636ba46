package viewport

import (
	"github.com/willbeason/mandelbrot/pkg/plane"
)

const (
	DefaultZoomFactor = 1.5
	// DefaultPanStep is in plane units at zoom 1.
	DefaultPanStep = 0.1
)

// An Invalidator is told whenever the view changes.
type Invalidator interface {
	Invalidate()
}

type Option func(*Controller)

// WithZoomFactor sets the scale applied per zoom step. Non-positive factors
// are ignored.
func WithZoomFactor(f float64) Option {
	return func(c *Controller) {
		if f > 0 {
			c.zoomFactor = f
		}
	}
}

func WithPanStep(step float64) Option {
	return func(c *Controller) {
		c.panStep = step
	}
}

// A Controller applies Events to a Mapper and invalidates the cached frame.
type Controller struct {
	mapper      *plane.Mapper
	invalidator Invalidator

	zoomFactor float64
	panStep    float64
}

func NewController(mapper *plane.Mapper, invalidator Invalidator, opts ...Option) *Controller {
	c := &Controller{
		mapper:      mapper,
		invalidator: invalidator,
		zoomFactor:  DefaultZoomFactor,
		panStep:     DefaultPanStep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handle applies ev and reports whether the view changed and a redraw is
// needed.
func (c *Controller) Handle(ev Event) bool {
	switch ev := ev.(type) {
	case ZoomIn:
		x, y := c.cursor(ev.X, ev.Y, ev.Cursor)
		c.mapper.ApplyZoomAtCursor(c.zoomFactor, x, y)
	case ZoomOut:
		x, y := c.cursor(ev.X, ev.Y, ev.Cursor)
		c.mapper.ApplyZoomAtCursor(1/c.zoomFactor, x, y)
	case Click:
		c.mapper.SetCenter(c.mapper.PixelToComplex(ev.X, ev.Y))
	case Pan:
		if !c.pan(ev.Direction) {
			return false
		}
	case Reset:
		c.mapper.Reset()
	default:
		return false
	}

	if c.invalidator != nil {
		c.invalidator.Invalidate()
	}
	return true
}

func (c *Controller) cursor(x, y int, ok bool) (int, int) {
	if ok {
		return x, y
	}
	g := c.mapper.Grid()
	return g.Width / 2, g.Height / 2
}

// pan moves by a step scaled inversely with zoom so the on-screen distance is
// constant.
func (c *Controller) pan(d Direction) bool {
	step := c.panStep / c.mapper.State().Zoom

	switch d {
	case Up:
		c.mapper.Pan(0, -step)
	case Down:
		c.mapper.Pan(0, step)
	case Left:
		c.mapper.Pan(-step, 0)
	case Right:
		c.mapper.Pan(step, 0)
	default:
		return false
	}
	return true
}
