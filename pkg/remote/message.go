package remote

import (
	"errors"
	"fmt"
	"github.com/willbeason/mandelbrot/pkg/explorer"
	"github.com/willbeason/mandelbrot/pkg/viewport"
)

var (
	ErrUnknownMessage   = errors.New("unknown message type")
	ErrUnknownDirection = errors.New("unknown pan direction")
)

// Message is an input event sent by a browser client.
type Message struct {
	Type string `json:"type"`
	X    int    `json:"x,omitempty"`
	Y    int    `json:"y,omitempty"`

	// Centered zooms about the grid center instead of (X, Y).
	Centered  bool   `json:"centered,omitempty"`
	Direction string `json:"direction,omitempty"`
}

const (
	TypeZoomIn  = "zoom_in"
	TypeZoomOut = "zoom_out"
	TypeClick   = "click"
	TypePan     = "pan"
	TypeReset   = "reset"
)

// Event converts m to a viewport event.
func (m Message) Event() (viewport.Event, error) {
	switch m.Type {
	case TypeZoomIn:
		return viewport.ZoomIn{X: m.X, Y: m.Y, Cursor: !m.Centered}, nil
	case TypeZoomOut:
		return viewport.ZoomOut{X: m.X, Y: m.Y, Cursor: !m.Centered}, nil
	case TypeClick:
		return viewport.Click{X: m.X, Y: m.Y}, nil
	case TypePan:
		d, ok := viewport.ParseDirection(m.Direction)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDirection, m.Direction)
		}
		return viewport.Pan{Direction: d}, nil
	case TypeReset:
		return viewport.Reset{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, m.Type)
	}
}

// Status follows every frame.
type Status struct {
	Zoom            float64 `json:"zoom"`
	CenterReal      float64 `json:"centerReal"`
	CenterImaginary float64 `json:"centerImaginary"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	RenderMillis    int64   `json:"renderMillis"`
}

func newStatus(e *explorer.Explorer, renderMillis int64) Status {
	s := e.Status()
	g := e.Grid()
	return Status{
		Zoom:            s.Zoom,
		CenterReal:      s.CenterReal,
		CenterImaginary: s.CenterImaginary,
		Width:           g.Width,
		Height:          g.Height,
		RenderMillis:    renderMillis,
	}
}
