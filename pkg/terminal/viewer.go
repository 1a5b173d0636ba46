package terminal

import (
	"context"
	"fmt"
	"github.com/gdamore/tcell/v2"
	"github.com/willbeason/mandelbrot/pkg/explorer"
	"github.com/willbeason/mandelbrot/pkg/hud"
	"github.com/willbeason/mandelbrot/pkg/viewport"
	"strings"
	"time"
)

// Each cell shows two stacked pixels: the glyph's foreground is the upper
// pixel and its background the lower one.
const halfBlock = '▀'

var hudStyle = tcell.StyleDefault.
	Foreground(tcell.NewRGBColor(255, 255, 255)).
	Background(tcell.NewRGBColor(0, 0, 0))

// A Viewer drives an Explorer from a tcell screen.
type Viewer struct {
	screen tcell.Screen
	cfg    explorer.Config

	explorer *explorer.Explorer
	buttons  tcell.ButtonMask

	ShowHUD    bool
	lastRender time.Duration
}

// NewViewer sizes the pixel grid to the screen: one column per pixel and two
// pixels per row.
func NewViewer(screen tcell.Screen, cfg explorer.Config) (*Viewer, error) {
	v := &Viewer{
		screen:  screen,
		cfg:     cfg,
		ShowHUD: true,
	}

	if err := v.resize(); err != nil {
		return nil, err
	}

	return v, nil
}

func (v *Viewer) Explorer() *explorer.Explorer {
	return v.explorer
}

// resize rebuilds the Explorer for the current screen size, keeping the view.
func (v *Viewer) resize() error {
	cols, rows := v.screen.Size()

	cfg := v.cfg
	cfg.Width, cfg.Height = cols, rows*2

	e, err := explorer.New(cfg)
	if err != nil {
		return fmt.Errorf("sizing explorer to %dx%d terminal: %w", cols, rows, err)
	}

	if v.explorer != nil {
		s := v.explorer.Status()
		e.SetView(s.CenterReal, s.CenterImaginary, s.Zoom)
	}
	v.explorer = e

	return nil
}

// HandleEvent applies ev and reports whether the viewer should keep running.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	case *tcell.EventResize:
		if err := v.resize(); err != nil {
			// Too small to render; keep the old grid until the next resize.
			return true
		}
		v.screen.Sync()
	}
	return true
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	e := v.explorer

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		e.HandlePan(viewport.Up)
	case tcell.KeyDown:
		e.HandlePan(viewport.Down)
	case tcell.KeyLeft:
		e.HandlePan(viewport.Left)
	case tcell.KeyRight:
		e.HandlePan(viewport.Right)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case '+', '=':
			e.HandleZoomCentered(explorer.ZoomIn)
		case '-':
			e.HandleZoomCentered(explorer.ZoomOut)
		case 'r', 'R':
			e.HandleReset()
		case 'h':
			v.ShowHUD = !v.ShowHUD
		}
	}
	return true
}

// handleMouse maps a cell to the upper of its two pixels.
func (v *Viewer) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	px, py := x, y*2

	buttons := ev.Buttons()
	pressed := buttons &^ v.buttons
	v.buttons = buttons &^ (tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight)

	switch {
	case buttons&tcell.WheelUp != 0:
		v.explorer.HandleZoom(explorer.ZoomIn, px, py)
	case buttons&tcell.WheelDown != 0:
		v.explorer.HandleZoom(explorer.ZoomOut, px, py)
	case pressed&tcell.Button1 != 0:
		v.explorer.HandleClick(px, py)
	}
}

// Draw renders the current frame if needed and paints it.
func (v *Viewer) Draw() {
	if v.explorer.Dirty() {
		start := time.Now()
		v.explorer.Frame()
		v.lastRender = time.Since(start)
	}
	frame := v.explorer.Frame()

	cols, rows := v.screen.Size()
	g := v.explorer.Grid()

	for cy := 0; cy < rows && cy*2 < g.Height; cy++ {
		for cx := 0; cx < cols && cx < g.Width; cx++ {
			top := frame.RGBAAt(cx, cy*2)
			bottom := frame.RGBAAt(cx, cy*2+1)

			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			v.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}

	if v.ShowHUD {
		lines := hud.Lines(v.explorer.Status())
		lines[0] += fmt.Sprintf("  render %s", v.lastRender.Round(time.Millisecond))
		for i, line := range lines {
			v.text(0, i, line)
		}
		v.text(0, rows-1, strings.Replace(hud.Help, "Scroll", "Wheel", 1)+" | H: HUD | Q: quit")
	}

	v.screen.Show()
}

func (v *Viewer) text(x, y int, s string) {
	for i, r := range s {
		v.screen.SetContent(x+i, y, r, nil, hudStyle)
	}
}

// pollEvents forwards screen events until the screen closes or done is
// closed, then closes events.
func (v *Viewer) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}

		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// Run draws and handles events until the user quits, the screen closes or
// ctx is done. Pending events are applied together before each redraw.
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go v.pollEvents(events, done)

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !v.HandleEvent(ev) {
				return nil
			}

			for drained := false; !drained; {
				select {
				case ev, ok := <-events:
					if !ok {
						return nil
					}
					if !v.HandleEvent(ev) {
						return nil
					}
				default:
					drained = true
				}
			}

			v.Draw()
		}
	}
}
