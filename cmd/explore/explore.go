package main

import (
	"context"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"
	"github.com/willbeason/mandelbrot/pkg/explorer"
	"github.com/willbeason/mandelbrot/pkg/hud"
	"github.com/willbeason/mandelbrot/pkg/viewport"
	"image"
	"log"
	"os"
	"strings"
	"time"
)

// game adapts an Explorer to ebiten's update and draw loop.
type game struct {
	explorer *explorer.Explorer
	screen   *ebiten.Image
	showHUD  bool
}

func newGame(e *explorer.Explorer) *game {
	g := e.Grid()
	return &game{
		explorer: e,
		screen:   ebiten.NewImage(g.Width, g.Height),
		showHUD:  true,
	}
}

var panKeys = map[ebiten.Key]viewport.Direction{
	ebiten.KeyArrowUp:    viewport.Up,
	ebiten.KeyArrowDown:  viewport.Down,
	ebiten.KeyArrowLeft:  viewport.Left,
	ebiten.KeyArrowRight: viewport.Right,
}

func (g *game) Update() error {
	e := g.explorer

	if _, dy := ebiten.Wheel(); dy != 0 {
		x, y := ebiten.CursorPosition()
		if image.Pt(x, y).In(g.screen.Bounds()) {
			if dy > 0 {
				e.HandleZoom(explorer.ZoomIn, x, y)
			} else {
				e.HandleZoom(explorer.ZoomOut, x, y)
			}
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		e.HandleClick(ebiten.CursorPosition())
	}

	for key, dir := range panKeys {
		if inpututil.IsKeyJustPressed(key) {
			e.HandlePan(dir)
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		e.HandleZoomCentered(explorer.ZoomIn)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		e.HandleZoomCentered(explorer.ZoomOut)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		e.HandleReset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	if e.Dirty() {
		start := time.Now()
		frame := e.Frame()
		log.Print(hud.Summary(e.Status(), time.Since(start)))
		g.screen.WritePixels(frame.Pix)
	}

	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.screen, &ebiten.DrawImageOptions{})

	if g.showHUD {
		lines := hud.Lines(g.explorer.Status())
		lines = append(lines, "", hud.Help+" | H: HUD")
		ebitenutil.DebugPrint(screen, strings.Join(lines, "\n"))
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	grid := g.explorer.Grid()
	return grid.Width, grid.Height
}

func mainCmd() *cobra.Command {
	cfg := explorer.DefaultConfig()
	cfg.Workers = 0

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Explore the fractal in a window",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCmd(cmd, &cfg)
		},
	}

	explorer.BindFlags(cmd.Flags(), &cfg)

	return cmd
}

func runCmd(cmd *cobra.Command, cfg *explorer.Config) error {
	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	if err := cfg.Resolve(); err != nil {
		return err
	}

	e, err := explorer.New(*cfg)
	if err != nil {
		return err
	}

	log.Printf("Controls: %s | H: HUD", hud.Help)

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("Mandelbrot")

	return ebiten.RunGame(newGame(e))
}

func main() {
	ctx := context.Background()

	err := mainCmd().ExecuteContext(ctx)
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
