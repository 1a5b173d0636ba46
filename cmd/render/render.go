package main

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"github.com/willbeason/mandelbrot/pkg/explorer"
	"github.com/willbeason/mandelbrot/pkg/hud"
	"github.com/willbeason/mandelbrot/pkg/plane"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

type flags struct {
	cfg explorer.Config

	centerReal      float64
	centerImaginary float64
	zoom            float64

	out     string
	showHUD bool
}

func mainCmd() *cobra.Command {
	f := &flags{cfg: explorer.DefaultConfig()}
	f.cfg.Workers = 0

	view := plane.DefaultView()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one view of the fractal to a PNG",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCmd(cmd, f)
		},
	}

	fs := cmd.Flags()
	explorer.BindFlags(fs, &f.cfg)
	fs.Float64Var(&f.centerReal, "center-real", view.CenterReal, "real part of the view center")
	fs.Float64Var(&f.centerImaginary, "center-imag", view.CenterImaginary, "imaginary part of the view center")
	fs.Float64Var(&f.zoom, "zoom", view.Zoom, "zoom level; 1 shows the whole set")
	fs.StringVarP(&f.out, "out", "o", "", "output file; defaults to out/<timestamp>.png")
	fs.BoolVar(&f.showHUD, "hud", false, "draw the zoom and center onto the image")

	return cmd
}

func runCmd(cmd *cobra.Command, f *flags) error {
	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	if err := f.cfg.Resolve(); err != nil {
		return err
	}

	e, err := explorer.New(f.cfg)
	if err != nil {
		return err
	}
	e.SetView(f.centerReal, f.centerImaginary, f.zoom)

	start := time.Now()
	frame, err := e.FrameContext(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	var img image.Image = frame
	if f.showHUD {
		annotated := image.NewRGBA(frame.Bounds())
		draw.Draw(annotated, annotated.Bounds(), frame, image.Point{}, draw.Src)
		hud.Draw(annotated, e.Status(), false)
		img = annotated
	}

	out := f.out
	if out == "" {
		out = fmt.Sprintf("out/%s.png", time.Now().Format("20060102150405"))
	}

	err = os.MkdirAll(filepath.Dir(out), os.ModePerm)
	if err != nil {
		return err
	}

	file, err := os.Create(out)
	if err != nil {
		return err
	}
	defer file.Close()

	err = png.Encode(file, img)
	if err != nil {
		return err
	}

	s := e.Status()
	cfg := e.Config()
	fmt.Printf("Rendered %s %dx%d at %d iterations in %s to %s\n",
		cfg.Fractal, cfg.Width, cfg.Height, cfg.MaxIterations, elapsed.Round(time.Millisecond), out)
	for _, line := range hud.Lines(s) {
		fmt.Println(line)
	}

	return file.Close()
}

func main() {
	ctx := context.Background()

	err := mainCmd().ExecuteContext(ctx)
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
