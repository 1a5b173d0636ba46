package explorer

import (
	"errors"
	"fmt"
	"github.com/spf13/pflag"
	"github.com/willbeason/mandelbrot/pkg/escape"
	"github.com/willbeason/mandelbrot/pkg/palette"
	"image/color"
	"math"
	"strings"
)

const (
	DefaultWidth         = 800
	DefaultHeight        = 600
	DefaultMaxIterations = 256
	DefaultZoomFactor    = 1.5
	DefaultPanStep       = 0.1

	FractalMandelbrot = "mandelbrot"
	FractalJulia      = "julia"
)

var (
	ErrInvalidDimensions = errors.New("grid dimensions must be positive")
	ErrInvalidIterations = errors.New("max iterations must be positive")
	ErrInvalidZoomFactor = errors.New("zoom factor must be positive and finite")
	ErrTooFewAnchors     = errors.New("at least 2 anchor colors are required")
	ErrInvalidWorkers    = errors.New("workers must not be negative")
	ErrUnknownFractal    = errors.New("unknown fractal")
)

// Config describes an Explorer. The zero value is not valid; start from
// DefaultConfig.
type Config struct {
	Width, Height int
	MaxIterations int
	Anchors       []color.RGBA

	ZoomFactor float64
	PanStep    float64

	// Workers is the number of goroutines rendering rows.
	// 1 renders sequentially and 0 uses every CPU.
	Workers int

	Fractal string
	JuliaC  complex128

	// anchorHex holds --anchors until Resolve parses it.
	anchorHex  []string
	juliaRe    float64
	juliaIm    float64
	flagsBound bool
}

func DefaultConfig() Config {
	return Config{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		MaxIterations: DefaultMaxIterations,
		Anchors:       palette.DefaultAnchors(),
		ZoomFactor:    DefaultZoomFactor,
		PanStep:       DefaultPanStep,
		Workers:       1,
		Fractal:       FractalMandelbrot,
		JuliaC:        complex(-0.8, 0.156),
	}
}

// Validate reports the first configuration error.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.Width, c.Height)
	case c.MaxIterations <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidIterations, c.MaxIterations)
	case !(c.ZoomFactor > 0) || math.IsInf(c.ZoomFactor, 0):
		return fmt.Errorf("%w: %v", ErrInvalidZoomFactor, c.ZoomFactor)
	case len(c.Anchors) < 2:
		return fmt.Errorf("%w: got %d", ErrTooFewAnchors, len(c.Anchors))
	case c.Workers < 0:
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}

	if _, err := c.evaluator(); err != nil {
		return err
	}

	return nil
}

func (c Config) evaluator() (escape.Evaluator, error) {
	switch strings.ToLower(c.Fractal) {
	case FractalMandelbrot, "":
		return escape.Mandelbrot{}, nil
	case FractalJulia:
		return escape.Julia{C: c.JuliaC}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFractal, c.Fractal)
	}
}

// BindFlags registers the shared explorer flags on fs, writing into c.
// Call Resolve once the flags are parsed.
func BindFlags(fs *pflag.FlagSet, c *Config) {
	fs.IntVar(&c.Width, "width", c.Width, "width of the pixel grid")
	fs.IntVar(&c.Height, "height", c.Height, "height of the pixel grid")
	fs.IntVar(&c.MaxIterations, "max-iterations", c.MaxIterations, "iteration limit and palette size")
	fs.Float64Var(&c.ZoomFactor, "zoom-factor", c.ZoomFactor, "zoom multiplier per step")
	fs.Float64Var(&c.PanStep, "pan-step", c.PanStep, "pan distance in plane units at zoom 1")
	fs.IntVar(&c.Workers, "workers", c.Workers, "goroutines rendering rows; 0 uses every CPU")
	fs.StringSliceVar(&c.anchorHex, "anchors", nil, "comma-separated gradient anchors as #rrggbb")
	fs.StringVar(&c.Fractal, "fractal", c.Fractal, "fractal to explore: mandelbrot or julia")

	c.flagsBound = true
	c.juliaRe, c.juliaIm = real(c.JuliaC), imag(c.JuliaC)
	fs.Float64Var(&c.juliaRe, "julia-real", c.juliaRe, "real part of the Julia constant")
	fs.Float64Var(&c.juliaIm, "julia-imag", c.juliaIm, "imaginary part of the Julia constant")
}

// Resolve applies flag values that need parsing.
func (c *Config) Resolve() error {
	if len(c.anchorHex) > 0 {
		anchors, err := palette.ParseHex(c.anchorHex)
		if err != nil {
			return fmt.Errorf("--anchors: %w", err)
		}
		c.Anchors = anchors
	}

	if c.flagsBound {
		c.JuliaC = complex(c.juliaRe, c.juliaIm)
	}

	return nil
}
