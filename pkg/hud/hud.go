package hud

import (
	"fmt"
	"github.com/willbeason/mandelbrot/pkg/explorer"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"time"
)

// Help lists the controls shared by the interactive shells.
const Help = "Scroll: zoom at cursor | Click: center | Arrows: pan | +/-: zoom | R: reset"

const (
	margin     = 10
	lineHeight = 15
)

// Lines formats a status for display: zoom in scientific notation and the
// center to six decimals.
func Lines(s explorer.Status) []string {
	return []string{
		fmt.Sprintf("Zoom: %.2e", s.Zoom),
		fmt.Sprintf("Center: (%.6f, %.6f)", s.CenterReal, s.CenterImaginary),
	}
}

// Summary is the one-line console log of a completed render.
func Summary(s explorer.Status, elapsed time.Duration) string {
	return fmt.Sprintf("%s | render %s", strings.Join(Lines(s), " | "), elapsed.Round(time.Millisecond))
}

// Draw writes the status lines to the top-left of dst and the help line to
// the bottom. It draws in place, so pass a copy of a cached frame.
func Draw(dst draw.Image, s explorer.Status, help bool) {
	b := dst.Bounds()

	y := b.Min.Y + margin + lineHeight/2
	for _, line := range Lines(s) {
		Text(dst, b.Min.X+margin, y, line, color.White)
		y += lineHeight
	}

	if help {
		Text(dst, b.Min.X+margin, b.Max.Y-margin-lineHeight/2, Help, color.White)
	}
}

// Text draws a single line with its baseline at (x, y).
func Text(dst draw.Image, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
