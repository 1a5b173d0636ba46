package palette

import (
	"errors"
	"fmt"
	"github.com/lucasb-eyer/go-colorful"
	"image/color"
	"strings"
)

var (
	ErrTooFewAnchors = errors.New("palette needs at least 2 anchor colors")
	ErrInvalidSize   = errors.New("palette size must be positive")
)

// InSet is the color of points believed to be in the set.
// Build never returns an entry equal to InSet.
var InSet = color.RGBA{A: 0xff}

// A Palette maps an escape iteration count to a color.
type Palette []color.RGBA

// DefaultAnchors is the dark blue to white gradient.
func DefaultAnchors() []color.RGBA {
	hex := []uint32{
		0x000011, 0x000044, 0x000088,
		0x0044cc, 0x0088ff, 0x44ccff,
		0x88ffcc, 0xccff88, 0xffcc44,
		0xff8800, 0xff4400, 0xcc0000,
		0xffffff,
	}

	anchors := make([]color.RGBA, len(hex))
	for i, h := range hex {
		anchors[i] = color.RGBA{
			R: uint8(h >> 16),
			G: uint8(h >> 8),
			B: uint8(h),
			A: 0xff,
		}
	}

	return anchors
}

// Build interpolates size colors between the ordered anchors.
//
// Entry i sits at position i/size along the gradient. Channels are linearly
// interpolated between the two bracketing anchors and truncated.
func Build(anchors []color.RGBA, size int) (Palette, error) {
	if len(anchors) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewAnchors, len(anchors))
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	p := make(Palette, size)
	for i := range p {
		c := interpolate(anchors, float32(i)/float32(size))
		if c == InSet {
			// Keep in-set pixels distinguishable from the gradient.
			c.B = 1
		}
		p[i] = c
	}

	return p, nil
}

// interpolate works in single precision so channel truncation lands on the
// same integers as the reference gradient.
func interpolate(anchors []color.RGBA, position float32) color.RGBA {
	last := anchors[len(anchors)-1]
	if position >= 1.0 {
		return opaque(last)
	}
	if position <= 0.0 {
		return opaque(anchors[0])
	}

	scaled := position * float32(len(anchors)-1)
	index := int(scaled)
	frac := scaled - float32(index)

	if index >= len(anchors)-1 {
		return opaque(last)
	}

	a, b := anchors[index], anchors[index+1]

	return color.RGBA{
		R: lerp(a.R, b.R, frac),
		G: lerp(a.G, b.G, frac),
		B: lerp(a.B, b.B, frac),
		A: 0xff,
	}
}

func lerp(a, b uint8, frac float32) uint8 {
	return uint8(int(float32(a) + frac*float32(int(b)-int(a))))
}

func opaque(c color.RGBA) color.RGBA {
	c.A = 0xff
	return c
}

// ParseHex parses anchor colors written as "#rrggbb".
func ParseHex(values []string) ([]color.RGBA, error) {
	anchors := make([]color.RGBA, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if !strings.HasPrefix(v, "#") {
			v = "#" + v
		}

		c, err := colorful.Hex(v)
		if err != nil {
			return nil, fmt.Errorf("parsing anchor %q: %w", v, err)
		}

		r, g, b := c.RGB255()
		anchors = append(anchors, color.RGBA{R: r, G: g, B: b, A: 0xff})
	}

	return anchors, nil
}
