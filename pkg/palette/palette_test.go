package palette

import (
	"errors"
	"image/color"
	"testing"
)

func TestBuild_DefaultGradient(t *testing.T) {
	anchors := DefaultAnchors()

	p, err := Build(anchors, 256)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(p) != 256 {
		t.Fatalf("expected 256 entries, got %d", len(p))
	}
	if p[0] != anchors[0] {
		t.Errorf("first entry %v, want first anchor %v", p[0], anchors[0])
	}

	// 255/256 lands 95% of the way between the last two anchors.
	want := color.RGBA{R: 252, G: 243, B: 243, A: 0xff}
	if p[255] != want {
		t.Errorf("last entry %v, want %v", p[255], want)
	}

	last := anchors[len(anchors)-1]
	for _, ch := range []struct {
		name      string
		got, want uint8
	}{
		{"R", p[255].R, last.R},
		{"G", p[255].G, last.G},
		{"B", p[255].B, last.B},
	} {
		// One step of the gradient spans 12 anchors over 256 entries.
		if diff := int(ch.want) - int(ch.got); diff < 0 || diff > 13 {
			t.Errorf("channel %s of last entry is %d, too far from %d", ch.name, ch.got, ch.want)
		}
	}

	for i, c := range p {
		if c == InSet {
			t.Fatalf("entry %d equals the in-set color", i)
		}
		if c.A != 0xff {
			t.Fatalf("entry %d is not opaque: %v", i, c)
		}
	}
}

func TestBuild_TwoAnchorsTruncates(t *testing.T) {
	red := color.RGBA{R: 255, A: 0xff}
	blue := color.RGBA{B: 255, A: 0xff}

	p, err := Build([]color.RGBA{red, blue}, 4)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := Palette{
		{R: 255, B: 0, A: 0xff},
		{R: 191, B: 63, A: 0xff},
		{R: 127, B: 127, A: 0xff},
		{R: 63, B: 191, A: 0xff},
	}
	for i := range want {
		if p[i] != want[i] {
			t.Errorf("entry %d: got %v, want %v", i, p[i], want[i])
		}
	}
}

func TestBuild_BlackAnchorIsNudged(t *testing.T) {
	black := color.RGBA{A: 0xff}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 0xff}

	p, err := Build([]color.RGBA{black, white}, 2)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if p[0] == InSet {
		t.Fatalf("entry 0 collides with the in-set color")
	}
	if p[0] != (color.RGBA{B: 1, A: 0xff}) {
		t.Errorf("entry 0: got %v", p[0])
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		anchors []color.RGBA
		size    int
		want    error
	}{
		{"no anchors", nil, 256, ErrTooFewAnchors},
		{"one anchor", DefaultAnchors()[:1], 256, ErrTooFewAnchors},
		{"zero size", DefaultAnchors(), 0, ErrInvalidSize},
		{"negative size", DefaultAnchors(), -3, ErrInvalidSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.anchors, tt.size)
			if !errors.Is(err, tt.want) {
				t.Errorf("got error %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	got, err := ParseHex([]string{"#000011", " ff8800 ", "#FFFFFF"})
	if err != nil {
		t.Fatalf("ParseHex failed: %v", err)
	}

	want := []color.RGBA{
		{R: 0x00, G: 0x00, B: 0x11, A: 0xff},
		{R: 0xff, G: 0x88, B: 0x00, A: 0xff},
		{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d anchors, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("anchor %d: got %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := ParseHex([]string{"#zzzzzz"}); err == nil {
		t.Error("expected an error for a malformed anchor")
	}
}
