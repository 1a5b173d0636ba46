package plane

import (
	"math"
)

const (
	// BaseWidth is the width of the complex plane window at zoom 1.
	BaseWidth = 4.0
	// BaseHeight is the window height at zoom 1 for a 4:3 grid.
	BaseHeight = 3.0

	DefaultCenterReal      = -0.5
	DefaultCenterImaginary = 0.0
	DefaultZoom            = 1.0
)

// Grid is the pixel grid the plane window is mapped onto.
type Grid struct {
	Width, Height int
}

// ViewState is the position of the viewport in the complex plane.
// Zoom is always positive.
type ViewState struct {
	CenterReal      float64
	CenterImaginary float64
	Zoom            float64
}

// DefaultView is the view restored by Reset.
func DefaultView() ViewState {
	return ViewState{
		CenterReal:      DefaultCenterReal,
		CenterImaginary: DefaultCenterImaginary,
		Zoom:            DefaultZoom,
	}
}

// A Mapper converts between pixel coordinates and the complex plane and owns
// the view.
type Mapper struct {
	grid Grid
	view ViewState

	// baseHeight keeps pixels square for grids that are not 4:3.
	baseHeight float64
}

func NewMapper(grid Grid) *Mapper {
	baseHeight := BaseHeight
	if grid.Width > 0 && grid.Height > 0 {
		baseHeight = BaseWidth * float64(grid.Height) / float64(grid.Width)
	}

	return &Mapper{
		grid:       grid,
		view:       DefaultView(),
		baseHeight: baseHeight,
	}
}

func (m *Mapper) Grid() Grid {
	return m.grid
}

func (m *Mapper) State() ViewState {
	return m.view
}

// Snapshot copies everything needed to map pixels for one render pass.
func (m *Mapper) Snapshot() Snapshot {
	width := BaseWidth / m.view.Zoom
	height := m.baseHeight / m.view.Zoom

	return Snapshot{
		Left:        m.view.CenterReal - width/2.0,
		Top:         m.view.CenterImaginary - height/2.0,
		PlaneWidth:  width,
		PlaneHeight: height,
		Grid:        m.grid,
	}
}

// PixelToComplex returns the complex point under pixel (x, y).
// Pixels outside the grid extrapolate linearly.
func (m *Mapper) PixelToComplex(x, y int) complex128 {
	return m.Snapshot().At(x, y)
}

// ComplexToPixel returns the fractional pixel position of c.
func (m *Mapper) ComplexToPixel(c complex128) (float64, float64) {
	s := m.Snapshot()
	x := (real(c) - s.Left) / s.PlaneWidth * float64(s.Grid.Width)
	y := (imag(c) - s.Top) / s.PlaneHeight * float64(s.Grid.Height)

	return x, y
}

// ApplyZoomAtCursor scales the zoom by factor while keeping the point under
// (x, y) fixed. Non-positive or non-finite factors are ignored.
func (m *Mapper) ApplyZoomAtCursor(factor float64, x, y int) {
	if !positiveFinite(factor) {
		return
	}

	// A zoom that overflows or underflows leaves the view unchanged.
	next := m.view.Zoom * factor
	if !m.validZoom(next) {
		return
	}

	before := m.PixelToComplex(x, y)

	// The second sample must see the new zoom and the old center.
	m.view.Zoom = next
	after := m.PixelToComplex(x, y)

	m.view.CenterReal += real(before) - real(after)
	m.view.CenterImaginary += imag(before) - imag(after)
}

func (m *Mapper) SetCenter(c complex128) {
	m.view.CenterReal = real(c)
	m.view.CenterImaginary = imag(c)
}

func (m *Mapper) Pan(dReal, dImaginary float64) {
	m.view.CenterReal += dReal
	m.view.CenterImaginary += dImaginary
}

// SetZoom ignores non-positive or non-finite zoom levels.
func (m *Mapper) SetZoom(zoom float64) {
	if !m.validZoom(zoom) {
		return
	}
	m.view.Zoom = zoom
}

func (m *Mapper) Reset() {
	m.view = DefaultView()
}

func positiveFinite(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// validZoom also requires the plane window to stay finite.
func (m *Mapper) validZoom(z float64) bool {
	return positiveFinite(z) &&
		!math.IsInf(BaseWidth/z, 0) &&
		!math.IsInf(m.baseHeight/z, 0)
}

// Snapshot is a copy of the plane window for one render pass, safe to share
// between goroutines.
type Snapshot struct {
	Left, Top               float64
	PlaneWidth, PlaneHeight float64
	Grid                    Grid
}

func (s Snapshot) At(x, y int) complex128 {
	r := s.Left + (float64(x)/float64(s.Grid.Width))*s.PlaneWidth
	i := s.Top + (float64(y)/float64(s.Grid.Height))*s.PlaneHeight

	return complex(r, i)
}
