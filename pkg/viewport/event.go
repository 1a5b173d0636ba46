package viewport

// Direction is a panning direction in screen space. The imaginary axis grows
// downward, matching pixel rows.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection is the inverse of Direction.String.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return 0, false
}

// An Event is one discrete user action. The set of events is closed: ZoomIn,
// ZoomOut, Click, Pan and Reset.
type Event interface {
	event()
}

// ZoomIn zooms toward (X, Y). Without a cursor, as for keyboard zoom, the
// grid center is used instead.
type ZoomIn struct {
	X, Y   int
	Cursor bool
}

// ZoomOut is the inverse of ZoomIn.
type ZoomOut struct {
	X, Y   int
	Cursor bool
}

// Click recenters the view on the point under (X, Y).
type Click struct {
	X, Y int
}

type Pan struct {
	Direction Direction
}

type Reset struct{}

func (ZoomIn) event()  {}
func (ZoomOut) event() {}
func (Click) event()   {}
func (Pan) event()     {}
func (Reset) event()   {}
