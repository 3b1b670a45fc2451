package refine

import (
	"math"
	"time"
)

// Layout and tuning constants for the refinement grid.
// Distances are expressed in grid-local units where one cell is
// CellPitchX wide and CellPitchY tall.
const (
	DefaultRows = 12
	DefaultCols = 18

	CellPitchX = 35
	CellPitchY = 30

	// AudioSources is the number of audio-tagged cells (and bins) per session.
	AudioSources = 3

	// MinSeparation is measured in cells, not units.
	MinSeparation     = 4.0
	PlacementAttempts = 200

	AudioInnerRadius  = 50.0
	AudioCutoffRadius = 300.0
	CaptureRadius     = 140.0

	FailureDuration = time.Second
	CompletionDelay = time.Second
)

// Point is a pointer position in grid-local units.
type Point struct {
	X float64
	Y float64
}

// FarAway is the pointer sentinel used when the pointer is outside the grid.
var FarAway = Point{X: -1000, Y: -1000}

// IsFarAway reports whether p is the outside-of-grid sentinel.
func (p Point) IsFarAway() bool {
	return p == FarAway
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// CellCenter returns the approximate visual center of a cell.
func CellCenter(row, col int) Point {
	return Point{
		X: float64(col*CellPitchX + CellPitchX/2),
		Y: float64(row*CellPitchY + CellPitchY/2),
	}
}

// cellDistance is the distance between two cells counted in cells.
func cellDistance(r1, c1, r2, c2 int) float64 {
	return math.Hypot(float64(r1-r2), float64(c1-c2))
}
