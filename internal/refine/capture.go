package refine

import (
	"fmt"
)

// Outcome is the result of a classification command.
type Outcome int

const (
	// OutcomeMiss means no idle matching cell was in range; nothing changed.
	OutcomeMiss Outcome = iota
	// OutcomeCaptured means a cell was captured.
	OutcomeCaptured
	// OutcomeSuppressed means the command arrived while the failure signal was up.
	OutcomeSuppressed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMiss:
		return "miss"
	case OutcomeCaptured:
		return "captured"
	case OutcomeSuppressed:
		return "suppressed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// CaptureResult describes what a classification command did.
type CaptureResult struct {
	Outcome  Outcome
	Bin      int
	Cell     *Cell
	Distance float64
	// Reported is true when the bin update was forwarded to the tracker.
	Reported bool
}

// BinReporter receives bin updates from the capture engine.
type BinReporter func(bin, value int)

// CaptureEngine resolves classification commands against the grid.
type CaptureEngine struct {
	Radius float64
}

// NewCaptureEngine returns an engine with the default capture radius.
func NewCaptureEngine() CaptureEngine {
	return CaptureEngine{Radius: CaptureRadius}
}

// Capture tries to capture the cell tagged bin+1 near p. When several idle
// matches are in range the nearest wins, ties going to row-major order.
// A successful capture reports BinFull for bin unless progress already has it.
func (e CaptureEngine) Capture(grid *Grid, bin int, p Point, progress BinProgress, report BinReporter) (CaptureResult, error) {
	if bin < 0 || bin >= AudioSources {
		return CaptureResult{Outcome: OutcomeMiss, Bin: bin}, fmt.Errorf("%w: %d", ErrUnknownBin, bin)
	}
	res := CaptureResult{Outcome: OutcomeMiss, Bin: bin}
	if grid == nil || p.IsFarAway() {
		return res, nil
	}

	var target *Cell
	best := 0.0
	for _, cell := range grid.AudioCells() {
		if cell.AudioID != bin+1 || !cell.Idle() {
			continue
		}
		d := p.Distance(cell.Center())
		if d >= e.Radius {
			continue
		}
		if target == nil || d < best {
			target, best = cell, d
		}
	}
	if target == nil {
		return res, nil
	}

	target.Status = StatusCaptured
	res.Outcome = OutcomeCaptured
	res.Cell = target
	res.Distance = best

	if !progress.BinComplete(bin) && report != nil {
		report(bin, BinFull)
		res.Reported = true
	}
	return res, nil
}
