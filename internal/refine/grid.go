package refine

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// CellStatus is the lifecycle state of a cell. Captured is terminal.
type CellStatus int

const (
	StatusIdle CellStatus = iota
	StatusCaptured
)

func (s CellStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusCaptured:
		return "captured"
	default:
		return fmt.Sprintf("CellStatus(%d)", int(s))
	}
}

// FillerBin marks a cell whose value has no fixed bin mapping.
const FillerBin = 3

// Cell is a single number on the refinement grid.
type Cell struct {
	Row       int
	Col       int
	Value     int
	Offset    time.Duration // animation phase, cosmetic only
	TargetBin int
	AudioID   int // 0 when the cell carries no audio source
	Status    CellStatus
}

// HasAudio reports whether the cell is an audio source.
func (c *Cell) HasAudio() bool {
	return c.AudioID != 0
}

// Idle reports whether the cell can still be captured.
func (c *Cell) Idle() bool {
	return c.Status == StatusIdle
}

// Center returns the cell's visual center in grid-local units.
func (c *Cell) Center() Point {
	return CellCenter(c.Row, c.Col)
}

// Grid is the rows x cols matrix of cells for one session.
type Grid struct {
	Rows  int
	Cols  int
	Cells [][]Cell
}

// NewGrid returns a grid of idle zero-valued cells with coordinates set.
func NewGrid(rows, cols int) *Grid {
	g := &Grid{Rows: rows, Cols: cols, Cells: make([][]Cell, rows)}
	for r := range rows {
		g.Cells[r] = make([]Cell, cols)
		for c := range cols {
			g.Cells[r][c] = Cell{Row: r, Col: c}
		}
	}
	return g
}

// Cell returns the cell at (row, col), or nil when out of range.
func (g *Grid) Cell(row, col int) *Cell {
	if row < 0 || row >= g.Rows || col < 0 || col >= g.Cols {
		return nil
	}
	return &g.Cells[row][col]
}

// AudioCells returns the audio-tagged cells in row-major order.
func (g *Grid) AudioCells() []*Cell {
	var cells []*Cell
	for r := range g.Cells {
		for c := range g.Cells[r] {
			if g.Cells[r][c].HasAudio() {
				cells = append(cells, &g.Cells[r][c])
			}
		}
	}
	return cells
}

// AudioCell returns the cell tagged with audioID, or nil.
func (g *Grid) AudioCell(audioID int) *Cell {
	for _, cell := range g.AudioCells() {
		if cell.AudioID == audioID {
			return cell
		}
	}
	return nil
}

// Tag makes (row, col) the source for audioID and binds its bin to it.
// It does not check separation; the generator does that.
func (g *Grid) Tag(row, col, audioID int) error {
	cell := g.Cell(row, col)
	if cell == nil {
		return fmt.Errorf("cell (%d,%d) outside %dx%d grid", row, col, g.Rows, g.Cols)
	}
	if audioID < 1 || audioID > AudioSources {
		return fmt.Errorf("audio id %d out of range 1..%d", audioID, AudioSources)
	}
	cell.bind(audioID)
	return nil
}

func (c *Cell) bind(audioID int) {
	c.AudioID = audioID
	c.TargetBin = audioID - 1
}

// tooClose reports whether any tagged cell lies within minSep cells of (row, col).
func (g *Grid) tooClose(row, col int, minSep float64) bool {
	for _, cell := range g.AudioCells() {
		if cellDistance(cell.Row, cell.Col, row, col) < minSep {
			return true
		}
	}
	return false
}

// Generator builds session grids.
type Generator struct {
	Rows          int
	Cols          int
	MinSeparation float64
	MaxAttempts   int

	rng *rand.Rand
}

// GeneratorOption customizes a Generator.
type GeneratorOption func(*Generator)

// WithSize sets the grid dimensions.
func WithSize(rows, cols int) GeneratorOption {
	return func(g *Generator) {
		g.Rows = rows
		g.Cols = cols
	}
}

// WithRand sets the random source. Tests pass a seeded source.
func WithRand(rng *rand.Rand) GeneratorOption {
	return func(g *Generator) {
		g.rng = rng
	}
}

// WithPlacement overrides the separation constraint and attempt cap.
func WithPlacement(minSeparation float64, maxAttempts int) GeneratorOption {
	return func(g *Generator) {
		g.MinSeparation = minSeparation
		g.MaxAttempts = maxAttempts
	}
}

// NewGenerator returns a generator with the default 12x18 layout.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		Rows:          DefaultRows,
		Cols:          DefaultCols,
		MinSeparation: MinSeparation,
		MaxAttempts:   PlacementAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

// Generate fills a fresh grid and places up to AudioSources audio cells.
// Placement is best effort: when MaxAttempts runs out the grid carries
// fewer audio cells and callers must cope with that.
func (g *Generator) Generate() *Grid {
	grid := NewGrid(g.Rows, g.Cols)
	for r := range grid.Cells {
		for c := range grid.Cells[r] {
			cell := &grid.Cells[r][c]
			cell.Value = g.rng.IntN(10)
			cell.Offset = time.Duration(g.rng.Float64() * float64(2*time.Second))
			cell.TargetBin = g.cosmeticBin(cell.Value)
		}
	}
	g.placeAudio(grid)
	return grid
}

// cosmeticBin maps a value to a bin. Only audio cells use bins for scoring.
func (g *Generator) cosmeticBin(value int) int {
	switch value {
	case 1:
		return FillerBin
	case 2:
		return 0
	case 3:
		return 1
	case 4:
		return 2
	default:
		return g.rng.IntN(4)
	}
}

func (g *Generator) placeAudio(grid *Grid) int {
	if grid.Rows == 0 || grid.Cols == 0 {
		return 0
	}
	placed := 0
	for attempts := 0; placed < AudioSources && attempts < g.MaxAttempts; attempts++ {
		r := g.rng.IntN(grid.Rows)
		c := g.rng.IntN(grid.Cols)
		if grid.Cells[r][c].HasAudio() || grid.tooClose(r, c, g.MinSeparation) {
			continue
		}
		placed++
		grid.Cells[r][c].bind(placed)
	}
	return placed
}
