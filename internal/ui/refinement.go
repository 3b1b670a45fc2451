package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mdr/internal/db"
	"mdr/internal/notify"
	"mdr/internal/refine"
)

const (
	// gridLeft is the left margin of the grid in terminal columns.
	gridLeft = 2
	// cellWidth is how many terminal columns one cell occupies.
	cellWidth = 3

	nearRadius = 100.0
	hotRadius  = 50.0
)

// gridOrigin returns the terminal position of the grid's top-left cell.
func (m *App) gridOrigin() (left, top int) {
	return gridLeft, lipgloss.Height(m.refineHeader()) + 1
}

// gridPoint maps a terminal cell to grid-local units. Each terminal column
// is a third of a cell, each row a full cell.
func (m *App) gridPoint(x, y int) (refine.Point, bool) {
	grid := m.session.Grid
	left, top := m.gridOrigin()
	dx, dy := x-left, y-top
	if dx < 0 || dy < 0 || dx >= grid.Cols*cellWidth || dy >= grid.Rows {
		return refine.FarAway, false
	}
	return refine.Point{
		X: (float64(dx) + 0.5) * refine.CellPitchX / cellWidth,
		Y: (float64(dy) + 0.5) * refine.CellPitchY,
	}, true
}

func (m *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.session == nil {
		return nil
	}
	if msg.Action != tea.MouseActionMotion && msg.Action != tea.MouseActionPress {
		return nil
	}
	p, inside := m.gridPoint(msg.X, msg.Y)
	if !inside {
		if !m.session.Pointer.IsFarAway() {
			m.metrics.SetAudible(m.session.LeavePointer().Count())
		}
		return nil
	}
	m.kbdActive = false
	vols := m.session.MovePointer(p, m.tracker.Progress(m.session.File))
	m.metrics.SetAudible(vols.Count())
	return nil
}

// nudge moves the keyboard pointer by one cell. The first press lands in
// the middle of the grid.
func (m *App) nudge(dr, dc int) {
	if m.session == nil {
		return
	}
	grid := m.session.Grid
	if !m.kbdActive {
		m.kbdRow, m.kbdCol = grid.Rows/2, grid.Cols/2
		m.kbdActive = true
	} else {
		m.kbdRow = max(0, min(grid.Rows-1, m.kbdRow+dr))
		m.kbdCol = max(0, min(grid.Cols-1, m.kbdCol+dc))
	}
	vols := m.session.MovePointer(refine.CellCenter(m.kbdRow, m.kbdCol), m.tracker.Progress(m.session.File))
	m.metrics.SetAudible(vols.Count())
}

// classify handles the bin keys.
func (m *App) classify(bin int) tea.Cmd {
	if m.session == nil {
		return nil
	}
	file := m.session.File
	before := m.tracker.FileCompletionPercent(file)

	fire := false
	report := func(bin, value int) {
		announce, err := m.tracker.Update(file, bin, value)
		if err != nil {
			m.logger.Error("failed to update bin", "file", file, "bin", bin, "error", err)
			return
		}
		fire = fire || announce
	}

	res, err := m.session.Classify(bin, m.tracker.Progress(file), report)
	if err != nil {
		m.logger.Error("classification failed", "bin", bin, "error", err)
		return nil
	}

	switch res.Outcome {
	case refine.OutcomeMiss:
		m.metrics.Missed(file)
		id := m.session.ID
		return tea.Tick(refine.FailureDuration, func(time.Time) tea.Msg { return failureClearMsg{session: id} })

	case refine.OutcomeCaptured:
		m.metrics.Captured(file, bin+1)
		m.record(res)
		vols := m.session.Remix(m.tracker.Progress(file))
		m.metrics.SetAudible(vols.Count())

		after := m.tracker.FileCompletionPercent(file)
		m.metrics.SetCompletion(file, after)

		var cmds []tea.Cmd
		if before < after && m.tracker.Progress(file).Complete() {
			cmds = append(cmds, m.notifyCmd(notify.EventFileComplete, fmt.Sprintf("%s is %d%% complete", file, after)))
		}
		if fire && !m.completing {
			m.completing = true
			cmds = append(cmds, tea.Tick(refine.CompletionDelay, func(time.Time) tea.Msg { return allCompleteMsg{} }))
		}
		return tea.Batch(cmds...)
	}
	return nil
}

func (m *App) record(res refine.CaptureResult) {
	if m.journal == nil || res.Cell == nil {
		return
	}
	err := m.journal.RecordCapture(db.Capture{
		SessionID: m.session.ID,
		File:      m.session.File,
		Bin:       res.Bin,
		Row:       res.Cell.Row,
		Col:       res.Cell.Col,
	})
	if err != nil {
		m.logger.Error("failed to record capture", "error", err)
	}
}
