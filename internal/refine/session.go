package refine

import (
	"log/slog"

	"github.com/google/uuid"

	"mdr/internal/audio"
)

// Session is one open file: its grid, its audio tracks and the pointer.
// All methods must be called from the single UI event loop.
type Session struct {
	ID      string
	File    string
	Grid    *Grid
	Pointer Point
	// Failure is the transient miss signal. While it is up, classification
	// commands are ignored; the UI clears it after FailureDuration.
	Failure bool

	mixer  *Mixer
	engine CaptureEngine
	out    audio.Controller
	logger *slog.Logger
	closed bool
}

// Open generates a grid for file and starts its audio. Whatever out was
// playing is stopped before the new tracks start, so two sessions never
// overlap.
func Open(file string, gen *Generator, out audio.Controller, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		ID:      uuid.NewString(),
		File:    file,
		Grid:    gen.Generate(),
		Pointer: FarAway,
		mixer:   NewMixer(out),
		engine:  NewCaptureEngine(),
		out:     out,
	}
	s.logger = logger.With("session", s.ID, "file", file)

	if placed := len(s.Grid.AudioCells()); placed < AudioSources {
		s.logger.Debug("audio placement degraded", "placed", placed)
	}
	if out != nil {
		out.Stop()
		out.Start(file)
	}
	s.logger.Info("session opened", "rows", s.Grid.Rows, "cols", s.Grid.Cols)
	return s
}

// MovePointer records p and remixes the audio.
func (s *Session) MovePointer(p Point, progress BinProgress) Volumes {
	if s.closed {
		return Volumes{}
	}
	s.Pointer = p
	return s.mixer.Update(p, s.Grid, progress)
}

// LeavePointer resets the pointer to the sentinel and mutes everything.
func (s *Session) LeavePointer() Volumes {
	s.Pointer = FarAway
	return s.mixer.Silence()
}

// Remix reapplies the mixer at the current pointer, e.g. after a capture.
func (s *Session) Remix(progress BinProgress) Volumes {
	if s.closed {
		return Volumes{}
	}
	return s.mixer.Update(s.Pointer, s.Grid, progress)
}

// Volumes returns the volumes last sent to the audio backend.
func (s *Session) Volumes() Volumes {
	return s.mixer.Last()
}

// Classify runs a capture for bin at the last pointer position. A miss
// raises the failure signal.
func (s *Session) Classify(bin int, progress BinProgress, report BinReporter) (CaptureResult, error) {
	if s.Failure {
		return CaptureResult{Outcome: OutcomeSuppressed, Bin: bin}, nil
	}
	res, err := s.engine.Capture(s.Grid, bin, s.Pointer, progress, report)
	if err != nil {
		return res, err
	}
	switch res.Outcome {
	case OutcomeCaptured:
		s.logger.Info("cell captured", "bin", bin, "row", res.Cell.Row, "col", res.Cell.Col, "distance", res.Distance, "reported", res.Reported)
	case OutcomeMiss:
		s.Failure = true
		s.logger.Debug("classification missed", "bin", bin, "x", s.Pointer.X, "y", s.Pointer.Y)
	}
	return res, nil
}

// ClearFailure drops the failure signal.
func (s *Session) ClearFailure() {
	s.Failure = false
}

// Close stops the session's audio. Safe to call more than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.out != nil {
		s.out.Stop()
	}
	s.logger.Info("session closed")
}
