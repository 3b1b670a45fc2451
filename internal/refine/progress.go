package refine

import (
	"errors"
	"fmt"
	"log/slog"
)

// BinFull is the only non-zero value a bin reaches; captures are all or nothing.
const BinFull = 100

// ErrUnknownBin is returned for bin indices outside 0..AudioSources-1.
var ErrUnknownBin = errors.New("unknown bin")

// BinProgress is the per-file completion of each bin, in percent.
type BinProgress [AudioSources]int

// BinComplete reports whether bin is at 100.
func (b BinProgress) BinComplete(bin int) bool {
	if bin < 0 || bin >= len(b) {
		return false
	}
	return b[bin] >= BinFull
}

// Complete reports whether every bin is at 100.
func (b BinProgress) Complete() bool {
	for i := range b {
		if !b.BinComplete(i) {
			return false
		}
	}
	return true
}

// Percent is the file completion figure shown in the header: 33 per full bin
// plus 1 only when all bins are full, so it jumps from 99 to 100.
func (b BinProgress) Percent() int {
	pct := 0
	for i := range b {
		if b.BinComplete(i) {
			pct += 33
		}
	}
	if b.Complete() {
		pct++
	}
	return pct
}

// ProgressStore persists bin progress between runs.
type ProgressStore interface {
	LoadProgress() (map[string][AudioSources]int, error)
	SaveBinProgress(file string, bin, value int) error
}

// Tracker owns BinProgress for every file and detects global completion.
type Tracker struct {
	known     []string
	progress  map[string]BinProgress
	store     ProgressStore
	logger    *slog.Logger
	announced bool
}

// NewTracker returns a tracker for the known files. store may be nil.
func NewTracker(known []string, store ProgressStore, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		known:    append([]string(nil), known...),
		progress: make(map[string]BinProgress),
		store:    store,
		logger:   logger,
	}
}

// Load reads persisted progress. Files that are already complete at load
// time do not trigger a completion announcement.
func (t *Tracker) Load() error {
	if t.store == nil {
		return nil
	}
	saved, err := t.store.LoadProgress()
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	for file, bins := range saved {
		t.progress[file] = BinProgress(bins)
	}
	t.announced = t.AllFilesComplete(t.known)
	return nil
}

// Known returns the files the tracker aggregates over.
func (t *Tracker) Known() []string {
	return append([]string(nil), t.known...)
}

// Progress returns a copy of the file's bins.
func (t *Tracker) Progress(file string) BinProgress {
	return t.progress[file]
}

// FileCompletionPercent returns the header percentage for file.
func (t *Tracker) FileCompletionPercent(file string) int {
	return t.progress[file].Percent()
}

// AllFilesComplete reports whether every file in known has all bins full.
func (t *Tracker) AllFilesComplete(known []string) bool {
	for _, file := range known {
		if !t.progress[file].Complete() {
			return false
		}
	}
	return true
}

// Update sets one bin of file, preserving the others. It returns true
// exactly once: on the update that first makes every known file complete.
// The caller schedules the completion notification after CompletionDelay.
func (t *Tracker) Update(file string, bin, value int) (bool, error) {
	if bin < 0 || bin >= AudioSources {
		return false, fmt.Errorf("%w: %d", ErrUnknownBin, bin)
	}
	value = max(0, min(BinFull, value))

	bins := t.progress[file]
	bins[bin] = value
	t.progress[file] = bins
	t.logger.Info("bin updated", "file", file, "bin", bin, "value", value, "file_percent", bins.Percent())

	if t.store != nil {
		if err := t.store.SaveBinProgress(file, bin, value); err != nil {
			t.logger.Error("failed to persist bin progress", "file", file, "bin", bin, "error", err)
		}
	}

	if t.announced || !t.AllFilesComplete(t.known) {
		return false, nil
	}
	t.announced = true
	t.logger.Info("all files refined", "files", len(t.known))
	return true, nil
}
