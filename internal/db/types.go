package db

import (
	"errors"
	"time"
)

// Bins is the number of classification bins tracked per file.
const Bins = 3

// ErrLocked is returned when another process holds the progress database.
var ErrLocked = errors.New("progress database is locked by another instance")

// ErrReadOnly is returned by writes on a store opened for reading.
var ErrReadOnly = errors.New("progress store is read-only")

// Capture is a journaled successful classification.
type Capture struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	File      string    `json:"file"`
	Bin       int       `json:"bin"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	CreatedAt time.Time `json:"created_at"`
}

// Store interface defines the methods for persistent storage
type Store interface {
	Close() error

	// Progress
	LoadProgress() (map[string][Bins]int, error)
	SaveBinProgress(file string, bin, value int) error
	ResetProgress() error

	// Capture journal
	RecordCapture(c Capture) error
	QueryCaptures(file string, limit int) ([]Capture, error)
}
