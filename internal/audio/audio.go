package audio

import (
	"fmt"
	"path/filepath"
)

// Sources is the number of looping tracks a refinement session owns.
const Sources = 3

// Controller is the command surface the refinement core drives.
// Every call is fire-and-forget: implementations must never block on
// playback and must treat missing or broken resources as silence.
type Controller interface {
	// Start stops anything still playing, then loops the file's tracks at zero volume.
	Start(file string)
	// SetVolume sets the linear volume (0..1) of track audioID (1..Sources).
	SetVolume(audioID int, volume float64)
	// Stop halts and releases every track.
	Stop()
}

// TrackPath returns the resource path for a file's track.
func TrackPath(root, file string, audioID int) string {
	return filepath.Join(root, file, fmt.Sprintf("%d.mp3", audioID))
}

// Clamp limits v to the 0..1 volume range.
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
