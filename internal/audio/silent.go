package audio

import "sync"

// Silent is a Controller that plays nothing and remembers what it was told.
// It backs --mute and stands in when no speaker is available.
type Silent struct {
	mu      sync.Mutex
	file    string
	playing bool
	volumes [Sources]float64
}

// NewSilent returns a stopped Silent controller.
func NewSilent() *Silent {
	return &Silent{}
}

// Start implements Controller.
func (s *Silent) Start(file string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = file
	s.playing = true
	s.volumes = [Sources]float64{}
}

// SetVolume implements Controller.
func (s *Silent) SetVolume(audioID int, volume float64) {
	if audioID < 1 || audioID > Sources {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing {
		s.volumes[audioID-1] = Clamp(volume)
	}
}

// Stop implements Controller.
func (s *Silent) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
	s.file = ""
	s.volumes = [Sources]float64{}
}

// Playing returns the active file, if any.
func (s *Silent) Playing() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file, s.playing
}

// Volume returns the last volume set for audioID.
func (s *Silent) Volume(audioID int) float64 {
	if audioID < 1 || audioID > Sources {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volumes[audioID-1]
}
