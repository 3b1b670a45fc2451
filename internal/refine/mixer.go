package refine

import (
	"mdr/internal/audio"
)

// Volumes holds the linear volume applied to each source, indexed by audio id - 1.
type Volumes [AudioSources]float64

// Audible returns the audio id of the single audible source, or 0.
func (v Volumes) Audible() int {
	for i, vol := range v {
		if vol > 0 {
			return i + 1
		}
	}
	return 0
}

// Count returns how many sources are above zero volume.
func (v Volumes) Count() int {
	n := 0
	for _, vol := range v {
		if vol > 0 {
			n++
		}
	}
	return n
}

// Mixer turns pointer positions into volume commands. At most one source is
// audible at a time: the nearest idle source whose bin is still open.
type Mixer struct {
	InnerRadius  float64
	CutoffRadius float64

	out  audio.Controller
	last Volumes
}

// NewMixer returns a mixer driving out with the default radii.
func NewMixer(out audio.Controller) *Mixer {
	return &Mixer{
		InnerRadius:  AudioInnerRadius,
		CutoffRadius: AudioCutoffRadius,
		out:          out,
	}
}

// Volume maps a distance to a linear volume: 1 inside inner, 0 at or past
// cutoff, linear in between.
func Volume(dist, inner, cutoff float64) float64 {
	switch {
	case dist < inner:
		return 1
	case dist >= cutoff:
		return 0
	default:
		return 1 - (dist-inner)/(cutoff-inner)
	}
}

// Nearest returns the closest idle audio cell whose bin is not complete,
// together with its distance from p. It returns nil when there is none.
func Nearest(p Point, grid *Grid, progress BinProgress) (*Cell, float64) {
	var best *Cell
	bestDist := 0.0
	for _, cell := range grid.AudioCells() {
		if !cell.Idle() || progress.BinComplete(cell.AudioID-1) {
			continue
		}
		d := p.Distance(cell.Center())
		if best == nil || d < bestDist {
			best, bestDist = cell, d
		}
	}
	return best, bestDist
}

// Update recomputes and applies volumes for pointer p.
func (m *Mixer) Update(p Point, grid *Grid, progress BinProgress) Volumes {
	var vols Volumes
	if !p.IsFarAway() && grid != nil {
		if cell, dist := Nearest(p, grid, progress); cell != nil && dist < m.CutoffRadius {
			vols[cell.AudioID-1] = Volume(dist, m.InnerRadius, m.CutoffRadius)
		}
	}
	m.apply(vols)
	return vols
}

// Silence mutes every source.
func (m *Mixer) Silence() Volumes {
	var vols Volumes
	m.apply(vols)
	return vols
}

// Last returns the most recently applied volumes.
func (m *Mixer) Last() Volumes {
	return m.last
}

func (m *Mixer) apply(vols Volumes) {
	m.last = vols
	if m.out == nil {
		return
	}
	for i, v := range vols {
		m.out.SetVolume(i+1, v)
	}
}
