// Package beep plays refinement tracks through the system speaker. It is
// kept apart from package audio because the speaker needs cgo.
package beep

import (
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	gobeep "github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"

	"mdr/internal/audio"
)

// DefaultSampleRate is the speaker rate; tracks with other rates are resampled.
const DefaultSampleRate = gobeep.SampleRate(44100)

type track struct {
	stream gobeep.StreamSeekCloser
	volume *effects.Volume
}

// Deck plays a file's tracks through the system speaker. It implements
// audio.Controller.
type Deck struct {
	root       string
	sampleRate gobeep.SampleRate
	logger     *slog.Logger

	mu          sync.Mutex
	initialized bool
	unavailable bool
	tracks      [audio.Sources]*track
}

// New returns a deck reading tracks from root. The speaker is
// opened lazily on the first Start.
func New(root string, logger *slog.Logger) *Deck {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deck{
		root:       root,
		sampleRate: DefaultSampleRate,
		logger:     logger.With("component", "audio"),
	}
}

func (d *Deck) initSpeaker() bool {
	if d.initialized {
		return true
	}
	if d.unavailable {
		return false
	}
	if err := speaker.Init(d.sampleRate, d.sampleRate.N(time.Second/10)); err != nil {
		d.unavailable = true
		d.logger.Warn("audio output unavailable, continuing silently", "error", err)
		return false
	}
	d.initialized = true
	return true
}

// Start loads and loops the file's tracks, muted.
func (d *Deck) Start(file string) {
	d.Stop()

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initSpeaker() {
		return
	}

	var streams []gobeep.Streamer
	for id := 1; id <= audio.Sources; id++ {
		t, err := d.open(file, id)
		if err != nil {
			d.logger.Warn("failed to load track", "file", file, "audio_id", id, "error", err)
			continue
		}
		d.tracks[id-1] = t
		streams = append(streams, t.volume)
	}
	if len(streams) > 0 {
		speaker.Play(streams...)
	}
	d.logger.Debug("tracks started", "file", file, "loaded", len(streams))
}

func (d *Deck) open(file string, id int) (*track, error) {
	path := audio.TrackPath(d.root, file, id)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	stream, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	var s gobeep.Streamer = gobeep.Loop(-1, stream)
	if format.SampleRate != d.sampleRate {
		s = gobeep.Resample(4, format.SampleRate, d.sampleRate, s)
	}
	return &track{
		stream: stream,
		volume: &effects.Volume{Streamer: s, Base: 2, Silent: true},
	}, nil
}

// SetVolume applies a linear level. The linear level is converted to the
// exponent effects.Volume expects.
func (d *Deck) SetVolume(audioID int, volume float64) {
	if audioID < 1 || audioID > audio.Sources {
		return
	}
	d.mu.Lock()
	t := d.tracks[audioID-1]
	d.mu.Unlock()
	if t == nil {
		return
	}

	volume = audio.Clamp(volume)
	speaker.Lock()
	t.volume.Silent = volume == 0
	if volume > 0 {
		t.volume.Volume = math.Log2(volume)
	}
	speaker.Unlock()
}

// Stop halts and releases every track.
func (d *Deck) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return
	}
	speaker.Clear()
	for i, t := range d.tracks {
		if t == nil {
			continue
		}
		if err := t.stream.Close(); err != nil {
			d.logger.Debug("failed to close track", "audio_id", i+1, "error", err)
		}
		d.tracks[i] = nil
	}
}

// Close stops playback and releases the speaker.
func (d *Deck) Close() {
	d.Stop()
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.initialized {
		speaker.Close()
		d.initialized = false
	}
}
