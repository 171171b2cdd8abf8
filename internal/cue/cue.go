// Package cue plays short tones for goto events.
package cue

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// Kind names a cue.
type Kind int

const (
	Waypoint Kind = iota // waypoint added
	Pop                  // waypoint removed
	NoPath               // destination unreachable
	Sent                 // orders accepted
	Rejected             // orders refused or failed to send
)

// SampleRate is the rate every cue is generated at.
const SampleRate = beep.SampleRate(44100)

// note is one tone; freq 0 is a rest.
type note struct {
	freq float64
	dur  time.Duration
}

var melodies = map[Kind][]note{
	Waypoint: {{880, 50 * time.Millisecond}},
	Pop:      {{660, 40 * time.Millisecond}},
	NoPath:   {{220, 60 * time.Millisecond}, {0, 30 * time.Millisecond}, {220, 60 * time.Millisecond}},
	Sent:     {{987.77, 60 * time.Millisecond}, {1318.51, 90 * time.Millisecond}},
	Rejected: {{330, 80 * time.Millisecond}, {196, 120 * time.Millisecond}},
}

// Length returns the number of samples the cue plays for.
func Length(k Kind) int {
	n := 0
	for _, nt := range melodies[k] {
		n += SampleRate.N(nt.dur)
	}
	return n
}

// Streamer builds a fresh streamer for k at volume vol (0..1).
func Streamer(k Kind, vol float64) (beep.Streamer, error) {
	notes, ok := melodies[k]
	if !ok {
		return nil, fmt.Errorf("cue: unknown kind %d", k)
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, nt := range notes {
		n := SampleRate.N(nt.dur)
		if nt.freq == 0 {
			parts = append(parts, beep.Silence(n))
			continue
		}
		tone, err := generators.SineTone(SampleRate, nt.freq)
		if err != nil {
			return nil, fmt.Errorf("cue: tone %.1f Hz: %w", nt.freq, err)
		}
		parts = append(parts, beep.Take(n, tone))
	}
	return withVolume(beep.Seq(parts...), vol), nil
}

// withVolume scales s linearly; zero or less silences it.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Player sends cues to the speaker. A zero Player, or one whose speaker
// failed to open, plays nothing.
type Player struct {
	mu     sync.Mutex
	ready  bool
	Volume float64
}

// NewPlayer opens the speaker. Failure is logged and leaves the player
// silent.
func NewPlayer(vol float64) *Player {
	p := &Player{Volume: vol}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		log.Printf("cue: audio initialization failed: %v", err)
		return p
	}
	p.ready = true
	return p
}

// Play queues k. It never blocks on the audio device.
func (p *Player) Play(k Kind) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	s, err := Streamer(k, p.Volume)
	if err != nil {
		log.Printf("%v", err)
		return
	}
	speaker.Play(s)
}

// Close releases the speaker.
func (p *Player) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		speaker.Close()
		p.ready = false
	}
}
