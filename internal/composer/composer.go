// Package composer generates the background music: a depth-driven mode picks
// a palette of pitch sets, an intensity derived from heat and combat picks
// which layers play, and a self-rescheduling tick on the audio clock emits
// notes.
package composer

import (
	"math/rand"
	"sync"

	"github.com/cbegin/drillsynth-go/internal/graph"
	"github.com/cbegin/drillsynth-go/internal/mixer"
	"github.com/cbegin/drillsynth-go/internal/telemetry"
	"github.com/cbegin/drillsynth-go/internal/voice"
)

// Timing, in seconds.
const (
	RotateEvery   = 12.0
	BaseDelay     = 0.6
	VoidBaseDelay = 0.2
	DelayJitter   = 1.5

	TensionChance = 0.4
	CombatChance  = 0.6
	DetuneCents   = 5.0
)

// IntensityFor derives the layer intensity from a snapshot.
func IntensityFor(s telemetry.Snapshot) mixer.Intensity {
	switch {
	case s.Combat:
		return mixer.High
	case s.Overheated || s.Heat > 70:
		return mixer.Medium
	}
	return mixer.Low
}

// NextDelay is the gap before the next tick; jitter is a uniform draw in
// [0, 1).
func NextDelay(m Mode, i mixer.Intensity, jitter float64) float64 {
	base := BaseDelay
	if m == Void {
		base = VoidBaseDelay
	}
	factor := 1.0
	switch i {
	case mixer.Medium:
		factor = 0.8
	case mixer.High:
		factor = 0.5
	}
	return (base + jitter*DelayJitter) * factor
}

type envelope struct {
	peak, attack, decay float64
}

var envelopes = [3]envelope{
	mixer.Melody:  {peak: 0.12, attack: 0.015, decay: 3.0},
	mixer.Tension: {peak: 0.08, attack: 0.015, decay: 4.0},
	mixer.Combat:  {peak: 0.1, attack: 0.010, decay: 0.45},
}

// Composer schedules and plays notes into the mixer's music layers.
type Composer struct {
	mu        sync.Mutex
	g         *graph.Graph
	mix       *mixer.Mixer
	rng       *rand.Rand
	active    func() bool
	mode      Mode
	intensity mixer.Intensity
	index     int
	tick      *graph.Timer
	rotate    *graph.Timer
	started   bool
	notes     [3]int
	voices    voice.Counter
}

// New creates a stopped composer. active reports whether audio is running;
// ticks while it is false play nothing. rng must not be shared with another
// goroutine.
func New(g *graph.Graph, mix *mixer.Mixer, rng *rand.Rand, active func() bool) *Composer {
	if active == nil {
		active = func() bool { return true }
	}
	return &Composer{g: g, mix: mix, rng: rng, active: active}
}

// Start schedules the first tick and the rotation timer. It is a no-op when
// already started.
func (c *Composer) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true
	c.tick = c.g.AfterFunc(NextDelay(c.mode, c.intensity, c.rng.Float64()), c.onTick)
	c.rotate = c.g.AfterFunc(RotateEvery, c.onRotate)
}

// Stop cancels both timers. Notes already playing finish.
func (c *Composer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = false
	if c.tick != nil {
		c.tick.Stop()
	}
	if c.rotate != nil {
		c.rotate.Stop()
	}
}

// Update moves the composer to s's mode and intensity. A mode change resets
// the variation; an intensity change crossfades the layers.
func (c *Composer) Update(s telemetry.Snapshot) {
	m := ModeForDepth(s.Depth)
	in := IntensityFor(s)
	c.mu.Lock()
	defer c.mu.Unlock()
	if m != c.mode {
		c.mode = m
		c.index = 0
	}
	if in != c.intensity {
		c.intensity = in
		c.mix.CrossfadeLayers(in)
	}
}

// State returns the current mode, intensity and variation index.
func (c *Composer) State() (Mode, mixer.Intensity, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode, c.intensity, c.index
}

// Notes returns how many notes each layer has played.
func (c *Composer) Notes() (melody, tension, combat int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notes[mixer.Melody], c.notes[mixer.Tension], c.notes[mixer.Combat]
}

// ActiveNotes returns the number of notes still sounding.
func (c *Composer) ActiveNotes() int { return c.voices.Active() }

// Rotate switches to a different variation of the current mode.
func (c *Composer) Rotate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(Palettes[c.mode])
	if n < 2 {
		c.index = 0
		return
	}
	next := c.rng.Intn(n - 1)
	if next >= c.index {
		next++
	}
	c.index = next
}

// Tick plays one step of music and returns the delay before the next.
func (c *Composer) Tick() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	pal := Palettes[c.mode]
	v := pal[c.index%len(pal)]
	playing := c.active()

	if c.rng.Float64() < v.Density && len(v.Pitches) > 0 {
		c.note(playing, mixer.Melody, v.Wave, v.Pitches[c.rng.Intn(len(v.Pitches))])
	}
	if c.intensity >= mixer.Medium && c.rng.Float64() < TensionChance {
		c.note(playing, mixer.Tension, v.Wave, v.Root()/2)
	}
	if c.intensity == mixer.High && c.rng.Float64() < CombatChance && len(v.Pitches) > 0 {
		c.note(playing, mixer.Combat, voice.Square, 2*v.Pitches[c.rng.Intn(len(v.Pitches))])
	}
	return NextDelay(c.mode, c.intensity, c.rng.Float64())
}

func (c *Composer) note(playing bool, l mixer.Layer, wave voice.Source, freq float64) {
	detune := (c.rng.Float64()*2 - 1) * DetuneCents
	if !playing {
		return
	}
	e := envelopes[l]
	r := voice.Recipe{
		Name:   l.String(),
		Layers: []voice.Layer{voice.Tone(wave, freq, e.peak, e.attack, e.decay, detune, 0)},
	}
	voice.Play(c.g, c.mix.Layer(l), nil, r, voice.Params{}, &c.voices)
	c.notes[l]++
}

func (c *Composer) onTick() {
	d := c.Tick()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		c.tick = c.g.AfterFunc(d, c.onTick)
	}
}

func (c *Composer) onRotate() {
	c.Rotate()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		c.rotate = c.g.AfterFunc(RotateEvery, c.onRotate)
	}
}
