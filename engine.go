// Package drillsynth is the procedural audio engine of a drilling game. An
// Engine turns per-frame game telemetry and discrete game events into a
// continuously rendered soundscape: a physically modelled drill, an overheat
// steam vent, an ambient drone, generative background music and one-shot
// effects, mixed on three user volume channels.
//
// No public method returns an error or panics. While the host has no audio,
// or before Init, every call is a no-op.
package drillsynth

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	intaudio "github.com/cbegin/drillsynth-go/internal/audio"
	intcomp "github.com/cbegin/drillsynth-go/internal/composer"
	intgraph "github.com/cbegin/drillsynth-go/internal/graph"
	intmix "github.com/cbegin/drillsynth-go/internal/mixer"
	intsfx "github.com/cbegin/drillsynth-go/internal/sfx"
	intsynth "github.com/cbegin/drillsynth-go/internal/synth"
)

var (
	// ErrHostUnavailable means the host has no usable audio output.
	ErrHostUnavailable = errors.New("drillsynth: audio host unavailable")
	// ErrSuspended means the host has not started (or has paused) playback.
	ErrSuspended = errors.New("drillsynth: audio suspended")
	// ErrInvalidVoiceState means a call arrived before Init or after Close.
	ErrInvalidVoiceState = errors.New("drillsynth: engine not initialized")
)

// EngineState is the lifecycle state of an Engine.
type EngineState int32

const (
	StateUninitialized EngineState = iota
	StateInitializing
	StateSuspended
	StateRunning
	StateUnavailable
)

func (s EngineState) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	case StateUnavailable:
		return "unavailable"
	}
	return "uninitialized"
}

// Engine owns the audio graph and every sound component. Create one with
// New and call Init once the game is ready to make sound.
type Engine struct {
	cfg   engineConfig
	log   *log.Logger
	state atomic.Int32

	mu     sync.Mutex
	g      *intgraph.Graph
	out    intaudio.Output
	mix    *intmix.Mixer
	drill  *intsynth.Drill
	steam  *intsynth.Steam
	drone  *intsynth.Drone
	comp   *intcomp.Composer
	sfx    *intsfx.Manager
	closed atomic.Bool

	warnMu sync.Mutex
	warned map[string]bool
}

func New(opts ...Option) *Engine {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{cfg: cfg, log: cfg.logger, warned: make(map[string]bool)}
}

// State returns the current lifecycle state.
func (e *Engine) State() EngineState {
	return EngineState(e.state.Load())
}

// SampleRate returns the rate the engine renders at.
func (e *Engine) SampleRate() int {
	return e.cfg.sampleRate
}

// Init builds the audio graph and starts the host output with s as the
// initial volumes. Calling it again only applies s and tries to resume.
func (e *Engine) Init(s Settings) {
	defer e.guard("Init")
	if e.closed.Load() {
		e.warn("Init", ErrInvalidVoiceState)
		return
	}
	e.mu.Lock()
	if e.g != nil {
		e.mu.Unlock()
		e.applySettings(s)
		e.TryResume()
		return
	}
	if e.State() == StateUnavailable {
		e.mu.Unlock()
		return
	}
	defer e.mu.Unlock()
	e.state.Store(int32(StateInitializing))

	out := e.cfg.output
	if out == nil {
		var err error
		out, err = intaudio.New(e.cfg.backend, e.cfg.sampleRate)
		if err != nil {
			e.unavailable(fmt.Errorf("open %q output: %w", e.cfg.backend, err))
			return
		}
	}

	g := intgraph.New(e.cfg.sampleRate, e.cfg.seed)
	mix := intmix.Bootstrap(g, [intmix.NumChannels]intmix.Level{
		intmix.Music: level(s.Music),
		intmix.SFX:   level(s.SFX),
		intmix.Drill: level(s.Drill),
	})
	music, fx, drill := mix.Bus(intmix.Music), mix.Bus(intmix.SFX), mix.Bus(intmix.Drill)
	e.g, e.mix = g, mix
	e.drill = intsynth.NewDrill(g, drill.Dry())
	e.steam = intsynth.NewSteam(g, fx.Dry(), e.cfg.clock)
	e.drone = intsynth.NewDrone(g, music.Dry(), music.Wet())
	e.comp = intcomp.New(g, mix, rand.New(rand.NewSource(e.cfg.seed+1)), e.running)
	e.sfx = intsfx.NewManager(g, fx.Dry(), fx.Wet(), e.cfg.clock)

	if err := out.Start(e); err != nil {
		g.Close()
		e.g = nil
		e.unavailable(fmt.Errorf("start output: %w", err))
		return
	}
	e.out = out
	e.comp.Start()
	if out.Ready() {
		e.state.Store(int32(StateRunning))
	} else {
		e.state.Store(int32(StateSuspended))
	}
	e.log.Printf("initialized at %d Hz, %s", e.cfg.sampleRate, e.State())
}

func (e *Engine) unavailable(err error) {
	e.state.Store(int32(StateUnavailable))
	e.log.Printf("audio disabled: %v", fmt.Errorf("%w: %w", ErrHostUnavailable, err))
}

func level(c Channel) intmix.Level {
	return intmix.Level{Volume: clamp01(c.Volume), Muted: c.Muted}
}

func (e *Engine) applySettings(s Settings) {
	e.mix.SetBusVolume(intmix.Music, s.Music.Volume, s.Music.Muted)
	e.mix.SetBusVolume(intmix.SFX, s.SFX.Volume, s.SFX.Muted)
	e.mix.SetBusVolume(intmix.Drill, s.Drill.Volume, s.Drill.Muted)
}

// TryResume asks a suspended host to start playback. It may be called on
// every user gesture; it does nothing once running.
func (e *Engine) TryResume() {
	defer e.guard("TryResume")
	if e.State() != StateSuspended || e.closed.Load() {
		return
	}
	e.mu.Lock()
	out := e.out
	e.mu.Unlock()
	if out == nil {
		return
	}
	if err := out.Resume(); err != nil && !errors.Is(err, intaudio.ErrNotReady) {
		e.log.Printf("resume: %v", err)
	}
	e.refreshState()
	if e.State() == StateRunning {
		e.log.Printf("audio running")
	}
}

// refreshState follows the host between suspended and running.
func (e *Engine) refreshState() {
	st := e.State()
	if st != StateSuspended && st != StateRunning {
		return
	}
	e.mu.Lock()
	out := e.out
	e.mu.Unlock()
	if out == nil {
		return
	}
	if out.Ready() {
		e.state.CompareAndSwap(int32(st), int32(StateRunning))
	} else {
		e.state.CompareAndSwap(int32(st), int32(StateSuspended))
	}
}

func (e *Engine) running() bool {
	return e.State() == StateRunning && !e.closed.Load()
}

// ready is the single capability check behind every public call.
func (e *Engine) ready() error {
	if e.closed.Load() {
		return ErrInvalidVoiceState
	}
	switch e.State() {
	case StateUnavailable:
		return ErrHostUnavailable
	case StateUninitialized, StateInitializing:
		return ErrInvalidVoiceState
	}
	e.mu.Lock()
	ok := e.g != nil
	e.mu.Unlock()
	if !ok {
		return ErrInvalidVoiceState
	}
	return nil
}

// guard converts a panic in op into a logged no-op.
func (e *Engine) guard(op string) {
	if r := recover(); r != nil {
		e.log.Printf("%s: recovered: %v", op, r)
	}
}

// warn logs an ignored call once per op, in verbose mode.
func (e *Engine) warn(op string, err error) {
	if !e.cfg.verbose {
		return
	}
	e.warnMu.Lock()
	defer e.warnMu.Unlock()
	key := op + ":" + err.Error()
	if e.warned[key] {
		return
	}
	e.warned[key] = true
	e.log.Printf("%s ignored: %v", op, err)
}

// Update feeds one frame of telemetry to the drill, steam, drone and
// composer.
func (e *Engine) Update(t Telemetry) {
	defer e.guard("Update")
	if err := e.ready(); err != nil {
		e.warn("Update", err)
		return
	}
	e.refreshState()
	s := t.Normalize()
	e.drill.Update(s)
	e.steam.Update(s)
	e.drone.Update(s)
	e.comp.Update(s)
}

func (e *Engine) setVolume(op string, ch intmix.Channel, volume float64, muted bool) {
	defer e.guard(op)
	if err := e.ready(); err != nil {
		e.warn(op, err)
		return
	}
	e.mix.SetBusVolume(ch, volume, muted)
}

func (e *Engine) SetMusicVolume(volume float64, muted bool) {
	e.setVolume("SetMusicVolume", intmix.Music, volume, muted)
}

func (e *Engine) SetSFXVolume(volume float64, muted bool) {
	e.setVolume("SetSFXVolume", intmix.SFX, volume, muted)
}

func (e *Engine) SetDrillVolume(volume float64, muted bool) {
	e.setVolume("SetDrillVolume", intmix.Drill, volume, muted)
}

// Process renders interleaved stereo frames for the host output.
func (e *Engine) Process(dst []float32) {
	if e.closed.Load() {
		clear(dst)
		return
	}
	e.g.Render(dst)
}

// Finished reports whether the host should stop pulling samples.
func (e *Engine) Finished() bool {
	return e.closed.Load()
}

// Render fills dst with interleaved stereo frames, advancing the engine's
// clock. It is meant for headless engines; with a live host output it races
// the device for samples. Before Init it writes silence.
func (e *Engine) Render(dst []float32) {
	defer e.guard("Render")
	e.mu.Lock()
	g := e.g
	e.mu.Unlock()
	if g == nil || e.closed.Load() {
		clear(dst)
		return
	}
	g.Render(dst)
}

// Now returns the engine's audio clock in seconds.
func (e *Engine) Now() float64 {
	e.mu.Lock()
	g := e.g
	e.mu.Unlock()
	if g == nil {
		return 0
	}
	return g.Now()
}

// Stats is a diagnostic snapshot.
type Stats struct {
	State          EngineState
	Clock          time.Duration
	LiveNodes      int
	ActiveVoices   int // one-shots and music notes still sounding
	MusicNotes     int
	SoundsPlayed   int
	SoundsDropped  int
	GainReduction  float64 // master compressor, linear
	MusicIntensity string
	MusicMode      string
}

func (e *Engine) Stats() Stats {
	defer e.guard("Stats")
	st := Stats{State: e.State()}
	if e.ready() != nil {
		return st
	}
	st.Clock = time.Duration(e.g.Now() * float64(time.Second))
	st.LiveNodes = e.g.LiveNodes()
	fx := e.sfx.Stats()
	st.SoundsPlayed = fx.Played
	st.SoundsDropped = fx.Dropped
	st.ActiveVoices = fx.Active + e.comp.ActiveNotes()
	m, t, c := e.comp.Notes()
	st.MusicNotes = m + t + c
	mode, in, _ := e.comp.State()
	st.MusicMode = mode.String()
	st.MusicIntensity = in.String()
	if comp := e.mix.Compressor(); comp != nil {
		st.GainReduction = comp.GainReduction()
	}
	return st
}

// Close stops the music, cancels timers and closes the host output. The
// engine is unusable afterwards.
func (e *Engine) Close() {
	defer e.guard("Close")
	if e.closed.Swap(true) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.comp != nil {
		e.comp.Stop()
	}
	if e.g != nil {
		e.g.Close()
	}
	if e.out != nil {
		if err := e.out.Close(); err != nil {
			e.log.Printf("close output: %v", err)
		}
	}
}
