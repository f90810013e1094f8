package synth

import (
	"sync"
	"time"

	"github.com/cbegin/drillsynth-go/internal/graph"
	"github.com/cbegin/drillsynth-go/internal/osc"
	"github.com/cbegin/drillsynth-go/internal/telemetry"
)

// Steam vent constants.
const (
	SteamCutoff     = 1800.0
	SteamLFORate    = 0.3
	SteamLFODepth   = 600.0
	SteamPeak       = 0.3
	SteamDuration   = 10 * time.Second
	MaxCoolingBoost = 10.0

	// minCoolingInterval floors the time between updates when measuring
	// the cooling rate.
	minCoolingInterval = time.Second / 60
)

// SteamGain is the vent level elapsed into an overheat episode, at heat,
// while cooling by coolingRate heat units per second.
func SteamGain(elapsed time.Duration, heat, coolingRate float64) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= SteamDuration {
		return 0
	}
	if coolingRate < 0 {
		coolingRate = 0
	}
	if coolingRate > MaxCoolingBoost {
		coolingRate = MaxCoolingBoost
	}
	fade := 1 - elapsed.Seconds()/SteamDuration.Seconds()
	return SteamPeak * fade * (heat / 100) * (1 + coolingRate/MaxCoolingBoost)
}

// Steam is white noise through a turbulent highpass, audible only while the
// drill is overheated.
type Steam struct {
	mu       sync.Mutex
	now      func() time.Time
	noise    *graph.Noise
	filter   *graph.Filter
	lfo      *graph.Oscillator
	gain     *graph.Gain
	lastHeat float64
	lastAt   time.Time
	seen     bool
	venting  bool
	since    time.Time
	target   float64
}

// NewSteam builds and starts the vent, silent, into out. now is the wall
// clock overheat episodes are timed on; nil means time.Now.
func NewSteam(g *graph.Graph, out graph.Node, now func() time.Time) *Steam {
	if now == nil {
		now = time.Now
	}
	s := &Steam{now: now}
	s.noise = g.NewNoise(graph.White)
	s.filter = g.NewFilter(graph.Highpass, SteamCutoff, 0.7)
	s.gain = g.NewGain(0)
	s.noise.Connect(s.filter)
	s.filter.Connect(s.gain)
	s.gain.Connect(out)

	s.lfo = g.NewOscillator(osc.Sine, SteamLFORate)
	depth := g.NewGain(SteamLFODepth)
	s.lfo.Connect(depth)
	depth.ConnectParam(s.filter.Frequency())

	t := g.Now()
	s.noise.Start(t)
	s.lfo.Start(t)
	return s
}

// Update tracks overheat episodes and cooling, and ramps the vent gain.
func (s *Steam) Update(snap telemetry.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	cooling := 0.0
	if s.seen && s.lastHeat > snap.Heat {
		dt := max(now.Sub(s.lastAt), minCoolingInterval)
		cooling = (s.lastHeat - snap.Heat) / dt.Seconds()
	}
	s.lastHeat = snap.Heat
	s.lastAt = now
	s.seen = true

	target := 0.0
	if snap.Overheated {
		if !s.venting {
			s.venting = true
			s.since = now
		}
		target = SteamGain(now.Sub(s.since), snap.Heat, cooling)
	} else {
		s.venting = false
	}
	s.target = target
	s.gain.Gain().RampTo(target, RampTime)
}

// Target returns the gain the vent is heading to.
func (s *Steam) Target() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// Gain exposes the vent's output gain.
func (s *Steam) Gain() *graph.Param { return s.gain.Gain() }
