// Package synth holds the engine's persistent voices: the drill model, the
// overheat steam vent and the ambient drone. Each is built once and driven by
// telemetry; updates only move control params.
package synth

import (
	"math"
	"sync"

	"github.com/cbegin/drillsynth-go/internal/graph"
	"github.com/cbegin/drillsynth-go/internal/osc"
	"github.com/cbegin/drillsynth-go/internal/telemetry"
)

// RampTime is how long drill and steam params take to reach a new target.
const RampTime = 0.2

// Resonance is the friction filter setting for one material.
type Resonance struct {
	Type     graph.FilterType
	Cutoff   float64
	Q        float64
	FMDepth  float64 // Hz of motor frequency deviation
	PitchMul float64
}

var resonances = map[telemetry.Material]Resonance{
	telemetry.Rock:    {Type: graph.Lowpass, Cutoff: 400, Q: 4, FMDepth: 0, PitchMul: 0.5},
	telemetry.Metal:   {Type: graph.Lowpass, Cutoff: 1200, Q: 8, FMDepth: 200, PitchMul: 1},
	telemetry.Crystal: {Type: graph.Bandpass, Cutoff: 3000, Q: 12, FMDepth: 0, PitchMul: 4},
}

// ResonanceFor returns m's resonance; unknown materials sound like rock.
func ResonanceFor(m telemetry.Material) Resonance {
	if r, ok := resonances[m]; ok {
		return r
	}
	return resonances[telemetry.Rock]
}

// DrillTargets are the param values the drill heads to for one snapshot.
type DrillTargets struct {
	Resonance
	MotorFreq    float64
	FMFreq       float64
	MotorGain    float64
	FrictionGain float64
}

// TargetsFor computes the drill's targets from s.
func TargetsFor(s telemetry.Snapshot) DrillTargets {
	r := ResonanceFor(s.Material)
	rpm := 50 + s.Heat*10
	t := DrillTargets{
		Resonance: r,
		MotorFreq: rpm * r.PitchMul,
	}
	t.FMFreq = t.MotorFreq * 1.5
	level := math.Min(0.2, s.Heat/100*0.15+0.05)
	if !s.Broken {
		t.MotorGain = level
	}
	if s.IsDrilling && !s.Overheated && !s.Broken {
		t.FrictionGain = level
	}
	return t
}

// Drill is pink-noise friction through a material resonance plus a sawtooth
// motor whose pitch an FM oscillator wobbles.
type Drill struct {
	mu       sync.Mutex
	noise    *graph.Noise
	filter   *graph.Filter
	friction *graph.Gain
	motor    *graph.Oscillator
	motorAmp *graph.Gain
	fm       *graph.Oscillator
	fmDepth  *graph.Gain
	targets  DrillTargets
}

// NewDrill builds and starts the drill voice, silent, into out.
func NewDrill(g *graph.Graph, out graph.Node) *Drill {
	t := TargetsFor(telemetry.Snapshot{})
	d := &Drill{targets: t}

	d.noise = g.NewNoise(graph.Pink)
	d.filter = g.NewFilter(t.Type, t.Cutoff, t.Q)
	d.friction = g.NewGain(0)
	d.noise.Connect(d.filter)
	d.filter.Connect(d.friction)
	d.friction.Connect(out)

	d.motor = g.NewOscillator(osc.Sawtooth, t.MotorFreq)
	d.motorAmp = g.NewGain(0)
	d.motor.Connect(d.motorAmp)
	d.motorAmp.Connect(out)

	d.fm = g.NewOscillator(osc.Sine, t.FMFreq)
	d.fmDepth = g.NewGain(t.FMDepth)
	d.fm.Connect(d.fmDepth)
	d.fmDepth.ConnectParam(d.motor.Frequency())

	now := g.Now()
	d.noise.Start(now)
	d.motor.Start(now)
	d.fm.Start(now)
	return d
}

// Update ramps every drill param toward the targets for s.
func (d *Drill) Update(s telemetry.Snapshot) {
	t := TargetsFor(s)
	d.mu.Lock()
	defer d.mu.Unlock()
	if t.Type != d.targets.Type {
		d.filter.SetType(t.Type)
	}
	d.filter.Frequency().RampTo(t.Cutoff, RampTime)
	d.filter.Q().RampTo(t.Q, RampTime)
	d.motor.Frequency().RampTo(t.MotorFreq, RampTime)
	d.fm.Frequency().RampTo(t.FMFreq, RampTime)
	d.fmDepth.Gain().RampTo(t.FMDepth, RampTime)
	d.motorAmp.Gain().RampTo(t.MotorGain, RampTime)
	d.friction.Gain().RampTo(t.FrictionGain, RampTime)
	d.targets = t
}

// Targets returns the targets of the last update.
func (d *Drill) Targets() DrillTargets {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.targets
}

// MotorGain and FrictionGain expose the output stages.
func (d *Drill) MotorGain() *graph.Param    { return d.motorAmp.Gain() }
func (d *Drill) FrictionGain() *graph.Param { return d.friction.Gain() }
func (d *Drill) Filter() *graph.Filter      { return d.filter }
