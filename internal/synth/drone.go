package synth

import (
	"math"
	"sync"

	"github.com/cbegin/drillsynth-go/internal/graph"
	"github.com/cbegin/drillsynth-go/internal/osc"
	"github.com/cbegin/drillsynth-go/internal/telemetry"
)

// Drone constants.
const (
	DroneMaxDepth = 50000.0
	DroneDetune   = 1.01
	DroneQ        = 2.0
	DroneSend     = 0.5
	DroneRampTime = 1.0
	// The right path lags the left so the two sides decorrelate.
	droneSpread = 0.012
)

// DroneTargets are the drone's control values for one snapshot.
type DroneTargets struct {
	Pitch  float64
	Width  float64
	Cutoff float64
	Gain   float64
}

// DroneTargetsFor computes the drone's targets from depth and heat.
func DroneTargetsFor(depth, heat float64) DroneTargets {
	r := math.Min(depth/DroneMaxDepth, 1)
	if r < 0 {
		r = 0
	}
	return DroneTargets{
		Pitch:  math.Max(30, 55-depth/5000),
		Width:  0.2 + 0.6*r,
		Cutoff: (100 + heat*20) * (1 - 0.3*r),
		Gain:   0.15 + 0.1*r,
	}
}

// Drone is two slightly detuned sawtooths under a slowly wandering lowpass.
type Drone struct {
	mu      sync.Mutex
	osc1    *graph.Oscillator
	osc2    *graph.Oscillator
	filter  *graph.Filter
	gain    *graph.Gain
	left    *graph.Panner
	right   *graph.Panner
	targets DroneTargets
}

// NewDrone builds and starts the drone into the music bus.
func NewDrone(g *graph.Graph, dry, wet graph.Node) *Drone {
	t := DroneTargetsFor(0, 0)
	d := &Drone{targets: t}

	d.osc1 = g.NewOscillator(osc.Sawtooth, t.Pitch)
	d.osc2 = g.NewOscillator(osc.Sawtooth, t.Pitch*DroneDetune)
	d.filter = g.NewFilter(graph.Lowpass, t.Cutoff, DroneQ)
	d.osc1.Connect(d.filter)
	d.osc2.Connect(d.filter)

	lfos := []*graph.Oscillator{
		g.NewOscillator(osc.Sine, 0.05),
		g.NewOscillator(osc.Sine, 0.083),
	}
	for i, depth := range []float64{60, 40} {
		dg := g.NewGain(depth)
		lfos[i].Connect(dg)
		dg.ConnectParam(d.filter.Frequency())
	}

	d.gain = g.NewGain(t.Gain)
	d.filter.Connect(d.gain)
	d.left = g.NewPanner(-t.Width)
	d.right = g.NewPanner(t.Width)
	lag := g.NewDelay(droneSpread)
	d.gain.Connect(d.left)
	d.gain.Connect(lag)
	lag.Connect(d.right)
	d.left.Connect(dry)
	d.right.Connect(dry)

	if wet != nil {
		send := g.NewGain(DroneSend)
		d.gain.Connect(send)
		send.Connect(wet)
	}

	now := g.Now()
	for _, o := range append([]*graph.Oscillator{d.osc1, d.osc2}, lfos...) {
		o.Start(now)
	}
	return d
}

// Update glides the drone toward the targets for s.
func (d *Drone) Update(s telemetry.Snapshot) {
	t := DroneTargetsFor(s.Depth, s.Heat)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.osc1.Frequency().RampTo(t.Pitch, DroneRampTime)
	d.osc2.Frequency().RampTo(t.Pitch*DroneDetune, DroneRampTime)
	d.filter.Frequency().RampTo(t.Cutoff, DroneRampTime)
	d.gain.Gain().RampTo(t.Gain, DroneRampTime)
	d.left.Pan().RampTo(-t.Width, DroneRampTime)
	d.right.Pan().RampTo(t.Width, DroneRampTime)
	d.targets = t
}

// Targets returns the targets of the last update.
func (d *Drone) Targets() DroneTargets {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.targets
}

// Gain exposes the drone level param.
func (d *Drone) Gain() *graph.Param { return d.gain.Gain() }
