// Package voice plays declarative one-shot sound recipes on a graph. A voice
// allocates its nodes when played and disposes every one of them when its
// sources end.
package voice

import (
	"github.com/cbegin/drillsynth-go/internal/graph"
	"github.com/cbegin/drillsynth-go/internal/osc"
)

// Source is the generator of a layer.
type Source int

const (
	Sine Source = iota
	Square
	Sawtooth
	Triangle
	WhiteNoise
	PinkNoise
)

func (s Source) String() string {
	switch s {
	case WhiteNoise:
		return "white"
	case PinkNoise:
		return "pink"
	}
	return s.shape().String()
}

func (s Source) shape() osc.Shape {
	switch s {
	case Square:
		return osc.Square
	case Sawtooth:
		return osc.Sawtooth
	case Triangle:
		return osc.Triangle
	}
	return osc.Sine
}

func (s Source) noise() bool { return s == WhiteNoise || s == PinkNoise }

// Point is an automation breakpoint T seconds after the layer starts. The
// segment leading to it is linear, or exponential when Exp is set.
type Point struct {
	T   float64
	V   float64
	Exp bool
}

// Filter shapes a layer's source. Freq holds at least one breakpoint.
type Filter struct {
	Type graph.FilterType
	Freq []Point
	Q    float64
}

// LFOTarget is the param an LFO modulates.
type LFOTarget int

const (
	LFOPitch LFOTarget = iota
	LFOCutoff
)

// LFO adds Depth * shape(Rate) to its target param.
type LFO struct {
	Shape  osc.Shape
	Rate   float64
	Depth  float64
	Target LFOTarget
}

// Drive runs the source through a tanh waveshaper before the filter.
type Drive struct {
	Pre, Post float64
	LPF       float64 // Hz, 0 disables
}

// Layer is one source with its envelope. Gain and Freq breakpoints are
// relative to Offset; the layer's source stops at Offset + Duration.
type Layer struct {
	Source   Source
	Offset   float64
	Duration float64
	Freq     []Point // ignored for noise
	Gain     []Point
	Detune   float64 // cents
	Filter   *Filter
	LFO      *LFO
	Drive    *Drive
	Send     float64 // wet send weight, 0 = dry only
}

// End returns the layer's stop time relative to the trigger.
func (l Layer) End() float64 {
	return l.Offset + l.duration()
}

func (l Layer) duration() float64 {
	if l.Duration < MinDuration {
		return MinDuration
	}
	return l.Duration
}

// MinDuration keeps every stop strictly after its start.
const MinDuration = 0.005

// Recipe is a named set of layers played together.
type Recipe struct {
	Name   string
	Layers []Layer
}

// Length returns the time from trigger to the last layer's stop.
func (r Recipe) Length() float64 {
	var end float64
	for _, l := range r.Layers {
		if e := l.End(); e > end {
			end = e
		}
	}
	return end
}

// Tone is a single-oscillator note: linear attack to peak, then exponential
// decay to 0.001 at decay seconds after the attack.
func Tone(src Source, freq, peak, attack, decay, detune, send float64) Layer {
	return Layer{
		Source:   src,
		Duration: attack + decay + 0.05,
		Freq:     []Point{{T: 0, V: freq}},
		Gain: []Point{
			{T: 0, V: 0},
			{T: attack, V: peak},
			{T: attack + decay, V: 0.001, Exp: true},
		},
		Detune: detune,
		Send:   send,
	}
}
