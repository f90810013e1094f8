package composer

import "github.com/cbegin/drillsynth-go/internal/voice"

// Mode is the musical region, chosen by depth.
type Mode int

const (
	Surface Mode = iota
	Crystal
	Deep
	Void
)

func (m Mode) String() string {
	switch m {
	case Crystal:
		return "CRYSTAL"
	case Deep:
		return "DEEP"
	case Void:
		return "VOID"
	}
	return "SURFACE"
}

// Depth thresholds between modes, in metres.
const (
	CrystalDepth = 5000
	DeepDepth    = 20000
	VoidDepth    = 50000
)

// ModeForDepth returns the mode for depth.
func ModeForDepth(depth float64) Mode {
	switch {
	case depth < CrystalDepth:
		return Surface
	case depth < DeepDepth:
		return Crystal
	case depth < VoidDepth:
		return Deep
	}
	return Void
}

// Variation is one flavour of a mode: a pitch set, a waveform and how often
// a tick plays a melody note.
type Variation struct {
	Pitches []float64
	Wave    voice.Source
	Density float64
}

// Root is the lowest-index pitch, used for tension notes.
func (v Variation) Root() float64 {
	if len(v.Pitches) == 0 {
		return 0
	}
	return v.Pitches[0]
}

// Palettes holds every mode's variations. Each has at least two.
var Palettes = map[Mode][]Variation{
	Surface: {
		{Pitches: []float64{261.63, 293.66, 329.63, 392.00, 440.00}, Wave: voice.Triangle, Density: 0.5},
		{Pitches: []float64{196.00, 220.00, 261.63, 293.66, 329.63}, Wave: voice.Sine, Density: 0.35},
		{Pitches: []float64{329.63, 392.00, 440.00, 523.25}, Wave: voice.Triangle, Density: 0.45},
	},
	Crystal: {
		{Pitches: []float64{523.25, 659.25, 783.99, 987.77, 1046.50}, Wave: voice.Sine, Density: 0.55},
		{Pitches: []float64{587.33, 739.99, 880.00, 1108.73}, Wave: voice.Sine, Density: 0.4},
		{Pitches: []float64{493.88, 622.25, 739.99, 932.33}, Wave: voice.Triangle, Density: 0.5},
	},
	Deep: {
		{Pitches: []float64{110.00, 130.81, 146.83, 164.81, 196.00}, Wave: voice.Triangle, Density: 0.3},
		{Pitches: []float64{98.00, 116.54, 146.83, 174.61}, Wave: voice.Sine, Density: 0.25},
		{Pitches: []float64{123.47, 146.83, 164.81, 185.00}, Wave: voice.Sawtooth, Density: 0.2},
	},
	Void: {
		{Pitches: []float64{55.00, 58.27, 82.41, 87.31}, Wave: voice.Sine, Density: 0.2},
		{Pitches: []float64{61.74, 65.41, 92.50}, Wave: voice.Sine, Density: 0.15},
		{Pitches: []float64{73.42, 77.78, 110.00}, Wave: voice.Triangle, Density: 0.25},
	},
}
