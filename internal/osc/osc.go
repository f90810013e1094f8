package osc

import "math"

// Shape selects the waveform a Phasor evaluates.
type Shape int

const (
	Sine Shape = iota
	Square
	Sawtooth
	Triangle
)

func (s Shape) String() string {
	switch s {
	case Square:
		return "square"
	case Sawtooth:
		return "sawtooth"
	case Triangle:
		return "triangle"
	default:
		return "sine"
	}
}

// Phasor is a free-running oscillator that produces one sample per call at a
// frequency supplied per sample, so the caller can modulate pitch at audio rate.
type Phasor struct {
	shape Shape
	phase float64 // current phase [0, 1)
}

func New(shape Shape) *Phasor {
	if shape < Sine || shape > Triangle {
		shape = Sine
	}
	return &Phasor{shape: shape}
}

// Shape returns the configured waveform.
func (p *Phasor) Shape() Shape {
	return p.shape
}

// Sample returns the waveform value in [-1, 1] at the current phase and then
// advances the phase by freqHz/sampleRate. Negative frequencies run backwards.
func (p *Phasor) Sample(freqHz, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}
	v := Eval(p.shape, p.phase)

	p.phase += freqHz / sampleRate
	p.phase -= math.Floor(p.phase)
	return v
}

// Reset zeros the phase.
func (p *Phasor) Reset() {
	p.phase = 0
}

// Eval returns the value of shape at phase (taken modulo 1).
func Eval(shape Shape, phase float64) float64 {
	phase -= math.Floor(phase)
	switch shape {
	case Square:
		if phase < 0.5 {
			return 1.0
		}
		return -1.0
	case Sawtooth:
		return 2.0*phase - 1.0
	case Triangle:
		if phase < 0.5 {
			return 4.0*phase - 1.0
		}
		return 3.0 - 4.0*phase
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// CentsRatio converts a detune in cents to a frequency ratio.
func CentsRatio(cents float64) float64 {
	if cents == 0 {
		return 1
	}
	return math.Exp2(cents / 1200)
}
