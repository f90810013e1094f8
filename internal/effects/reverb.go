package effects

import "math"

// Reverb is a Schroeder reverb (four parallel combs, two series allpasses per
// channel) whose comb feedback is derived from a target decay time, giving a
// fixed tail of roughly decaySec seconds to -60 dB. Output is fully wet.
type Reverb struct {
	combsL, combsR [4]combFilter
	apL, apR       [2]allpassFilter
	decay          float64
}

type combFilter struct {
	buf  []float64
	pos  int
	fb   float64
	damp float64
	lp   float64
}

type allpassFilter struct {
	buf []float64
	pos int
	fb  float64
}

var (
	combTunings    = [4]float64{0.0297, 0.0371, 0.0411, 0.0437}
	allpassTunings = [2]float64{0.0050, 0.0017}
)

const stereoSpread = 23 // samples added to the right channel's lines

// NewReverb creates a reverb whose tail decays by 60 dB in decaySec seconds.
// damping (0..1) rolls off highs inside the comb loops.
func NewReverb(sampleRate int, decaySec, damping float64) *Reverb {
	if decaySec < 0.1 {
		decaySec = 0.1
	}
	damping = clamp(damping, 0, 0.95)
	sr := float64(sampleRate)
	r := &Reverb{decay: decaySec}
	for i, sec := range combTunings {
		n := maxInt(int(sec*sr), 1)
		// RT60: each pass through a comb of length n must lose 60dB*n/(sr*decay).
		fb := math.Pow(10, -3*float64(n)/(sr*decaySec))
		r.combsL[i] = combFilter{buf: make([]float64, n), fb: fb, damp: damping}
		r.combsR[i] = combFilter{buf: make([]float64, n+stereoSpread), fb: fb, damp: damping}
	}
	for i, sec := range allpassTunings {
		n := maxInt(int(sec*sr), 1)
		r.apL[i] = allpassFilter{buf: make([]float64, n), fb: 0.5}
		r.apR[i] = allpassFilter{buf: make([]float64, n+stereoSpread), fb: 0.5}
	}
	return r
}

// DecaySeconds returns the configured tail length.
func (r *Reverb) DecaySeconds() float64 {
	return r.decay
}

func (r *Reverb) Process(l, rr float64) (float64, float64) {
	in := (l + rr) * 0.5
	var outL, outR float64
	for i := range r.combsL {
		outL += r.combsL[i].process(in)
		outR += r.combsR[i].process(in)
	}
	outL *= 0.25
	outR *= 0.25
	for i := range r.apL {
		outL = r.apL[i].process(outL)
		outR = r.apR[i].process(outR)
	}
	return outL, outR
}

func (r *Reverb) Reset() {
	for i := range r.combsL {
		r.combsL[i].reset()
		r.combsR[i].reset()
	}
	for i := range r.apL {
		r.apL[i].reset()
		r.apR[i].reset()
	}
}

func (c *combFilter) process(in float64) float64 {
	out := c.buf[c.pos]
	c.lp = out*(1-c.damp) + c.lp*c.damp
	c.buf[c.pos] = in + c.lp*c.fb
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

func (c *combFilter) reset() {
	for j := range c.buf {
		c.buf[j] = 0
	}
	c.pos = 0
	c.lp = 0
}

func (a *allpassFilter) process(in float64) float64 {
	bufOut := a.buf[a.pos]
	out := -in + bufOut
	a.buf[a.pos] = in + bufOut*a.fb
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}

func (a *allpassFilter) reset() {
	for j := range a.buf {
		a.buf[j] = 0
	}
	a.pos = 0
}
