package effects

import "math"

// Shaper is a tanh waveshaper with pre/post gain and an optional one-pole LPF,
// used to add punch and grit to percussive one-shots.
type Shaper struct {
	preGain  float64
	postGain float64
	lpfAlpha float64
	lpfL     float64
	lpfR     float64
}

// NewShaper creates a waveshaper.
// preGain: input gain (higher = more saturation)
// postGain: output gain
// lpfCutoff: lowpass cutoff in Hz (0 = no filter)
func NewShaper(sampleRate int, preGain, postGain, lpfCutoff float64) *Shaper {
	s := &Shaper{
		preGain:  preGain,
		postGain: postGain,
	}
	if lpfCutoff > 0 && lpfCutoff < float64(sampleRate)/2 {
		rc := 1.0 / (2.0 * math.Pi * lpfCutoff)
		dt := 1.0 / float64(sampleRate)
		s.lpfAlpha = dt / (rc + dt)
	}
	return s
}

func (s *Shaper) Process(l, r float64) (float64, float64) {
	l = math.Tanh(l*s.preGain) * s.postGain
	r = math.Tanh(r*s.preGain) * s.postGain
	if s.lpfAlpha > 0 {
		s.lpfL += s.lpfAlpha * (l - s.lpfL)
		s.lpfR += s.lpfAlpha * (r - s.lpfR)
		l = s.lpfL
		r = s.lpfR
	}
	return l, r
}

func (s *Shaper) Reset() {
	s.lpfL = 0
	s.lpfR = 0
}
