package effects

import (
	"math"
	"testing"
)

func TestLineDelaysByLength(t *testing.T) {
	d := NewLine(1000, 0.01) // 10 samples
	if d.Len() != 10 {
		t.Fatalf("len = %d, want 10", d.Len())
	}
	in := make([]float64, 10)
	in[0] = 1
	outL := make([]float64, 10)
	outR := make([]float64, 10)

	d.Read(outL, outR)
	d.Write(in, in)
	for i, v := range outL {
		if v != 0 {
			t.Fatalf("first block sample %d = %f, want silence", i, v)
		}
	}
	zero := make([]float64, 10)
	d.Read(outL, outR)
	d.Write(zero, zero)
	if outL[0] != 1 || outR[0] != 1 {
		t.Fatalf("expected impulse after one delay length, got l=%f r=%f", outL[0], outR[0])
	}
}

func TestReverbProducesTail(t *testing.T) {
	r := NewReverb(44100, 2.0, 0.2)
	r.Process(1.0, 1.0)
	var maxOut float64
	for i := 0; i < 10000; i++ {
		l, _ := r.Process(0, 0)
		if math.Abs(l) > maxOut {
			maxOut = math.Abs(l)
		}
	}
	if maxOut < 0.001 {
		t.Error("expected reverb tail")
	}
}

func TestReverbTailDecays(t *testing.T) {
	const sr = 8000
	r := NewReverb(sr, 2.0, 0)
	r.Process(1, 1)
	energy := func(n int) float64 {
		var sum float64
		for i := 0; i < n; i++ {
			l, rr := r.Process(0, 0)
			sum += l*l + rr*rr
		}
		return sum
	}
	early := energy(sr / 2)
	energy(sr * 2)
	late := energy(sr / 2)
	if late >= early*0.01 {
		t.Fatalf("tail after 2.5s should be far below early energy: early=%g late=%g", early, late)
	}
}

func TestShaperBounded(t *testing.T) {
	s := NewShaper(44100, 10, 0.5, 0)
	l, r := s.Process(0.5, -0.5)
	if math.Abs(l) > 0.5 || math.Abs(r) > 0.5 {
		t.Errorf("shaper output should be bounded by post gain, got l=%f r=%f", l, r)
	}
	if math.Abs(l) < 0.01 {
		t.Error("expected non-zero shaper output")
	}
}

func TestCompressorReducesLoud(t *testing.T) {
	c := NewCompressor(44100, -10, 4, 1, 50, 0)
	var out float64
	for i := 0; i < 1000; i++ {
		out, _ = c.Process(1.0, 1.0)
	}
	if out >= 1.0 {
		t.Errorf("compressor should reduce loud signals, got %f", out)
	}
	if c.GainReduction() >= 1.0 {
		t.Errorf("gain reduction = %f, want < 1", c.GainReduction())
	}
}

func TestCompressorPassesQuiet(t *testing.T) {
	c := NewCompressor(44100, -10, 4, 1, 50, 0)
	var out float64
	for i := 0; i < 1000; i++ {
		out, _ = c.Process(0.1, 0.1)
	}
	if math.Abs(out-0.1) > 1e-9 {
		t.Errorf("quiet signal should pass untouched, got %f", out)
	}
}

func TestCompressorRecoversFromNaN(t *testing.T) {
	c := NewCompressor(44100, -18, 4, 3, 250, 0)
	if l, r := c.Process(math.NaN(), 0.5); l != 0 || r != 0 {
		t.Errorf("NaN frame = (%f, %f), want silence", l, r)
	}
	var out float64
	for i := 0; i < 100; i++ {
		out, _ = c.Process(0.05, 0.05)
	}
	if math.IsNaN(out) || math.Abs(out-0.05) > 1e-9 {
		t.Errorf("after NaN frame got %f, want 0.05", out)
	}
	if g := c.GainReduction(); g != 1 {
		t.Errorf("gain reduction = %f, want 1", g)
	}
}
