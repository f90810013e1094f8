package graph

import (
	"math"
	"testing"

	"github.com/cbegin/drillsynth-go/internal/effects"
	"github.com/cbegin/drillsynth-go/internal/osc"
)

const testRate = 8000

func render(g *Graph, frames int) []float32 {
	buf := make([]float32, 2*frames)
	g.Render(buf)
	return buf
}

// dcThroughGain wires a started constant 1.0 through a gain into the output.
func dcThroughGain(g *Graph, initial float64) (*Constant, *Gain) {
	c := g.NewConstant(1)
	gn := g.NewGain(initial)
	c.Connect(gn)
	gn.Connect(g.Destination())
	c.Start(0)
	return c, gn
}

func TestLinearRampIsContinuous(t *testing.T) {
	g := New(testRate, 1)
	_, gn := dcThroughGain(g, 0)
	gn.Gain().LinearRampToValueAtTime(1, 0.5)

	out := render(g, testRate/2)
	prev := float32(-1)
	for i := 0; i < len(out); i += 2 {
		if out[i] < prev {
			t.Fatalf("frame %d = %v, below previous %v", i/2, out[i], prev)
		}
		prev = out[i]
	}
	mid := out[2*(testRate/4)]
	if math.Abs(float64(mid)-0.5) > 0.01 {
		t.Fatalf("mid-ramp = %v, want ~0.5", mid)
	}
	g.Advance(0.1)
	if v := gn.Gain().Value(); v != 1 {
		t.Fatalf("after ramp = %v, want 1", v)
	}
	if n := gn.Gain().Scheduled(); n != 0 {
		t.Fatalf("Scheduled() = %d, want 0", n)
	}
}

func TestRampToHoldsCurrentValue(t *testing.T) {
	g := New(testRate, 1)
	_, gn := dcThroughGain(g, 0)
	gn.Gain().RampTo(1, 1)
	g.Advance(0.5)
	v := gn.Gain().Value()
	if math.Abs(v-0.5) > 0.02 {
		t.Fatalf("Value() = %v, want ~0.5", v)
	}
	gn.Gain().RampTo(0, 0.5)
	out := render(g, 8)
	if math.Abs(float64(out[0])-v) > 0.02 {
		t.Fatalf("first frame after retarget = %v, want ~%v", out[0], v)
	}
	g.Advance(0.25)
	if got := gn.Gain().Value(); math.Abs(got-0.25) > 0.03 {
		t.Fatalf("Value() = %v, want ~0.25", got)
	}
	if got := gn.Gain().Target(); got != 0 {
		t.Fatalf("Target() = %v, want 0", got)
	}
}

func TestSmoothToApproachesTarget(t *testing.T) {
	g := New(testRate, 1)
	_, gn := dcThroughGain(g, 1)
	// 0.128 s is eight whole quanta at testRate.
	gn.Gain().SmoothTo(0, 0.128)
	g.Advance(0.128)
	if v := gn.Gain().Value(); math.Abs(v-math.Exp(-1)) > 0.02 {
		t.Fatalf("after one time constant = %v, want ~%v", v, math.Exp(-1))
	}
	g.Advance(1.28)
	if v := gn.Gain().Value(); v > 1e-4 {
		t.Fatalf("after ten time constants = %v, want ~0", v)
	}
}

func TestSetTargetThenLinearRampStartsFromCurrent(t *testing.T) {
	g := New(testRate, 1)
	_, gn := dcThroughGain(g, 1)
	p := gn.Gain()
	p.SetTargetAtTime(0, 0, 0.05)
	g.Advance(0.064)
	v := p.Value()
	p.LinearRampToValueAtTime(1, g.Now()+0.5)
	out := render(g, 4)
	if math.Abs(float64(out[0])-v) > 0.02 {
		t.Fatalf("ramp start = %v, want ~%v", out[0], v)
	}
}

func TestExponentialRamp(t *testing.T) {
	g := New(testRate, 1)
	_, gn := dcThroughGain(g, 1)
	gn.Gain().ExponentialRampToValueAtTime(0.001, 1)
	g.Advance(0.512)
	want := math.Pow(0.001, 0.512)
	if v := gn.Gain().Value(); math.Abs(v-want) > 0.002 {
		t.Fatalf("half way = %v, want ~%v", v, want)
	}
}

func TestCancelScheduledValues(t *testing.T) {
	g := New(testRate, 1)
	_, gn := dcThroughGain(g, 1)
	gn.Gain().SetValueAtTime(0.5, 0.1)
	gn.Gain().SetValueAtTime(0.2, 0.2)
	gn.Gain().CancelScheduledValues(0.15)
	g.Advance(0.3)
	if v := gn.Gain().Value(); v != 0.5 {
		t.Fatalf("Value() = %v, want 0.5", v)
	}
}

func TestTimersFireOnGraphClock(t *testing.T) {
	g := New(testRate, 1)
	fired := 0
	g.AfterFunc(0.1, func() { fired++ })
	stopped := g.AfterFunc(0.1, func() { t.Fatal("stopped timer fired") })
	if !stopped.Stop() {
		t.Fatal("Stop() = false, want true")
	}
	if stopped.Stop() {
		t.Fatal("second Stop() = true, want false")
	}

	g.Advance(0.05)
	if fired != 0 {
		t.Fatalf("fired early: %d", fired)
	}
	g.Advance(0.1)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	if n := g.PendingTimers(); n != 0 {
		t.Fatalf("PendingTimers() = %d, want 0", n)
	}
}

func TestTimerCallbackMayScheduleMore(t *testing.T) {
	g := New(testRate, 1)
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		g.AfterFunc(0.1, tick)
	}
	g.AfterFunc(0.1, tick)
	g.Advance(1.05)
	if ticks < 9 || ticks > 10 {
		t.Fatalf("ticks = %d, want ~10", ticks)
	}
	g.Close()
	if n := g.PendingTimers(); n != 0 {
		t.Fatalf("PendingTimers() after Close = %d, want 0", n)
	}
	g.AfterFunc(0, func() { t.Fatal("timer after Close fired") })
	g.Advance(0.1)
}

func TestSourceEndsAndCallsBack(t *testing.T) {
	g := New(testRate, 1)
	o := g.NewOscillator(osc.Square, 100)
	o.Connect(g.Destination())
	ended := false
	o.OnEnded(func() { ended = true })
	o.Start(0)
	o.Stop(0.1)

	out := render(g, testRate/5)
	if out[0] == 0 {
		t.Fatal("oscillator silent at start")
	}
	last := out[len(out)-2]
	if last != 0 {
		t.Fatalf("output after stop = %v, want 0", last)
	}
	if !ended || !o.Ended() {
		t.Fatalf("ended = %v, Ended() = %v, want true", ended, o.Ended())
	}
}

func TestStopBeforeStartIsClamped(t *testing.T) {
	g := New(testRate, 1)
	c := g.NewConstant(1)
	ended := false
	c.OnEnded(func() { ended = true })
	c.Start(0.05)
	c.Stop(0.01)
	g.Advance(0.1)
	if !ended {
		t.Fatal("source with stop before start never ended")
	}
}

func TestDisposeReleasesNodes(t *testing.T) {
	g := New(testRate, 1)
	base := g.LiveNodes()
	if base != 1 {
		t.Fatalf("LiveNodes() = %d, want 1 (destination)", base)
	}
	o := g.NewOscillator(osc.Sine, 440)
	f := g.NewFilter(Lowpass, 1000, 1)
	p := g.NewPanner(0.5)
	gn := g.NewGain(1)
	lfo := g.NewOscillator(osc.Sine, 2)
	o.Connect(f)
	f.Connect(p)
	p.Connect(gn)
	gn.Connect(g.Destination())
	lfo.ConnectParam(f.Frequency())
	o.Start(0)
	lfo.Start(0)
	g.Advance(0.05)

	if n := g.LiveNodes(); n != base+5 {
		t.Fatalf("LiveNodes() = %d, want %d", n, base+5)
	}
	for _, n := range []Node{o, f, p, gn, lfo} {
		n.Dispose()
		n.Dispose()
	}
	if n := g.LiveNodes(); n != base {
		t.Fatalf("LiveNodes() after dispose = %d, want %d", n, base)
	}
	if n := Inputs(g.Destination()); n != 0 {
		t.Fatalf("destination inputs = %d, want 0", n)
	}
	// Up to one quantum rendered before the dispose may still be queued.
	out := render(g, 2*Quantum)[2*Quantum:]
	for i, v := range out {
		if v != 0 {
			t.Fatalf("frame %d = %v after dispose, want silence", Quantum+i/2, v)
		}
	}
}

func TestClipSilencesNaN(t *testing.T) {
	tests := []struct {
		in   float64
		want float32
	}{{math.NaN(), 0}, {2, 1}, {-3, -1}, {0.25, 0.25}}
	for _, tt := range tests {
		if got := clip(tt.in); got != tt.want {
			t.Fatalf("clip(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFeedbackThroughDelay(t *testing.T) {
	g := New(testRate, 1)
	c := g.NewConstant(1)
	d := g.NewDelay(0.05)
	fb := g.NewGain(0.5)
	c.Connect(d)
	d.Connect(fb)
	fb.Connect(d)
	d.Connect(g.Destination())
	c.Start(0)
	c.Stop(0.01)

	out := render(g, testRate/5)
	at := func(sec float64) float32 { return out[2*int(sec*testRate)] }
	if v := at(0.02); v != 0 {
		t.Fatalf("before first echo = %v, want 0", v)
	}
	if v := at(0.055); math.Abs(float64(v)-1) > 1e-6 {
		t.Fatalf("first echo = %v, want 1", v)
	}
	if v := at(0.105); math.Abs(float64(v)-0.5) > 1e-6 {
		t.Fatalf("second echo = %v, want 0.5", v)
	}
	if v := at(0.155); math.Abs(float64(v)-0.25) > 1e-6 {
		t.Fatalf("third echo = %v, want 0.25", v)
	}
}

func TestCycleWithoutDelayIsSilencedNotHung(t *testing.T) {
	g := New(testRate, 1)
	c := g.NewConstant(1)
	a := g.NewGain(1)
	b := g.NewGain(1)
	c.Connect(a)
	a.Connect(b)
	b.Connect(a)
	b.Connect(g.Destination())
	c.Start(0)
	out := render(g, 2*Quantum)
	if out[0] != 1 {
		t.Fatalf("output = %v, want 1", out[0])
	}
}

func rms(buf []float32) float64 {
	var sum float64
	for _, v := range buf {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(buf)))
}

func TestFilterResponse(t *testing.T) {
	tests := []struct {
		typ  FilterType
		tone float64
		pass bool
	}{
		{Lowpass, 100, true},
		{Lowpass, 3000, false},
		{Highpass, 3000, true},
		{Highpass, 100, false},
		{Bandpass, 1000, true},
		{Bandpass, 60, false},
	}
	for _, tt := range tests {
		g := New(testRate, 1)
		o := g.NewOscillator(osc.Sine, tt.tone)
		f := g.NewFilter(tt.typ, 1000, 0.707)
		if tt.typ == Bandpass {
			f.Q().SetValue(4)
		}
		o.Connect(f)
		f.Connect(g.Destination())
		o.Start(0)
		g.Advance(0.1)
		level := rms(render(g, testRate/10))
		if tt.pass && level < 0.5 {
			t.Fatalf("%v at %v Hz: rms = %v, want pass", tt.typ, tt.tone, level)
		}
		if !tt.pass && level > 0.15 {
			t.Fatalf("%v at %v Hz: rms = %v, want stop", tt.typ, tt.tone, level)
		}
	}
}

func TestPannerEqualPower(t *testing.T) {
	tests := []struct {
		pan  float64
		l, r float64
	}{
		{-1, 1, 0},
		{0, math.Sqrt2 / 2, math.Sqrt2 / 2},
		{1, 0, 1},
	}
	for _, tt := range tests {
		g := New(testRate, 1)
		c := g.NewConstant(1)
		p := g.NewPanner(tt.pan)
		c.Connect(p)
		p.Connect(g.Destination())
		c.Start(0)
		out := render(g, 1)
		if math.Abs(float64(out[0])-tt.l) > 1e-6 || math.Abs(float64(out[1])-tt.r) > 1e-6 {
			t.Fatalf("pan %v = (%v, %v), want (%v, %v)", tt.pan, out[0], out[1], tt.l, tt.r)
		}
	}
}

func TestModulationSumsIntoParam(t *testing.T) {
	g := New(testRate, 1)
	_, gn := dcThroughGain(g, 0.25)
	mod := g.NewConstant(0.5)
	mod.ConnectParam(gn.Gain())
	mod.Start(0)
	out := render(g, 1)
	if math.Abs(float64(out[0])-0.75) > 1e-6 {
		t.Fatalf("output = %v, want 0.75", out[0])
	}
}

func TestEffectNodeWrapsEffector(t *testing.T) {
	g := New(testRate, 1)
	c := g.NewConstant(10)
	e := g.NewEffect("shaper", effects.NewShaper(testRate, 1, 1, 0))
	c.Connect(e)
	e.Connect(g.Destination())
	c.Start(0)
	out := render(g, Quantum)
	v := out[2*(Quantum-1)]
	if v <= 0 || v > 1 {
		t.Fatalf("shaped = %v, want in (0, 1]", v)
	}
	if e.Kind() != "shaper" {
		t.Fatalf("Kind() = %q, want shaper", e.Kind())
	}
}
