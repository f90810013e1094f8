package voice

import (
	"sync"
	"sync/atomic"

	"github.com/cbegin/drillsynth-go/internal/effects"
	"github.com/cbegin/drillsynth-go/internal/graph"
)

// Params are the per-trigger adjustments applied to a recipe.
type Params struct {
	Pan    float64 // -1..1; a panner is only allocated when non-zero
	Volume float64 // multiplies every gain breakpoint, 0 = 1
	Pitch  float64 // multiplies every frequency breakpoint, 0 = 1
	Detune float64 // extra cents on every oscillator
	Delay  float64 // seconds from now until the recipe starts
}

// Voice is one playing recipe.
type Voice struct {
	name    string
	mu      sync.Mutex
	pending int
	nodes   int
	done    func()
	ended   chan struct{}
}

// Name returns the recipe name.
func (v *Voice) Name() string { return v.name }

// Nodes returns how many graph nodes the voice allocated.
func (v *Voice) Nodes() int { return v.nodes }

// Ended is closed after every layer has stopped and been disposed.
func (v *Voice) Ended() <-chan struct{} { return v.ended }

func (v *Voice) layerDone() {
	v.mu.Lock()
	v.pending--
	last := v.pending == 0
	v.mu.Unlock()
	if !last {
		return
	}
	close(v.ended)
	if v.done != nil {
		v.done()
	}
}

// Counter tracks voices in flight.
type Counter struct {
	active atomic.Int64
	played atomic.Int64
}

// Active returns the number of voices still playing.
func (c *Counter) Active() int { return int(c.active.Load()) }

// Played returns the number of voices ever started.
func (c *Counter) Played() int { return int(c.played.Load()) }

// Play builds r on g. Dry receives each layer's output, wet receives it
// scaled by the layer's Send weight; wet may be nil. Every node is disposed
// when its layer's source ends. c may be nil.
func Play(g *graph.Graph, dry, wet graph.Node, r Recipe, p Params, c *Counter) *Voice {
	v := &Voice{name: r.Name, ended: make(chan struct{})}
	if p.Volume == 0 {
		p.Volume = 1
	}
	if p.Pitch <= 0 {
		p.Pitch = 1
	}
	if c != nil {
		c.active.Add(1)
		c.played.Add(1)
		v.done = func() { c.active.Add(-1) }
	}
	if len(r.Layers) == 0 || dry == nil {
		v.pending = 1
		v.layerDone()
		return v
	}
	v.pending = len(r.Layers)
	start := g.Now() + p.Delay
	for _, l := range r.Layers {
		v.nodes += playLayer(g, dry, wet, l, p, start+l.Offset, v.layerDone)
	}
	return v
}

func playLayer(g *graph.Graph, dry, wet graph.Node, l Layer, p Params, start float64, done func()) int {
	var (
		nodes []graph.Node
		src   graph.Source
		freq  *graph.Param
	)
	if l.Source.noise() {
		color := graph.White
		if l.Source == PinkNoise {
			color = graph.Pink
		}
		src = g.NewNoise(color)
	} else {
		f0 := 440.0
		if len(l.Freq) > 0 {
			f0 = l.Freq[0].V
		}
		o := g.NewOscillator(l.Source.shape(), f0*p.Pitch)
		if cents := l.Detune + p.Detune; cents != 0 {
			o.Detune().SetValue(cents)
		}
		schedule(o.Frequency(), l.Freq, start, p.Pitch)
		freq = o.Frequency()
		src = o
	}
	nodes = append(nodes, src)
	head := graph.Node(src)

	if d := l.Drive; d != nil {
		sh := g.NewEffect("shaper", effects.NewShaper(g.SampleRate(), d.Pre, d.Post, d.LPF))
		head.Connect(sh)
		head = sh
		nodes = append(nodes, sh)
	}

	var cutoff *graph.Param
	if f := l.Filter; f != nil {
		f0 := 1000.0
		if len(f.Freq) > 0 {
			f0 = f.Freq[0].V
		}
		q := f.Q
		if q <= 0 {
			q = 0.707
		}
		flt := g.NewFilter(f.Type, f0, q)
		schedule(flt.Frequency(), f.Freq, start, 1)
		head.Connect(flt)
		head = flt
		cutoff = flt.Frequency()
		nodes = append(nodes, flt)
	}

	env := g.NewGain(0)
	schedule(env.Gain(), l.Gain, start, p.Volume)
	head.Connect(env)
	head = env
	nodes = append(nodes, env)

	if p.Pan != 0 {
		pan := g.NewPanner(p.Pan)
		head.Connect(pan)
		head = pan
		nodes = append(nodes, pan)
	}
	head.Connect(dry)
	if wet != nil && l.Send > 0 {
		send := g.NewGain(l.Send)
		head.Connect(send)
		send.Connect(wet)
		nodes = append(nodes, send)
	}

	stop := start + l.duration()
	var lfo *graph.Oscillator
	if m := l.LFO; m != nil {
		target := freq
		if m.Target == LFOCutoff {
			target = cutoff
		}
		if target != nil {
			lfo = g.NewOscillator(m.Shape, m.Rate)
			depth := g.NewGain(m.Depth)
			lfo.Connect(depth)
			depth.ConnectParam(target)
			nodes = append(nodes, lfo, depth)
			lfo.Start(start)
			lfo.Stop(stop)
		}
	}

	src.OnEnded(func() {
		for _, n := range nodes {
			n.Dispose()
		}
		done()
	})
	src.Start(start)
	src.Stop(stop)
	return len(nodes)
}

// schedule writes breakpoints onto p, scaled by mul. The first point is a
// set; the rest are linear or exponential ramps.
func schedule(p *graph.Param, pts []Point, start, mul float64) {
	for i, pt := range pts {
		t := start + pt.T
		v := pt.V * mul
		switch {
		case i == 0:
			p.SetValueAtTime(v, t)
		case pt.Exp:
			if v == 0 {
				v = 1e-4
			}
			p.ExponentialRampToValueAtTime(v, t)
		default:
			p.LinearRampToValueAtTime(v, t)
		}
	}
}
