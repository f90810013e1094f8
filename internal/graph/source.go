package graph

import (
	"math/rand"

	"github.com/cbegin/drillsynth-go/internal/osc"
)

// schedule is the start/stop state shared by every source node.
type schedule struct {
	startFrame int64
	stopFrame  int64 // -1 = never
	started    bool
	ended      bool
	onEnded    func()
}

func (s *schedule) sched() *schedule { return s }

// active reports whether frame is inside the playing window; it ends the
// source (once) when frame reaches the stop time.
func (s *schedule) active(g *Graph, frame int64) bool {
	if !s.started || s.ended || frame < s.startFrame {
		return false
	}
	if s.stopFrame >= 0 && frame >= s.stopFrame {
		s.ended = true
		g.endSource(s.onEnded)
		s.onEnded = nil
		return false
	}
	return true
}

func (g *Graph) addSource(n scheduled) {
	n.sched().stopFrame = -1
	g.sources = append(g.sources, n)
}

func (g *Graph) frameAt(t float64) int64 {
	f := int64(t*g.sr + 0.5)
	if f < g.frame {
		f = g.frame
	}
	return f
}

// Start schedules the source to begin at t seconds on the graph clock.
// Calling Start twice is ignored.
func (s *schedule) start(g *Graph, t float64) {
	if s.started || s.ended {
		return
	}
	s.started = true
	s.startFrame = g.frameAt(t)
	if s.stopFrame >= 0 && s.stopFrame <= s.startFrame {
		s.stopFrame = s.startFrame + 1
	}
}

// stop schedules the end at t. A stop at or before the start time is moved to
// one frame after it, so a source always has a non-empty playing window.
func (s *schedule) stop(g *Graph, t float64) {
	if s.ended {
		return
	}
	f := g.frameAt(t)
	if s.started && f <= s.startFrame {
		f = s.startFrame + 1
	}
	s.stopFrame = f
}

// Oscillator is a periodic source with a-rate frequency and detune params.
type Oscillator struct {
	node
	schedule
	phasor    *osc.Phasor
	frequency *Param
	detune    *Param
}

// NewOscillator creates an unstarted oscillator.
func (g *Graph) NewOscillator(shape osc.Shape, freq float64) *Oscillator {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := &Oscillator{phasor: osc.New(shape)}
	g.register(&n.node, "oscillator", n, n)
	n.node.source = true
	n.frequency = n.newParam("frequency", freq, -g.sr/2, g.sr/2)
	n.detune = n.newParam("detune", 0, -4800, 4800)
	g.addSource(n)
	return n
}

func (n *Oscillator) Frequency() *Param { return n.frequency }
func (n *Oscillator) Detune() *Param    { return n.detune }

func (n *Oscillator) Start(t float64) {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	n.schedule.start(n.g, t)
}

func (n *Oscillator) Stop(t float64) {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	n.schedule.stop(n.g, t)
}

// OnEnded registers fn to run once the stop time is reached.
func (n *Oscillator) OnEnded(fn func()) {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	n.onEnded = fn
}

// Ended reports whether the oscillator has passed its stop time.
func (n *Oscillator) Ended() bool {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	return n.ended
}

func (n *Oscillator) process(c *node) {
	g := n.g
	for i := 0; i < Quantum; i++ {
		if !n.active(g, g.frame+int64(i)) {
			c.out.l[i], c.out.r[i] = 0, 0
			continue
		}
		f := n.frequency.buf[i]
		if d := n.detune.buf[i]; d != 0 {
			f *= osc.CentsRatio(d)
		}
		v := n.phasor.Sample(f, g.sr)
		c.out.l[i], c.out.r[i] = v, v
	}
}

// NoiseColor selects the spectrum of a Noise source.
type NoiseColor int

const (
	White NoiseColor = iota
	Pink
)

// Noise is a continuous noise source. It never repeats, which stands in for a
// looped noise buffer.
type Noise struct {
	node
	schedule
	color NoiseColor
	rng   *rand.Rand
	b     [7]float64 // pink filter state
}

// NewNoise creates an unstarted noise source.
func (g *Graph) NewNoise(color NoiseColor) *Noise {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := &Noise{color: color, rng: rand.New(rand.NewSource(g.rng.Int63()))}
	g.register(&n.node, "noise", n, n)
	n.node.source = true
	g.addSource(n)
	return n
}

func (n *Noise) Start(t float64) {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	n.schedule.start(n.g, t)
}

func (n *Noise) Stop(t float64) {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	n.schedule.stop(n.g, t)
}

func (n *Noise) OnEnded(fn func()) {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	n.onEnded = fn
}

func (n *Noise) Ended() bool {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	return n.ended
}

func (n *Noise) process(c *node) {
	g := n.g
	for i := 0; i < Quantum; i++ {
		if !n.active(g, g.frame+int64(i)) {
			c.out.l[i], c.out.r[i] = 0, 0
			continue
		}
		white := n.rng.Float64()*2 - 1
		v := white
		if n.color == Pink {
			// Paul Kellet's refined pink filter.
			b := &n.b
			b[0] = 0.99886*b[0] + white*0.0555179
			b[1] = 0.99332*b[1] + white*0.0750759
			b[2] = 0.96900*b[2] + white*0.1538520
			b[3] = 0.86650*b[3] + white*0.3104856
			b[4] = 0.55000*b[4] + white*0.5329522
			b[5] = -0.7616*b[5] - white*0.0168980
			v = (b[0] + b[1] + b[2] + b[3] + b[4] + b[5] + b[6] + white*0.5362) * 0.11
			b[6] = white * 0.115926
		}
		c.out.l[i], c.out.r[i] = v, v
	}
}

// Source is implemented by Oscillator and Noise.
type Source interface {
	Node
	Start(t float64)
	Stop(t float64)
	OnEnded(fn func())
	Ended() bool
}

// Constant outputs its offset param. Connected to a param it acts as a
// shared, automatable control signal.
type Constant struct {
	node
	schedule
	offset *Param
}

// NewConstant creates an unstarted constant source.
func (g *Graph) NewConstant(offset float64) *Constant {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := &Constant{}
	g.register(&n.node, "constant", n, n)
	n.node.source = true
	n.offset = n.newParam("offset", offset, -1e6, 1e6)
	g.addSource(n)
	return n
}

func (n *Constant) Offset() *Param { return n.offset }

func (n *Constant) Start(t float64) {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	n.schedule.start(n.g, t)
}

func (n *Constant) Stop(t float64) {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	n.schedule.stop(n.g, t)
}

func (n *Constant) OnEnded(fn func()) {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	n.onEnded = fn
}

func (n *Constant) Ended() bool {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	return n.ended
}

func (n *Constant) process(c *node) {
	g := n.g
	for i := 0; i < Quantum; i++ {
		v := 0.0
		if n.active(g, g.frame+int64(i)) {
			v = n.offset.buf[i]
		}
		c.out.l[i], c.out.r[i] = v, v
	}
}
