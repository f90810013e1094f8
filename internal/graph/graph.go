// Package graph is a pull-rendered audio node graph in the style of the Web
// Audio API: nodes connect to nodes or to automatable params, sources are
// scheduled on the graph's own sample clock, and rendering happens in fixed
// quanta. Feedback loops are legal only through a Delay node.
package graph

import (
	"math/rand"
	"sort"
	"sync"
)

// Quantum is the number of frames rendered per graph pass.
const Quantum = 128

type block struct {
	l, r [Quantum]float64
}

func (b *block) clear() {
	b.l = [Quantum]float64{}
	b.r = [Quantum]float64{}
}

var silence block

// Graph owns every node, the sample clock and the timer queue.
type Graph struct {
	mu         sync.Mutex
	sampleRate int
	sr         float64
	frame      int64  // frames rendered so far
	quantum    uint64 // id of the quantum being rendered, starts at 1
	nextID     int
	live       map[int]Node
	sources    []scheduled
	delays     []*Delay
	dest       *Destination
	rng        *rand.Rand

	timers  []*Timer
	fired   []func()
	closed  bool
	pending block
	pendPos int
}

type scheduled interface {
	Node
	sched() *schedule
}

// New creates an empty graph with a destination node.
func New(sampleRate int, seed int64) *Graph {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	g := &Graph{
		sampleRate: sampleRate,
		sr:         float64(sampleRate),
		quantum:    0,
		live:       make(map[int]Node),
		rng:        rand.New(rand.NewSource(seed)),
		pendPos:    Quantum,
	}
	g.dest = &Destination{}
	g.register(&g.dest.node, "destination", g.dest, g.dest)
	return g
}

func (g *Graph) register(n *node, kind string, self Node, p processor) {
	g.nextID++
	n.g = g
	n.id = g.nextID
	n.kind = kind
	n.self = self
	n.proc = p
	g.live[n.id] = self
}

// SampleRate returns the graph's sample rate in Hz.
func (g *Graph) SampleRate() int {
	return g.sampleRate
}

// Destination returns the final output node.
func (g *Graph) Destination() *Destination {
	return g.dest
}

// Now returns the graph clock in seconds. The clock moves in whole quanta:
// after a Render that stops inside a quantum, Now is the end of that quantum,
// up to Quantum-1 frames ahead of the last frame delivered. Automation
// scheduled at Now starts with the next quantum.
func (g *Graph) Now() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.now()
}

func (g *Graph) now() float64 {
	return float64(g.frame) / g.sr
}

// LiveNodes returns the number of nodes created and not yet disposed.
func (g *Graph) LiveNodes() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.live)
}

// LiveKinds returns a count of live nodes per kind, for diagnostics.
func (g *Graph) LiveKinds() map[string]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]int)
	for _, n := range g.live {
		out[n.core().kind]++
	}
	return out
}

// Timer is a callback scheduled on the graph clock.
type Timer struct {
	g       *Graph
	due     int64
	fn      func()
	stopped bool
}

// Stop cancels the timer. It reports whether the timer was still pending.
func (t *Timer) Stop() bool {
	g := t.g
	g.mu.Lock()
	defer g.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	for i, other := range g.timers {
		if other == t {
			g.timers = append(g.timers[:i], g.timers[i+1:]...)
			return true
		}
	}
	return false
}

// AfterFunc runs fn once the graph clock has advanced delaySec seconds. Timers
// only advance while the graph is rendering. fn runs without the graph lock
// held, on the rendering goroutine.
func (g *Graph) AfterFunc(delaySec float64, fn func()) *Timer {
	g.mu.Lock()
	defer g.mu.Unlock()
	if delaySec < 0 {
		delaySec = 0
	}
	t := &Timer{g: g, due: g.frame + int64(delaySec*g.sr), fn: fn}
	if g.closed {
		t.stopped = true
		return t
	}
	i := sort.Search(len(g.timers), func(i int) bool { return g.timers[i].due > t.due })
	g.timers = append(g.timers, nil)
	copy(g.timers[i+1:], g.timers[i:])
	g.timers[i] = t
	return t
}

// PendingTimers returns the number of scheduled timers.
func (g *Graph) PendingTimers() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.timers)
}

// Close cancels all timers; later AfterFunc calls are ignored.
func (g *Graph) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	for _, t := range g.timers {
		t.stopped = true
	}
	g.timers = nil
}

// Render fills dst with interleaved stereo float32 frames. Ended-source
// callbacks and due timers run between quanta without the lock held.
func (g *Graph) Render(dst []float32) {
	frames := len(dst) / 2
	for i := 0; i < frames; {
		g.mu.Lock()
		if g.pendPos >= Quantum {
			g.renderQuantum()
			g.pendPos = 0
		}
		for ; i < frames && g.pendPos < Quantum; i++ {
			dst[2*i] = clip(g.pending.l[g.pendPos])
			dst[2*i+1] = clip(g.pending.r[g.pendPos])
			g.pendPos++
		}
		fired := g.fired
		g.fired = nil
		g.mu.Unlock()

		for _, fn := range fired {
			fn()
		}
	}
}

// Advance renders and discards frames, driving the clock forward.
func (g *Graph) Advance(seconds float64) {
	frames := int(seconds * g.sr)
	buf := make([]float32, 2*Quantum)
	for frames > 0 {
		n := frames
		if n > Quantum {
			n = Quantum
		}
		g.Render(buf[:2*n])
		frames -= n
	}
}

func (g *Graph) renderQuantum() {
	g.quantum++
	out := g.dest.pull()
	g.pending = *out

	// Sources end on time even when nothing downstream pulls them.
	kept := g.sources[:0]
	for _, s := range g.sources {
		s.core().pull()
		if st := s.sched(); !st.ended && !s.core().disposed {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(g.sources); i++ {
		g.sources[i] = nil
	}
	g.sources = kept
	for _, d := range g.delays {
		d.flush()
	}
	g.frame += Quantum

	for len(g.timers) > 0 && g.timers[0].due <= g.frame {
		t := g.timers[0]
		g.timers = g.timers[1:]
		t.stopped = true
		g.fired = append(g.fired, t.fn)
	}
}

func (g *Graph) endSource(fn func()) {
	if fn != nil {
		g.fired = append(g.fired, fn)
	}
}

func (g *Graph) dropDelay(d *Delay) {
	for i, other := range g.delays {
		if other == d {
			g.delays = append(g.delays[:i], g.delays[i+1:]...)
			return
		}
	}
}

func clip(v float64) float32 {
	if v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return float32(v)
}
