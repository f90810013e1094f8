package graph

import "github.com/cbegin/drillsynth-go/internal/effects"

// Destination sums its inputs into the graph output.
type Destination struct {
	node
}

func (d *Destination) process(n *node) {
	n.out = n.in
}

// Gain scales its input by a per-frame gain param.
type Gain struct {
	node
	gain *Param
}

// NewGain creates a gain node at the given initial gain.
func (g *Graph) NewGain(initial float64) *Gain {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := &Gain{}
	g.register(&n.node, "gain", n, n)
	n.gain = n.newParam("gain", initial, -1e6, 1e6)
	return n
}

// Gain returns the gain param.
func (n *Gain) Gain() *Param { return n.gain }

func (n *Gain) process(c *node) {
	for i := 0; i < Quantum; i++ {
		g := n.gain.buf[i]
		c.out.l[i] = c.in.l[i] * g
		c.out.r[i] = c.in.r[i] * g
	}
}

// Delay delays its input by a fixed time. It is the only node allowed inside
// a feedback loop: its output for a quantum is read before its input is.
type Delay struct {
	node
	line    *effects.Line
	seconds float64
}

// NewDelay creates a delay of seconds. Delays shorter than one quantum are
// lengthened to a quantum.
func (g *Graph) NewDelay(seconds float64) *Delay {
	g.mu.Lock()
	defer g.mu.Unlock()
	if min := float64(Quantum) / g.sr; seconds < min {
		seconds = min
	}
	n := &Delay{line: effects.NewLine(g.sampleRate, seconds), seconds: seconds}
	g.register(&n.node, "delay", n, n)
	n.source = true
	g.delays = append(g.delays, n)
	return n
}

// Seconds returns the delay time.
func (n *Delay) Seconds() float64 { return n.seconds }

func (n *Delay) process(c *node) {
	n.line.Read(c.out.l[:], c.out.r[:])
}

// flush writes this quantum's input after every output has been read.
func (n *Delay) flush() {
	if n.disposed {
		return
	}
	n.mixInputs()
	n.line.Write(n.in.l[:], n.in.r[:])
}

// Effect runs an effects.Effector frame by frame over its input.
type Effect struct {
	node
	fx effects.Effector
}

// NewEffect wraps fx as a node of the given kind.
func (g *Graph) NewEffect(kind string, fx effects.Effector) *Effect {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := &Effect{fx: fx}
	g.register(&n.node, kind, n, n)
	return n
}

// Effector returns the wrapped processor.
func (n *Effect) Effector() effects.Effector { return n.fx }

func (n *Effect) process(c *node) {
	for i := 0; i < Quantum; i++ {
		c.out.l[i], c.out.r[i] = n.fx.Process(c.in.l[i], c.in.r[i])
	}
}
