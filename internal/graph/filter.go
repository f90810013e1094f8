package graph

import "math"

// FilterType selects the biquad response.
type FilterType int

const (
	Lowpass FilterType = iota
	Highpass
	Bandpass
)

func (t FilterType) String() string {
	switch t {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	case Bandpass:
		return "bandpass"
	}
	return "unknown"
}

// Filter is a second-order RBJ filter. Coefficients are recomputed once per
// quantum from the first frame of the frequency and Q params.
type Filter struct {
	node
	typ       FilterType
	frequency *Param
	q         *Param

	b0, b1, b2, a1, a2 float64
	lastF, lastQ       float64
	zl, zr             [2]float64
}

// NewFilter creates a filter with the given cutoff (or centre) and Q.
func (g *Graph) NewFilter(typ FilterType, freq, q float64) *Filter {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := &Filter{typ: typ, lastF: -1}
	g.register(&n.node, "filter", n, n)
	n.frequency = n.newParam("frequency", freq, 10, g.sr/2)
	n.q = n.newParam("Q", q, 0.0001, 1000)
	return n
}

func (n *Filter) Type() FilterType {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	return n.typ
}

// SetType switches the response; coefficients follow on the next quantum.
func (n *Filter) SetType(t FilterType) {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	if t == n.typ {
		return
	}
	n.typ = t
	n.lastF = -1
}

func (n *Filter) Frequency() *Param { return n.frequency }
func (n *Filter) Q() *Param         { return n.q }

func (n *Filter) design(f, q float64) {
	if f == n.lastF && q == n.lastQ {
		return
	}
	n.lastF, n.lastQ = f, q
	sr := n.g.sr
	if f > sr*0.499 {
		f = sr * 0.499
	}
	w0 := 2 * math.Pi * f / sr
	cw, sw := math.Cos(w0), math.Sin(w0)
	alpha := sw / (2 * q)
	var b0, b1, b2 float64
	switch n.typ {
	case Highpass:
		b0 = (1 + cw) / 2
		b1 = -(1 + cw)
		b2 = (1 + cw) / 2
	case Bandpass:
		// Constant 0 dB peak gain.
		b0 = alpha
		b1 = 0
		b2 = -alpha
	default:
		b0 = (1 - cw) / 2
		b1 = 1 - cw
		b2 = (1 - cw) / 2
	}
	a0 := 1 + alpha
	n.b0, n.b1, n.b2 = b0/a0, b1/a0, b2/a0
	n.a1, n.a2 = -2*cw/a0, (1-alpha)/a0
}

func (n *Filter) process(c *node) {
	n.design(n.frequency.buf[0], n.q.buf[0])
	for i := 0; i < Quantum; i++ {
		c.out.l[i] = n.tick(c.in.l[i], &n.zl)
		c.out.r[i] = n.tick(c.in.r[i], &n.zr)
	}
}

// tick runs one transposed direct form II step.
func (n *Filter) tick(x float64, z *[2]float64) float64 {
	y := n.b0*x + z[0]
	z[0] = n.b1*x - n.a1*y + z[1]
	z[1] = n.b2*x - n.a2*y
	if math.IsNaN(y) || math.IsInf(y, 0) {
		z[0], z[1] = 0, 0
		return 0
	}
	return y
}

// Panner is an equal-power panner with an a-rate pan param in [-1, 1]. Its
// input is treated as mono (the channels are averaged), so the centre position
// puts -3 dB in each channel.
type Panner struct {
	node
	pan *Param
}

// NewPanner creates a panner at the given position.
func (g *Graph) NewPanner(pan float64) *Panner {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := &Panner{}
	g.register(&n.node, "panner", n, n)
	n.pan = n.newParam("pan", pan, -1, 1)
	return n
}

func (n *Panner) Pan() *Param { return n.pan }

func (n *Panner) process(c *node) {
	for i := 0; i < Quantum; i++ {
		m := (c.in.l[i] + c.in.r[i]) * 0.5
		x := (n.pan.buf[i] + 1) * math.Pi / 4
		c.out.l[i] = m * math.Cos(x)
		c.out.r[i] = m * math.Sin(x)
	}
}
