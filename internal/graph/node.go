package graph

// Node is any vertex of the graph. Only types in this package implement it.
type Node interface {
	ID() int
	Kind() string
	// Connect routes this node's output into dst's input.
	Connect(dst Node)
	// ConnectParam routes this node's output onto p, summed with p's automation.
	ConnectParam(p *Param)
	// Disconnect removes every outgoing connection.
	Disconnect()
	// Dispose disconnects the node in both directions and unregisters it.
	// Disposing twice is a no-op.
	Dispose()
	core() *node
}

type processor interface {
	process(n *node)
}

type node struct {
	g        *Graph
	id       int
	kind     string
	self     Node
	proc     processor
	inputs   []*node
	outputs  []*node
	paramOut []*Param
	params   []*Param
	in       block
	out      block
	rendered uint64
	visiting bool
	source   bool // output does not depend on inputs
	disposed bool
}

func (n *node) core() *node  { return n }
func (n *node) ID() int      { return n.id }
func (n *node) Kind() string { return n.kind }

func (n *node) Connect(dst Node) {
	if dst == nil {
		return
	}
	d := dst.core()
	g := n.g
	g.mu.Lock()
	defer g.mu.Unlock()
	if n.disposed || d.disposed || d.g != g {
		return
	}
	for _, in := range d.inputs {
		if in == n {
			return
		}
	}
	d.inputs = append(d.inputs, n)
	n.outputs = append(n.outputs, d)
}

func (n *node) ConnectParam(p *Param) {
	if p == nil {
		return
	}
	g := n.g
	g.mu.Lock()
	defer g.mu.Unlock()
	if n.disposed || p.owner.disposed || p.g != g {
		return
	}
	for _, in := range p.inputs {
		if in == n {
			return
		}
	}
	p.inputs = append(p.inputs, n)
	n.paramOut = append(n.paramOut, p)
}

func (n *node) Disconnect() {
	g := n.g
	g.mu.Lock()
	defer g.mu.Unlock()
	n.disconnectOutputs()
}

func (n *node) disconnectOutputs() {
	for _, d := range n.outputs {
		d.inputs = removeNode(d.inputs, n)
	}
	for _, p := range n.paramOut {
		p.inputs = removeNode(p.inputs, n)
	}
	n.outputs = nil
	n.paramOut = nil
}

func (n *node) Dispose() {
	g := n.g
	g.mu.Lock()
	defer g.mu.Unlock()
	n.dispose()
}

func (n *node) dispose() {
	if n.disposed {
		return
	}
	n.disconnectOutputs()
	for _, in := range n.inputs {
		in.outputs = removeNode(in.outputs, n)
	}
	n.inputs = nil
	for _, p := range n.params {
		for _, in := range p.inputs {
			in.paramOut = removeParam(in.paramOut, p)
		}
		p.inputs = nil
	}
	n.disposed = true
	delete(n.g.live, n.id)
	if d, ok := n.self.(*Delay); ok {
		n.g.dropDelay(d)
	}
}

// pull renders the node for the current quantum, at most once.
func (n *node) pull() *block {
	g := n.g
	if n.disposed {
		return &silence
	}
	if n.rendered == g.quantum {
		return &n.out
	}
	if n.visiting {
		// Cycle without a delay: the back edge contributes silence.
		return &silence
	}
	n.visiting = true
	if !n.source {
		n.mixInputs()
	}
	for _, p := range n.params {
		p.fill(g.frame)
	}
	n.proc.process(n)
	n.visiting = false
	n.rendered = g.quantum
	return &n.out
}

func (n *node) mixInputs() {
	n.in.clear()
	for _, in := range n.inputs {
		b := in.pull()
		for i := 0; i < Quantum; i++ {
			n.in.l[i] += b.l[i]
			n.in.r[i] += b.r[i]
		}
	}
}

func (n *node) newParam(name string, value, min, max float64) *Param {
	p := &Param{
		g:     n.g,
		owner: n,
		name:  name,
		value: value,
		min:   min,
		max:   max,
	}
	p.anchor(n.g.now(), value)
	n.params = append(n.params, p)
	return p
}

func removeNode(list []*node, n *node) []*node {
	for i, other := range list {
		if other == n {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func removeParam(list []*Param, p *Param) []*Param {
	for i, other := range list {
		if other == p {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Inputs returns the number of nodes connected into n, for diagnostics.
func Inputs(n Node) int {
	c := n.core()
	c.g.mu.Lock()
	defer c.g.mu.Unlock()
	return len(c.inputs)
}
