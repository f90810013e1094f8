package graph

import "math"

type eventKind int

const (
	evSet eventKind = iota
	evLinear
	evExp
	evTarget
)

type event struct {
	kind  eventKind
	time  float64
	value float64
	tc    float64 // time constant for evTarget
}

// Param is an automatable node parameter. Its value per frame is the
// automation timeline's value plus the sum of every node connected to it,
// clamped to [min, max].
type Param struct {
	g      *Graph
	owner  *node
	name   string
	value  float64 // intrinsic value at the last rendered frame
	min    float64
	max    float64
	events []event
	prevT  float64 // end of the last completed event
	prevV  float64
	inputs []*node
	buf    [Quantum]float64
}

// Name returns the parameter name, e.g. "gain" or "frequency".
func (p *Param) Name() string {
	return p.name
}

// Value returns the intrinsic (unmodulated) value at the last rendered frame.
func (p *Param) Value() float64 {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	return p.value
}

// Target returns the value the automation timeline ends at.
func (p *Param) Target() float64 {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	if n := len(p.events); n > 0 {
		return p.events[n-1].value
	}
	return p.value
}

// Scheduled returns the number of pending automation events.
func (p *Param) Scheduled() int {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	return len(p.events)
}

// SetValue jumps to v immediately, discarding scheduled automation. Only
// graph construction should use it; runtime changes go through ramps.
func (p *Param) SetValue(v float64) {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	p.events = nil
	p.value = v
	p.anchor(p.g.now(), v)
}

func (p *Param) SetValueAtTime(v, t float64) {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	p.insert(event{kind: evSet, time: t, value: v})
}

// LinearRampToValueAtTime ramps linearly from the previous event to v at t.
func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	p.prepareRamp()
	p.insert(event{kind: evLinear, time: t, value: v})
}

// ExponentialRampToValueAtTime ramps geometrically to v at t. Both ends must
// be non-zero with the same sign, otherwise the value holds and jumps at t.
func (p *Param) ExponentialRampToValueAtTime(v, t float64) {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	p.prepareRamp()
	p.insert(event{kind: evExp, time: t, value: v})
}

// SetTargetAtTime approaches v exponentially from time t with timeConstant.
func (p *Param) SetTargetAtTime(v, t, timeConstant float64) {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	if timeConstant <= 0 {
		p.insert(event{kind: evSet, time: t, value: v})
		return
	}
	p.insert(event{kind: evTarget, time: t, value: v, tc: timeConstant})
}

// CancelScheduledValues drops every event at or after t.
func (p *Param) CancelScheduledValues(t float64) {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	kept := p.events[:0]
	for _, e := range p.events {
		if e.time < t {
			kept = append(kept, e)
		}
	}
	p.events = kept
}

// RampTo holds the current value and ramps linearly to v over dur seconds.
func (p *Param) RampTo(v, dur float64) {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	now := p.g.now()
	p.hold(now)
	if dur <= 0 {
		p.events = append(p.events, event{kind: evSet, time: now, value: v})
		return
	}
	p.events = append(p.events, event{kind: evLinear, time: now + dur, value: v})
}

// SmoothTo holds the current value and approaches v with timeConstant.
func (p *Param) SmoothTo(v, timeConstant float64) {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	now := p.g.now()
	p.hold(now)
	if timeConstant <= 0 {
		p.events = append(p.events, event{kind: evSet, time: now, value: v})
		return
	}
	p.events = append(p.events, event{kind: evTarget, time: now, value: v, tc: timeConstant})
}

func (p *Param) hold(now float64) {
	p.events = p.events[:0]
	p.anchor(now, p.value)
}

func (p *Param) prepareRamp() {
	if len(p.events) == 0 {
		p.anchor(p.g.now(), p.value)
	}
}

func (p *Param) anchor(t, v float64) {
	p.prevT = t
	p.prevV = v
}

func (p *Param) insert(e event) {
	i := len(p.events)
	for i > 0 && p.events[i-1].time > e.time {
		i--
	}
	p.events = append(p.events, event{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

func (p *Param) pop() {
	p.events = p.events[1:]
	if len(p.events) == 0 {
		p.events = nil
	}
}

// step advances the automation to time t and returns the intrinsic value.
func (p *Param) step(t, dt float64) float64 {
	for len(p.events) > 0 {
		e := p.events[0]
		switch e.kind {
		case evSet:
			if t < e.time {
				return p.value
			}
			p.value = e.value
			p.anchor(e.time, e.value)
			p.pop()

		case evLinear:
			if t >= e.time {
				p.value = e.value
				p.anchor(e.time, e.value)
				p.pop()
				continue
			}
			span := e.time - p.prevT
			if span <= 0 || t < p.prevT {
				return p.value
			}
			p.value = p.prevV + (e.value-p.prevV)*(t-p.prevT)/span
			return p.value

		case evExp:
			if t >= e.time {
				p.value = e.value
				p.anchor(e.time, e.value)
				p.pop()
				continue
			}
			span := e.time - p.prevT
			if span <= 0 || t < p.prevT || p.prevV == 0 || e.value == 0 || (p.prevV > 0) != (e.value > 0) {
				p.value = p.prevV
				return p.value
			}
			p.value = p.prevV * math.Pow(e.value/p.prevV, (t-p.prevT)/span)
			return p.value

		case evTarget:
			if t < e.time {
				return p.value
			}
			if len(p.events) > 1 {
				// A following ramp starts from wherever the approach got to.
				next := p.events[1]
				if next.kind == evLinear || next.kind == evExp || t >= next.time {
					p.anchor(t, p.value)
					p.pop()
					continue
				}
			}
			p.value = e.value + (p.value-e.value)*math.Exp(-dt/e.tc)
			if len(p.events) == 1 && math.Abs(p.value-e.value) < 1e-6 {
				p.value = e.value
				p.anchor(t, p.value)
				p.pop()
			}
			return p.value
		}
	}
	return p.value
}

// fill computes the param's per-frame values for the quantum at start.
func (p *Param) fill(start int64) {
	sr := p.g.sr
	dt := 1 / sr
	for i := 0; i < Quantum; i++ {
		p.buf[i] = p.step(float64(start+int64(i))/sr, dt)
	}
	for _, in := range p.inputs {
		b := in.pull()
		for i := 0; i < Quantum; i++ {
			p.buf[i] += (b.l[i] + b.r[i]) * 0.5
		}
	}
	for i := 0; i < Quantum; i++ {
		if p.buf[i] < p.min {
			p.buf[i] = p.min
		} else if p.buf[i] > p.max {
			p.buf[i] = p.max
		}
	}
}
