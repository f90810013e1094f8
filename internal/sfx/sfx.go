// Package sfx plays one-shot game sounds from a recipe table, placing them in
// the stereo field by screen position and rate-limiting repeats.
package sfx

import (
	"math"
	"sync"
	"time"

	"github.com/cbegin/drillsynth-go/internal/graph"
	"github.com/cbegin/drillsynth-go/internal/voice"
)

// Point is a screen position in percent: (0,0) top left, (100,100) bottom
// right.
type Point struct {
	X, Y float64
}

// Listener is where the player hears from.
var Listener = Point{X: 50, Y: 50}

// Pan maps x to a stereo position: 0 is hard left, 50 centre, 100 hard right.
func Pan(x float64) float64 {
	p := x/50 - 1
	if p < -1 {
		return -1
	}
	if p > 1 {
		return 1
	}
	return p
}

// DistanceGain attenuates sounds away from the listener, never below 0.3.
func DistanceGain(pt Point) float64 {
	d := math.Hypot(pt.X-Listener.X, pt.Y-Listener.Y)
	g := 1 / (1 + d/100)
	if g < 0.3 {
		return 0.3
	}
	if g > 1 {
		return 1
	}
	return g
}

// Stats counts what the manager did.
type Stats struct {
	Played  int
	Dropped int // inside a cooldown window
	Unknown int // no recipe for the id
	Active  int
}

// Manager plays recipes into a bus.
type Manager struct {
	mu        sync.Mutex
	g         *graph.Graph
	dry, wet  graph.Node
	recipes   map[ID]voice.Recipe
	cooldowns map[ID]time.Duration
	last      map[ID]time.Time
	now       func() time.Time
	voices    voice.Counter
	dropped   int
	unknown   int
}

// NewManager plays into dry with sends into wet. now is the wall clock the
// cooldowns are measured on; nil means time.Now.
func NewManager(g *graph.Graph, dry, wet graph.Node, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		g:         g,
		dry:       dry,
		wet:       wet,
		recipes:   Recipes,
		cooldowns: Cooldowns,
		last:      make(map[ID]time.Time),
		now:       now,
	}
}

// Allow reports whether id may play now and, if so, starts its cooldown.
func (m *Manager) Allow(id ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allow(id)
}

func (m *Manager) allow(id ID) bool {
	cd, ok := m.cooldowns[id]
	if !ok || cd <= 0 {
		return true
	}
	now := m.now()
	if last, ok := m.last[id]; ok && now.Sub(last) < cd {
		m.dropped++
		return false
	}
	m.last[id] = now
	return true
}

// Play triggers id, placed at pt when pt is non-nil. It returns nil when the
// sound was dropped by its cooldown or has no recipe.
func (m *Manager) Play(id ID, pt *Point) *voice.Voice {
	m.mu.Lock()
	r, ok := m.recipes[id]
	if !ok {
		m.unknown++
		m.mu.Unlock()
		return nil
	}
	if !m.allow(id) {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	p := voice.Params{Volume: 1}
	if pt != nil {
		p.Pan = Pan(pt.X)
		p.Volume = DistanceGain(*pt)
	}
	return voice.Play(m.g, m.dry, m.wet, r, p, &m.voices)
}

// Stats returns a snapshot of the counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		Played:  m.voices.Played(),
		Dropped: m.dropped,
		Unknown: m.unknown,
		Active:  m.voices.Active(),
	}
}
