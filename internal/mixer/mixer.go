// Package mixer builds the fixed part of the audio graph (output chain,
// shared reverb and delay, the three channel buses and the music layers) and
// owns every runtime change to their gains.
package mixer

import (
	"fmt"
	"sync"

	"github.com/cbegin/drillsynth-go/internal/effects"
	"github.com/cbegin/drillsynth-go/internal/graph"
)

// Channel is a user-facing volume channel.
type Channel int

const (
	Music Channel = iota
	SFX
	Drill
	NumChannels
)

func (c Channel) String() string {
	switch c {
	case Music:
		return "music"
	case SFX:
		return "sfx"
	case Drill:
		return "drill"
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// Intensity selects the music layer mix.
type Intensity int

const (
	Low Intensity = iota
	Medium
	High
)

func (i Intensity) String() string {
	switch i {
	case Medium:
		return "MEDIUM"
	case High:
		return "HIGH"
	}
	return "LOW"
}

// Layer is one of the three music sub-buses.
type Layer int

const (
	Melody Layer = iota
	Tension
	Combat
	numLayers
)

func (l Layer) String() string {
	switch l {
	case Tension:
		return "tension"
	case Combat:
		return "combat"
	}
	return "melody"
}

// Graph constants.
const (
	MasterGain       = 0.8
	ReverbDecay      = 2.0
	ReverbDamping    = 0.3
	ReverbReturn     = 0.35
	DelayTime        = 0.4
	DelayFeedback    = 0.3
	DelayReturn      = 0.25
	LayerSend        = 0.4
	SmoothingTime    = 0.1 // time constant for bus volume changes
	CrossfadeSeconds = 2.0

	compThresholdDB = -18
	compRatio       = 4
	compAttackMs    = 3
	compReleaseMs   = 250
)

// layerMix is the target gain of each layer per intensity.
var layerMix = [3][numLayers]float64{
	Low:    {Melody: 1.0, Tension: 0, Combat: 0},
	Medium: {Melody: 0.7, Tension: 0.8, Combat: 0},
	High:   {Melody: 0.7, Tension: 0, Combat: 0.9},
}

// LayerTargets returns the layer gains for intensity.
func LayerTargets(i Intensity) (melody, tension, combat float64) {
	if i < Low || i > High {
		i = Low
	}
	m := layerMix[i]
	return m[Melody], m[Tension], m[Combat]
}

// Level is a channel's volume in [0, 1] and mute flag.
type Level struct {
	Volume float64
	Muted  bool
}

// Effective is the gain the bus should run at.
func (l Level) Effective() float64 {
	if l.Muted {
		return 0
	}
	return clamp01(l.Volume)
}

// Bus is a channel's dry gain into Master plus a wet-send gain into the
// shared reverb and delay. Both always head to the same target.
type Bus struct {
	ch    Channel
	dry   *graph.Gain
	wet   *graph.Gain
	level Level
}

func (b *Bus) Channel() Channel { return b.ch }

// Dry is the input for a channel's direct signal.
func (b *Bus) Dry() *graph.Gain { return b.dry }

// Wet is the input for a channel's effect send.
func (b *Bus) Wet() *graph.Gain { return b.wet }

// Mixer is the bootstrapped graph.
type Mixer struct {
	mu sync.Mutex
	g  *graph.Graph

	master       *graph.Gain
	compressor   *graph.Effect
	reverb       *graph.Effect
	reverbReturn *graph.Gain
	delay        *graph.Delay
	feedback     *graph.Gain
	delayReturn  *graph.Gain

	buses     [NumChannels]*Bus
	layers    [numLayers]*graph.Gain
	layerSend *graph.Gain
	intensity Intensity
}

// Bootstrap builds the fixed graph on g with the given initial levels. Every
// initial gain is set instantly.
func Bootstrap(g *graph.Graph, levels [NumChannels]Level) *Mixer {
	sr := g.SampleRate()
	m := &Mixer{g: g}

	m.master = g.NewGain(MasterGain)
	m.compressor = g.NewEffect("compressor",
		effects.NewCompressor(sr, compThresholdDB, compRatio, compAttackMs, compReleaseMs, 0))
	m.master.Connect(m.compressor)
	m.compressor.Connect(g.Destination())

	m.reverb = g.NewEffect("reverb", effects.NewReverb(sr, ReverbDecay, ReverbDamping))
	m.reverbReturn = g.NewGain(ReverbReturn)
	m.reverb.Connect(m.reverbReturn)
	m.reverbReturn.Connect(m.master)

	m.delay = g.NewDelay(DelayTime)
	m.feedback = g.NewGain(DelayFeedback)
	m.delay.Connect(m.feedback)
	m.feedback.Connect(m.delay)
	m.delayReturn = g.NewGain(DelayReturn)
	m.delay.Connect(m.delayReturn)
	m.delayReturn.Connect(m.master)

	for ch := Music; ch < NumChannels; ch++ {
		lv := levels[ch]
		lv.Volume = clamp01(lv.Volume)
		b := &Bus{
			ch:    ch,
			dry:   g.NewGain(lv.Effective()),
			wet:   g.NewGain(lv.Effective()),
			level: lv,
		}
		b.dry.Connect(m.master)
		b.wet.Connect(m.reverb)
		b.wet.Connect(m.delay)
		m.buses[ch] = b
	}

	music := m.buses[Music]
	m.layerSend = g.NewGain(LayerSend)
	m.layerSend.Connect(music.wet)
	melody, tension, combat := LayerTargets(Low)
	for l, v := range [numLayers]float64{melody, tension, combat} {
		gn := g.NewGain(v)
		gn.Connect(music.dry)
		m.layers[l] = gn
	}
	m.layers[Melody].Connect(m.layerSend)
	m.layers[Tension].Connect(m.layerSend)
	return m
}

// Bus returns the bus for ch, or nil for an unknown channel.
func (m *Mixer) Bus(ch Channel) *Bus {
	if ch < Music || ch >= NumChannels {
		return nil
	}
	return m.buses[ch]
}

// Layer returns the music layer gain that notes of l connect to.
func (m *Mixer) Layer(l Layer) *graph.Gain {
	if l < Melody || l >= numLayers {
		return nil
	}
	return m.layers[l]
}

// LayerSend is the shared wet send of the melody and tension layers.
func (m *Mixer) LayerSend() *graph.Gain { return m.layerSend }

// Master is the pre-compressor summing gain.
func (m *Mixer) Master() *graph.Gain { return m.master }

// Compressor returns the master compressor.
func (m *Mixer) Compressor() *effects.Compressor {
	c, _ := m.compressor.Effector().(*effects.Compressor)
	return c
}

// SetBusVolume smoothly moves ch's dry and wet gains to the effective level.
func (m *Mixer) SetBusVolume(ch Channel, volume float64, muted bool) {
	b := m.Bus(ch)
	if b == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b.level = Level{Volume: clamp01(volume), Muted: muted}
	target := b.level.Effective()
	b.dry.Gain().SmoothTo(target, SmoothingTime)
	b.wet.Gain().SmoothTo(target, SmoothingTime)
}

// Level returns the last level set on ch.
func (m *Mixer) Level(ch Channel) Level {
	b := m.Bus(ch)
	if b == nil {
		return Level{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return b.level
}

// CrossfadeLayers ramps the music layers to intensity's mix over
// CrossfadeSeconds. It does nothing when intensity has not changed.
func (m *Mixer) CrossfadeLayers(i Intensity) {
	if i < Low || i > High {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i == m.intensity {
		return
	}
	m.intensity = i
	for l, v := range layerMix[i] {
		m.layers[l].Gain().RampTo(v, CrossfadeSeconds)
	}
}

// Intensity returns the intensity of the current layer mix.
func (m *Mixer) Intensity() Intensity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.intensity
}

func clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
