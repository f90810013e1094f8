package sfx

import (
	"github.com/cbegin/drillsynth-go/internal/graph"
	"github.com/cbegin/drillsynth-go/internal/osc"
	"github.com/cbegin/drillsynth-go/internal/voice"
)

// ping is a plucked tone: 5 ms attack and an exponential tail.
func ping(src voice.Source, freq, peak, decay, send float64) voice.Layer {
	return voice.Tone(src, freq, peak, 0.005, decay, 0, send)
}

// sweep glides exponentially from f0 to f1 over dur with a percussive envelope.
func sweep(src voice.Source, f0, f1, dur, peak, send float64) voice.Layer {
	return voice.Layer{
		Source:   src,
		Duration: dur + 0.02,
		Freq:     []voice.Point{{T: 0, V: f0}, {T: dur, V: f1, Exp: true}},
		Gain: []voice.Point{
			{T: 0, V: 0},
			{T: 0.005, V: peak},
			{T: dur, V: 0.001, Exp: true},
		},
		Send: send,
	}
}

// burst is filtered noise with a percussive envelope.
func burst(src voice.Source, typ graph.FilterType, freq, q, dur, peak, send float64) voice.Layer {
	return voice.Layer{
		Source:   src,
		Duration: dur + 0.02,
		Gain: []voice.Point{
			{T: 0, V: 0},
			{T: 0.003, V: peak},
			{T: dur, V: 0.001, Exp: true},
		},
		Filter: &voice.Filter{Type: typ, Freq: []voice.Point{{T: 0, V: freq}}, Q: q},
		Send:   send,
	}
}

// swell is a layer that fades in and out over dur.
func swell(l voice.Layer, dur, peak float64) voice.Layer {
	l.Duration = dur + 0.02
	l.Gain = []voice.Point{
		{T: 0, V: 0},
		{T: dur * 0.3, V: peak},
		{T: dur, V: 0.001, Exp: true},
	}
	return l
}

func at(offset float64, l voice.Layer) voice.Layer {
	l.Offset = offset
	return l
}

func lowpass(l voice.Layer, freq, q float64) voice.Layer {
	l.Filter = &voice.Filter{Type: graph.Lowpass, Freq: []voice.Point{{T: 0, V: freq}}, Q: q}
	return l
}

func drive(l voice.Layer, pre, post float64) voice.Layer {
	l.Drive = &voice.Drive{Pre: pre, Post: post}
	return l
}

func wobble(l voice.Layer, target voice.LFOTarget, rate, depth float64) voice.Layer {
	l.LFO = &voice.LFO{Shape: osc.Sine, Rate: rate, Depth: depth, Target: target}
	return l
}

// arp plays freqs in sequence, step seconds apart.
func arp(src voice.Source, freqs []float64, step, peak, decay, send float64) []voice.Layer {
	out := make([]voice.Layer, len(freqs))
	for i, f := range freqs {
		out[i] = at(float64(i)*step, ping(src, f, peak, decay, send))
	}
	return out
}

func layers(ls ...any) []voice.Layer {
	var out []voice.Layer
	for _, l := range ls {
		switch v := l.(type) {
		case voice.Layer:
			out = append(out, v)
		case []voice.Layer:
			out = append(out, v...)
		}
	}
	return out
}

// Note frequencies used by the melodic cues.
const (
	c5 = 523.25
	e5 = 659.25
	g5 = 783.99
	c6 = 1046.50
	e6 = 1318.51
	g6 = 1567.98
	c7 = 2093.00
)

func noiseSweep(src voice.Source, f0, f1, dur, peak, send float64) voice.Layer {
	l := swell(voice.Layer{Source: src, Send: send}, dur, peak)
	l.Filter = &voice.Filter{
		Type: graph.Bandpass,
		Freq: []voice.Point{{T: 0, V: f0}, {T: dur, V: f1, Exp: true}},
		Q:    1.5,
	}
	return l
}

// Recipes is the table of every one-shot sound.
var Recipes = map[ID]voice.Recipe{
	Click: {Layers: layers(
		sweep(voice.Sine, 1200, 600, 0.03, 0.25, 0),
	)},
	UIClick: {Layers: layers(
		ping(voice.Triangle, 900, 0.15, 0.02, 0),
	)},
	Laser: {Layers: layers(
		lowpass(sweep(voice.Square, 1800, 200, 0.18, 0.2, 0.2), 3000, 1),
	)},
	Alarm: {Layers: layers(
		lowpass(at(0, ping(voice.Square, 880, 0.2, 0.11, 0.3)), 2500, 1),
		lowpass(at(0.12, ping(voice.Square, 660, 0.2, 0.11, 0.3)), 2500, 1),
		lowpass(at(0.24, ping(voice.Square, 880, 0.2, 0.11, 0.3)), 2500, 1),
		lowpass(at(0.36, ping(voice.Square, 660, 0.2, 0.11, 0.3)), 2500, 1),
	)},
	LegendaryPickup: {Layers: layers(
		arp(voice.Sine, []float64{c6, e6, g6, c7}, 0.07, 0.2, 0.6, 0.5),
		at(0.28, wobble(ping(voice.Triangle, 2*c7, 0.06, 0.8, 0.6), voice.LFOPitch, 7, 15)),
	)},
	BossHit: {Layers: layers(
		drive(sweep(voice.Sawtooth, 160, 40, 0.35, 0.4, 0.25), 4, 0.6),
		burst(voice.WhiteNoise, graph.Lowpass, 800, 1, 0.2, 0.3, 0.25),
	)},
	Explosion: {Layers: layers(
		drive(voice.Layer{
			Source:   voice.PinkNoise,
			Duration: 0.92,
			Gain:     []voice.Point{{T: 0, V: 0}, {T: 0.005, V: 0.6}, {T: 0.9, V: 0.001, Exp: true}},
			Filter: &voice.Filter{
				Type: graph.Lowpass,
				Freq: []voice.Point{{T: 0, V: 2000}, {T: 0.9, V: 100, Exp: true}},
				Q:    1,
			},
			Send: 0.4,
		}, 2, 0.8),
		sweep(voice.Sine, 90, 30, 0.6, 0.5, 0.4),
	)},
	Fusion: {Layers: layers(
		wobble(sweep(voice.Sine, 200, 1200, 0.5, 0.25, 0.5), voice.LFOPitch, 12, 30),
		at(0.1, sweep(voice.Triangle, 600, 2400, 0.4, 0.12, 0.5)),
	)},
	Error: {Layers: layers(
		lowpass(ping(voice.Square, 220, 0.2, 0.09, 0.1), 1500, 1),
		lowpass(at(0.1, ping(voice.Square, 180, 0.2, 0.12, 0.1)), 1500, 1),
	)},
	Achievement: {Layers: layers(
		arp(voice.Triangle, []float64{g5, c6, e6, g6}, 0.09, 0.2, 0.5, 0.5),
	)},

	PickupCommon: {Layers: layers(
		ping(voice.Sine, 880, 0.18, 0.08, 0.1),
	)},
	PickupUncommon: {Layers: layers(
		ping(voice.Sine, 880, 0.18, 0.08, 0.2),
		at(0.05, ping(voice.Sine, 1320, 0.16, 0.12, 0.2)),
	)},
	PickupRare: {Layers: layers(
		arp(voice.Triangle, []float64{880, 1108.73, 1318.51}, 0.05, 0.18, 0.2, 0.3),
	)},
	PickupEpic: {Layers: layers(
		arp(voice.Triangle, []float64{880, 1108.73, 1318.51, 1760}, 0.05, 0.18, 0.3, 0.4),
		at(0.2, ping(voice.Sine, 3520, 0.05, 0.5, 0.5)),
	)},

	HazardGas: {Layers: layers(
		wobble(swell(voice.Layer{
			Source: voice.WhiteNoise,
			Filter: &voice.Filter{Type: graph.Highpass, Freq: []voice.Point{{T: 0, V: 3000}}, Q: 0.7},
			Send:   0.3,
		}, 1.0, 0.2), voice.LFOCutoff, 4, 800),
	)},
	HazardCaveIn: {Layers: layers(
		drive(swell(voice.Layer{
			Source: voice.PinkNoise,
			Filter: &voice.Filter{Type: graph.Lowpass, Freq: []voice.Point{{T: 0, V: 400}}, Q: 1},
			Send:   0.4,
		}, 1.2, 0.5), 3, 0.7),
		swell(voice.Layer{Source: voice.Sine, Freq: []voice.Point{{T: 0, V: 50}}, Send: 0.4}, 1.2, 0.4),
	)},
	HazardMagma: {Layers: layers(
		wobble(swell(voice.Layer{
			Source: voice.PinkNoise,
			Filter: &voice.Filter{Type: graph.Bandpass, Freq: []voice.Point{{T: 0, V: 300}}, Q: 3},
			Send:   0.3,
		}, 1.0, 0.4), voice.LFOCutoff, 6, 150),
		lowpass(swell(voice.Layer{Source: voice.Sawtooth, Freq: []voice.Point{{T: 0, V: 70}}, Send: 0.3}, 1.0, 0.15), 300, 2),
	)},
	HazardFlood: {Layers: layers(
		wobble(noiseSweep(voice.WhiteNoise, 600, 2000, 1.2, 0.3, 0.4), voice.LFOCutoff, 3, 200),
	)},

	CombatStart: {Layers: layers(
		drive(lowpass(ping(voice.Sawtooth, 110, 0.25, 0.4, 0.3), 1200, 3), 2, 0.8),
		lowpass(ping(voice.Sawtooth, 165, 0.2, 0.4, 0.3), 1200, 3),
	)},
	CombatEnd: {Layers: layers(
		arp(voice.Triangle, []float64{660, 550, 440}, 0.1, 0.18, 0.4, 0.4),
	)},
	PlayerHit: {Layers: layers(
		drive(sweep(voice.Square, 400, 100, 0.15, 0.25, 0.1), 3, 0.7),
		burst(voice.WhiteNoise, graph.Bandpass, 1200, 1, 0.08, 0.2, 0.1),
	)},
	Evade: {Layers: layers(
		noiseSweep(voice.WhiteNoise, 800, 4000, 0.15, 0.25, 0.2),
	)},
	Block: {Layers: layers(
		ping(voice.Triangle, 300, 0.25, 0.12, 0.15),
		burst(voice.WhiteNoise, graph.Highpass, 2000, 0.7, 0.05, 0.2, 0.15),
	)},

	AbilityEMP: {Layers: layers(
		wobble(sweep(voice.Sine, 2000, 60, 0.6, 0.3, 0.4), voice.LFOPitch, 30, 40),
	)},
	AbilityShield: {Layers: layers(
		wobble(swell(voice.Layer{
			Source: voice.Triangle,
			Freq:   []voice.Point{{T: 0, V: 440}, {T: 0.4, V: 880, Exp: true}},
			Send:   0.4,
		}, 0.4, 0.25), voice.LFOPitch, 10, 20),
	)},
	AbilityOvercharge: {Layers: layers(
		swell(voice.Layer{
			Source: voice.Sawtooth,
			Freq:   []voice.Point{{T: 0, V: 100}, {T: 0.7, V: 800, Exp: true}},
			Filter: &voice.Filter{
				Type: graph.Lowpass,
				Freq: []voice.Point{{T: 0, V: 300}, {T: 0.7, V: 4000, Exp: true}},
				Q:    6,
			},
			Send: 0.3,
		}, 0.7, 0.2),
	)},
	AbilityScan: {Layers: layers(
		arp(voice.Sine, []float64{1500, 1500, 1500}, 0.15, 0.15, 0.12, 0.5),
	)},

	LevelUp: {Layers: layers(
		lowpass(at(0, ping(voice.Square, c5, 0.15, 0.3, 0.5)), 3000, 1),
		lowpass(at(0.08, ping(voice.Square, e5, 0.15, 0.3, 0.5)), 3000, 1),
		lowpass(at(0.16, ping(voice.Square, g5, 0.15, 0.3, 0.5)), 3000, 1),
		lowpass(at(0.24, ping(voice.Square, c6, 0.15, 0.4, 0.5)), 3000, 1),
		lowpass(at(0.32, ping(voice.Square, e6, 0.15, 0.6, 0.5)), 3000, 1),
	)},
	MarketBuy: {Layers: layers(
		ping(voice.Sine, 1320, 0.18, 0.1, 0.3),
		at(0.06, ping(voice.Sine, 1760, 0.18, 0.25, 0.3)),
	)},
	MarketSell: {Layers: layers(
		ping(voice.Sine, 1760, 0.18, 0.1, 0.3),
		at(0.06, ping(voice.Sine, 1320, 0.18, 0.25, 0.3)),
	)},
	CaravanSend: {Layers: layers(
		sweep(voice.Triangle, 330, 440, 0.25, 0.2, 0.3),
		at(0.15, sweep(voice.Triangle, 440, 550, 0.3, 0.2, 0.3)),
	)},
	CaravanReturn: {Layers: layers(
		arp(voice.Triangle, []float64{440, 554.37, 659.25}, 0.12, 0.2, 0.35, 0.3),
	)},
	RaidAlarm: {Layers: layers(
		wobble(lowpass(swell(voice.Layer{
			Source: voice.Sawtooth,
			Freq:   []voice.Point{{T: 0, V: 750}},
			Send:   0.3,
		}, 1.2, 0.2), 2000, 1), voice.LFOPitch, 3, 150),
	)},
	RaidRepelled: {Layers: layers(
		arp(voice.Square, []float64{c5, e5, g5, c6}, 0.1, 0.15, 0.4, 0.4),
	)},
	RaidBreached: {Layers: layers(
		drive(sweep(voice.Sawtooth, 220, 110, 0.6, 0.3, 0.3), 3, 0.7),
		burst(voice.PinkNoise, graph.Lowpass, 600, 1, 0.5, 0.3, 0.3),
	)},

	UIOpen: {Layers: layers(
		sweep(voice.Sine, 400, 800, 0.08, 0.15, 0.1),
	)},
	UIClose: {Layers: layers(
		sweep(voice.Sine, 800, 400, 0.08, 0.15, 0.1),
	)},
	UIError: {Layers: layers(
		lowpass(ping(voice.Square, 160, 0.18, 0.12, 0), 1200, 1),
	)},
	UITabSwitch: {Layers: layers(
		ping(voice.Triangle, 1200, 0.1, 0.03, 0),
	)},
	BaseBuild: {Layers: layers(
		burst(voice.WhiteNoise, graph.Bandpass, 2500, 3, 0.06, 0.25, 0.25),
		at(0.12, burst(voice.WhiteNoise, graph.Bandpass, 2500, 3, 0.06, 0.25, 0.25)),
		at(0.24, burst(voice.WhiteNoise, graph.Bandpass, 2500, 3, 0.06, 0.25, 0.25)),
		at(0.24, ping(voice.Triangle, 200, 0.3, 0.25, 0.25)),
	)},
}

func init() {
	for id, r := range Recipes {
		r.Name = string(id)
		Recipes[id] = r
	}
}
