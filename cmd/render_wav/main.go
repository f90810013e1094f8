package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	drillsynth "github.com/cbegin/drillsynth-go"
)

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 44100, "output sample rate")
		seconds    = flag.Float64("seconds", 8, "render length in seconds")
		scenario   = flag.String("scenario", "surface", "scripted session: surface|overheat|combat|deep")
		outPath    = flag.String("out", "drill.wav", "output WAV path")
		seed       = flag.Int64("seed", 1, "noise and music seed")
		asFloat    = flag.Bool("float", false, "write 32-bit float samples instead of 16-bit PCM")
	)
	flag.Parse()
	log.SetPrefix("render_wav: ")
	log.SetFlags(0)

	cues, err := parseScenario(*scenario)
	if err != nil {
		log.Fatal(err)
	}
	settings := drillsynth.SettingsFromEnv()
	samples := drillsynth.RenderSamples(*sampleRate, *seconds, settings, cues,
		drillsynth.WithSeed(*seed), drillsynth.WithLogger(log.Default()))

	if *asFloat {
		if err := os.WriteFile(*outPath, drillsynth.EncodeWAVFloat32LE(samples, *sampleRate, 2), 0o644); err != nil {
			log.Fatal(err)
		}
	} else if err := writePCM(*outPath, samples, *sampleRate); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s (%s, %.1fs)\n", *outPath, *scenario, *seconds)
}

// writePCM streams interleaved stereo samples through beep's WAV encoder.
func writePCM(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	pos := 0
	s := beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		if pos >= len(samples) {
			return 0, false
		}
		n := 0
		for n < len(buf) && pos+1 < len(samples) {
			buf[n][0] = float64(samples[pos])
			buf[n][1] = float64(samples[pos+1])
			pos += 2
			n++
		}
		return n, true
	})
	format := beep.Format{SampleRate: beep.SampleRate(sampleRate), NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, s, format); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func parseScenario(name string) ([]drillsynth.Cue, error) {
	drilling := func(heat, depth float64, m drillsynth.Material) func(*drillsynth.Engine) {
		return func(e *drillsynth.Engine) {
			e.Update(drillsynth.Telemetry{Heat: heat, Depth: depth, Material: m, IsDrilling: true})
		}
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "surface":
		return []drillsynth.Cue{
			{At: 0, Do: drilling(20, 800, drillsynth.MaterialRock)},
			{At: 2, Do: func(e *drillsynth.Engine) { e.Pickup(drillsynth.RarityUncommon, drillsynth.Point{X: 30, Y: 50}) }},
			{At: 3, Do: drilling(35, 900, drillsynth.MaterialMetal)},
			{At: 5, Do: func(e *drillsynth.Engine) { e.Click(); e.UIOpen() }},
		}, nil
	case "overheat":
		return []drillsynth.Cue{
			{At: 0, Do: drilling(50, 3000, drillsynth.MaterialMetal)},
			{At: 1.5, Do: drilling(85, 3000, drillsynth.MaterialMetal)},
			{At: 2.5, Do: func(e *drillsynth.Engine) {
				e.Update(drillsynth.Telemetry{Heat: 100, Depth: 3000, Overheated: true})
				e.Alarm()
			}},
			{At: 5, Do: func(e *drillsynth.Engine) {
				e.Update(drillsynth.Telemetry{Heat: 60, Depth: 3000, Overheated: true})
			}},
		}, nil
	case "combat":
		return []drillsynth.Cue{
			{At: 0, Do: func(e *drillsynth.Engine) {
				e.Update(drillsynth.Telemetry{Heat: 30, Depth: 12000, Combat: true, Material: drillsynth.MaterialCrystal})
				e.CombatStart()
			}},
			{At: 1, Do: func(e *drillsynth.Engine) { e.Laser(drillsynth.Point{X: 80, Y: 40}) }},
			{At: 1.5, Do: func(e *drillsynth.Engine) { e.BossHit(); e.Explosion(drillsynth.Point{X: 10, Y: 60}) }},
			{At: 2.5, Do: func(e *drillsynth.Engine) { e.PlayerHit(); e.Ability(drillsynth.AbilityShield) }},
			{At: 4, Do: func(e *drillsynth.Engine) {
				e.Update(drillsynth.Telemetry{Heat: 30, Depth: 12000, Material: drillsynth.MaterialCrystal})
				e.CombatEnd()
			}},
		}, nil
	case "deep":
		return []drillsynth.Cue{
			{At: 0, Do: drilling(40, 30000, drillsynth.MaterialCrystal)},
			{At: 3, Do: drilling(45, 60000, drillsynth.MaterialRock)},
			{At: 4, Do: func(e *drillsynth.Engine) { e.Hazard(drillsynth.HazardMagma) }},
			{At: 6, Do: func(e *drillsynth.Engine) { e.LegendaryPickup() }},
		}, nil
	default:
		return nil, fmt.Errorf("invalid -scenario %q (expected surface|overheat|combat|deep)", name)
	}
}
