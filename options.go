package drillsynth

import (
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	intaudio "github.com/cbegin/drillsynth-go/internal/audio"
)

// DefaultSampleRate is used when no WithSampleRate option is given.
const DefaultSampleRate = 48000

type Option func(*engineConfig)

type engineConfig struct {
	sampleRate int
	backend    string
	output     intaudio.Output
	logger     *log.Logger
	clock      func() time.Time
	seed       int64
	verbose    bool
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		sampleRate: DefaultSampleRate,
		backend:    intaudio.BackendEbiten,
		logger:     log.New(os.Stderr, "drillsynth: ", log.LstdFlags),
		clock:      time.Now,
		seed:       time.Now().UnixNano(),
	}
}

func WithSampleRate(hz int) Option {
	return func(cfg *engineConfig) {
		if hz > 0 {
			cfg.sampleRate = hz
		}
	}
}

// WithBackend selects the host output: "ebiten" (default), "oto", "beep" or
// "null" for a headless engine.
func WithBackend(name string) Option {
	return func(cfg *engineConfig) {
		cfg.backend = name
	}
}

// WithHeadless uses a headless output. With startSuspended the engine waits
// in StateSuspended until TryResume, like a browser before a user gesture.
// Audio only advances through Engine.Render.
func WithHeadless(startSuspended bool) Option {
	return func(cfg *engineConfig) {
		cfg.output = intaudio.NewNullOutput(startSuspended)
	}
}

// WithLogger replaces the default stderr logger. A nil logger discards.
func WithLogger(l *log.Logger) Option {
	return func(cfg *engineConfig) {
		if l == nil {
			l = log.New(io.Discard, "", 0)
		}
		cfg.logger = l
	}
}

// WithClock sets the wall clock used for sound cooldowns and overheat timing.
func WithClock(now func() time.Time) Option {
	return func(cfg *engineConfig) {
		if now != nil {
			cfg.clock = now
		}
	}
}

// WithSeed makes noise and music choices reproducible.
func WithSeed(seed int64) Option {
	return func(cfg *engineConfig) {
		cfg.seed = seed
	}
}

// WithVerbose logs calls that were ignored because the engine was not ready.
func WithVerbose(enabled bool) Option {
	return func(cfg *engineConfig) {
		cfg.verbose = enabled
	}
}

// OptionsFromEnv reads DRILLSYNTH_BACKEND, DRILLSYNTH_SAMPLE_RATE,
// DRILLSYNTH_SEED and DRILLSYNTH_VERBOSE. Unset or malformed values are
// skipped.
func OptionsFromEnv() []Option {
	var opts []Option
	if v := os.Getenv("DRILLSYNTH_BACKEND"); v != "" {
		opts = append(opts, WithBackend(v))
	}
	if v := os.Getenv("DRILLSYNTH_SAMPLE_RATE"); v != "" {
		if hz, err := strconv.Atoi(v); err == nil && hz > 0 {
			opts = append(opts, WithSampleRate(hz))
		}
	}
	if v := os.Getenv("DRILLSYNTH_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			opts = append(opts, WithSeed(seed))
		}
	}
	if v := os.Getenv("DRILLSYNTH_VERBOSE"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			opts = append(opts, WithVerbose(on))
		}
	}
	return opts
}

// Channel is one volume channel's setting.
type Channel struct {
	Volume float64 // 0..1
	Muted  bool
}

// Settings are the three user volume channels.
type Settings struct {
	Music Channel
	SFX   Channel
	Drill Channel
}

func DefaultSettings() Settings {
	return Settings{
		Music: Channel{Volume: 0.5},
		SFX:   Channel{Volume: 0.8},
		Drill: Channel{Volume: 0.6},
	}
}

// SettingsFromEnv starts from DefaultSettings and applies
// DRILLSYNTH_{MUSIC,SFX,DRILL}_VOLUME (0-100) and DRILLSYNTH_MUTED, a comma
// separated list of channel names.
func SettingsFromEnv() Settings {
	s := DefaultSettings()
	for _, ch := range []struct {
		env string
		dst *Channel
	}{
		{"DRILLSYNTH_MUSIC_VOLUME", &s.Music},
		{"DRILLSYNTH_SFX_VOLUME", &s.SFX},
		{"DRILLSYNTH_DRILL_VOLUME", &s.Drill},
	} {
		v := os.Getenv(ch.env)
		if v == "" {
			continue
		}
		if pct, err := strconv.Atoi(v); err == nil {
			ch.dst.Volume = clamp01(float64(pct) / 100)
		}
	}
	if v := os.Getenv("DRILLSYNTH_MUTED"); v != "" {
		for _, name := range strings.Split(v, ",") {
			switch strings.ToLower(strings.TrimSpace(name)) {
			case "music":
				s.Music.Muted = true
			case "sfx":
				s.SFX.Muted = true
			case "drill":
				s.Drill.Muted = true
			}
		}
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
