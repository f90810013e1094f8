package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// BeepOutput plays through beep's speaker package.
type BeepOutput struct {
	mu         sync.Mutex
	sampleRate beep.SampleRate
	started    bool
	suspended  bool
	buf        []float32
}

func NewBeepOutput(sampleRate int) *BeepOutput {
	return &BeepOutput{sampleRate: beep.SampleRate(sampleRate)}
}

// streamer converts the source's interleaved float32 frames into beep's
// [][2]float64 layout. It never ends.
func (o *BeepOutput) streamer(src SampleSource) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		o.buf = grow(o.buf, 2*len(samples))
		src.Process(o.buf)
		for i := range samples {
			samples[i][0] = float64(o.buf[2*i])
			samples[i][1] = float64(o.buf[2*i+1])
		}
		return len(samples), true
	})
}

func (o *BeepOutput) Start(src SampleSource) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return ErrStarted
	}
	if err := speaker.Init(o.sampleRate, o.sampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("beep speaker: %w", err)
	}
	speaker.Play(o.streamer(src))
	o.started = true
	return nil
}

func (o *BeepOutput) Ready() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.started && !o.suspended
}

func (o *BeepOutput) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.started {
		return ErrNotReady
	}
	if err := speaker.Resume(); err != nil {
		return fmt.Errorf("beep resume: %w", err)
	}
	o.suspended = false
	return nil
}

// Suspend pauses the speaker.
func (o *BeepOutput) Suspend() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.started {
		return nil
	}
	if err := speaker.Suspend(); err != nil {
		return fmt.Errorf("beep suspend: %w", err)
	}
	o.suspended = true
	return nil
}

func (o *BeepOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.started {
		return nil
	}
	speaker.Clear()
	speaker.Close()
	o.started = false
	return nil
}
