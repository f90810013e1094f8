package audio

import (
	"fmt"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

// ebiten allows a single audio context per process.
func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// EbitenOutput plays through ebiten's audio context. In a browser the
// context stays not-ready until the page receives a user gesture.
type EbitenOutput struct {
	mu         sync.Mutex
	sampleRate int
	ctx        *ebitaudio.Context
	player     *ebitaudio.Player
	reader     *StreamReader
}

func NewEbitenOutput(sampleRate int) *EbitenOutput {
	return &EbitenOutput{sampleRate: sampleRate}
}

func (o *EbitenOutput) Start(src SampleSource) (err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player != nil {
		return ErrStarted
	}
	defer func() {
		// NewContext panics when no device can be opened.
		if r := recover(); r != nil {
			err = fmt.Errorf("ebiten audio: %v", r)
		}
	}()
	ctx, err := sharedAudioContext(o.sampleRate)
	if err != nil {
		return err
	}
	reader := NewStreamReader(src)
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return fmt.Errorf("ebiten audio player: %w", err)
	}
	pl.SetBufferSize(50 * time.Millisecond)
	pl.Play()
	o.ctx, o.player, o.reader = ctx, pl, reader
	return nil
}

func (o *EbitenOutput) Ready() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ctx != nil && o.ctx.IsReady() && o.player.IsPlaying()
}

// Resume restarts a paused player. Readiness of the context itself is up to
// the host.
func (o *EbitenOutput) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return ErrNotReady
	}
	if !o.player.IsPlaying() {
		o.player.Play()
	}
	if !o.ctx.IsReady() {
		return ErrNotReady
	}
	return nil
}

func (o *EbitenOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return nil
	}
	o.player.Pause()
	err := o.player.Close()
	o.player = nil
	o.ctx = nil
	if cerr := o.reader.Close(); err == nil {
		err = cerr
	}
	return err
}
