package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

var (
	otoOnce  sync.Once
	otoCtx   *oto.Context
	otoReady chan struct{}
	otoErr   error
	otoRate  int
)

// oto allows one context per process.
func sharedOtoContext(sampleRate int) (*oto.Context, chan struct{}, error) {
	otoOnce.Do(func() {
		otoRate = sampleRate
		otoCtx, otoReady, otoErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatFloat32LE,
			BufferSize:   40 * time.Millisecond,
		})
	})
	if otoErr != nil {
		return nil, nil, otoErr
	}
	if otoRate != sampleRate {
		return nil, nil, fmt.Errorf("oto context already initialized at %d Hz (requested %d Hz)", otoRate, sampleRate)
	}
	return otoCtx, otoReady, nil
}

// OtoOutput plays directly through an oto context. The context's ready
// channel closes once the device accepts audio; until then the output is
// suspended.
type OtoOutput struct {
	mu         sync.Mutex
	sampleRate int
	ctx        *oto.Context
	ready      chan struct{}
	player     *oto.Player
	resumed    bool
}

func NewOtoOutput(sampleRate int) *OtoOutput {
	return &OtoOutput{sampleRate: sampleRate}
}

func (o *OtoOutput) Start(src SampleSource) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player != nil {
		return ErrStarted
	}
	ctx, ready, err := sharedOtoContext(o.sampleRate)
	if err != nil {
		return fmt.Errorf("oto context: %w", err)
	}
	o.ctx, o.ready = ctx, ready
	o.player = ctx.NewPlayer(NewStreamReader(src))
	o.player.Play()
	o.resumed = true
	return nil
}

func (o *OtoOutput) deviceReady() bool {
	if o.ready == nil {
		return false
	}
	select {
	case <-o.ready:
		return true
	default:
		return false
	}
}

func (o *OtoOutput) Ready() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.player != nil && o.resumed && o.deviceReady()
}

func (o *OtoOutput) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctx == nil {
		return ErrNotReady
	}
	if err := o.ctx.Resume(); err != nil {
		return fmt.Errorf("oto resume: %w", err)
	}
	o.resumed = true
	if !o.deviceReady() {
		return ErrNotReady
	}
	return nil
}

// Suspend pauses the device.
func (o *OtoOutput) Suspend() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctx == nil {
		return nil
	}
	o.resumed = false
	return o.ctx.Suspend()
}

func (o *OtoOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	return err
}
