// Package audio connects a SampleSource to a host audio device. Every backend
// pulls samples on its own goroutine and may start suspended until the host
// allows playback (a browser needs a user gesture first).
package audio

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrNotReady is returned by Resume when the host still refuses playback.
	ErrNotReady = errors.New("audio: output not ready")
	// ErrUnknownBackend is returned by New for an unrecognised backend name.
	ErrUnknownBackend = errors.New("audio: unknown backend")
	// ErrStarted is returned when Start is called twice on one output.
	ErrStarted = errors.New("audio: output already started")
)

// Output is a host audio device that plays one SampleSource.
type Output interface {
	// Start begins pulling src. It fails when the host has no audio device.
	Start(src SampleSource) error
	// Ready reports whether the host is currently playing (not suspended).
	Ready() bool
	// Resume asks the host to start or continue playback.
	Resume() error
	Close() error
}

// Backend names accepted by New.
const (
	BackendEbiten = "ebiten"
	BackendOto    = "oto"
	BackendBeep   = "beep"
	BackendNull   = "null"
)

// New returns the named backend at sampleRate. An empty name selects ebiten.
func New(backend string, sampleRate int) (Output, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendEbiten:
		return NewEbitenOutput(sampleRate), nil
	case BackendOto:
		return NewOtoOutput(sampleRate), nil
	case BackendBeep:
		return NewBeepOutput(sampleRate), nil
	case BackendNull:
		return NewNullOutput(false), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// NullOutput is a headless output. Nothing pulls samples unless Pull is
// called, so offline renders and tests control the clock themselves.
type NullOutput struct {
	mu        sync.Mutex
	src       SampleSource
	suspended bool
	closed    bool
	buf       []float32
}

// NewNullOutput creates a headless output; startSuspended mimics a host that
// waits for a user gesture.
func NewNullOutput(startSuspended bool) *NullOutput {
	return &NullOutput{suspended: startSuspended}
}

func (o *NullOutput) Start(src SampleSource) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.src != nil {
		return ErrStarted
	}
	o.src = src
	return nil
}

func (o *NullOutput) Ready() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.suspended && !o.closed
}

func (o *NullOutput) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrNotReady
	}
	o.suspended = false
	return nil
}

// Suspend puts the output back into the suspended state.
func (o *NullOutput) Suspend() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.suspended = true
}

// Pull renders frames from the source as a running device would. It does
// nothing while suspended.
func (o *NullOutput) Pull(frames int) {
	o.mu.Lock()
	src := o.src
	live := !o.suspended && !o.closed
	o.buf = grow(o.buf, 2*frames)
	buf := o.buf
	o.mu.Unlock()
	if src == nil || !live {
		return
	}
	src.Process(buf)
}

func (o *NullOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return nil
}
