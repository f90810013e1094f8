package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

type rampSource struct {
	next     float32
	calls    int
	finished bool
}

func (s *rampSource) Process(dst []float32) {
	s.calls++
	for i := range dst {
		dst[i] = s.next
		s.next += 0.25
	}
}

func (s *rampSource) Finished() bool { return s.finished }

func TestStreamReaderEncodesFloat32LE(t *testing.T) {
	src := &rampSource{}
	r := NewStreamReader(src)
	p := make([]byte, 2*8+3) // two frames plus a partial one
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if n != 16 {
		t.Fatalf("Read n = %d, want 16", n)
	}
	for i := 0; i < 4; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(p[4*i:]))
		if want := float32(i) * 0.25; got != want {
			t.Fatalf("sample %d = %v, want %v", i, got, want)
		}
	}
}

func TestStreamReaderShortBuffer(t *testing.T) {
	src := &rampSource{}
	r := NewStreamReader(src)
	n, err := r.Read(make([]byte, 7))
	if n != 0 || err != nil {
		t.Fatalf("Read = (%d, %v), want (0, nil)", n, err)
	}
	if src.calls != 0 {
		t.Fatalf("source called %d times for an empty read", src.calls)
	}
}

func TestStreamReaderFinished(t *testing.T) {
	src := &rampSource{finished: true}
	r := NewStreamReader(src)
	if _, err := r.Read(make([]byte, 64)); err != io.EOF {
		t.Fatalf("Read error = %v, want io.EOF", err)
	}
}

func TestNullOutputSuspendResume(t *testing.T) {
	o := NewNullOutput(true)
	src := &rampSource{}
	if err := o.Start(src); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := o.Start(src); !errors.Is(err, ErrStarted) {
		t.Fatalf("second Start error = %v, want ErrStarted", err)
	}
	if o.Ready() {
		t.Fatal("Ready() = true while suspended")
	}
	o.Pull(16)
	if src.calls != 0 {
		t.Fatal("suspended output pulled samples")
	}
	if err := o.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if !o.Ready() {
		t.Fatal("Ready() = false after Resume")
	}
	o.Pull(16)
	if src.calls != 1 {
		t.Fatalf("calls = %d, want 1", src.calls)
	}
	o.Close()
	if o.Ready() {
		t.Fatal("Ready() = true after Close")
	}
	if err := o.Resume(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Resume after Close = %v, want ErrNotReady", err)
	}
}

func TestNewBackends(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "*audio.EbitenOutput"},
		{"ebiten", "*audio.EbitenOutput"},
		{"OTO", "*audio.OtoOutput"},
		{"beep", "*audio.BeepOutput"},
		{" null ", "*audio.NullOutput"},
	}
	for _, tt := range tests {
		o, err := New(tt.name, 48000)
		if err != nil {
			t.Fatalf("New(%q): %v", tt.name, err)
		}
		if got := typeName(o); got != tt.want {
			t.Fatalf("New(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
	if _, err := New("alsa", 48000); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("New(alsa) error = %v, want ErrUnknownBackend", err)
	}
}

func typeName(o Output) string {
	switch o.(type) {
	case *EbitenOutput:
		return "*audio.EbitenOutput"
	case *OtoOutput:
		return "*audio.OtoOutput"
	case *BeepOutput:
		return "*audio.BeepOutput"
	case *NullOutput:
		return "*audio.NullOutput"
	}
	return "?"
}
