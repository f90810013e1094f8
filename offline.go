package drillsynth

import (
	"encoding/binary"
	"math"
	"sort"
	"time"

	intgraph "github.com/cbegin/drillsynth-go/internal/graph"
)

// Cue is a scripted call made At seconds into an offline render.
type Cue struct {
	At float64
	Do func(e *Engine)
}

// RenderSamples runs a headless engine for seconds and returns interleaved
// stereo samples. Cues run in time order between render blocks, on the first
// quantum boundary at or after their time; cooldowns and overheat timing
// follow the audio clock instead of the wall clock.
func RenderSamples(sampleRate int, seconds float64, s Settings, cues []Cue, opts ...Option) []float32 {
	e := newOffline(sampleRate, opts...)
	defer e.Close()
	e.Init(s)

	cues = append([]Cue(nil), cues...)
	sort.SliceStable(cues, func(i, j int) bool { return cues[i].At < cues[j].At })

	frames := int(float64(sampleRate) * seconds)
	out := make([]float32, frames*2)
	pos := 0
	for _, c := range cues {
		end := int(math.Ceil(c.At*float64(sampleRate)/intgraph.Quantum)) * intgraph.Quantum
		if end > frames {
			end = frames
		}
		if end > pos {
			e.Render(out[2*pos : 2*end])
			pos = end
		}
		if c.Do != nil {
			c.Do(e)
		}
	}
	e.Render(out[2*pos:])
	return out
}

func newOffline(sampleRate int, opts ...Option) *Engine {
	var e *Engine
	epoch := time.Unix(0, 0)
	audioClock := func() time.Time {
		return epoch.Add(time.Duration(e.Now() * float64(time.Second)))
	}
	opts = append(opts, WithSampleRate(sampleRate), WithHeadless(false), WithClock(audioClock))
	e = New(opts...)
	return e
}

// EncodeWAVFloat32LE wraps interleaved float32 samples in a WAVE_FORMAT_IEEE_FLOAT
// RIFF container.
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	const headerSize = 44
	le := binary.LittleEndian
	dataSize := len(samples) * 4
	out := make([]byte, headerSize+dataSize)

	copy(out[0:], "RIFF")
	le.PutUint32(out[4:], uint32(headerSize-8+dataSize))
	copy(out[8:], "WAVEfmt ")
	le.PutUint32(out[16:], 16)
	le.PutUint16(out[20:], 3) // IEEE float
	le.PutUint16(out[22:], uint16(channels))
	le.PutUint32(out[24:], uint32(sampleRate))
	le.PutUint32(out[28:], uint32(sampleRate*channels*4))
	le.PutUint16(out[32:], uint16(channels*4))
	le.PutUint16(out[34:], 32)
	copy(out[36:], "data")
	le.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		le.PutUint32(out[headerSize+i*4:], math.Float32bits(s))
	}
	return out
}
