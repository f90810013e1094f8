package effects

import "math"

// Compressor is a stereo-linked feed-forward compressor that glues the master
// bus and keeps summed voices out of the clipper.
type Compressor struct {
	threshold float64
	ratio     float64
	attack    float64 // coefficient
	release   float64 // coefficient
	makeup    float64
	env       float64
}

// NewCompressor creates a compressor.
// thresholdDB: threshold in dB (e.g. -18)
// ratio: compression ratio (e.g. 4 for 4:1)
// attackMs, releaseMs: envelope follower times
// makeupDB: makeup gain in dB
func NewCompressor(sampleRate int, thresholdDB, ratio, attackMs, releaseMs, makeupDB float64) *Compressor {
	sr := float64(sampleRate)
	if ratio < 1 {
		ratio = 1
	}
	return &Compressor{
		threshold: math.Pow(10, thresholdDB/20),
		ratio:     ratio,
		attack:    1.0 - math.Exp(-1.0/(math.Max(attackMs, 0.01)*sr/1000.0)),
		release:   1.0 - math.Exp(-1.0/(math.Max(releaseMs, 0.01)*sr/1000.0)),
		makeup:    math.Pow(10, makeupDB/20),
	}
}

// Process compresses one stereo frame. A non-finite frame is dropped to
// silence and the envelope restarts.
func (c *Compressor) Process(l, r float64) (float64, float64) {
	peak := math.Max(math.Abs(l), math.Abs(r))
	if math.IsNaN(peak) || math.IsInf(peak, 0) {
		c.env = 0
		return 0, 0
	}
	if peak > c.env {
		c.env += c.attack * (peak - c.env)
	} else {
		c.env += c.release * (peak - c.env)
	}
	g := c.gain() * c.makeup
	return l * g, r * g
}

// GainReduction returns the current gain multiplier (1 = no reduction).
func (c *Compressor) GainReduction() float64 {
	return c.gain()
}

func (c *Compressor) gain() float64 {
	if c.env <= c.threshold || c.threshold <= 0 {
		return 1.0
	}
	over := c.env / c.threshold
	return math.Pow(over, 1.0/c.ratio-1)
}

func (c *Compressor) Reset() {
	c.env = 0
}
