package effects

// Line is a stereo delay line split into a read phase and a write phase so a
// graph can read this block's delayed output before the block's input (which
// may depend on that output through a feedback loop) has been rendered.
type Line struct {
	bufL, bufR []float64
	readPos    int
	writePos   int
}

// NewLine creates a delay line of delaySec seconds.
func NewLine(sampleRate int, delaySec float64) *Line {
	samples := int(delaySec * float64(sampleRate))
	if samples < 1 {
		samples = 1
	}
	return &Line{
		bufL: make([]float64, samples),
		bufR: make([]float64, samples),
	}
}

// Len returns the delay in samples.
func (d *Line) Len() int {
	return len(d.bufL)
}

// Read fills l and r with the next len(l) delayed samples.
func (d *Line) Read(l, r []float64) {
	for i := range l {
		l[i] = d.bufL[d.readPos]
		r[i] = d.bufR[d.readPos]
		d.readPos++
		if d.readPos >= len(d.bufL) {
			d.readPos = 0
		}
	}
}

// Write stores len(l) input samples; each is read back Len() samples later.
func (d *Line) Write(l, r []float64) {
	for i := range l {
		d.bufL[d.writePos] = l[i]
		d.bufR[d.writePos] = r[i]
		d.writePos++
		if d.writePos >= len(d.bufL) {
			d.writePos = 0
		}
	}
}

func (d *Line) Reset() {
	for i := range d.bufL {
		d.bufL[i] = 0
		d.bufR[i] = 0
	}
	d.readPos = 0
	d.writePos = 0
}
