package renderer

// A running per-pixel average of the traced samples. The buffer stores RGB
// triplets for a frameW x frameH image with row 0 at the bottom.
type Accumulator struct {
	FrameW uint32
	FrameH uint32

	Data []float32

	sampleCount uint32
}

func NewAccumulator(frameW, frameH uint32) *Accumulator {
	return &Accumulator{
		FrameW: frameW,
		FrameH: frameH,
		Data:   make([]float32, frameW*frameH*3),
	}
}

// Get the number of samples folded into the average.
func (a *Accumulator) SampleCount() uint32 {
	return a.sampleCount
}

// Record a completed frame.
func (a *Accumulator) Advance() {
	a.sampleCount++
}

// Discard the accumulated average.
func (a *Accumulator) Reset() {
	a.sampleCount = 0
	for index := range a.Data {
		a.Data[index] = 0
	}
}
