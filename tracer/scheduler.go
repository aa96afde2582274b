package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split frame into blocks of variable height and assign to the pool
	// of tracers.
	//
	// This function returns the block height assignment for each tracer
	// in the input list. The assignments always add up to frameH.
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

// The naive scheduler splits rows proportionally to each tracer's speed estimate.
type naiveScheduler struct{}

// Create a new naive scheduler instance.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

func (sch *naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	return splitBySpeed(tracers, frameH)
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent frames is approximately the same.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split frame into blocks of variable height and assign to the pool
// of tracers using feedback collected from previous frames.
//
// When previous frame information is available the scheduler uses the
// following formula for estimating the workload for tracer w and frame i+1:
// w_i, f_i+1 = (blockH,w_i / time,w_i) / Σ(blockH_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	// If this is the first time we try to schedule or the number of tracers
	// has changed fall back to the speed estimates
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = splitBySpeed(tracers, frameH)
		return sch.blockAssignment
	}

	// Use last frame statistics
	var total float64
	rates := make([]float64, len(tracers))
	for idx, tr := range tracers {
		stats := tr.Stats()
		if stats.BlockH == 0 || stats.RenderTime <= 0 {
			sch.blockAssignment = splitBySpeed(tracers, frameH)
			return sch.blockAssignment
		}
		rates[idx] = float64(stats.BlockH) / float64(stats.RenderTime)
		total += rates[idx]
	}

	sch.blockAssignment = distribute(rates, total, frameH)
	return sch.blockAssignment
}

func splitBySpeed(tracers []Tracer, frameH uint32) []uint32 {
	var total float64
	weights := make([]float64, len(tracers))
	for idx, tr := range tracers {
		weights[idx] = float64(tr.Speed())
		total += weights[idx]
	}

	// Treat all tracers as equal if no speed estimates are available
	if total == 0 {
		for idx := range weights {
			weights[idx] = 1
		}
		total = float64(len(weights))
	}

	return distribute(weights, total, frameH)
}

// Split frameH rows proportionally to the given weights. Each tracer gets at
// least one row while rows are available.
func distribute(weights []float64, total float64, frameH uint32) []uint32 {
	assignment := make([]uint32, len(weights))
	if len(weights) == 0 {
		return assignment
	}

	scaler := float64(frameH) / total
	var scheduledRows uint32
	for idx, w := range weights {
		assignment[idx] = uint32(math.Max(1.0, math.Floor(w*scaler)))
		scheduledRows += assignment[idx]
	}

	// In case rows don't add up to the frame height append the missing
	// ones to the first tracer.
	if scheduledRows <= frameH {
		assignment[0] += frameH - scheduledRows
		return assignment
	}

	// Too many rows were assigned due to the 1-row minimum; take the
	// excess from the tracers with the largest blocks.
	for excess := scheduledRows - frameH; excess > 0; excess-- {
		largest := 0
		for idx := range assignment {
			if assignment[idx] > assignment[largest] {
				largest = idx
			}
		}
		assignment[largest]--
	}
	return assignment
}
