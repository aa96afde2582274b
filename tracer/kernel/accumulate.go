package kernel

import "github.com/achilleasa/sunlight/types"

// The weight of a new sample when sampleCount samples have already been
// averaged.
func BlendWeight(sampleCount uint32) float32 {
	return 1 / (float32(sampleCount) + 1)
}

// Fold a new sample into the running average. With sampleCount = 0 the
// sample replaces the average.
func Blend(avg, sample types.Vec3, sampleCount uint32) types.Vec3 {
	if sampleCount == 0 {
		return sample
	}
	w := BlendWeight(sampleCount)
	return avg.Mul(1 - w).Add(sample.Mul(w))
}
