package kernel

import (
	"github.com/achilleasa/sunlight/scene"
	"github.com/achilleasa/sunlight/types"
)

const (
	// The maximum number of ray segments traced per sample.
	DefaultBounces = 8

	// Offset applied along the surface normal to avoid self-intersection.
	ShadowEpsilon float32 = 1e-3
)

// Provides the background radiance for rays that escape the scene. The
// (u, v) coordinates follow an equirectangular mapping; u lies in
// [-0.5, 0.5] and v in [-1, 0] so implementations are expected to wrap.
type EnvironmentSampler interface {
	Sample(u, v float32) types.Vec3
}

// An adapter for using plain functions as environment samplers.
type EnvironmentFunc func(u, v float32) types.Vec3

func (f EnvironmentFunc) Sample(u, v float32) types.Vec3 {
	return f(u, v)
}

// A constant color environment.
func UniformEnvironment(color types.Vec3) EnvironmentSampler {
	return EnvironmentFunc(func(_, _ float32) types.Vec3 {
		return color
	})
}

// The read-only inputs shared by every pixel of a frame.
type FrameContext struct {
	Scene *scene.Scene
	View  scene.View
	Light scene.DirectionalLight

	Environment EnvironmentSampler

	// Sub-pixel offset in [0, 1)^2 shared by all pixels of the frame.
	Jitter types.Vec2

	// Number of samples already accumulated into the output.
	SampleCount uint32

	// Maximum number of ray segments; DefaultBounces if zero.
	MaxBounces int
}

func (fc *FrameContext) bounces() int {
	if fc.MaxBounces <= 0 {
		return DefaultBounces
	}
	return fc.MaxBounces
}
