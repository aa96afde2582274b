package kernel

import (
	"github.com/achilleasa/sunlight/types"
	"github.com/chewxy/math32"
)

// Shade a hit and produce the ray for the next bounce together with the
// radiance gathered at this bounce. The contribution is not yet weighted by
// the incoming ray energy.
//
// Rays that miss the scene sample the environment and terminate by
// returning a ray with zero energy. Surface hits reflect the ray about the
// normal, attenuate its energy by the surface specular color and add the
// unshadowed direct light scaled by the surface albedo.
func Shade(ray Ray, hit Hit, fc *FrameContext) (Ray, types.Vec3) {
	if !hit.Valid() {
		theta := math32.Acos(ray.Direction[1]) / -math32.Pi
		phi := math32.Atan2(ray.Direction[0], -ray.Direction[2]) / -math32.Pi * 0.5

		ray.Energy = types.Vec3{}
		return ray, fc.Environment.Sample(phi, theta)
	}

	next := Ray{
		Origin:    hit.Position.Add(hit.Normal.Mul(ShadowEpsilon)),
		Direction: ray.Direction.Reflect(hit.Normal),
		Energy:    ray.Energy.MulVec(hit.Specular),
	}

	// The shadow ray starts from the offset origin so it does not hit the
	// surface being shaded.
	lightDir := fc.Light.Direction
	if Occluded(next.Origin, lightDir.Mul(-1), fc.Scene) {
		return next, types.Vec3{}
	}

	diffuse := types.Saturate(-hit.Normal.Dot(lightDir)) * fc.Light.Intensity
	return next, hit.Albedo.Mul(diffuse)
}
