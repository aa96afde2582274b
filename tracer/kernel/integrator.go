package kernel

import "github.com/achilleasa/sunlight/types"

// Trace a path starting with ray and return the gathered radiance. Each
// bounce adds its contribution weighted by the energy the ray carried
// before shading. Tracing stops after the bounce budget is exhausted or
// once the ray energy drops to zero in all channels.
func Integrate(ray Ray, fc *FrameContext) types.Vec3 {
	var result types.Vec3
	bounces := fc.bounces()
	for bounce := 0; bounce < bounces; bounce++ {
		hit := Trace(ray, fc.Scene)

		energy := ray.Energy
		var contribution types.Vec3
		ray, contribution = Shade(ray, hit, fc)
		result = result.Add(energy.MulVec(contribution))

		if ray.Energy.IsZero() {
			break
		}
	}
	return result
}

// Compute one radiance sample for pixel (x, y) of a width x height frame.
func TracePixel(x, y, width, height int, fc *FrameContext) types.Vec3 {
	uv := PixelUV(x, y, width, height, fc.Jitter)
	return Integrate(CameraRay(uv, fc.View), fc)
}
