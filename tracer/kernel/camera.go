package kernel

import (
	"github.com/achilleasa/sunlight/scene"
	"github.com/achilleasa/sunlight/types"
)

// Map a pixel and sub-pixel jitter to normalized device coordinates in
// [-1, 1]^2. Pixel (0, 0) maps to the bottom-left corner.
func PixelUV(x, y, width, height int, jitter types.Vec2) types.Vec2 {
	return types.XY(
		(float32(x)+jitter[0])/float32(width)*2-1,
		(float32(y)+jitter[1])/float32(height)*2-1,
	)
}

// Generate a primary ray for a point in normalized device coordinates.
func CameraRay(uv types.Vec2, view scene.View) Ray {
	origin := view.CameraToWorld.MulPoint(types.Vec3{})

	dir := view.InverseProjection.Mul4x1(types.XYZW(uv[0], uv[1], 0, 1)).Vec3()
	dir = view.CameraToWorld.MulDir(dir).Normalize()

	return NewRay(origin, dir)
}
