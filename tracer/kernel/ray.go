package kernel

import (
	"github.com/achilleasa/sunlight/types"
	"github.com/chewxy/math32"
)

// A ray with a unit direction. Energy is the per-channel throughput that
// remains for subsequent bounces.
type Ray struct {
	Origin    types.Vec3
	Direction types.Vec3
	Energy    types.Vec3
}

// Create a ray with full energy.
func NewRay(origin, direction types.Vec3) Ray {
	return Ray{
		Origin:    origin,
		Direction: direction,
		Energy:    types.Splat3(1),
	}
}

// The closest intersection found so far along a ray.
type Hit struct {
	Position types.Vec3
	Distance float32
	Normal   types.Vec3
	Albedo   types.Vec3
	Specular types.Vec3
}

// Create an empty hit record at infinite distance.
func NoHit() Hit {
	return Hit{
		Distance: math32.Inf(1),
	}
}

// Returns true if the hit records an intersection.
func (h Hit) Valid() bool {
	return h.Distance < math32.Inf(1)
}
