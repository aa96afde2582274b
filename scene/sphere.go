package scene

import "github.com/achilleasa/sunlight/types"

// A sphere resting on or above the ground plane.
type Sphere struct {
	Center types.Vec3
	Radius float32
	Surface
}

// Create a new sphere.
func NewSphere(center types.Vec3, radius float32, surface Surface) Sphere {
	return Sphere{
		Center:  center,
		Radius:  radius,
		Surface: surface,
	}
}

// Returns true if the sphere has no diffuse response.
func (s Sphere) IsMetal() bool {
	return s.Albedo.IsZero()
}

// Returns true if the two spheres intersect. Spheres that exactly touch do
// not overlap.
func (s Sphere) Overlaps(other Sphere) bool {
	minDist := s.Radius + other.Radius
	return s.Center.Sub(other.Center).LenSqr() < minDist*minDist
}
