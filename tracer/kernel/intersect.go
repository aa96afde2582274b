package kernel

import (
	"github.com/achilleasa/sunlight/scene"
	"github.com/achilleasa/sunlight/types"
	"github.com/chewxy/math32"
)

var groundNormal = types.XYZ(0, 1, 0)

// Find the closest intersection between the ray and the scene geometry.
func Trace(ray Ray, sc *scene.Scene) Hit {
	hit := NoHit()
	IntersectGroundPlane(ray, sc.Ground, &hit)
	for index := range sc.Spheres {
		IntersectSphere(ray, &sc.Spheres[index], &hit)
	}
	return hit
}

// Intersect the ray with the y = 0 plane and update hit if the plane is
// closer than the current best hit. Rays parallel to the plane never pass
// the distance test.
func IntersectGroundPlane(ray Ray, ground scene.Surface, hit *Hit) {
	t := -ray.Origin[1] / ray.Direction[1]
	if t > 0 && t < hit.Distance {
		hit.Distance = t
		hit.Position = ray.Origin.Add(ray.Direction.Mul(t))
		hit.Normal = groundNormal
		hit.Albedo = ground.Albedo
		hit.Specular = ground.Specular
	}
}

// Intersect the ray with a sphere and update hit if the sphere is closer
// than the current best hit. The near root is preferred; the far root is
// used when the ray starts inside the sphere.
func IntersectSphere(ray Ray, sphere *scene.Sphere, hit *Hit) {
	d := ray.Origin.Sub(sphere.Center)
	p1 := -ray.Direction.Dot(d)
	p2sqr := p1*p1 - d.Dot(d) + sphere.Radius*sphere.Radius
	if p2sqr < 0 {
		return
	}

	p2 := math32.Sqrt(p2sqr)
	t := p1 - p2
	if t <= 0 {
		t = p1 + p2
	}

	if t > 0 && t < hit.Distance {
		hit.Distance = t
		hit.Position = ray.Origin.Add(ray.Direction.Mul(t))
		hit.Normal = hit.Position.Sub(sphere.Center).Normalize()
		hit.Albedo = sphere.Albedo
		hit.Specular = sphere.Specular
	}
}

// Returns true if a ray from origin along direction hits any geometry.
func Occluded(origin, direction types.Vec3, sc *scene.Scene) bool {
	return Trace(NewRay(origin, direction), sc).Valid()
}
