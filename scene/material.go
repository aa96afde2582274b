package scene

import "github.com/achilleasa/sunlight/types"

// Specular reflectance of diffuse (non-metal) surfaces.
const DiffuseSpecular float32 = 0.04

// The surface material of a scene object. Albedo scales the direct light
// contribution while Specular attenuates the energy carried by the
// reflected ray.
type Surface struct {
	Albedo   types.Vec3
	Specular types.Vec3
}

// Create a metal surface. Metals have no diffuse response and reflect
// using their tint color.
func MetalSurface(color types.Vec3) Surface {
	return Surface{
		Albedo:   types.Vec3{},
		Specular: color,
	}
}

// Create a diffuse surface.
func DiffuseSurface(color types.Vec3) Surface {
	return Surface{
		Albedo:   color,
		Specular: types.Splat3(DiffuseSpecular),
	}
}

// The default material for the ground plane.
func DefaultGround() Surface {
	return Surface{
		Albedo:   types.Splat3(0.8),
		Specular: types.Splat3(0.03),
	}
}
