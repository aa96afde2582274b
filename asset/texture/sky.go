package texture

import "github.com/achilleasa/sunlight/types"

// A procedural gradient sky used when no environment map is supplied.
type Sky struct {
	Zenith  types.Vec3
	Horizon types.Vec3
	Ground  types.Vec3
}

func DefaultSky() *Sky {
	return &Sky{
		Zenith:  types.XYZ(0.25, 0.45, 0.85),
		Horizon: types.XYZ(0.85, 0.9, 1.0),
		Ground:  types.XYZ(0.3, 0.27, 0.25),
	}
}

// Sample the sky. Only v is used: v = 0 looks straight up, v = -0.5 at the
// horizon and v = -1 straight down.
func (s *Sky) Sample(_, v float32) types.Vec3 {
	elevation := wrap(v)
	if v == 0 {
		elevation = 1
	}

	if elevation <= 0.5 {
		return s.Ground
	}

	t := (elevation - 0.5) * 2
	return s.Horizon.Mul(1 - t).Add(s.Zenith.Mul(t))
}
