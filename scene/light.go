package scene

import (
	"github.com/achilleasa/sunlight/types"
	"github.com/chewxy/math32"
)

// A directional light. Direction points from the light towards the scene.
type DirectionalLight struct {
	Direction types.Vec3
	Intensity float32

	// Orientation angles (in degrees) used for deriving Direction.
	Yaw   float32
	Pitch float32
}

// Create a directional light from Euler angles. A positive pitch tilts the
// light downwards.
func NewDirectionalLight(yaw, pitch, intensity float32) DirectionalLight {
	l := DirectionalLight{
		Yaw:       yaw,
		Pitch:     pitch,
		Intensity: intensity,
	}
	l.updateDirection()
	return l
}

// The light used for generated scenes.
func DefaultLight() DirectionalLight {
	return NewDirectionalLight(-30, 50, 1)
}

// Rotate the light by the given angle deltas (in degrees). Pitch is clamped
// so the light never points above the horizon.
func (l *DirectionalLight) Rotate(dYaw, dPitch float32) {
	l.Yaw = math32.Mod(l.Yaw+dYaw, 360)
	l.Pitch = math32.Max(1, math32.Min(89, l.Pitch+dPitch))
	l.updateDirection()
}

func (l *DirectionalLight) updateDirection() {
	yaw := l.Yaw * math32.Pi / 180
	pitch := l.Pitch * math32.Pi / 180
	cosPitch := math32.Cos(pitch)
	l.Direction = types.XYZ(
		cosPitch*math32.Sin(yaw),
		-math32.Sin(pitch),
		cosPitch*math32.Cos(yaw),
	).Normalize()
}
