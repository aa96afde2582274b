package scene

import (
	"github.com/achilleasa/sunlight/types"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type CameraDirection uint8

const (
	Forward CameraDirection = iota
	Backward
	Left
	Right
	Up
	Down
)

// The camera matrices consumed by the ray generator.
type View struct {
	CameraToWorld     types.Mat4
	InverseProjection types.Mat4
}

// The camera type controls the scene camera.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Pending rotation deltas (in radians) applied by the next Update call.
	Pitch float32
	Yaw   float32

	ViewMat types.Mat4
	ProjMat types.Mat4

	// Vertical field of view in degrees.
	FOV float32

	// Clip planes.
	Near float32
	Far  float32
}

func NewCamera(fov float32) *Camera {
	return &Camera{
		ViewMat:  types.Ident4(),
		ProjMat:  types.Ident4(),
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
		Near:     0.3,
		Far:      1000,
	}
}

// Create the camera used for generated scenes. It looks at the placement
// disk from above its edge.
func DefaultCamera(placementRadius float32) *Camera {
	c := NewCamera(60)
	c.Position = types.XYZ(0, placementRadius*0.4, placementRadius*1.3)
	c.LookAt = types.XYZ(0, 0, 0)
	c.SetupProjection(16.0 / 9.0)
	return c
}

// Setup camera projection matrix.
func (c *Camera) SetupProjection(aspect float32) {
	c.ProjMat = types.Perspective4(c.FOV, aspect, c.Near, c.Far)
	c.Update()
}

// Update camera.
func (c *Camera) Update() {
	dir := c.LookAt.Sub(c.Position).Normalize()
	pitchAxis := dir.Cross(c.Up).Normalize()

	orientQuat := mgl32.QuatRotate(c.Yaw, mgl32.Vec3(c.Up))
	if !pitchAxis.IsZero() {
		orientQuat = mgl32.QuatRotate(c.Pitch, mgl32.Vec3(pitchAxis)).Mul(orientQuat)
	}
	orientQuat = orientQuat.Normalize()

	// Reject rotations that would align the view direction with the up
	// vector; LookAtV is undefined there.
	newDir := types.Vec3(orientQuat.Rotate(mgl32.Vec3(dir)))
	if math32.Abs(newDir.Dot(c.Up.Normalize())) < 0.999 {
		dir = newDir
	}
	c.Pitch, c.Yaw = 0, 0

	c.LookAt = c.Position.Add(dir)
	c.ViewMat = types.LookAtV(c.Position, c.LookAt, c.Up)
}

// Move the camera along the given direction. Forward/backward movement
// follows the view direction while left/right movement strafes.
func (c *Camera) Move(dir CameraDirection, amount float32) {
	viewDir := c.LookAt.Sub(c.Position).Normalize()
	var delta types.Vec3
	switch dir {
	case Forward:
		delta = viewDir.Mul(amount)
	case Backward:
		delta = viewDir.Mul(-amount)
	case Left:
		delta = viewDir.Cross(c.Up).Normalize().Mul(-amount)
	case Right:
		delta = viewDir.Cross(c.Up).Normalize().Mul(amount)
	case Up:
		delta = c.Up.Normalize().Mul(amount)
	case Down:
		delta = c.Up.Normalize().Mul(-amount)
	}

	c.Position = c.Position.Add(delta)
	c.LookAt = c.LookAt.Add(delta)
	c.ViewMat = types.LookAtV(c.Position, c.LookAt, c.Up)
}

// Get the camera-to-world and inverse projection matrices.
func (c *Camera) View() View {
	return View{
		CameraToWorld:     c.ViewMat.Inv(),
		InverseProjection: c.ProjMat.Inv(),
	}
}
