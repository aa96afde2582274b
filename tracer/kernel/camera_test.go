package kernel

import (
	"testing"

	"github.com/achilleasa/sunlight/scene"
	"github.com/achilleasa/sunlight/types"
)

func TestPixelUV(t *testing.T) {
	type spec struct {
		x, y   int
		jitter types.Vec2
		exp    types.Vec2
	}
	specs := []spec{
		{0, 0, types.XY(0, 0), types.XY(-1, -1)},
		{0, 0, types.XY(0.5, 0.5), types.XY(-0.75, -0.75)},
		{3, 3, types.XY(0.5, 0.5), types.XY(0.75, 0.75)},
		{2, 1, types.XY(0, 0), types.XY(0, -0.5)},
	}

	for index, s := range specs {
		uv := PixelUV(s.x, s.y, 4, 4, s.jitter)
		if !types.ApproxEqual(uv[0], s.exp[0], 1e-6) || !types.ApproxEqual(uv[1], s.exp[1], 1e-6) {
			t.Fatalf("[spec %d] expected uv %v; got %v", index, s.exp, uv)
		}
	}
}

func testView() scene.View {
	cam := scene.NewCamera(90)
	cam.Position = types.XYZ(0, 1, 10)
	cam.LookAt = types.XYZ(0, 1, 0)
	cam.SetupProjection(1)
	return cam.View()
}

func TestCameraRay(t *testing.T) {
	view := testView()

	ray := CameraRay(types.XY(0, 0), view)
	if !types.ApproxEqualVec3(ray.Origin, types.XYZ(0, 1, 10), 1e-4) {
		t.Fatalf("expected ray origin (0, 1, 10); got %v", ray.Origin)
	}
	if !types.ApproxEqualVec3(ray.Direction, types.XYZ(0, 0, -1), 1e-4) {
		t.Fatalf("expected center ray direction (0, 0, -1); got %v", ray.Direction)
	}
	if ray.Energy != types.Splat3(1) {
		t.Fatalf("expected full ray energy; got %v", ray.Energy)
	}

	// With a 90 degree fov the frustum edges are at 45 degrees
	ray = CameraRay(types.XY(1, 0), view)
	exp := types.XYZ(1, 0, -1).Normalize()
	if !types.ApproxEqualVec3(ray.Direction, exp, 1e-4) {
		t.Fatalf("expected edge ray direction %v; got %v", exp, ray.Direction)
	}

	ray = CameraRay(types.XY(0, 1), view)
	exp = types.XYZ(0, 1, -1).Normalize()
	if !types.ApproxEqualVec3(ray.Direction, exp, 1e-4) {
		t.Fatalf("expected top ray direction %v; got %v", exp, ray.Direction)
	}
	if !types.ApproxEqual(ray.Direction.Len(), 1, 1e-5) {
		t.Fatalf("expected unit ray direction; got length %f", ray.Direction.Len())
	}
}
