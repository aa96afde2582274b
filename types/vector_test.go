package types

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestVec3Reflect(t *testing.T) {
	type spec struct {
		in     Vec3
		normal Vec3
		exp    Vec3
	}
	specs := []spec{
		{XYZ(0, -1, 0), XYZ(0, 1, 0), XYZ(0, 1, 0)},
		{XYZ(1, -1, 0), XYZ(0, 1, 0), XYZ(1, 1, 0)},
		{XYZ(0, 0, 1), XYZ(0, 1, 0), XYZ(0, 0, 1)},
	}

	for index, s := range specs {
		out := s.in.Reflect(s.normal)
		if !ApproxEqualVec3(out, s.exp, 1e-6) {
			t.Fatalf("[spec %d] expected reflected vector to be %v; got %v", index, s.exp, out)
		}
	}
}

func TestVec3Normalize(t *testing.T) {
	v := XYZ(3, 0, 4).Normalize()
	if !ApproxEqual(v.Len(), 1, 1e-6) {
		t.Fatalf("expected normalized vector length to be 1; got %f", v.Len())
	}

	if z := (Vec3{}).Normalize(); !z.IsZero() {
		t.Fatalf("expected zero vector to normalize to itself; got %v", z)
	}
}

func TestSaturate(t *testing.T) {
	specs := [][2]float32{
		{-1, 0},
		{0.25, 0.25},
		{3, 1},
	}
	for index, s := range specs {
		if out := Saturate(s[0]); out != s[1] {
			t.Fatalf("[spec %d] expected Saturate(%f) to be %f; got %f", index, s[0], s[1], out)
		}
	}
}

func TestMat4Inverse(t *testing.T) {
	view := LookAtV(XYZ(0, 1, 10), XYZ(0, 1, 0), XYZ(0, 1, 0))
	camToWorld := view.Inv()

	origin := camToWorld.MulPoint(Vec3{})
	if !ApproxEqualVec3(origin, XYZ(0, 1, 10), 1e-4) {
		t.Fatalf("expected camera origin to be (0, 1, 10); got %v", origin)
	}

	fwd := camToWorld.MulDir(XYZ(0, 0, -1))
	if !ApproxEqualVec3(fwd, XYZ(0, 0, -1), 1e-4) {
		t.Fatalf("expected camera forward to be (0, 0, -1); got %v", fwd)
	}
}

func TestPerspectiveInverse(t *testing.T) {
	proj := Perspective4(90, 1, 0.3, 1000)
	dir := proj.Inv().Mul4x1(XYZW(1, 0, 0, 1)).Vec3()

	// With a 90 degree fov the right frustum edge is at 45 degrees
	angle := math32.Atan2(dir[0], -dir[2]) * 180 / math32.Pi
	if !ApproxEqual(angle, 45, 1e-3) {
		t.Fatalf("expected frustum edge angle to be 45; got %f", angle)
	}
}
