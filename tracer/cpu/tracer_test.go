package cpu

import (
	"testing"
	"time"

	"github.com/achilleasa/sunlight/scene"
	"github.com/achilleasa/sunlight/tracer"
	"github.com/achilleasa/sunlight/tracer/kernel"
	"github.com/achilleasa/sunlight/types"
)

const waitTimeout = 10 * time.Second

func setupTracer(t *testing.T) tracer.Tracer {
	tr := NewTracer("test", 1)
	if err := tr.Init(); err != nil {
		t.Fatal(err)
	}

	cam := scene.NewCamera(90)
	cam.Position = types.XYZ(0, 1, 0)
	cam.LookAt = types.XYZ(0, 1, -1)
	cam.SetupProjection(1)

	tr.Update(tracer.UpdateScene, scene.NewScene())
	tr.Update(tracer.UpdateCamera, cam.View())
	tr.Update(tracer.UpdateLight, scene.DirectionalLight{Direction: types.XYZ(0, -1, 0), Intensity: 1})
	tr.Update(tracer.UpdateEnvironment, kernel.UniformEnvironment(types.XYZ(0.25, 0.5, 1)))
	return tr
}

func renderBlock(t *testing.T, tr tracer.Tracer, req tracer.BlockRequest) error {
	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)
	req.DoneChan = doneChan
	req.ErrChan = errChan

	tr.Enqueue(req)
	select {
	case rows := <-doneChan:
		if rows != req.BlockH {
			t.Fatalf("expected tracer to complete %d rows; got %d", req.BlockH, rows)
		}
		return nil
	case err := <-errChan:
		return err
	case <-time.After(waitTimeout):
		t.Fatal("timeout waiting for block to complete")
	}
	return nil
}

func TestTracerRendersOnlyItsBlock(t *testing.T) {
	tr := setupTracer(t)
	defer tr.Close()

	const frameW, frameH = 4, 4
	accum := make([]float32, frameW*frameH*3)
	for index := range accum {
		accum[index] = -1
	}

	err := renderBlock(t, tr, tracer.BlockRequest{
		FrameW:      frameW,
		FrameH:      frameH,
		BlockY:      2,
		BlockH:      2,
		Jitter:      types.XY(0.5, 0.5),
		Accumulator: accum,
	})
	if err != nil {
		t.Fatal(err)
	}

	for y := 0; y < frameH; y++ {
		for x := 0; x < frameW; x++ {
			offset := (y*frameW + x) * 3
			touched := accum[offset] != -1
			if y < 2 && touched {
				t.Fatalf("expected pixel (%d, %d) outside the block to be untouched", x, y)
			}
			if y >= 2 && !touched {
				t.Fatalf("expected pixel (%d, %d) inside the block to be rendered", x, y)
			}
		}
	}

	// The top rows look above the horizon and see the environment
	offset := (3*frameW + 1) * 3
	exp := types.XYZ(0.25, 0.5, 1)
	got := types.Vec3{accum[offset], accum[offset+1], accum[offset+2]}
	if !types.ApproxEqualVec3(got, exp, 1e-5) {
		t.Fatalf("expected sky pixel %v; got %v", exp, got)
	}

	if stats := tr.Stats(); stats.BlockH != 2 {
		t.Fatalf("expected stats to record a block height of 2; got %d", stats.BlockH)
	}
}

func TestTracerBlendsIntoAccumulator(t *testing.T) {
	tr := setupTracer(t)
	defer tr.Close()

	accum := make([]float32, 3)
	req := tracer.BlockRequest{
		FrameW:      1,
		FrameH:      1,
		BlockH:      1,
		Accumulator: accum,
	}

	// jitter (0, 0) on a 1x1 frame maps to the bottom-left frustum corner
	// which looks at the ground. The reflected ray escapes to the sky.
	if err := renderBlock(t, tr, req); err != nil {
		t.Fatal(err)
	}
	ground := scene.DefaultGround()
	first := types.Vec3{accum[0], accum[1], accum[2]}
	firstExp := ground.Albedo.Add(ground.Specular.MulVec(types.XYZ(0.25, 0.5, 1)))
	if !types.ApproxEqualVec3(first, firstExp, 1e-5) {
		t.Fatalf("expected first sample %v; got %v", firstExp, first)
	}

	// Switch to a pure white environment; the blended result is the
	// average of both samples.
	tr.Update(tracer.UpdateEnvironment, kernel.UniformEnvironment(types.Splat3(1)))
	req.SampleCount = 1
	if err := renderBlock(t, tr, req); err != nil {
		t.Fatal(err)
	}

	exp := firstExp.Add(ground.Albedo.Add(ground.Specular)).Mul(0.5)
	got := types.Vec3{accum[0], accum[1], accum[2]}
	if !types.ApproxEqualVec3(got, exp, 1e-5) {
		t.Fatalf("expected blended average %v; got %v", exp, got)
	}
}

func TestTracerErrors(t *testing.T) {
	tr := NewTracer("test", 1)
	if err := tr.Init(); err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	req := tracer.BlockRequest{FrameW: 1, FrameH: 1, BlockH: 1, Accumulator: make([]float32, 3)}
	if err := renderBlock(t, tr, req); err != ErrNoSceneData {
		t.Fatalf("expected ErrNoSceneData; got %v", err)
	}

	tr.Update(tracer.UpdateScene, scene.NewScene())
	if err := renderBlock(t, tr, req); err != ErrNoEnvironment {
		t.Fatalf("expected ErrNoEnvironment; got %v", err)
	}

	tr.Update(tracer.UpdateEnvironment, kernel.UniformEnvironment(types.Vec3{}))
	req.BlockY = 1
	if err := renderBlock(t, tr, req); err != ErrBlockBounds {
		t.Fatalf("expected ErrBlockBounds; got %v", err)
	}

	tr.Update(tracer.UpdateLight, "not a light")
	req.BlockY = 0
	if err := renderBlock(t, tr, req); err == nil {
		t.Fatal("expected an error for an invalid update payload")
	}
}

func TestDeviceInfo(t *testing.T) {
	info := Device()
	if info.LogicalCores < 1 {
		t.Fatalf("expected at least one logical core; got %d", info.LogicalCores)
	}
	if info.SpeedEstimate() < 1 {
		t.Fatalf("expected a positive speed estimate; got %d", info.SpeedEstimate())
	}
}
