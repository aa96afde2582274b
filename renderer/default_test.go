package renderer

import (
	"errors"
	"strings"
	"testing"

	"github.com/achilleasa/sunlight/scene"
	"github.com/achilleasa/sunlight/tracer"
	"github.com/achilleasa/sunlight/tracer/cpu"
	"github.com/achilleasa/sunlight/tracer/kernel"
	"github.com/achilleasa/sunlight/types"
)

var skyColor = types.XYZ(0.25, 0.5, 1)

// A scene whose camera only sees the sky.
func skyScene() *scene.Scene {
	cam := scene.NewCamera(20)
	cam.Position = types.XYZ(0, 1, 0)
	cam.LookAt = types.XYZ(0, 10, -1)

	sc := scene.NewScene()
	sc.SetCamera(cam)
	return sc
}

func testOptions() Options {
	return Options{
		FrameW:     8,
		FrameH:     4,
		NumBounces: 8,
		Exposure:   1,
		Gamma:      1,
	}
}

func setupRenderer(t *testing.T, opts Options, tracers ...tracer.Tracer) *defaultRenderer {
	if len(tracers) == 0 {
		tracers = []tracer.Tracer{cpu.NewTracer("cpu-0", 1), cpu.NewTracer("cpu-1", 1)}
	}
	r, err := newDefaultRenderer(skyScene(), kernel.UniformEnvironment(skyColor), tracers, tracer.NaiveScheduler(), opts)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

type mockTracer struct {
	id        string
	err       error
	onEnqueue func()
	stats     tracer.Stats
}

func (tr *mockTracer) Id() string                         { return tr.id }
func (tr *mockTracer) Speed() uint32                      { return 1 }
func (tr *mockTracer) Init() error                        { return nil }
func (tr *mockTracer) Close()                             {}
func (tr *mockTracer) Update(_ tracer.UpdateType, _ interface{}) {}
func (tr *mockTracer) Stats() *tracer.Stats               { return &tr.stats }

func (tr *mockTracer) Enqueue(req tracer.BlockRequest) {
	if tr.onEnqueue != nil {
		tr.onEnqueue()
	}
	if tr.err != nil {
		req.ErrChan <- tr.err
		return
	}
	req.DoneChan <- req.BlockH
}

func TestNewDefaultErrors(t *testing.T) {
	env := kernel.UniformEnvironment(skyColor)
	tracers := []tracer.Tracer{&mockTracer{id: "mock"}}
	noCamera := scene.NewScene()

	specs := []struct {
		sc      *scene.Scene
		tracers []tracer.Tracer
		opts    Options
		expErr  error
	}{
		{skyScene(), nil, testOptions(), ErrNoTracers},
		{skyScene(), tracers, Options{FrameW: 0, FrameH: 4}, ErrInvalidFrameSize},
		{nil, tracers, testOptions(), ErrSceneNotDefined},
		{noCamera, tracers, testOptions(), ErrCameraNotDefined},
	}

	for specIndex, spec := range specs {
		_, err := NewDefault(spec.sc, env, spec.tracers, nil, spec.opts)
		if err != spec.expErr {
			t.Errorf("[spec %d] expected error %v; got %v", specIndex, spec.expErr, err)
		}
	}
}

func TestDefaultRendererAccumulatesSamples(t *testing.T) {
	r := setupRenderer(t, testOptions())
	defer r.Close()

	if err := r.Render(3); err != nil {
		t.Fatal(err)
	}

	if got := r.SampleCount(); got != 3 {
		t.Fatalf("expected 3 accumulated samples; got %d", got)
	}
	stats := r.Stats()
	if stats.FrameCount != 3 || stats.SampleCount != 3 {
		t.Fatalf("expected stats for 3 frames; got %d frames and %d samples", stats.FrameCount, stats.SampleCount)
	}
	if len(stats.Tracers) != 2 {
		t.Fatalf("expected stats for 2 tracers; got %d", len(stats.Tracers))
	}
	var rows uint32
	for _, stat := range stats.Tracers {
		rows += stat.BlockH
	}
	if rows != 4 {
		t.Fatalf("expected tracer blocks to cover 4 rows; got %d", rows)
	}

	frame := r.Frame()
	expPix := []uint8{64, 128, 255, 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			offset := frame.PixOffset(x, y)
			for c, exp := range expPix {
				if got := frame.Pix[offset+c]; got != exp {
					t.Fatalf("expected pixel (%d, %d) channel %d to be %d; got %d", x, y, c, exp, got)
				}
			}
		}
	}
}

func TestDefaultRendererSampleBudget(t *testing.T) {
	opts := testOptions()
	opts.SamplesPerPixel = 2
	r := setupRenderer(t, opts)
	defer r.Close()

	if err := r.Render(0); err != nil {
		t.Fatal(err)
	}
	if got := r.SampleCount(); got != 2 {
		t.Fatalf("expected 2 accumulated samples; got %d", got)
	}

	if err := r.Render(5); err != nil {
		t.Fatal(err)
	}
	if got := r.SampleCount(); got != 2 {
		t.Fatalf("expected sample count to stay at 2; got %d", got)
	}
}

func TestDefaultRendererResetsOnUpdate(t *testing.T) {
	r := setupRenderer(t, testOptions())
	defer r.Close()

	render := func() {
		if err := r.Render(2); err != nil {
			t.Fatal(err)
		}
		if got := r.SampleCount(); got != 2 {
			t.Fatalf("expected 2 accumulated samples; got %d", got)
		}
	}

	render()
	r.sc.Camera.Move(scene.Left, 1)
	r.UpdateCamera()
	if got := r.SampleCount(); got != 0 {
		t.Fatalf("expected camera update to reset samples; got %d", got)
	}

	render()
	light := scene.NewDirectionalLight(10, 20, 2)
	r.UpdateLight(light)
	if got := r.SampleCount(); got != 0 {
		t.Fatalf("expected light update to reset samples; got %d", got)
	}
	if r.sc.Light != light {
		t.Fatalf("expected scene light to be %v; got %v", light, r.sc.Light)
	}

	render()
	r.UpdateEnvironment(nil)
	if got := r.SampleCount(); got != 0 {
		t.Fatalf("expected environment update to reset samples; got %d", got)
	}

	render()
	if err := r.UpdateScene(skyScene()); err != nil {
		t.Fatal(err)
	}
	if got := r.SampleCount(); got != 0 {
		t.Fatalf("expected scene update to reset samples; got %d", got)
	}
	for index, val := range r.accumulator.Data {
		if val != 0 {
			t.Fatalf("expected accumulator to be cleared; value at %d is %f", index, val)
		}
	}

	if err := r.UpdateScene(scene.NewScene()); err != ErrCameraNotDefined {
		t.Fatalf("expected error %v; got %v", ErrCameraNotDefined, err)
	}
}

func TestDefaultRendererTracerError(t *testing.T) {
	expErr := errors.New("tracer failure")
	r := setupRenderer(t, testOptions(), &mockTracer{id: "ok"}, &mockTracer{id: "broken", err: expErr})
	defer r.Close()

	if err := r.Render(1); err != expErr {
		t.Fatalf("expected error %v; got %v", expErr, err)
	}
	if got := r.SampleCount(); got != 0 {
		t.Fatalf("expected failed frame not to count as a sample; got %d", got)
	}
}

func TestDefaultRendererInterrupt(t *testing.T) {
	tr := &mockTracer{id: "mock"}
	r := setupRenderer(t, testOptions(), tr)
	defer r.Close()
	tr.onEnqueue = r.Interrupt

	if err := r.Render(10); err != ErrInterrupted {
		t.Fatalf("expected error %v; got %v", ErrInterrupted, err)
	}
	if got := r.SampleCount(); got != 1 {
		t.Fatalf("expected the in-flight frame to complete; got %d samples", got)
	}
}

func TestFrameStatsTable(t *testing.T) {
	r := setupRenderer(t, testOptions())
	defer r.Close()

	if err := r.Render(1); err != nil {
		t.Fatal(err)
	}

	table := r.Stats().Table()
	for _, exp := range []string{"cpu-0", "cpu-1", "Block height", "1 spp"} {
		if !strings.Contains(table, exp) {
			t.Fatalf("expected stats table to contain %q; got\n%s", exp, table)
		}
	}
}
