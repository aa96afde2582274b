package cmd

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/achilleasa/sunlight/asset/texture"
	"github.com/achilleasa/sunlight/renderer"
	"github.com/achilleasa/sunlight/scene"
	"github.com/achilleasa/sunlight/server"
	"github.com/achilleasa/sunlight/tracer"
	"github.com/achilleasa/sunlight/tracer/cpu"
	"github.com/achilleasa/sunlight/tracer/kernel"
	"github.com/urfave/cli"
)

// Time allowed for in-flight HTTP requests when the server shuts down.
const shutdownTimeout = 5 * time.Second

type rendererFactory func(*scene.Scene, kernel.EnvironmentSampler, []tracer.Tracer, tracer.BlockScheduler, renderer.Options) (renderer.Renderer, error)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	r, _, err := setupRenderer(ctx, renderer.NewDefault)
	if err != nil {
		return err
	}
	defer r.Close()

	stopOnSignal := interruptOnSignal(r)
	defer stopOnSignal()

	err = r.Render(uint32(ctx.Int("frames")))
	if err == renderer.ErrInterrupted {
		logger.Warningf("interrupted after %d samples; saving partial frame", r.SampleCount())
	} else if err != nil {
		return err
	}

	frame := r.Frame()
	if ctx.Bool("hud") {
		overlay := image.NewRGBA(frame.Rect)
		copy(overlay.Pix, frame.Pix)
		renderer.DrawHUD(overlay, renderer.HUDLines(r.Stats())...)
		frame = overlay
	}

	if err = saveFrame(frame, ctx.String("out")); err != nil {
		return err
	}

	// Display stats
	logger.Noticef("frame statistics\n%s", r.Stats().Table())
	return nil
}

// Render an interactive view of the scene.
func RenderInteractive(ctx *cli.Context) error {
	setupLogging(ctx)

	r, _, err := setupRenderer(ctx, renderer.NewInteractive)
	if err != nil {
		return err
	}
	defer r.Close()

	stopOnSignal := interruptOnSignal(r)
	defer stopOnSignal()

	err = r.Render(0)
	if err == renderer.ErrInterrupted {
		return nil
	}
	return err
}

// Serve the progressive renderer over HTTP.
func ServeScene(ctx *cli.Context) error {
	setupLogging(ctx)

	r, sc, err := setupRenderer(ctx, renderer.NewDefault)
	if err != nil {
		return err
	}
	defer r.Close()

	srv := server.New(r, sc)
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx.String("addr"))
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)

	select {
	case err = <-errChan:
		return err
	case <-sigChan:
		logger.Notice("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupRenderer(ctx *cli.Context, factory rendererFactory) (renderer.Renderer, *scene.Scene, error) {
	sc, err := loadScene(ctx)
	if err != nil {
		return nil, nil, err
	}

	env, err := loadEnvironment(ctx)
	if err != nil {
		return nil, nil, err
	}

	scheduler, err := blockScheduler(ctx.String("scheduler"))
	if err != nil {
		return nil, nil, err
	}

	opts := renderer.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		NumBounces:      uint32(ctx.Int("num-bounces")),
		SamplesPerPixel: uint32(ctx.Int("spp")),
		Exposure:        float32(ctx.Float64("exposure")),
		Gamma:           float32(ctx.Float64("gamma")),
		Seed:            ctx.Int64("jitter-seed"),
	}

	r, err := factory(sc, env, setupTracers(ctx.Int("tracers")), scheduler, opts)
	if err != nil {
		return nil, nil, err
	}
	return r, sc, nil
}

// Create one cpu tracer per requested worker; a count of zero creates one
// tracer per logical core.
func setupTracers(count int) []tracer.Tracer {
	if count <= 0 {
		count = runtime.NumCPU()
	}

	speed := cpu.Device().SpeedEstimate()
	tracers := make([]tracer.Tracer, count)
	for index := range tracers {
		tracers[index] = cpu.NewTracer(fmt.Sprintf("cpu-%02d", index), speed)
	}
	logger.Infof("using %d cpu tracer(s)", count)
	return tracers
}

func blockScheduler(name string) (tracer.BlockScheduler, error) {
	switch strings.ToLower(name) {
	case "", "naive":
		return tracer.NaiveScheduler(), nil
	case "perfect":
		return tracer.PerfectScheduler(), nil
	default:
		return nil, fmt.Errorf("unknown block scheduler %q", name)
	}
}

// Load the environment map from a path or URL. If no map is specified the
// renderer falls back to a procedural sky.
func loadEnvironment(ctx *cli.Context) (kernel.EnvironmentSampler, error) {
	envPath := ctx.String("env")
	if envPath == "" {
		return texture.DefaultSky(), nil
	}

	tex, err := texture.Load(envPath)
	if err != nil {
		return nil, err
	}
	tex.Intensity = float32(ctx.Float64("env-intensity"))
	return tex, nil
}

func saveFrame(frame *image.RGBA, imgFile string) error {
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = png.Encode(f, frame); err != nil {
		return err
	}
	logger.Noticef("saved frame to %s", imgFile)
	return nil
}

// Interrupt the renderer when the process receives SIGINT. The returned
// func stops listening for signals.
func interruptOnSignal(r renderer.Renderer) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		if _, ok := <-sigChan; ok {
			r.Interrupt()
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(sigChan)
	}
}
