package renderer

import (
	"fmt"
	"image"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/achilleasa/sunlight/asset/texture"
	"github.com/achilleasa/sunlight/log"
	"github.com/achilleasa/sunlight/scene"
	"github.com/achilleasa/sunlight/tracer"
	"github.com/achilleasa/sunlight/tracer/kernel"
	"github.com/achilleasa/sunlight/types"
)

// The default renderer distributes each frame across a set of tracers and
// keeps a progressive average of the traced samples.
type defaultRenderer struct {
	logger log.Logger

	tracers   []tracer.Tracer
	scheduler tracer.BlockScheduler
	options   Options

	sc          *scene.Scene
	accumulator *Accumulator
	frame       *image.RGBA

	// Generates the sub-pixel jitter for each frame.
	rng *rand.Rand

	// Channels for collecting block completion and error notifications.
	doneChan chan uint32
	errChan  chan error

	// Row assignments used for the last frame.
	blockAssignments []uint32

	stats       FrameStats
	interrupted int32
}

// Create a new default renderer for a scene. If env is nil a procedural sky
// is used. The renderer takes ownership of the supplied tracers.
func NewDefault(sc *scene.Scene, env kernel.EnvironmentSampler, tracers []tracer.Tracer, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	r, err := newDefaultRenderer(sc, env, tracers, scheduler, opts)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func newDefaultRenderer(sc *scene.Scene, env kernel.EnvironmentSampler, tracers []tracer.Tracer, scheduler tracer.BlockScheduler, opts Options) (*defaultRenderer, error) {
	if len(tracers) == 0 {
		return nil, ErrNoTracers
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrameSize
	}
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if env == nil {
		env = texture.DefaultSky()
	}
	if scheduler == nil {
		scheduler = tracer.NaiveScheduler()
	}

	r := &defaultRenderer{
		logger:      log.New("renderer"),
		tracers:     tracers,
		scheduler:   scheduler,
		options:     opts,
		accumulator: NewAccumulator(opts.FrameW, opts.FrameH),
		frame:       image.NewRGBA(image.Rect(0, 0, int(opts.FrameW), int(opts.FrameH))),
		rng:         rand.New(rand.NewSource(opts.Seed)),
		doneChan:    make(chan uint32, len(tracers)),
		errChan:     make(chan error, len(tracers)),
	}

	for _, tr := range tracers {
		if err := tr.Init(); err != nil {
			r.Close()
			return nil, fmt.Errorf("renderer: could not init tracer %s: %w", tr.Id(), err)
		}
		tr.Update(tracer.UpdateEnvironment, env)
		if opts.NumBounces != 0 {
			tr.Update(tracer.UpdateBounces, int(opts.NumBounces))
		}
	}

	if err := r.UpdateScene(sc); err != nil {
		r.Close()
		return nil, err
	}

	r.logger.Infof("attached %d tracer(s); frame size %dx%d", len(tracers), opts.FrameW, opts.FrameH)
	return r, nil
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

// Get the framebuffer for the last rendered frame.
func (r *defaultRenderer) Frame() *image.RGBA {
	return r.frame
}

// Get the number of accumulated samples.
func (r *defaultRenderer) SampleCount() uint32 {
	return r.accumulator.SampleCount()
}

// Abort an in-progress Render call after the current frame completes.
func (r *defaultRenderer) Interrupt() {
	atomic.StoreInt32(&r.interrupted, 1)
}

// Render frames.
func (r *defaultRenderer) Render(frames uint32) error {
	atomic.StoreInt32(&r.interrupted, 0)

	if frames == 0 {
		if r.options.SamplesPerPixel == 0 {
			frames = 1
		} else {
			frames = r.options.SamplesPerPixel
		}
	}

	for frame := uint32(0); frame < frames; frame++ {
		if atomic.LoadInt32(&r.interrupted) != 0 {
			return ErrInterrupted
		}
		if r.converged() {
			r.logger.Debugf("reached %d samples per pixel", r.options.SamplesPerPixel)
			return nil
		}
		if err := r.renderFrame(); err != nil {
			return err
		}
	}

	return nil
}

// Returns true if the sample budget has been reached.
func (r *defaultRenderer) converged() bool {
	return r.options.SamplesPerPixel != 0 && r.accumulator.SampleCount() >= r.options.SamplesPerPixel
}

// Trace one sample per pixel, blend it into the accumulator and refresh the
// framebuffer.
func (r *defaultRenderer) renderFrame() error {
	start := time.Now()

	r.blockAssignments = r.scheduler.Schedule(r.tracers, r.options.FrameH)
	jitter := types.XY(r.rng.Float32(), r.rng.Float32())

	var blockY uint32
	pending := 0
	for idx, tr := range r.tracers {
		blockH := r.blockAssignments[idx]
		if blockH == 0 {
			continue
		}

		tr.Enqueue(tracer.BlockRequest{
			FrameW:      r.options.FrameW,
			FrameH:      r.options.FrameH,
			BlockY:      blockY,
			BlockH:      blockH,
			SampleCount: r.accumulator.SampleCount(),
			Jitter:      jitter,
			Accumulator: r.accumulator.Data,
			DoneChan:    r.doneChan,
			ErrChan:     r.errChan,
		})
		blockY += blockH
		pending++
	}

	// Wait for all blocks, even after an error, so no tracer is still
	// writing to the accumulator when we return.
	var firstErr error
	for ; pending > 0; pending-- {
		select {
		case <-r.doneChan:
		case err := <-r.errChan:
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return firstErr
	}

	r.accumulator.Advance()
	present(r.accumulator, r.options.Exposure, r.options.Gamma, r.frame)
	r.updateStats(time.Since(start))
	return nil
}

func (r *defaultRenderer) updateStats(renderTime time.Duration) {
	r.stats.RenderTime = renderTime
	r.stats.SampleCount = r.accumulator.SampleCount()
	r.stats.FrameCount++

	if len(r.stats.Tracers) != len(r.tracers) {
		r.stats.Tracers = make([]TracerStat, len(r.tracers))
	}
	for idx, tr := range r.tracers {
		trStats := tr.Stats()
		r.stats.Tracers[idx] = TracerStat{
			Id:           tr.Id(),
			BlockH:       r.blockAssignments[idx],
			FramePercent: 100.0 * float32(r.blockAssignments[idx]) / float32(r.options.FrameH),
			RenderTime:   trStats.RenderTime,
		}
	}
}

// Replace the scene.
func (r *defaultRenderer) UpdateScene(sc *scene.Scene) error {
	if sc == nil {
		return ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return ErrCameraNotDefined
	}

	sc.Camera.SetupProjection(float32(r.options.FrameW) / float32(r.options.FrameH))
	r.sc = sc
	for _, tr := range r.tracers {
		tr.Update(tracer.UpdateScene, sc)
		tr.Update(tracer.UpdateCamera, sc.Camera.View())
		tr.Update(tracer.UpdateLight, sc.Light)
	}
	r.reset("scene")
	return nil
}

// Push the current camera state to the tracers.
func (r *defaultRenderer) UpdateCamera() {
	view := r.sc.Camera.View()
	for _, tr := range r.tracers {
		tr.Update(tracer.UpdateCamera, view)
	}
	r.reset("camera")
}

// Replace the scene light.
func (r *defaultRenderer) UpdateLight(light scene.DirectionalLight) {
	r.sc.Light = light
	for _, tr := range r.tracers {
		tr.Update(tracer.UpdateLight, light)
	}
	r.reset("light")
}

// Replace the environment sampler.
func (r *defaultRenderer) UpdateEnvironment(env kernel.EnvironmentSampler) {
	if env == nil {
		env = texture.DefaultSky()
	}
	for _, tr := range r.tracers {
		tr.Update(tracer.UpdateEnvironment, env)
	}
	r.reset("environment")
}

func (r *defaultRenderer) reset(reason string) {
	r.logger.Debugf("%s changed; resetting accumulated samples", reason)
	r.accumulator.Reset()
}
