package cpu

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/sunlight/log"
	"github.com/achilleasa/sunlight/scene"
	"github.com/achilleasa/sunlight/tracer"
	"github.com/achilleasa/sunlight/tracer/kernel"
	"github.com/achilleasa/sunlight/types"
)

var (
	ErrNoSceneData   = errors.New("cpu tracer: no scene data uploaded")
	ErrNoEnvironment = errors.New("cpu tracer: no environment sampler uploaded")
	ErrBusy          = errors.New("cpu tracer: worker did not accept block request")
	ErrBlockBounds   = errors.New("cpu tracer: block exceeds frame bounds")
)

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// Relative speed estimate.
	speed uint32

	// A buffer for queuing updates. Updates are grouped by type and
	// latest updates always overwrite the previous ones.
	updateMutex  sync.Mutex
	updateBuffer map[tracer.UpdateType]interface{}

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered frame.
	stats *tracer.Stats

	// The state used for building frame contexts. Only accessed by the worker.
	sceneData   *scene.Scene
	view        scene.View
	light       scene.DirectionalLight
	environment kernel.EnvironmentSampler
	bounces     int
}

// Create a new cpu tracer.
func NewTracer(id string, speed uint32) tracer.Tracer {
	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		speed:        speed,
		blockReqChan: make(chan tracer.BlockRequest, 1),
		updateBuffer: make(map[tracer.UpdateType]interface{}),
		stats:        &tracer.Stats{},
		bounces:      kernel.DefaultBounces,
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get the computation speed estimate.
func (tr *cpuTracer) Speed() uint32 {
	return tr.speed
}

// Initialize tracer
func (tr *cpuTracer) Init() error {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan == nil {
		tr.startWorker()
	}
	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	// If the worker is running shut it down
	if tr.closeChan != nil {
		tr.closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-tr.closeChan
		close(tr.closeChan)
		tr.closeChan = nil
		tr.wg.Wait()
	}

	tr.sceneData = nil
	tr.environment = nil
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	default:
		// drop the request if worker is not listening
		tr.logger.Error("request processor did not receive block request")
		blockReq.ErrChan <- ErrBusy
	}
}

// Append a change to the tracer's update buffer.
func (tr *cpuTracer) Update(updateType tracer.UpdateType, data interface{}) {
	tr.updateMutex.Lock()
	tr.updateBuffer[updateType] = data
	tr.updateMutex.Unlock()
}

// Retrieve last frame statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Commit queued changes.
func (tr *cpuTracer) commitUpdates() error {
	tr.updateMutex.Lock()
	defer tr.updateMutex.Unlock()

	if len(tr.updateBuffer) == 0 {
		return nil
	}

	for updateType, data := range tr.updateBuffer {
		var ok bool
		switch updateType {
		case tracer.UpdateScene:
			tr.sceneData, ok = data.(*scene.Scene)
		case tracer.UpdateCamera:
			tr.view, ok = data.(scene.View)
		case tracer.UpdateLight:
			tr.light, ok = data.(scene.DirectionalLight)
		case tracer.UpdateEnvironment:
			tr.environment, ok = data.(kernel.EnvironmentSampler)
		case tracer.UpdateBounces:
			tr.bounces, ok = data.(int)
		default:
			return fmt.Errorf("cpu tracer: unsupported update type %d", updateType)
		}

		if !ok {
			return fmt.Errorf("cpu tracer: unexpected payload %T for %s update", data, updateType)
		}
		tr.logger.Debugf("applied %s update", updateType)
	}

	tr.updateBuffer = make(map[tracer.UpdateType]interface{})
	return nil
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	tr.closeChan = make(chan struct{})
	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		var blockReq tracer.BlockRequest
		var startTime time.Time
		var err error
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:
				// Apply any pending changes
				startTime = time.Now()
				err = tr.commitUpdates()
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}
				tr.stats.UpdateTime = time.Since(startTime)

				// Render block and reply with our completion status
				startTime = time.Now()
				err = tr.renderBlock(&blockReq)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(startTime)

				blockReq.DoneChan <- blockReq.BlockH
			case <-tr.closeChan:
				// Ack close
				tr.closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Trace every pixel of the requested block and blend the samples into the
// accumulation buffer.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) error {
	if tr.sceneData == nil {
		return ErrNoSceneData
	}
	if tr.environment == nil {
		return ErrNoEnvironment
	}

	frameW, frameH := int(blockReq.FrameW), int(blockReq.FrameH)
	blockY, blockH := int(blockReq.BlockY), int(blockReq.BlockH)
	if blockY+blockH > frameH || len(blockReq.Accumulator) < frameW*frameH*3 {
		return ErrBlockBounds
	}

	fc := &kernel.FrameContext{
		Scene:       tr.sceneData,
		View:        tr.view,
		Light:       tr.light,
		Environment: tr.environment,
		Jitter:      blockReq.Jitter,
		SampleCount: blockReq.SampleCount,
		MaxBounces:  tr.bounces,
	}

	accum := blockReq.Accumulator
	for y := blockY; y < blockY+blockH; y++ {
		offset := y * frameW * 3
		for x := 0; x < frameW; x, offset = x+1, offset+3 {
			sample := kernel.TracePixel(x, y, frameW, frameH, fc)
			avg := kernel.Blend(
				types.Vec3{accum[offset], accum[offset+1], accum[offset+2]},
				sample,
				fc.SampleCount,
			)
			accum[offset], accum[offset+1], accum[offset+2] = avg[0], avg[1], avg[2]
		}
	}

	return nil
}
