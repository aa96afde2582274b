package tracer

import (
	"time"

	"github.com/achilleasa/sunlight/types"
)

type UpdateType uint8

// The supported tracer state updates and their payload types.
const (
	// Payload: *scene.Scene
	UpdateScene UpdateType = iota

	// Payload: scene.View
	UpdateCamera

	// Payload: scene.DirectionalLight
	UpdateLight

	// Payload: kernel.EnvironmentSampler
	UpdateEnvironment

	// Payload: int
	UpdateBounces
)

func (u UpdateType) String() string {
	switch u {
	case UpdateScene:
		return "scene"
	case UpdateCamera:
		return "camera"
	case UpdateLight:
		return "light"
	case UpdateEnvironment:
		return "environment"
	case UpdateBounces:
		return "bounces"
	}
	return "unknown"
}

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Frame dimensions.
	FrameW uint32
	FrameH uint32

	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// Number of samples already blended into the accumulation buffer.
	SampleCount uint32

	// Sub-pixel jitter for this frame.
	Jitter types.Vec2

	// The frame-sized RGB accumulation buffer. A tracer only writes to the
	// rows covered by its block.
	Accumulator []float32

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering the last block.
	RenderTime time.Duration

	// The time spent applying queued updates before the last block.
	UpdateTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the tracer's computation speed estimate. Used by the schedulers
	// before any frame statistics are available.
	Speed() uint32

	// Initialize the tracer.
	Init() error

	// Shutdown and cleanup tracer.
	Close()

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Queue a state update. Updates are applied before the next block
	// is processed; later updates of the same type replace earlier ones.
	Update(UpdateType, interface{})

	// Retrieve last frame statistics.
	Stats() *Stats
}
