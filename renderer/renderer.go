package renderer

import (
	"image"

	"github.com/achilleasa/sunlight/scene"
	"github.com/achilleasa/sunlight/tracer/kernel"
)

type Renderer interface {
	// Render the requested number of frames. Each frame adds one sample per
	// pixel to the accumulated image. A zero frame count renders until
	// the configured samples per pixel are reached or, for interactive
	// renderers, until the user closes the window.
	Render(frames uint32) error

	// Abort an in-progress Render call.
	Interrupt()

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats

	// Get the presentation framebuffer for the last rendered frame.
	Frame() *image.RGBA

	// Get the number of samples accumulated since the last reset.
	SampleCount() uint32

	// Replace the scene; the camera and light of the new scene are applied
	// too. Resets accumulation.
	UpdateScene(*scene.Scene) error

	// Apply camera changes. Resets accumulation.
	UpdateCamera()

	// Replace the light. Resets accumulation.
	UpdateLight(scene.DirectionalLight)

	// Replace the environment sampler. Resets accumulation.
	UpdateEnvironment(kernel.EnvironmentSampler)
}
