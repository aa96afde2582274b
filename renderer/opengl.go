package renderer

import (
	"fmt"
	"image"
	"sync/atomic"

	"github.com/achilleasa/sunlight/scene"
	"github.com/achilleasa/sunlight/tracer"
	"github.com/achilleasa/sunlight/tracer/kernel"
	"github.com/achilleasa/sunlight/types"
	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	// Coefficients for converting delta cursor movements to yaw/pitch camera angles.
	mouseSensitivityX float32 = 0.005
	mouseSensitivityY float32 = 0.005

	// Degrees of light rotation per pixel of cursor movement.
	lightMouseSensitivity float32 = 0.25

	// Degrees of light rotation per key press.
	lightRotateStep float32 = 5

	// Camera movement speed as a fraction of the placement radius.
	cameraMoveSpeed float32 = 0.02

	// Height in pixels for stacked series widgets
	stackedSeriesHeight uint32 = 20

	// Seconds to block waiting for input once the sample budget is reached.
	idleWaitTimeout = 0.1
)

const (
	leftMouseButton  = 0
	rightMouseButton = 1
)

// An interactive opengl-based renderer.
type interactiveGLRenderer struct {
	*defaultRenderer

	// opengl handles
	window    *glfw.Window
	texFbo    uint32
	fbTexture uint32

	// state
	lastCursorPos types.Vec2
	mousePressed  [2]bool

	// Display options
	showUI                bool
	hudFrame              *image.RGBA
	blockAssignmentSeries *stackedSeries
}

// Create a new interactive opengl renderer. It must be created and driven
// from the main OS thread.
func NewInteractive(sc *scene.Scene, env kernel.EnvironmentSampler, tracers []tracer.Tracer, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	base, err := newDefaultRenderer(sc, env, tracers, scheduler, opts)
	if err != nil {
		return nil, err
	}

	r := &interactiveGLRenderer{
		defaultRenderer: base,
		hudFrame:        image.NewRGBA(base.frame.Rect),
	}

	err = r.initGL(opts)
	if err != nil {
		r.Close()
		return nil, err
	}

	r.initUI()
	return r, nil
}

func (r *interactiveGLRenderer) Close() {
	if r.window != nil {
		r.window.Destroy()
		r.window = nil
		glfw.Terminate()
	}
	r.defaultRenderer.Close()
}

func (r *interactiveGLRenderer) initGL(opts Options) error {
	var err error
	if err = glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %s", err.Error())
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	r.window, err = glfw.CreateWindow(int(opts.FrameW), int(opts.FrameH), "sunlight", nil, nil)
	if err != nil {
		return fmt.Errorf("could not create opengl window: %s", err.Error())
	}
	r.window.MakeContextCurrent()
	glfw.SwapInterval(0)

	if err = gl.Init(); err != nil {
		return fmt.Errorf("could not init opengl: %s", err.Error())
	}

	// Setup texture for image data
	gl.GenTextures(1, &r.fbTexture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.fbTexture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(opts.FrameW), int32(opts.FrameH), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	// Attach texture to FBO
	gl.GenFramebuffers(1, &r.texFbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.texFbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, r.fbTexture, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	// Bind event callbacks
	r.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	r.window.SetKeyCallback(r.onKeyEvent)
	r.window.SetMouseButtonCallback(r.onMouseEvent)
	r.window.SetCursorPosCallback(r.onCursorPosEvent)

	return nil
}

// Render frames until the window is closed. If frames is non-zero, return
// after rendering that many frames.
func (r *interactiveGLRenderer) Render(frames uint32) error {
	atomic.StoreInt32(&r.interrupted, 0)

	for rendered := uint32(0); !r.window.ShouldClose(); {
		if atomic.LoadInt32(&r.interrupted) != 0 {
			return ErrInterrupted
		}
		if frames != 0 && rendered == frames {
			return nil
		}

		// Don't do anything if we don't require additional samples
		if r.converged() {
			glfw.WaitEventsTimeout(idleWaitTimeout)
			continue
		}
		glfw.PollEvents()

		if err := r.renderFrame(); err != nil {
			return err
		}
		rendered++

		r.present()
		r.window.SwapBuffers()
	}
	return nil
}

// Upload the current frame and copy it to the window framebuffer.
func (r *interactiveGLRenderer) present() {
	frame := r.frame
	if r.showUI {
		copy(r.hudFrame.Pix, r.frame.Pix)
		DrawHUD(r.hudFrame, HUDLines(r.stats)...)
		frame = r.hudFrame
	}

	w, h := int32(r.options.FrameW), int32(r.options.FrameH)
	gl.BindTexture(gl.TEXTURE_2D, r.fbTexture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&frame.Pix[0]))

	// The frame stores its top row first while GL textures start at the
	// bottom so the destination rectangle is flipped.
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.texFbo)
	gl.BlitFramebuffer(0, 0, w, h, 0, h, w, 0, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	if r.showUI {
		r.renderUI()
	}
}

func (r *interactiveGLRenderer) initUI() {
	// Setup ortho projection for UI bits
	gl.Disable(gl.DEPTH_TEST)
	gl.MatrixMode(gl.PROJECTION)
	gl.LoadIdentity()
	gl.Ortho(0, float64(r.options.FrameW), float64(r.options.FrameH), 0, -1, 1)
	gl.Viewport(0, 0, int32(r.options.FrameW), int32(r.options.FrameH))
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadIdentity()

	// Setup series
	r.blockAssignmentSeries = makeStackedSeries(len(r.tracers), int(r.options.FrameW))
}

func (r *interactiveGLRenderer) onBeforeShowUI() {
	r.blockAssignmentSeries.Clear()
}

// Outline the block assigned to each tracer and plot the assignment history.
// Blocks are assigned bottom-up while the UI projection has y pointing down.
func (r *interactiveGLRenderer) renderUI() {
	var y = int32(r.options.FrameH) - 1
	var frameW = int32(r.options.FrameW) - 1
	gl.LineWidth(2.0)
	for seriesIndex, blockH := range r.blockAssignments {
		gl.Color3fv(&r.blockAssignmentSeries.colors[seriesIndex][0])
		gl.Begin(gl.LINE_LOOP)
		gl.Vertex2i(0, y)
		gl.Vertex2i(frameW, y)
		gl.Vertex2i(frameW, y-int32(blockH))
		gl.Vertex2i(0, y-int32(blockH))
		gl.End()

		y -= int32(blockH)
	}

	for seriesIndex, blockH := range r.blockAssignments {
		r.blockAssignmentSeries.Append(seriesIndex, float32(blockH))
	}
	r.blockAssignmentSeries.Render(r.options.FrameH-stackedSeriesHeight, stackedSeriesHeight)
}

func (r *interactiveGLRenderer) onKeyEvent(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}

	var moveDir scene.CameraDirection
	switch key {
	case glfw.KeyEscape:
		r.window.SetShouldClose(true)
		return
	case glfw.KeyUp:
		moveDir = scene.Forward
	case glfw.KeyDown:
		moveDir = scene.Backward
	case glfw.KeyLeft:
		moveDir = scene.Left
	case glfw.KeyRight:
		moveDir = scene.Right
	case glfw.KeyPageUp:
		moveDir = scene.Up
	case glfw.KeyPageDown:
		moveDir = scene.Down
	case glfw.KeyJ:
		r.rotateLight(-lightRotateStep, 0)
		return
	case glfw.KeyL:
		r.rotateLight(lightRotateStep, 0)
		return
	case glfw.KeyI:
		r.rotateLight(0, lightRotateStep)
		return
	case glfw.KeyK:
		r.rotateLight(0, -lightRotateStep)
		return
	case glfw.KeyR:
		r.regenerateScene()
		return
	case glfw.KeyTab:
		r.showUI = !r.showUI
		if r.showUI {
			r.onBeforeShowUI()
		}
		return
	default:
		return
	}

	// Double speed if shift is pressed
	var speedScaler float32 = 1.0
	if (mods & glfw.ModShift) == glfw.ModShift {
		speedScaler = 2.0
	}
	sceneScale := r.sc.Options.PlacementRadius
	if sceneScale <= 0 {
		sceneScale = 1
	}
	r.sc.Camera.Move(moveDir, speedScaler*cameraMoveSpeed*sceneScale)
	r.UpdateCamera()
}

func (r *interactiveGLRenderer) onMouseEvent(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft && button != glfw.MouseButtonRight {
		return
	}

	r.mousePressed[leftMouseButton] = false
	r.mousePressed[rightMouseButton] = false

	if action == glfw.Press {
		xPos, yPos := w.GetCursorPos()
		r.lastCursorPos[0], r.lastCursorPos[1] = float32(xPos), float32(yPos)

		buttonIndex := leftMouseButton
		if button == glfw.MouseButtonRight {
			buttonIndex = rightMouseButton
		}

		r.mousePressed[buttonIndex] = true
	}
}

func (r *interactiveGLRenderer) onCursorPosEvent(w *glfw.Window, xPos, yPos float64) {
	if !r.mousePressed[leftMouseButton] && !r.mousePressed[rightMouseButton] {
		return
	}

	newPos := types.Vec2{float32(xPos), float32(yPos)}
	delta := r.lastCursorPos.Sub(newPos)
	r.lastCursorPos = newPos

	if r.mousePressed[rightMouseButton] {
		// The right mouse button steers the light
		r.rotateLight(-delta[0]*lightMouseSensitivity, delta[1]*lightMouseSensitivity)
		return
	}

	// The left mouse button rotates lookat around eye
	r.sc.Camera.Pitch = delta[1] * mouseSensitivityY
	r.sc.Camera.Yaw = delta[0] * mouseSensitivityX
	r.sc.Camera.Update()
	r.UpdateCamera()
}

func (r *interactiveGLRenderer) rotateLight(dYaw, dPitch float32) {
	light := r.sc.Light
	light.Rotate(dYaw, dPitch)
	r.UpdateLight(light)
}

// Build a new sphere field with the next seed while keeping the current
// camera and light.
func (r *interactiveGLRenderer) regenerateScene() {
	opts := r.sc.Options
	opts.Seed++
	sc, err := scene.Build(opts)
	if err != nil {
		r.logger.Errorf("could not regenerate scene: %s", err.Error())
		return
	}
	sc.Camera = r.sc.Camera
	sc.Light = r.sc.Light

	if err = r.UpdateScene(sc); err != nil {
		r.logger.Errorf("could not regenerate scene: %s", err.Error())
		return
	}
	r.logger.Noticef("regenerated scene with seed %d (%d spheres)", opts.Seed, len(sc.Spheres))
}

type stackedSeries struct {
	series [][]float32
	colors []types.Vec3
}

func makeStackedSeries(numSeries, histCount int) *stackedSeries {
	s := &stackedSeries{
		series: make([][]float32, numSeries),
		colors: make([]types.Vec3, numSeries),
	}

	for sIndex := 0; sIndex < numSeries; sIndex++ {
		s.series[sIndex] = make([]float32, histCount)
		c := colorful.Hsv(360*float64(sIndex)/float64(numSeries), 0.6, 1.0)
		s.colors[sIndex] = types.XYZ(float32(c.R), float32(c.G), float32(c.B))
	}

	return s
}

// Clear series
func (s *stackedSeries) Clear() {
	histCount := len(s.series[0])
	for sIndex := 0; sIndex < len(s.series); sIndex++ {
		s.series[sIndex] = make([]float32, histCount)
	}
}

// Shift series values and append new value at the end.
func (s *stackedSeries) Append(seriesIndex int, val float32) {
	s.series[seriesIndex] = append(s.series[seriesIndex][1:], val)
}

func (s *stackedSeries) Render(rY, rHeight uint32) {
	gl.LineWidth(1.0)
	gl.Begin(gl.LINES)
	for x := 0; x < len(s.series[0]); x++ {
		var sum float32 = 0
		var scale float32 = 1.0
		for seriesIndex := 0; seriesIndex < len(s.series); seriesIndex++ {
			sum += s.series[seriesIndex][x]
		}
		if sum > 0.0 {
			scale = float32(rHeight) / sum
		}

		var y = float32(rY)
		for seriesIndex := 0; seriesIndex < len(s.series); seriesIndex++ {
			sH := s.series[seriesIndex][x] * scale
			gl.Color3fv(&s.colors[seriesIndex][0])
			gl.Vertex2f(float32(x), y)
			gl.Vertex2f(float32(x), y+sH)
			y += sH
		}
	}
	gl.End()
}
