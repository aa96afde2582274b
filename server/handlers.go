package server

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"net/http"

	"github.com/achilleasa/sunlight/renderer"
	"github.com/achilleasa/sunlight/scene"
	"github.com/achilleasa/sunlight/types"
	"github.com/chewxy/math32"
	"github.com/labstack/echo/v4"
)

// Upper bound for the frames query parameter.
const maxFramesPerRequest = 256

type tracerStatResponse struct {
	Id           string  `json:"id"`
	BlockH       uint32  `json:"blockHeight"`
	FramePercent float32 `json:"framePercent"`
	RenderTimeMs float64 `json:"renderTimeMs"`
}

type statsResponse struct {
	SampleCount  uint32               `json:"sampleCount"`
	FrameCount   uint64               `json:"frameCount"`
	RenderTimeMs float64              `json:"renderTimeMs"`
	Tracers      []tracerStatResponse `json:"tracers"`
}

type cameraRequest struct {
	Position *types.Vec3 `json:"position"`
	LookAt   *types.Vec3 `json:"lookAt"`
	FOV      *float32    `json:"fov"`
}

type cameraResponse struct {
	Position types.Vec3 `json:"position"`
	LookAt   types.Vec3 `json:"lookAt"`
	FOV      float32    `json:"fov"`
}

type lightRequest struct {
	Yaw       *float32 `json:"yaw"`
	Pitch     *float32 `json:"pitch"`
	Intensity *float32 `json:"intensity"`
}

type lightResponse struct {
	Direction types.Vec3 `json:"direction"`
	Yaw       float32    `json:"yaw"`
	Pitch     float32    `json:"pitch"`
	Intensity float32    `json:"intensity"`
}

type sceneRequest struct {
	Layout           *string  `json:"layout"`
	Spheres          *int     `json:"spheres"`
	RadiusMin        *float32 `json:"radiusMin"`
	RadiusMax        *float32 `json:"radiusMax"`
	PlacementRadius  *float32 `json:"placementRadius"`
	MetalProbability *float32 `json:"metalProbability"`
	GridSize         *int     `json:"gridSize"`
	Seed             *int64   `json:"seed"`
}

type sceneResponse struct {
	Layout  string `json:"layout"`
	Seed    int64  `json:"seed"`
	Spheres int    `json:"spheres"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Render one or more frames and respond with the presented image as a PNG.
func (s *Server) frame(c echo.Context) error {
	var frames uint32 = 1
	var hud bool
	err := echo.QueryParamsBinder(c).
		Uint32("frames", &frames).
		Bool("hud", &hud).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if frames == 0 || frames > maxFramesPerRequest {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("frames must be in [1, %d]", maxFramesPerRequest))
	}

	s.Lock()
	defer s.Unlock()

	if err = s.renderer.Render(frames); err != nil {
		return err
	}

	frame := s.renderer.Frame()
	if hud {
		overlay := image.NewRGBA(frame.Rect)
		copy(overlay.Pix, frame.Pix)
		renderer.DrawHUD(overlay, renderer.HUDLines(s.renderer.Stats())...)
		frame = overlay
	}

	var buf bytes.Buffer
	if err = png.Encode(&buf, frame); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) stats(c echo.Context) error {
	s.Lock()
	defer s.Unlock()

	stats := s.renderer.Stats()

	res := statsResponse{
		SampleCount:  stats.SampleCount,
		FrameCount:   stats.FrameCount,
		RenderTimeMs: stats.RenderTime.Seconds() * 1000,
		Tracers:      make([]tracerStatResponse, 0, len(stats.Tracers)),
	}
	for _, stat := range stats.Tracers {
		res.Tracers = append(res.Tracers, tracerStatResponse{
			Id:           stat.Id,
			BlockH:       stat.BlockH,
			FramePercent: stat.FramePercent,
			RenderTimeMs: stat.RenderTime.Seconds() * 1000,
		})
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) updateCamera(c echo.Context) error {
	req := new(cameraRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid camera payload")
	}
	if req.FOV != nil && (*req.FOV <= 0 || *req.FOV >= 180) {
		return echo.NewHTTPError(http.StatusBadRequest, "fov must be in (0, 180)")
	}

	s.Lock()
	defer s.Unlock()

	cam := s.sc.Camera
	position, lookAt := cam.Position, cam.LookAt
	if req.Position != nil {
		position = *req.Position
	}
	if req.LookAt != nil {
		lookAt = *req.LookAt
	}
	viewDir := lookAt.Sub(position).Normalize()
	if viewDir.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "camera position and lookAt must differ")
	}
	if math32.Abs(viewDir.Dot(cam.Up.Normalize())) > 0.999 {
		return echo.NewHTTPError(http.StatusBadRequest, "camera must not look along its up vector")
	}

	cam.Position, cam.LookAt = position, lookAt
	if req.FOV != nil {
		cam.FOV = *req.FOV
	}
	bounds := s.renderer.Frame().Bounds()
	cam.SetupProjection(float32(bounds.Dx()) / float32(bounds.Dy()))
	s.renderer.UpdateCamera()

	return c.JSON(http.StatusOK, cameraResponse{
		Position: cam.Position,
		LookAt:   cam.LookAt,
		FOV:      cam.FOV,
	})
}

func (s *Server) updateLight(c echo.Context) error {
	req := new(lightRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid light payload")
	}
	if req.Intensity != nil && *req.Intensity < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "light intensity must be non-negative")
	}

	s.Lock()
	defer s.Unlock()

	light := s.sc.Light
	if req.Yaw != nil {
		light.Yaw = *req.Yaw
	}
	if req.Pitch != nil {
		light.Pitch = *req.Pitch
	}
	if req.Intensity != nil {
		light.Intensity = *req.Intensity
	}
	light = scene.NewDirectionalLight(light.Yaw, light.Pitch, light.Intensity)
	s.renderer.UpdateLight(light)

	return c.JSON(http.StatusOK, lightResponse{
		Direction: light.Direction,
		Yaw:       light.Yaw,
		Pitch:     light.Pitch,
		Intensity: light.Intensity,
	})
}

// Generate a new sphere field. Unset fields keep their default values; the
// current camera and light carry over to the new scene.
func (s *Server) updateScene(c echo.Context) error {
	req := new(sceneRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid scene payload")
	}

	opts := scene.DefaultBuildOptions()
	if req.Layout != nil {
		layout, err := scene.ParseLayout(*req.Layout)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		opts.Layout = layout
	}
	if req.Spheres != nil {
		opts.MaxSpheres = *req.Spheres
	}
	if req.RadiusMin != nil {
		opts.RadiusMin = *req.RadiusMin
	}
	if req.RadiusMax != nil {
		opts.RadiusMax = *req.RadiusMax
	}
	if req.PlacementRadius != nil {
		opts.PlacementRadius = *req.PlacementRadius
	}
	if req.MetalProbability != nil {
		opts.MetalProbability = *req.MetalProbability
	}
	if req.GridSize != nil {
		opts.GridSize = *req.GridSize
	}
	if req.Seed != nil {
		opts.Seed = *req.Seed
	}

	sc, err := scene.Build(opts)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.Lock()
	defer s.Unlock()

	sc.Camera = s.sc.Camera
	sc.Light = s.sc.Light
	if err = s.renderer.UpdateScene(sc); err != nil {
		return err
	}
	s.sc = sc
	s.logger.Noticef("generated %s scene with %d spheres (seed %d)", opts.Layout, len(sc.Spheres), opts.Seed)

	return c.JSON(http.StatusOK, sceneResponse{
		Layout:  opts.Layout.String(),
		Seed:    opts.Seed,
		Spheres: len(sc.Spheres),
	})
}
