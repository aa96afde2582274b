package server

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/achilleasa/sunlight/renderer"
	"github.com/achilleasa/sunlight/scene"
	"github.com/achilleasa/sunlight/tracer"
	"github.com/achilleasa/sunlight/tracer/cpu"
	"github.com/achilleasa/sunlight/tracer/kernel"
	"github.com/achilleasa/sunlight/types"
	"github.com/labstack/echo/v4"
)

func setupServer(t *testing.T) (*Server, renderer.Renderer) {
	opts := scene.DefaultBuildOptions()
	opts.MaxSpheres = 10
	sc, err := scene.Build(opts)
	if err != nil {
		t.Fatal(err)
	}

	r, err := renderer.NewDefault(
		sc,
		kernel.UniformEnvironment(types.XYZ(0.25, 0.5, 1)),
		[]tracer.Tracer{cpu.NewTracer("cpu-0", 1)},
		tracer.NaiveScheduler(),
		renderer.Options{FrameW: 16, FrameH: 8, NumBounces: 4, Exposure: 1, Gamma: 2.2},
	)
	if err != nil {
		t.Fatal(err)
	}
	return New(r, sc), r
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, exp int) {
	t.Helper()
	if rec.Code != exp {
		t.Fatalf("expected status %d; got %d (body: %s)", exp, rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	s, r := setupServer(t)
	defer r.Close()

	rec := doRequest(s, http.MethodGet, "/api/health", "")
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response %s", rec.Body.String())
	}
}

func TestFrame(t *testing.T) {
	s, r := setupServer(t)
	defer r.Close()

	rec := doRequest(s, http.MethodGet, "/api/frame.png", "")
	expectStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/png" {
		t.Fatalf("expected content type image/png; got %s", ct)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Fatalf("expected a 16x8 frame; got %dx%d", b.Dx(), b.Dy())
	}
	if got := r.SampleCount(); got != 1 {
		t.Fatalf("expected 1 accumulated sample; got %d", got)
	}

	rec = doRequest(s, http.MethodGet, "/api/frame.png?frames=3&hud=true", "")
	expectStatus(t, rec, http.StatusOK)
	if got := r.SampleCount(); got != 4 {
		t.Fatalf("expected 4 accumulated samples; got %d", got)
	}

	for _, target := range []string{"/api/frame.png?frames=0", "/api/frame.png?frames=abc", "/api/frame.png?frames=100000"} {
		rec = doRequest(s, http.MethodGet, target, "")
		expectStatus(t, rec, http.StatusBadRequest)
	}
}

func TestStats(t *testing.T) {
	s, r := setupServer(t)
	defer r.Close()

	expectStatus(t, doRequest(s, http.MethodGet, "/api/frame.png?frames=2", ""), http.StatusOK)

	rec := doRequest(s, http.MethodGet, "/api/stats", "")
	expectStatus(t, rec, http.StatusOK)

	var res statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.SampleCount != 2 || res.FrameCount != 2 {
		t.Fatalf("expected 2 samples and 2 frames; got %d and %d", res.SampleCount, res.FrameCount)
	}
	if len(res.Tracers) != 1 || res.Tracers[0].Id != "cpu-0" || res.Tracers[0].BlockH != 8 {
		t.Fatalf("unexpected tracer stats %+v", res.Tracers)
	}
}

func TestUpdateCamera(t *testing.T) {
	s, r := setupServer(t)
	defer r.Close()

	expectStatus(t, doRequest(s, http.MethodGet, "/api/frame.png", ""), http.StatusOK)

	rec := doRequest(s, http.MethodPut, "/api/camera", `{"position":[0,20,50],"lookAt":[0,0,0],"fov":45}`)
	expectStatus(t, rec, http.StatusOK)

	var res cameraResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Position != types.XYZ(0, 20, 50) || res.FOV != 45 {
		t.Fatalf("unexpected camera response %+v", res)
	}
	if got := r.SampleCount(); got != 0 {
		t.Fatalf("expected camera update to reset samples; got %d", got)
	}

	specs := []string{
		`{"fov":0}`,
		`{"fov":180}`,
		`{"position":[1,2,3],"lookAt":[1,2,3]}`,
		`{"position":[0,10,0],"lookAt":[0,0,0]}`,
		`{"position":"nope"}`,
	}
	for specIndex, body := range specs {
		rec = doRequest(s, http.MethodPut, "/api/camera", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("[spec %d] expected status %d; got %d", specIndex, http.StatusBadRequest, rec.Code)
		}
	}
}

func TestUpdateLight(t *testing.T) {
	s, r := setupServer(t)
	defer r.Close()

	expectStatus(t, doRequest(s, http.MethodGet, "/api/frame.png", ""), http.StatusOK)

	rec := doRequest(s, http.MethodPut, "/api/light", `{"pitch":90,"intensity":2}`)
	expectStatus(t, rec, http.StatusOK)

	var res lightResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Intensity != 2 || !types.ApproxEqualVec3(res.Direction, types.XYZ(0, -1, 0), 1e-4) {
		t.Fatalf("unexpected light response %+v", res)
	}
	if got := r.SampleCount(); got != 0 {
		t.Fatalf("expected light update to reset samples; got %d", got)
	}

	rec = doRequest(s, http.MethodPut, "/api/light", `{"intensity":-1}`)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestUpdateScene(t *testing.T) {
	s, r := setupServer(t)
	defer r.Close()

	cam := s.sc.Camera
	rec := doRequest(s, http.MethodPost, "/api/scene", `{"layout":"grid","spheres":4,"seed":7}`)
	expectStatus(t, rec, http.StatusOK)

	var res sceneResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Layout != "grid" || res.Spheres != 4 || res.Seed != 7 {
		t.Fatalf("unexpected scene response %+v", res)
	}
	if len(s.sc.Spheres) != 4 {
		t.Fatalf("expected server scene to have 4 spheres; got %d", len(s.sc.Spheres))
	}
	if s.sc.Camera != cam {
		t.Fatal("expected the camera to carry over to the new scene")
	}

	specs := []string{
		`{"layout":"spiral"}`,
		`{"radiusMin":5,"radiusMax":1}`,
		`{"spheres":-1}`,
	}
	for specIndex, body := range specs {
		rec = doRequest(s, http.MethodPost, "/api/scene", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("[spec %d] expected status %d; got %d", specIndex, http.StatusBadRequest, rec.Code)
		}
	}
}
