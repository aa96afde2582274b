package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/achilleasa/sunlight/log"
	"github.com/achilleasa/sunlight/renderer"
	"github.com/achilleasa/sunlight/scene"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Serves a progressive renderer over HTTP. Every request that touches the
// renderer is serialized.
type Server struct {
	logger log.Logger
	echo   *echo.Echo

	sync.Mutex
	renderer renderer.Renderer
	sc       *scene.Scene
}

// Create a server for a renderer that is currently rendering sc.
func New(r renderer.Renderer, sc *scene.Scene) *Server {
	s := &Server{
		logger:   log.New("server"),
		echo:     echo.New(),
		renderer: r,
		sc:       sc,
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())
	s.echo.Use(s.logRequests)

	api := s.echo.Group("/api")
	api.GET("/health", s.health)
	api.GET("/frame.png", s.frame)
	api.GET("/stats", s.stats)
	api.PUT("/camera", s.updateCamera)
	api.PUT("/light", s.updateLight)
	api.POST("/scene", s.updateScene)

	return s
}

// Implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.echo.ServeHTTP(w, req)
}

// Listen for requests on addr. Returns nil after a call to Shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Noticef("listening on %s", addr)
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop accepting requests and wait for in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		req := c.Request()
		s.logger.Debugf("%s %s -> %d (%s)", req.Method, req.URL.Path, c.Response().Status, time.Since(start))
		return nil
	}
}
