package scene

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/sunlight/types"
	"github.com/olekukonko/tablewriter"
)

// A scene is a set of non-overlapping spheres resting on an infinite ground
// plane at y = 0. The spheres and ground are treated as read-only once the
// scene is handed to a renderer.
type Scene struct {
	Spheres []Sphere

	// The ground plane material.
	Ground Surface

	Camera *Camera
	Light  DirectionalLight

	// The options used for generating the scene.
	Options BuildOptions
}

func NewScene() *Scene {
	return &Scene{
		Spheres: make([]Sphere, 0),
		Ground:  DefaultGround(),
		Light:   DefaultLight(),
	}
}

// Attach a camera to the scene.
func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

// Add a sphere to the scene. Spheres that overlap an existing sphere are
// rejected.
func (s *Scene) AddSphere(sphere Sphere) error {
	if sphere.Radius <= 0 {
		return fmt.Errorf("scene: invalid sphere radius %f", sphere.Radius)
	}
	for index, other := range s.Spheres {
		if sphere.Overlaps(other) {
			return fmt.Errorf("scene: sphere overlaps sphere %d", index)
		}
	}
	s.Spheres = append(s.Spheres, sphere)
	return nil
}

// Check that no two spheres overlap.
func (s *Scene) Validate() error {
	for i := 0; i < len(s.Spheres); i++ {
		if s.Spheres[i].Radius <= 0 {
			return fmt.Errorf("scene: sphere %d has invalid radius %f", i, s.Spheres[i].Radius)
		}
		for j := i + 1; j < len(s.Spheres); j++ {
			if s.Spheres[i].Overlaps(s.Spheres[j]) {
				return fmt.Errorf("scene: sphere %d overlaps sphere %d", i, j)
			}
		}
	}
	return nil
}

// Return a table with scene statistics.
func (s *Scene) Stats() string {
	var metals, diffuse int
	var minR, maxR float32
	for index, sphere := range s.Spheres {
		if sphere.IsMetal() {
			metals++
		} else {
			diffuse++
		}
		if index == 0 || sphere.Radius < minR {
			minR = sphere.Radius
		}
		if sphere.Radius > maxR {
			maxR = sphere.Radius
		}
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"Layout", s.Options.Layout.String()})
	table.Append([]string{"Seed", fmt.Sprintf("%d", s.Options.Seed)})
	table.Append([]string{"Requested spheres", fmt.Sprintf("%d", s.Options.MaxSpheres)})
	table.Append([]string{"Metal spheres", fmt.Sprintf("%d", metals)})
	table.Append([]string{"Diffuse spheres", fmt.Sprintf("%d", diffuse)})
	table.Append([]string{"Radius range", fmt.Sprintf("%3.2f - %3.2f", minR, maxR)})
	table.Append([]string{"Light direction", fmtVec3(s.Light.Direction)})
	table.Append([]string{"Light intensity", fmt.Sprintf("%3.2f", s.Light.Intensity)})
	if s.Camera != nil {
		table.Append([]string{"Camera position", fmtVec3(s.Camera.Position)})
		table.Append([]string{"Camera FOV", fmt.Sprintf("%3.1f", s.Camera.FOV)})
	}
	table.SetFooter([]string{"Total spheres", fmt.Sprintf("%d", len(s.Spheres))})

	table.Render()
	return buf.String()
}

func fmtVec3(v types.Vec3) string {
	return fmt.Sprintf("(%3.3f, %3.3f, %3.3f)", v[0], v[1], v[2])
}
