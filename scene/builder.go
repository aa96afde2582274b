package scene

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/achilleasa/sunlight/types"
	"github.com/chewxy/math32"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Layout selects the sphere placement strategy.
type Layout uint8

const (
	// Rejection-sampled spheres inside a disk; spheres that would overlap
	// an already placed sphere are skipped.
	RandomLayout Layout = iota

	// Spheres on a regular square lattice centered at the origin.
	GridLayout
)

var layoutNames = map[Layout]string{
	RandomLayout: "random",
	GridLayout:   "grid",
}

func (l Layout) String() string {
	if name, ok := layoutNames[l]; ok {
		return name
	}
	return fmt.Sprintf("layout(%d)", int(l))
}

// Parse a layout name.
func ParseLayout(name string) (Layout, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for layout, layoutName := range layoutNames {
		if layoutName == name {
			return layout, nil
		}
	}
	return RandomLayout, fmt.Errorf("scene: unknown layout %q", name)
}

// Options for generating a sphere field.
type BuildOptions struct {
	Layout Layout

	// Number of placement attempts (random layout) or an upper bound on
	// the number of spheres (grid layout).
	MaxSpheres int

	// Sphere radius range.
	RadiusMin float32
	RadiusMax float32

	// Radius of the disk (random layout) or half-extent of the square
	// (grid layout) that sphere centers are placed in.
	PlacementRadius float32

	// Probability that a generated sphere is metal.
	MetalProbability float32

	// Number of grid cells per side.
	GridSize int

	// Seed for the generator. Equal seeds produce identical scenes.
	Seed int64
}

// Get the default build options.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Layout:           RandomLayout,
		MaxSpheres:       100,
		RadiusMin:        3,
		RadiusMax:        8,
		PlacementRadius:  100,
		MetalProbability: 0.5,
		GridSize:         10,
		Seed:             0,
	}
}

// Check the options for consistency.
func (o BuildOptions) Validate() error {
	if o.MaxSpheres < 0 {
		return fmt.Errorf("scene: sphere count must be non-negative; got %d", o.MaxSpheres)
	}
	if o.RadiusMin <= 0 || o.RadiusMax < o.RadiusMin {
		return fmt.Errorf("scene: invalid sphere radius range [%f, %f]", o.RadiusMin, o.RadiusMax)
	}
	if o.PlacementRadius <= 0 {
		return fmt.Errorf("scene: placement radius must be positive; got %f", o.PlacementRadius)
	}
	if o.MetalProbability < 0 || o.MetalProbability > 1 {
		return fmt.Errorf("scene: metal probability must be in [0, 1]; got %f", o.MetalProbability)
	}
	if o.Layout == GridLayout && o.GridSize <= 0 {
		return fmt.Errorf("scene: grid size must be positive; got %d", o.GridSize)
	}
	if _, ok := layoutNames[o.Layout]; !ok {
		return fmt.Errorf("scene: unknown layout %d", o.Layout)
	}
	return nil
}

// Generate a scene using the supplied options. The returned scene gets a
// default camera and light.
func Build(opts BuildOptions) (*Scene, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	b := &builder{
		opts: opts,
		rng:  rand.New(rand.NewSource(opts.Seed)),
	}

	var spheres []Sphere
	switch opts.Layout {
	case GridLayout:
		spheres = b.grid()
	default:
		spheres = b.random()
	}

	sc := NewScene()
	sc.Spheres = spheres
	sc.Options = opts
	sc.SetCamera(DefaultCamera(opts.PlacementRadius))
	return sc, nil
}

type builder struct {
	opts BuildOptions
	rng  *rand.Rand
}

func (b *builder) random() []Sphere {
	spheres := make([]Sphere, 0, b.opts.MaxSpheres)

	for attempt := 0; attempt < b.opts.MaxSpheres; attempt++ {
		radius := b.radius(b.opts.RadiusMax)
		pos := b.insideDisk(b.opts.PlacementRadius)
		candidate := NewSphere(types.XYZ(pos[0], radius, pos[1]), radius, Surface{})

		if overlapsAny(candidate, spheres) {
			continue
		}

		candidate.Surface = b.surface()
		spheres = append(spheres, candidate)
	}

	return spheres
}

func (b *builder) grid() []Sphere {
	cells := b.opts.GridSize
	count := cells * cells
	if count > b.opts.MaxSpheres {
		count = b.opts.MaxSpheres
	}

	// Keep a small gap between neighbours so lattice spheres never touch.
	spacing := 2 * b.opts.PlacementRadius / float32(cells)
	maxRadius := math32.Min(b.opts.RadiusMax, spacing*0.45)

	spheres := make([]Sphere, 0, count)
	for index := 0; index < count; index++ {
		row, col := index/cells, index%cells
		radius := b.radius(maxRadius)
		center := types.XYZ(
			-b.opts.PlacementRadius+spacing*(float32(col)+0.5),
			radius,
			-b.opts.PlacementRadius+spacing*(float32(row)+0.5),
		)
		spheres = append(spheres, NewSphere(center, radius, b.surface()))
	}

	return spheres
}

// Pick a radius in [RadiusMin, maxRadius]. If maxRadius is smaller than
// RadiusMin then maxRadius is returned.
func (b *builder) radius(maxRadius float32) float32 {
	if maxRadius <= b.opts.RadiusMin {
		return maxRadius
	}
	return b.opts.RadiusMin + b.rng.Float32()*(maxRadius-b.opts.RadiusMin)
}

// Pick a uniformly distributed point inside a disk of the given radius.
func (b *builder) insideDisk(radius float32) types.Vec2 {
	r := radius * math32.Sqrt(b.rng.Float32())
	theta := 2 * math32.Pi * b.rng.Float32()
	return types.XY(r*math32.Cos(theta), r*math32.Sin(theta))
}

// Pick a random HSV color and turn it into a metal or diffuse surface.
func (b *builder) surface() Surface {
	c := colorful.Hsv(b.rng.Float64()*360, b.rng.Float64(), b.rng.Float64()).Clamped()
	color := types.XYZ(float32(c.R), float32(c.G), float32(c.B))

	if b.rng.Float32() < b.opts.MetalProbability {
		return MetalSurface(color)
	}
	return DiffuseSurface(color)
}

func overlapsAny(candidate Sphere, spheres []Sphere) bool {
	for _, other := range spheres {
		if candidate.Overlaps(other) {
			return true
		}
	}
	return false
}
