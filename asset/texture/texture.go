package texture

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/achilleasa/sunlight/asset"
	"github.com/achilleasa/sunlight/log"
	"github.com/achilleasa/sunlight/types"
	"github.com/chewxy/math32"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var logger = log.New("texture")

// An equirectangular environment map stored as linear RGB floats. Row 0 is
// the top of the image.
type Texture struct {
	Width  uint32
	Height uint32

	// RGB triplets in row-major order.
	Data []float32

	// Radiance multiplier applied when sampling.
	Intensity float32
}

// Create a new texture from a Resource. The image is assumed to be sRGB
// encoded and is converted to linear space.
func New(res *asset.Resource) (*Texture, error) {
	start := time.Now()
	img, imgFmt, err := image.Decode(res)
	if err != nil {
		return nil, fmt.Errorf("texture: could not decode %s: %w", res.Path(), err)
	}

	tex := FromImage(img)
	logger.Infof("loaded %s texture %s (%dx%d) in %d ms", imgFmt, res.Path(), tex.Width, tex.Height, time.Since(start).Nanoseconds()/1000000)
	return tex, nil
}

// Load a texture from a local path or URL.
func Load(pathToTexture string) (*Texture, error) {
	res, err := asset.NewResource(pathToTexture, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return New(res)
}

// Convert an image to a linear RGB texture.
func FromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := &Texture{
		Width:     uint32(bounds.Dx()),
		Height:    uint32(bounds.Dy()),
		Data:      make([]float32, bounds.Dx()*bounds.Dy()*3),
		Intensity: 1,
	}

	offset := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			tex.Data[offset] = srgbToLinear(float32(r) / 0xffff)
			tex.Data[offset+1] = srgbToLinear(float32(g) / 0xffff)
			tex.Data[offset+2] = srgbToLinear(float32(b) / 0xffff)
			offset += 3
		}
	}

	return tex
}

// Sample the texture with bilinear filtering. Both coordinates wrap around;
// v = 0 maps to the bottom of the image and v = 1 to the top.
func (t *Texture) Sample(u, v float32) types.Vec3 {
	if t.Width == 0 || t.Height == 0 {
		return types.Vec3{}
	}

	x := wrap(u)*float32(t.Width) - 0.5
	y := (1-wrap(v))*float32(t.Height) - 0.5

	x0 := math32.Floor(x)
	y0 := math32.Floor(y)
	fx, fy := x-x0, y-y0

	c00 := t.texel(int(x0), int(y0))
	c10 := t.texel(int(x0)+1, int(y0))
	c01 := t.texel(int(x0), int(y0)+1)
	c11 := t.texel(int(x0)+1, int(y0)+1)

	top := c00.Mul(1 - fx).Add(c10.Mul(fx))
	bottom := c01.Mul(1 - fx).Add(c11.Mul(fx))
	return top.Mul(1 - fy).Add(bottom.Mul(fy)).Mul(t.Intensity)
}

// Fetch a texel; coordinates wrap around the image edges.
func (t *Texture) texel(x, y int) types.Vec3 {
	w, h := int(t.Width), int(t.Height)
	x = ((x % w) + w) % w
	y = ((y % h) + h) % h
	offset := (y*w + x) * 3
	return types.Vec3{t.Data[offset], t.Data[offset+1], t.Data[offset+2]}
}

func wrap(x float32) float32 {
	return x - math32.Floor(x)
}

func srgbToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math32.Pow((c+0.055)/1.055, 2.4)
}
