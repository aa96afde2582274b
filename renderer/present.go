package renderer

import (
	"image"

	"github.com/chewxy/math32"
)

// Convert the accumulated linear radiance into a displayable image. Values
// are scaled by the exposure, gamma corrected and clamped. The accumulator
// stores row 0 at the bottom of the frame so rows are flipped.
func present(accum *Accumulator, exposure, gamma float32, out *image.RGBA) {
	invGamma := float32(1)
	if gamma > 0 {
		invGamma = 1 / gamma
	}

	w, h := int(accum.FrameW), int(accum.FrameH)
	for y := 0; y < h; y++ {
		src := y * w * 3
		dst := out.PixOffset(0, h-1-y)
		for x := 0; x < w; x, src, dst = x+1, src+3, dst+4 {
			out.Pix[dst] = toByte(accum.Data[src], exposure, invGamma)
			out.Pix[dst+1] = toByte(accum.Data[src+1], exposure, invGamma)
			out.Pix[dst+2] = toByte(accum.Data[src+2], exposure, invGamma)
			out.Pix[dst+3] = 255
		}
	}
}

func toByte(c, exposure, invGamma float32) uint8 {
	c *= exposure
	// NaN fails both comparisons; map it to black
	if !(c > 0) {
		return 0
	}
	c = math32.Pow(c, invGamma)
	if c >= 1 {
		return 255
	}
	return uint8(c*255 + 0.5)
}
