package renderer

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
)

const (
	hudMargin     = 6.0
	hudLineHeight = 15.0
)

// Get the text lines displayed by the heads-up overlay.
func HUDLines(stats FrameStats) []string {
	lines := []string{
		fmt.Sprintf("samples: %d", stats.SampleCount),
		fmt.Sprintf("frame time: %s", stats.RenderTime),
	}
	for _, stat := range stats.Tracers {
		lines = append(lines, fmt.Sprintf("%s: %d rows (%02.1f%%)", stat.Id, stat.BlockH, stat.FramePercent))
	}
	return lines
}

// Draw text lines over a translucent panel in the top-left corner of img.
func DrawHUD(img *image.RGBA, lines ...string) {
	if len(lines) == 0 {
		return
	}

	dc := gg.NewContextForRGBA(img)

	var panelW float64
	for _, line := range lines {
		if w, _ := dc.MeasureString(line); w > panelW {
			panelW = w
		}
	}
	panelH := float64(len(lines))*hudLineHeight + hudMargin

	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(0, 0, panelW+2*hudMargin, panelH)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	for index, line := range lines {
		dc.DrawString(line, hudMargin, float64(index+1)*hudLineHeight)
	}
}
