package renderer

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Maximum number of ray segments per sample.
	NumBounces uint32

	// Stop accumulating after this many samples; 0 accumulates forever.
	SamplesPerPixel uint32

	// Exposure for tonemapping.
	Exposure float32

	// Display gamma applied when converting the accumulated radiance.
	Gamma float32

	// Seed for the per-frame jitter sequence.
	Seed int64
}

// Get the default renderer options.
func DefaultOptions() Options {
	return Options{
		FrameW:          640,
		FrameH:          360,
		NumBounces:      8,
		SamplesPerPixel: 0,
		Exposure:        1.0,
		Gamma:           2.2,
	}
}
