package cmd

import (
	"errors"
	"strings"

	"github.com/achilleasa/sunlight/scene"
	"github.com/achilleasa/sunlight/scene/reader"
	"github.com/achilleasa/sunlight/scene/writer"
	"github.com/urfave/cli"
)

// Generate a sphere field and save it as a scene snapshot.
func GenerateScene(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := buildScene(ctx)
	if err != nil {
		return err
	}

	// Display generated scene info
	logger.Noticef("scene information:\n%s", sc.Stats())

	sceneFile := ctx.String("out")
	if !strings.HasSuffix(sceneFile, ".zip") {
		sceneFile += ".zip"
	}
	return writer.WriteScene(sc, sceneFile)
}

// Display scene snapshot info.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene zip file")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	// Display scene info
	logger.Noticef("scene information:\n%s", sc.Stats())

	return nil
}

// Load the scene snapshot passed as the first argument or generate a new
// scene from the command flags.
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	switch ctx.NArg() {
	case 0:
		return buildScene(ctx)
	case 1:
		return reader.ReadScene(ctx.Args().First())
	default:
		return nil, errors.New("expected at most one scene file argument")
	}
}

func buildScene(ctx *cli.Context) (*scene.Scene, error) {
	layout, err := scene.ParseLayout(ctx.String("layout"))
	if err != nil {
		return nil, err
	}

	opts := scene.BuildOptions{
		Layout:           layout,
		MaxSpheres:       ctx.Int("spheres"),
		RadiusMin:        float32(ctx.Float64("radius-min")),
		RadiusMax:        float32(ctx.Float64("radius-max")),
		PlacementRadius:  float32(ctx.Float64("placement-radius")),
		MetalProbability: float32(ctx.Float64("metal-probability")),
		GridSize:         ctx.Int("grid-size"),
		Seed:             ctx.Int64("seed"),
	}

	sc, err := scene.Build(opts)
	if err != nil {
		return nil, err
	}
	logger.Infof("generated %s scene with %d spheres (seed %d)", layout, len(sc.Spheres), opts.Seed)
	return sc, nil
}
