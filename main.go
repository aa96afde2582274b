package main

import (
	"os"
	"runtime"

	"github.com/achilleasa/sunlight/cmd"
	"github.com/achilleasa/sunlight/log"
	"github.com/urfave/cli"
)

func init() {
	// glfw requires window and event handling on the main thread
	runtime.LockOSThread()
}

// Flags that control sphere field generation.
var sceneFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "layout",
		Value:  "random",
		Usage:  "sphere placement strategy (random or grid)",
		EnvVar: "SUNLIGHT_LAYOUT",
	},
	cli.IntFlag{
		Name:   "spheres",
		Value:  100,
		Usage:  "number of placement attempts (random layout) or maximum sphere count (grid layout)",
		EnvVar: "SUNLIGHT_SPHERES",
	},
	cli.Float64Flag{
		Name:   "radius-min",
		Value:  3,
		Usage:  "minimum sphere radius",
		EnvVar: "SUNLIGHT_RADIUS_MIN",
	},
	cli.Float64Flag{
		Name:   "radius-max",
		Value:  8,
		Usage:  "maximum sphere radius",
		EnvVar: "SUNLIGHT_RADIUS_MAX",
	},
	cli.Float64Flag{
		Name:   "placement-radius",
		Value:  100,
		Usage:  "radius of the area that sphere centers are placed in",
		EnvVar: "SUNLIGHT_PLACEMENT_RADIUS",
	},
	cli.Float64Flag{
		Name:   "metal-probability",
		Value:  0.5,
		Usage:  "probability that a sphere is metal",
		EnvVar: "SUNLIGHT_METAL_PROBABILITY",
	},
	cli.IntFlag{
		Name:   "grid-size",
		Value:  10,
		Usage:  "cells per side for the grid layout",
		EnvVar: "SUNLIGHT_GRID_SIZE",
	},
	cli.Int64Flag{
		Name:   "seed",
		Value:  0,
		Usage:  "seed for the scene generator",
		EnvVar: "SUNLIGHT_SEED",
	},
}

// Flags shared by all render modes.
var renderFlags = []cli.Flag{
	cli.IntFlag{
		Name:   "width",
		Value:  640,
		Usage:  "frame width",
		EnvVar: "SUNLIGHT_WIDTH",
	},
	cli.IntFlag{
		Name:   "height",
		Value:  360,
		Usage:  "frame height",
		EnvVar: "SUNLIGHT_HEIGHT",
	},
	cli.IntFlag{
		Name:   "num-bounces",
		Value:  8,
		Usage:  "max number of ray segments per sample",
		EnvVar: "SUNLIGHT_NUM_BOUNCES",
	},
	cli.Float64Flag{
		Name:   "exposure",
		Value:  1.0,
		Usage:  "camera exposure for tone-mapping",
		EnvVar: "SUNLIGHT_EXPOSURE",
	},
	cli.Float64Flag{
		Name:   "gamma",
		Value:  2.2,
		Usage:  "display gamma",
		EnvVar: "SUNLIGHT_GAMMA",
	},
	cli.IntFlag{
		Name:   "tracers",
		Value:  0,
		Usage:  "number of cpu tracers; 0 uses one tracer per logical core",
		EnvVar: "SUNLIGHT_TRACERS",
	},
	cli.StringFlag{
		Name:   "scheduler",
		Value:  "naive",
		Usage:  "block scheduler (naive or perfect)",
		EnvVar: "SUNLIGHT_SCHEDULER",
	},
	cli.StringFlag{
		Name:   "env",
		Value:  "",
		Usage:  "path or URL to an equirectangular environment map; a procedural sky is used if empty",
		EnvVar: "SUNLIGHT_ENV",
	},
	cli.Float64Flag{
		Name:   "env-intensity",
		Value:  1.0,
		Usage:  "environment map radiance multiplier",
		EnvVar: "SUNLIGHT_ENV_INTENSITY",
	},
	cli.Int64Flag{
		Name:   "jitter-seed",
		Value:  0,
		Usage:  "seed for the per-frame sub-pixel jitter",
		EnvVar: "SUNLIGHT_JITTER_SEED",
	},
}

func withFlags(flagSets ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, set := range flagSets {
		out = append(out, set...)
	}
	return out
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "sunlight"
	app.Usage = "progressively render sphere fields lit by a directional light"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "log level (debug, info, notice, warning or error)",
			EnvVar: "SUNLIGHT_LOG_LEVEL",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "scene",
			Usage: "generate and inspect scene snapshots",
			Subcommands: []cli.Command{
				{
					Name:  "generate",
					Usage: "generate a sphere field and save it to a zip archive",
					Description: `
Place spheres on the ground plane using the selected layout and write the
resulting scene, together with its camera and light, to a zip archive which
can be supplied as an argument to the render commands.`,
					Flags: withFlags(sceneFlags, []cli.Flag{
						cli.StringFlag{
							Name:   "out, o",
							Value:  "scene.zip",
							Usage:  "filename for the generated scene",
							EnvVar: "SUNLIGHT_SCENE_OUT",
						},
					}),
					Action: cmd.GenerateScene,
				},
				{
					Name:      "info",
					Usage:     "display scene snapshot information",
					ArgsUsage: "scene.zip",
					Action:    cmd.ShowSceneInfo,
				},
			},
		},
		{
			Name:   "list-devices",
			Usage:  "list the cpu used for tracing",
			Action: cmd.ListDevices,
		},
		{
			Name:  "render",
			Usage: "render scene",
			Subcommands: []cli.Command{
				{
					Name:  "frame",
					Usage: "render a still frame",
					Description: `
Render a scene snapshot, or a freshly generated scene if no snapshot is
specified, and save the accumulated frame as a PNG image.`,
					ArgsUsage: "[scene.zip]",
					Flags: withFlags(sceneFlags, renderFlags, []cli.Flag{
						cli.IntFlag{
							Name:   "spp",
							Value:  64,
							Usage:  "samples per pixel",
							EnvVar: "SUNLIGHT_SPP",
						},
						cli.IntFlag{
							Name:   "frames",
							Value:  0,
							Usage:  "number of frames to render; 0 renders until spp is reached",
							EnvVar: "SUNLIGHT_FRAMES",
						},
						cli.BoolFlag{
							Name:   "hud",
							Usage:  "draw render statistics over the frame",
							EnvVar: "SUNLIGHT_HUD",
						},
						cli.StringFlag{
							Name:   "out, o",
							Value:  "frame.png",
							Usage:  "image filename for the rendered frame",
							EnvVar: "SUNLIGHT_FRAME_OUT",
						},
					}),
					Action: cmd.RenderFrame,
				},
				{
					Name:  "interactive",
					Usage: "render interactive view of the scene",
					Description: `
Open a window that progressively refines the scene. Use the arrow and page
keys to move the camera, drag with the left mouse button to look around and
with the right mouse button (or J/L/I/K) to rotate the light. Press R to
regenerate the scene with the next seed and TAB to toggle the stats overlay.`,
					ArgsUsage: "[scene.zip]",
					Flags: withFlags(sceneFlags, renderFlags, []cli.Flag{
						cli.IntFlag{
							Name:   "spp",
							Value:  0,
							Usage:  "stop refining after this many samples per pixel; 0 refines forever",
							EnvVar: "SUNLIGHT_SPP",
						},
					}),
					Action: cmd.RenderInteractive,
				},
				{
					Name:  "serve",
					Usage: "serve the progressive renderer over HTTP",
					Description: `
Expose the renderer through a JSON API. Each request to /api/frame.png adds
samples to the accumulated frame; camera, light and scene updates reset it.`,
					ArgsUsage: "[scene.zip]",
					Flags: withFlags(sceneFlags, renderFlags, []cli.Flag{
						cli.IntFlag{
							Name:   "spp",
							Value:  0,
							Usage:  "stop refining after this many samples per pixel; 0 refines forever",
							EnvVar: "SUNLIGHT_SPP",
						},
						cli.StringFlag{
							Name:   "addr",
							Value:  ":8080",
							Usage:  "address to listen on",
							EnvVar: "SUNLIGHT_ADDR",
						},
					}),
					Action: cmd.ServeScene,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New("sunlight").Error(err)
		os.Exit(1)
	}
}
