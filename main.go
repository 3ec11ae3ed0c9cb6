package main

import (
	"os"

	"github.com/df07/go-mesh-pathtracer/cmd"
	"github.com/urfave/cli"
)

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-mesh-pathtracer"
	app.Usage = "progressively path trace polygon meshes"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a still image",
			Description: `
Load a mesh (OBJ, OFF, PLY or STL) or a built-in scene and accumulate --spp
progressive frames at a fixed camera. The result is written as a plain PPM
(P3) or PNG depending on the --out extension.`,
			ArgsUsage: "[mesh_file]",
			Flags: cmd.JoinFlags(cmd.SceneFlags, cmd.CameraFlags, cmd.RenderFlags, []cli.Flag{
				cli.IntFlag{
					Name:   "spp",
					Value:  64,
					Usage:  "samples per pixel (progressive frames)",
					EnvVar: "PT_SPP",
				},
				cli.StringFlag{
					Name:   "out, o",
					Value:  "frame.png",
					Usage:  "image filename for the rendered frame (.png or .ppm)",
					EnvVar: "PT_OUT",
				},
			}),
			Action: cmd.RenderFrame,
		},
		{
			Name:  "view",
			Usage: "render interactive view of the scene",
			Description: `
Open a window that keeps refining the image. Arrows or WASD rotate the camera,
Q/E zoom, IJKL pan, R restores the initial view and H toggles the overlay.
Every camera change restarts accumulation.`,
			ArgsUsage: "[mesh_file]",
			Flags:     cmd.JoinFlags(cmd.SceneFlags, cmd.CameraFlags, cmd.RenderFlags),
			Action:    cmd.View,
		},
		{
			Name:      "stats",
			Usage:     "build the scene and print BVH statistics",
			ArgsUsage: "[mesh_file]",
			Flags:     cmd.SceneFlags,
			Action:    cmd.SceneStats,
		},
		{
			Name:   "scenes",
			Usage:  "list built-in scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:  "serve",
			Usage: "stream progressive renders over HTTP",
			Description: `
Serve /api/render (server-sent events, one PNG frame per event), /api/inspect
(surface under a pixel), /api/scenes and /api/health. A mesh file argument is
offered as the "mesh" scene.`,
			ArgsUsage: "[mesh_file]",
			Flags: cmd.JoinFlags(cmd.SceneFlags, []cli.Flag{
				cli.IntFlag{
					Name:   "port",
					Value:  8080,
					Usage:  "port to serve on",
					EnvVar: "PT_PORT",
				},
				cli.StringFlag{
					Name:   "static",
					Usage:  "directory of static files served at /",
					EnvVar: "PT_STATIC",
				},
			}),
			Action: cmd.Serve,
		},
		{
			Name:  "converge",
			Usage: "plot how quickly repeated renders agree",
			Description: `
Render the scene --runs times with different seeds, snapshot every power of two
samples up to --spp and plot the per-pixel variance between runs.`,
			ArgsUsage: "[mesh_file]",
			Flags: cmd.JoinFlags(cmd.SceneFlags, cmd.CameraFlags, cmd.RenderFlags, []cli.Flag{
				cli.IntFlag{
					Name:   "spp",
					Value:  64,
					Usage:  "largest sample count measured",
					EnvVar: "PT_SPP",
				},
				cli.IntFlag{
					Name:   "runs",
					Value:  4,
					Usage:  "independent renders to compare",
					EnvVar: "PT_RUNS",
				},
				cli.StringFlag{
					Name:   "out, o",
					Value:  "converge.png",
					Usage:  "plot filename",
					EnvVar: "PT_OUT",
				},
			}),
			Action: cmd.Converge,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		os.Stderr.WriteString("error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
