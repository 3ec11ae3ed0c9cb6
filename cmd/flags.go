package cmd

import (
	"github.com/df07/go-mesh-pathtracer/pkg/integrator"
	"github.com/df07/go-mesh-pathtracer/pkg/renderer"
	"github.com/urfave/cli"
)

var (
	defaultCamera      = renderer.DefaultCameraParams()
	defaultProgressive = renderer.DefaultProgressiveConfig()
	defaultIntegrator  = integrator.DefaultConfig()
)

// SceneFlags select what gets rendered
var SceneFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "scene",
		Value:  "default",
		Usage:  "built-in scene to render when no mesh file is given",
		EnvVar: "PT_SCENE",
	},
	cli.StringSliceFlag{
		Name:   "texture, t",
		Value:  &cli.StringSlice{},
		Usage:  "texture image applied with planar UVs, as file or file:first-last to select faces",
		EnvVar: "PT_TEXTURE",
	},
	cli.BoolFlag{
		Name:   "no-normalize",
		Usage:  "keep mesh coordinates instead of fitting the mesh into a 2 unit box",
		EnvVar: "PT_NO_NORMALIZE",
	},
	cli.BoolFlag{
		Name:   "no-ground",
		Usage:  "remove the ground plane",
		EnvVar: "PT_NO_GROUND",
	},
}

// CameraFlags set the initial camera
var CameraFlags = []cli.Flag{
	cli.Float64Flag{
		Name:   "yaw",
		Value:  defaultCamera.Yaw,
		Usage:  "camera yaw in degrees",
		EnvVar: "PT_YAW",
	},
	cli.Float64Flag{
		Name:   "pitch",
		Value:  defaultCamera.Pitch,
		Usage:  "camera pitch in degrees",
		EnvVar: "PT_PITCH",
	},
	cli.Float64Flag{
		Name:   "zoom",
		Value:  defaultCamera.Zoom,
		Usage:  "camera zoom factor",
		EnvVar: "PT_ZOOM",
	},
	cli.Float64Flag{
		Name:   "pan-x",
		Usage:  "horizontal pan of the orbit target",
		EnvVar: "PT_PAN_X",
	},
	cli.Float64Flag{
		Name:   "pan-y",
		Usage:  "vertical pan of the orbit target",
		EnvVar: "PT_PAN_Y",
	},
}

// RenderFlags configure the frame driver and integrator
var RenderFlags = []cli.Flag{
	cli.IntFlag{
		Name:   "width",
		Value:  640,
		Usage:  "frame width",
		EnvVar: "PT_WIDTH",
	},
	cli.IntFlag{
		Name:   "height",
		Value:  480,
		Usage:  "frame height",
		EnvVar: "PT_HEIGHT",
	},
	cli.Float64Flag{
		Name:   "exposure",
		Value:  defaultProgressive.Exposure,
		Usage:  "camera exposure for tone-mapping",
		EnvVar: "PT_EXPOSURE",
	},
	cli.IntFlag{
		Name:   "workers",
		Usage:  "render workers (0 = one per CPU)",
		EnvVar: "PT_WORKERS",
	},
	cli.IntFlag{
		Name:   "seed",
		Usage:  "random seed salt",
		EnvVar: "PT_SEED",
	},
	cli.IntFlag{
		Name:   "num-bounces",
		Value:  defaultIntegrator.MaxDepth,
		Usage:  "maximum path depth",
		EnvVar: "PT_NUM_BOUNCES",
	},
	cli.IntFlag{
		Name:   "rr-bounces",
		Value:  defaultIntegrator.RouletteDepth,
		Usage:  "depth after which russian roulette may end paths (>= num-bounces disables it)",
		EnvVar: "PT_RR_BOUNCES",
	},
	cli.IntFlag{
		Name:   "coarse-stride",
		Value:  defaultProgressive.CoarseStride,
		Usage:  "pixel stride of the first frames after a camera change",
		EnvVar: "PT_COARSE_STRIDE",
	},
	cli.IntFlag{
		Name:   "coarse-frames",
		Value:  defaultProgressive.CoarseSamples,
		Usage:  "frames rendered at the coarse stride",
		EnvVar: "PT_COARSE_FRAMES",
	},
	cli.BoolFlag{
		Name:   "no-jitter",
		Usage:  "sample pixel centers only",
		EnvVar: "PT_NO_JITTER",
	},
}

// JoinFlags concatenates flag groups for one command
func JoinFlags(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, g := range groups {
		flags = append(flags, g...)
	}
	return flags
}

// cameraParams reads CameraFlags
func cameraParams(ctx *cli.Context) renderer.CameraParams {
	return renderer.CameraParams{
		Yaw:   ctx.Float64("yaw"),
		Pitch: ctx.Float64("pitch"),
		Zoom:  ctx.Float64("zoom"),
		PanX:  ctx.Float64("pan-x"),
		PanY:  ctx.Float64("pan-y"),
	}
}

// progressiveConfig reads RenderFlags
func progressiveConfig(ctx *cli.Context) renderer.ProgressiveConfig {
	config := renderer.DefaultProgressiveConfig()
	config.Exposure = ctx.Float64("exposure")
	config.NumWorkers = ctx.Int("workers")
	config.Seed = uint32(ctx.Int("seed"))
	config.CoarseStride = max(ctx.Int("coarse-stride"), 1)
	config.CoarseSamples = max(ctx.Int("coarse-frames"), 0)
	config.Jitter = !ctx.Bool("no-jitter")

	config.Integrator.MaxDepth = ctx.Int("num-bounces")
	config.Integrator.RouletteDepth = ctx.Int("rr-bounces")
	if config.Integrator.RouletteDepth >= config.Integrator.MaxDepth {
		logger.Notice("disabling RR for path elimination")
	}
	return config
}
