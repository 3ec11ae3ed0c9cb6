package cmd

import (
	"github.com/df07/go-mesh-pathtracer/pkg/renderer"
	"github.com/df07/go-mesh-pathtracer/pkg/viewer"
	"github.com/urfave/cli"
)

// View opens an interactive window on the scene
func View(ctx *cli.Context) error {
	setupLogging(ctx)

	s, err := loadScene(ctx)
	if err != nil {
		return err
	}

	p, err := renderer.NewProgressive(s, ctx.Int("width"), ctx.Int("height"), progressiveConfig(ctx), logger)
	if err != nil {
		return err
	}
	defer p.Close()

	title := "mesh pathtracer"
	if ctx.NArg() > 0 {
		title += " - " + ctx.Args().First()
	}
	return viewer.Run(viewer.NewGame(p, cameraParams(ctx), logger), title)
}
