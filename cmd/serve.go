package cmd

import (
	"github.com/df07/go-mesh-pathtracer/web/server"
	"github.com/urfave/cli"
)

// Serve starts the HTTP server that streams progressive renders. A mesh
// file argument is loaded once and offered as the "mesh" scene.
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)

	s := server.NewServer(ctx.Int("port"), ctx.String("static"), logger)
	if ctx.NArg() > 0 {
		sc, err := loadScene(ctx)
		if err != nil {
			return err
		}
		s.SetMeshScene(sc)
	}

	logger.Noticef("visit http://localhost:%d/api/scenes to list scenes", ctx.Int("port"))
	return s.Start()
}
