package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/df07/go-mesh-pathtracer/pkg/loaders"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
	"github.com/urfave/cli"
)

// textureSpec is a parsed --texture value
type textureSpec struct {
	File  string
	Faces []int // nil selects every face
}

// parseTextureSpec accepts "file" or "file:first-last" (inclusive face range)
// or "file:n" for a single face
func parseTextureSpec(value string, faceCount int) (textureSpec, error) {
	file, selection, hasSelection := strings.Cut(value, ":")
	// Windows drive letters are not selections
	if hasSelection && len(file) == 1 && strings.ContainsAny(selection, `\/`) {
		file, selection, hasSelection = value, "", false
	}
	if file == "" {
		return textureSpec{}, fmt.Errorf("texture %q: missing file name", value)
	}

	spec := textureSpec{File: file}
	if !hasSelection {
		return spec, nil
	}

	firstStr, lastStr, isRange := strings.Cut(selection, "-")
	first, err := strconv.Atoi(firstStr)
	if err != nil {
		return textureSpec{}, fmt.Errorf("texture %q: invalid face selection", value)
	}
	last := first
	if isRange {
		if last, err = strconv.Atoi(lastStr); err != nil {
			return textureSpec{}, fmt.Errorf("texture %q: invalid face selection", value)
		}
	}
	if first < 0 || last < first || last >= faceCount {
		return textureSpec{}, fmt.Errorf("texture %q: faces %d-%d outside mesh with %d faces", value, first, last, faceCount)
	}

	for f := first; f <= last; f++ {
		spec.Faces = append(spec.Faces, f)
	}
	return spec, nil
}

// allFaces returns the indices 0..n-1
func allFaces(n int) []int {
	faces := make([]int, n)
	for i := range faces {
		faces[i] = i
	}
	return faces
}

// loadScene builds the scene from the mesh file argument, or the built-in
// scene named by --scene when no file is given
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	var s *scene.Scene

	if ctx.NArg() == 0 {
		if len(ctx.StringSlice("texture")) > 0 {
			logger.Warning("--texture only applies to mesh files, ignoring")
		}
		var err error
		if s, err = scene.NewBuiltinScene(ctx.String("scene")); err != nil {
			return nil, err
		}
		logger.Infof("using built-in scene %q", ctx.String("scene"))
	} else {
		mesh, err := loaders.LoadMesh(ctx.Args().First(), logger)
		if err != nil {
			return nil, err
		}
		if !ctx.Bool("no-normalize") {
			loaders.NormalizeMesh(mesh.Vertices)
		}

		if err := applyTextures(ctx.StringSlice("texture"), &mesh); err != nil {
			return nil, err
		}

		if s, err = scene.New(mesh); err != nil {
			return nil, err
		}
	}

	if ctx.Bool("no-ground") {
		s.Ground = nil
	}
	logger.Infof("scene ready: %d vertices, %d triangles, %d textures", len(s.Vertices), s.TriangleCount(), len(s.Textures))
	return s, nil
}

// applyTextures loads the --texture images concurrently and projects each
// onto its face selection, in flag order
func applyTextures(values []string, mesh *scene.MeshInput) error {
	if len(values) == 0 {
		return nil
	}

	specs := make([]textureSpec, len(values))
	files := make([]string, len(values))
	for i, value := range values {
		spec, err := parseTextureSpec(value, len(mesh.Faces))
		if err != nil {
			return err
		}
		if spec.Faces == nil {
			spec.Faces = allFaces(len(mesh.Faces))
		}
		specs[i] = spec
		files[i] = spec.File
	}

	textures, err := loaders.LoadTextures(context.Background(), files, 0)
	if err != nil {
		return err
	}

	for i, spec := range specs {
		if err := loaders.ApplyTexture(mesh, textures[i], spec.Faces); err != nil {
			return err
		}
		logger.Infof("texture %s (%dx%d) applied to %d faces", spec.File, textures[i].Width, textures[i].Height, len(spec.Faces))
	}
	return nil
}
