package loaders

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/log"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

// NormalizedSize is the largest bounding-box dimension after NormalizeMesh
const NormalizedSize = 2.0

// MeshReader parses one mesh file format
type MeshReader func(r io.Reader) (scene.MeshInput, error)

// meshReaders maps lower-case file extensions to readers
var meshReaders = map[string]MeshReader{
	".obj": ReadOBJ,
	".off": ReadOFF,
	".stl": ReadSTL,
	".ply": ReadPLY,
}

// SupportedMeshExtensions returns the file extensions LoadMesh accepts
func SupportedMeshExtensions() []string {
	return []string{".obj", ".off", ".ply", ".stl"}
}

// LoadMesh reads a mesh file, choosing the reader by extension
func LoadMesh(filename string, logger log.Logger) (scene.MeshInput, error) {
	start := time.Now()

	ext := strings.ToLower(filepath.Ext(filename))
	reader, ok := meshReaders[ext]
	if !ok {
		return scene.MeshInput{}, fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}

	file, err := os.Open(filename)
	if err != nil {
		return scene.MeshInput{}, fmt.Errorf("failed to open mesh file: %w", err)
	}
	defer file.Close()

	mesh, err := reader(file)
	if err != nil {
		return scene.MeshInput{}, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	logger.Infof("loaded %s: %d vertices, %d faces in %v", filepath.Base(filename), len(mesh.Vertices), len(mesh.Faces), time.Since(start))
	return mesh, nil
}

// NormalizeMesh centers the vertices' bounding box on the origin and scales
// them uniformly so the largest dimension equals NormalizedSize. Degenerate
// meshes (a single point) are only centered.
func NormalizeMesh(vertices []core.Vec3) {
	if len(vertices) == 0 {
		return
	}

	bounds := core.NewAABBFromPoints(vertices...)
	center := bounds.Center()
	extent := bounds.Size().MaxComponent()

	scale := 1.0
	if extent > 0 && !math.IsInf(extent, 0) {
		scale = NormalizedSize / extent
	}

	for i, v := range vertices {
		vertices[i] = v.Subtract(center).Multiply(scale)
	}
}
