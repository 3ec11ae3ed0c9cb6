package loaders

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

// ReadOFF parses an Object File Format mesh: an "OFF" keyword, a count line
// (vertices faces edges), vertex positions, then faces as a vertex count
// followed by 0-based indices. Trailing per-face colors are ignored and
// "#" starts a comment.
func ReadOFF(r io.Reader) (scene.MeshInput, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0

	// next returns the fields of the next non-empty line
	next := func() ([]string, bool) {
		for scanner.Scan() {
			lineNum++
			line := scanner.Text()
			if i := strings.IndexByte(line, '#'); i >= 0 {
				line = line[:i]
			}
			if fields := strings.Fields(line); len(fields) > 0 {
				return fields, true
			}
		}
		return nil, false
	}

	fields, ok := next()
	if !ok || !strings.HasSuffix(fields[0], "OFF") {
		return scene.MeshInput{}, malformed("off", lineNum, "missing OFF header")
	}
	// The counts may share the header line
	fields = fields[1:]
	if len(fields) == 0 {
		if fields, ok = next(); !ok {
			return scene.MeshInput{}, malformed("off", lineNum, "missing element counts")
		}
	}
	if len(fields) < 2 {
		return scene.MeshInput{}, malformed("off", lineNum, "expected vertex and face counts")
	}
	numVertices, err1 := strconv.Atoi(fields[0])
	numFaces, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil || numVertices < 0 || numFaces < 0 {
		return scene.MeshInput{}, malformed("off", lineNum, "invalid counts %q", strings.Join(fields, " "))
	}

	mesh := scene.MeshInput{
		Vertices: make([]core.Vec3, 0, numVertices),
		Faces:    make([][]int, 0, numFaces),
	}

	for i := 0; i < numVertices; i++ {
		fields, ok := next()
		if !ok {
			return scene.MeshInput{}, malformed("off", lineNum, "expected %d vertices, got %d", numVertices, i)
		}
		v, err := parseFloats(fields, 3)
		if err != nil {
			return scene.MeshInput{}, malformed("off", lineNum, "vertex: %v", err)
		}
		mesh.Vertices = append(mesh.Vertices, core.NewVec3(v[0], v[1], v[2]))
	}

	for i := 0; i < numFaces; i++ {
		fields, ok := next()
		if !ok {
			return scene.MeshInput{}, malformed("off", lineNum, "expected %d faces, got %d", numFaces, i)
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 3 || len(fields) < n+1 {
			return scene.MeshInput{}, malformed("off", lineNum, "invalid face %q", strings.Join(fields, " "))
		}
		face := make([]int, n)
		for k := 0; k < n; k++ {
			if face[k], err = strconv.Atoi(fields[k+1]); err != nil {
				return scene.MeshInput{}, malformed("off", lineNum, "invalid index %q", fields[k+1])
			}
		}
		mesh.Faces = append(mesh.Faces, face)
	}

	if err := scanner.Err(); err != nil {
		return scene.MeshInput{}, err
	}
	return mesh, nil
}
