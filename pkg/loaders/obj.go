package loaders

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

// ReadOBJ parses Wavefront OBJ geometry: "v" positions, "vt" texture
// coordinates and "f" polygons. Face corners may be written as v, v/vt,
// v//vn or v/vt/vn with 1-based or negative (relative) indices. Face UVs are
// reported per face; faces without texture references get nil.
// Everything else (normals, groups, materials) is ignored.
func ReadOBJ(r io.Reader) (scene.MeshInput, error) {
	var mesh scene.MeshInput
	var texCoords []core.Vec2
	var faceUVs [][]core.Vec2
	anyTextured := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "v":
			v, err := parseFloats(parts[1:], 3)
			if err != nil {
				return scene.MeshInput{}, malformed("obj", lineNum, "vertex: %v", err)
			}
			mesh.Vertices = append(mesh.Vertices, core.NewVec3(v[0], v[1], v[2]))

		case "vt":
			if len(parts) < 2 {
				return scene.MeshInput{}, malformed("obj", lineNum, "texture coordinate needs at least u")
			}
			fields := parts[1:]
			if len(fields) > 2 {
				fields = fields[:2]
			}
			uv, err := parseFloats(fields, len(fields))
			if err != nil {
				return scene.MeshInput{}, malformed("obj", lineNum, "texture coordinate: %v", err)
			}
			if len(uv) == 1 {
				uv = append(uv, 0)
			}
			texCoords = append(texCoords, core.NewVec2(uv[0], uv[1]))

		case "f":
			if len(parts) < 4 {
				return scene.MeshInput{}, malformed("obj", lineNum, "face has %d vertices", len(parts)-1)
			}
			face := make([]int, 0, len(parts)-1)
			uvs := make([]core.Vec2, 0, len(parts)-1)
			textured := true
			for _, corner := range parts[1:] {
				refs := strings.Split(corner, "/")
				vi, err := resolveOBJIndex(refs[0], len(mesh.Vertices))
				if err != nil {
					return scene.MeshInput{}, malformed("obj", lineNum, "vertex reference %q: %v", corner, err)
				}
				face = append(face, vi)

				if len(refs) < 2 || refs[1] == "" {
					textured = false
					continue
				}
				ti, err := resolveOBJIndex(refs[1], len(texCoords))
				if err != nil || ti < 0 || ti >= len(texCoords) {
					return scene.MeshInput{}, malformed("obj", lineNum, "texture reference %q out of range", corner)
				}
				uvs = append(uvs, texCoords[ti])
			}
			mesh.Faces = append(mesh.Faces, face)
			if textured {
				faceUVs = append(faceUVs, uvs)
				anyTextured = true
			} else {
				faceUVs = append(faceUVs, nil)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return scene.MeshInput{}, err
	}

	if anyTextured {
		mesh.FaceUVs = faceUVs
	}
	return mesh, nil
}

// resolveOBJIndex converts a 1-based or negative OBJ index to a 0-based one.
// Range checks against the final vertex count are left to scene.New.
func resolveOBJIndex(field string, count int) (int, error) {
	idx, err := strconv.Atoi(field)
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		return count + idx, nil
	}
	return idx - 1, nil
}

// parseFloats parses exactly n leading fields as floats
func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, strconv.ErrSyntax
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
