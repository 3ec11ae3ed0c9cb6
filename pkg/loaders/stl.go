package loaders

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"strings"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

const stlBinaryHeaderSize = 80

// ReadSTL parses ASCII or binary STL. Facet normals are ignored and
// identical vertex positions are merged so triangles share vertices.
func ReadSTL(r io.Reader) (scene.MeshInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return scene.MeshInput{}, err
	}

	if isBinarySTL(data) {
		return readBinarySTL(data)
	}
	return readASCIISTL(data)
}

// isBinarySTL checks the triangle count against the payload size, since
// binary files may also begin with "solid"
func isBinarySTL(data []byte) bool {
	if len(data) < stlBinaryHeaderSize+4 {
		return false
	}
	count := binary.LittleEndian.Uint32(data[stlBinaryHeaderSize:])
	return int64(len(data)) == int64(stlBinaryHeaderSize+4)+int64(count)*50
}

// stlBuilder merges duplicate vertex positions
type stlBuilder struct {
	mesh  scene.MeshInput
	index map[core.Vec3]int
}

func newSTLBuilder() *stlBuilder {
	return &stlBuilder{index: make(map[core.Vec3]int)}
}

func (b *stlBuilder) vertex(v core.Vec3) int {
	if idx, ok := b.index[v]; ok {
		return idx
	}
	idx := len(b.mesh.Vertices)
	b.mesh.Vertices = append(b.mesh.Vertices, v)
	b.index[v] = idx
	return idx
}

func readBinarySTL(data []byte) (scene.MeshInput, error) {
	count := int(binary.LittleEndian.Uint32(data[stlBinaryHeaderSize:]))
	b := newSTLBuilder()
	b.mesh.Faces = make([][]int, 0, count)

	offset := stlBinaryHeaderSize + 4
	for i := 0; i < count; i++ {
		// 12 bytes normal, 3x12 bytes vertices, 2 bytes attribute count
		record := data[offset : offset+50]
		face := make([]int, 3)
		for k := 0; k < 3; k++ {
			base := 12 + 12*k
			v := core.NewVec3(
				float64(math.Float32frombits(binary.LittleEndian.Uint32(record[base:]))),
				float64(math.Float32frombits(binary.LittleEndian.Uint32(record[base+4:]))),
				float64(math.Float32frombits(binary.LittleEndian.Uint32(record[base+8:]))),
			)
			face[k] = b.vertex(v)
		}
		b.mesh.Faces = append(b.mesh.Faces, face)
		offset += 50
	}
	return b.mesh, nil
}

func readASCIISTL(data []byte) (scene.MeshInput, error) {
	b := newSTLBuilder()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	sawSolid := false
	var face []int

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "solid":
			sawSolid = true
		case "outer":
			face = face[:0]
		case "vertex":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return scene.MeshInput{}, malformed("stl", lineNum, "vertex: %v", err)
			}
			face = append(face, b.vertex(core.NewVec3(v[0], v[1], v[2])))
		case "endloop":
			if len(face) < 3 {
				return scene.MeshInput{}, malformed("stl", lineNum, "facet has %d vertices", len(face))
			}
			b.mesh.Faces = append(b.mesh.Faces, append([]int(nil), face...))
		}
	}
	if err := scanner.Err(); err != nil {
		return scene.MeshInput{}, err
	}
	if !sawSolid {
		return scene.MeshInput{}, malformed("stl", 0, "missing solid keyword")
	}
	return b.mesh, nil
}
