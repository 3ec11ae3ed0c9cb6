package loaders

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// createTestPLY builds a binary PLY square made of two triangles
func createTestPLY(t *testing.T, order binary.ByteOrder, includeNormals bool, includeTexCoords bool) []byte {
	t.Helper()
	var buf bytes.Buffer

	format := "binary_little_endian"
	if order == binary.BigEndian {
		format = "binary_big_endian"
	}

	buf.WriteString("ply\n")
	buf.WriteString("format " + format + " 1.0\n")
	buf.WriteString("comment generated by test\n")
	buf.WriteString("element vertex 4\n")
	buf.WriteString("property float x\n")
	buf.WriteString("property float y\n")
	buf.WriteString("property float z\n")

	if includeNormals {
		buf.WriteString("property float nx\n")
		buf.WriteString("property float ny\n")
		buf.WriteString("property float nz\n")
	}

	if includeTexCoords {
		buf.WriteString("property float u\n")
		buf.WriteString("property float v\n")
	}

	buf.WriteString("element face 2\n")
	buf.WriteString("property list uchar int vertex_indices\n")
	buf.WriteString("end_header\n")

	vertices := []struct {
		x, y, z    float32
		nx, ny, nz float32
		u, v       float32
	}{
		{0.0, 0.0, 0.0, 0.0, 0.0, 1.0, 0, 0},
		{1.0, 0.0, 0.0, 0.0, 0.0, 1.0, 1, 0},
		{1.0, 1.0, 0.0, 0.0, 0.0, 1.0, 1, 1},
		{0.0, 1.0, 0.0, 0.0, 0.0, 1.0, 0, 1},
	}

	for _, v := range vertices {
		binary.Write(&buf, order, v.x)
		binary.Write(&buf, order, v.y)
		binary.Write(&buf, order, v.z)

		if includeNormals {
			binary.Write(&buf, order, v.nx)
			binary.Write(&buf, order, v.ny)
			binary.Write(&buf, order, v.nz)
		}

		if includeTexCoords {
			binary.Write(&buf, order, v.u)
			binary.Write(&buf, order, v.v)
		}
	}

	faces := []struct {
		count      uint8
		v1, v2, v3 int32
	}{
		{3, 0, 1, 2},
		{3, 0, 2, 3},
	}

	for _, f := range faces {
		binary.Write(&buf, order, f.count)
		binary.Write(&buf, order, f.v1)
		binary.Write(&buf, order, f.v2)
		binary.Write(&buf, order, f.v3)
	}

	return buf.Bytes()
}

func TestReadPLY_Binary(t *testing.T) {
	tests := []struct {
		name  string
		order binary.ByteOrder
	}{
		{"little endian", binary.LittleEndian},
		{"big endian", binary.BigEndian},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := ReadPLY(bytes.NewReader(createTestPLY(t, tt.order, false, false)))
			if err != nil {
				t.Fatalf("ReadPLY failed: %v", err)
			}

			if len(mesh.Vertices) != 4 {
				t.Fatalf("Expected 4 vertices, got %d", len(mesh.Vertices))
			}
			if !mesh.Vertices[2].Equals(core.NewVec3(1, 1, 0)) {
				t.Errorf("Expected vertex 2 at (1,1,0), got %v", mesh.Vertices[2])
			}
			if len(mesh.Faces) != 2 {
				t.Fatalf("Expected 2 faces, got %d", len(mesh.Faces))
			}
			if mesh.Faces[1][0] != 0 || mesh.Faces[1][1] != 2 || mesh.Faces[1][2] != 3 {
				t.Errorf("Expected face [0 2 3], got %v", mesh.Faces[1])
			}
			if mesh.FaceUVs != nil {
				t.Errorf("Expected no UVs, got %v", mesh.FaceUVs)
			}
		})
	}
}

func TestReadPLY_SkipsNormals(t *testing.T) {
	mesh, err := ReadPLY(bytes.NewReader(createTestPLY(t, binary.LittleEndian, true, false)))
	if err != nil {
		t.Fatalf("ReadPLY failed: %v", err)
	}
	if !mesh.Vertices[3].Equals(core.NewVec3(0, 1, 0)) {
		t.Errorf("Expected vertex 3 at (0,1,0), got %v", mesh.Vertices[3])
	}
}

func TestReadPLY_VertexTexCoords(t *testing.T) {
	mesh, err := ReadPLY(bytes.NewReader(createTestPLY(t, binary.LittleEndian, true, true)))
	if err != nil {
		t.Fatalf("ReadPLY failed: %v", err)
	}
	if len(mesh.FaceUVs) != 2 {
		t.Fatalf("Expected UVs for 2 faces, got %d", len(mesh.FaceUVs))
	}
	// Face 1 is vertices 0, 2, 3
	want := []core.Vec2{core.NewVec2(0, 0), core.NewVec2(1, 1), core.NewVec2(0, 1)}
	for i, uv := range mesh.FaceUVs[1] {
		if uv != want[i] {
			t.Errorf("Corner %d: expected %v, got %v", i, want[i], uv)
		}
	}
}

func TestReadPLY_ASCII(t *testing.T) {
	data := `ply
format ascii 1.0
element vertex 4
property double x
property double y
property double z
element face 1
property list uchar int vertex_indices
property list uchar float texcoord
element edge 1
property int vertex1
property int vertex2
end_header
0 0 0
2 0 0
2 2 0
0 2 0
4 0 1 2 3 8 0 0 1 0 1 1 0 1
0 1
`
	mesh, err := ReadPLY(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadPLY failed: %v", err)
	}
	if len(mesh.Faces) != 1 || len(mesh.Faces[0]) != 4 {
		t.Fatalf("Expected a single quad, got %v", mesh.Faces)
	}
	if len(mesh.FaceUVs) != 1 || len(mesh.FaceUVs[0]) != 4 {
		t.Fatalf("Expected 4 face texcoords, got %v", mesh.FaceUVs)
	}
	if mesh.FaceUVs[0][2] != core.NewVec2(1, 1) {
		t.Errorf("Expected corner 2 UV (1,1), got %v", mesh.FaceUVs[0][2])
	}
	if !mesh.Vertices[2].Equals(core.NewVec3(2, 2, 0)) {
		t.Errorf("Expected vertex 2 at (2,2,0), got %v", mesh.Vertices[2])
	}
}

func TestReadPLY_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"missing magic", "format ascii 1.0\nend_header\n", ErrMalformedMesh},
		{"missing end_header", "ply\nformat ascii 1.0\nelement vertex 1\n", ErrMalformedMesh},
		{"unknown format", "ply\nformat binary_middle_endian 1.0\nelement vertex 0\nend_header\n", ErrUnsupportedFormat},
		{"no vertex element", "ply\nformat ascii 1.0\nelement face 0\nproperty list uchar int vertex_indices\nend_header\n", ErrMalformedMesh},
		{"truncated data", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\nend_header\n0 0 0\n1 1\n", ErrMalformedMesh},
		{"bad property type", "ply\nformat ascii 1.0\nelement vertex 1\nproperty quad x\nend_header\n", ErrMalformedMesh},
		{"degenerate face", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n2 0 1\n", ErrMalformedMesh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPLY(strings.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParsePLYHeader(t *testing.T) {
	data := createTestPLY(t, binary.LittleEndian, true, false)
	header, err := parsePLYHeader(bufio.NewReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("parsePLYHeader failed: %v", err)
	}
	if header.Format != PLYBinaryLittleEndian || header.Version != "1.0" {
		t.Errorf("Expected binary_little_endian 1.0, got %s %s", header.Format, header.Version)
	}
	if len(header.Elements) != 2 {
		t.Fatalf("Expected 2 elements, got %d", len(header.Elements))
	}
	if vertex := header.element("vertex"); vertex == nil || vertex.Count != 4 || len(vertex.Properties) != 6 {
		t.Errorf("Expected vertex element with 4 entries and 6 properties, got %+v", vertex)
	}
	if face := header.element("face"); face == nil || !face.Properties[0].IsList {
		t.Errorf("Expected face element with a list property, got %+v", face)
	}

	tests := []struct {
		parts    []string
		expected PLYProperty
		wantErr  bool
	}{
		{[]string{"property", "float", "x"}, PLYProperty{Name: "x", Type: "float"}, false},
		{[]string{"property", "list", "uchar", "int", "vertex_indices"}, PLYProperty{Name: "vertex_indices", IsList: true, ListType: "uchar", DataType: "int"}, false},
		{[]string{"property", "list", "uchar", "vertex_indices"}, PLYProperty{}, true},
		{[]string{"property", "half", "x"}, PLYProperty{}, true},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.parts, " "), func(t *testing.T) {
			prop, err := parsePLYProperty(tt.parts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if !tt.wantErr && prop != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, prop)
			}
		})
	}
}

func TestGetTypeSize(t *testing.T) {
	tests := []struct {
		dataType string
		expected int
	}{
		{"float", 4},
		{"float32", 4},
		{"double", 8},
		{"float64", 8},
		{"int", 4},
		{"int32", 4},
		{"uint", 4},
		{"uint32", 4},
		{"short", 2},
		{"int16", 2},
		{"ushort", 2},
		{"uint16", 2},
		{"char", 1},
		{"int8", 1},
		{"uchar", 1},
		{"uint8", 1},
		{"unknown", 0},
	}

	for _, tt := range tests {
		t.Run(tt.dataType, func(t *testing.T) {
			if result := getTypeSize(tt.dataType); result != tt.expected {
				t.Errorf("getTypeSize(%s) = %d, expected %d", tt.dataType, result, tt.expected)
			}
		})
	}
}
