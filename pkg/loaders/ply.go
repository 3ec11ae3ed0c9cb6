package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

// PLY encodings accepted in the format line
const (
	PLYASCII              = "ascii"
	PLYBinaryLittleEndian = "binary_little_endian"
	PLYBinaryBigEndian    = "binary_big_endian"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string
	Version  string
	Elements []PLYElement
}

// PLYElement is one element block declared in the header, in file order
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// element returns the named element, or nil
func (h *PLYHeader) element(name string) *PLYElement {
	for i := range h.Elements {
		if h.Elements[i].Name == name {
			return &h.Elements[i]
		}
	}
	return nil
}

// ReadPLY parses an ASCII or binary PLY mesh. Vertex positions come from
// x/y/z; per-vertex u/v (or s/t, texture_u/texture_v) and per-face texcoord
// lists are turned into face UVs. Elements other than vertex and face are skipped.
func ReadPLY(r io.Reader) (scene.MeshInput, error) {
	reader := bufio.NewReader(r)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return scene.MeshInput{}, err
	}

	var values plyValueReader
	switch header.Format {
	case PLYASCII:
		values = &plyASCIIReader{scanner: newWordScanner(reader)}
	case PLYBinaryLittleEndian:
		values = &plyBinaryReader{reader: reader, order: binary.LittleEndian}
	case PLYBinaryBigEndian:
		values = &plyBinaryReader{reader: reader, order: binary.BigEndian}
	default:
		return scene.MeshInput{}, fmt.Errorf("ply format %q: %w", header.Format, ErrUnsupportedFormat)
	}

	if header.element("vertex") == nil {
		return scene.MeshInput{}, malformed("ply", 0, "no vertex element")
	}

	var mesh scene.MeshInput
	var vertexUVs []core.Vec2
	var faceUVs [][]core.Vec2
	hasVertexUVs, hasFaceUVs := false, false

	for _, elem := range header.Elements {
		switch elem.Name {
		case "vertex":
			mesh.Vertices = make([]core.Vec3, elem.Count)
			vertexUVs = make([]core.Vec2, elem.Count)
			for i := 0; i < elem.Count; i++ {
				var pos [3]float64
				var uv [2]float64
				for _, prop := range elem.Properties {
					if prop.IsList {
						if _, err := values.list(prop); err != nil {
							return scene.MeshInput{}, plyReadError(elem.Name, i, err)
						}
						continue
					}
					v, err := values.scalar(prop.Type)
					if err != nil {
						return scene.MeshInput{}, plyReadError(elem.Name, i, err)
					}
					switch prop.Name {
					case "x":
						pos[0] = v
					case "y":
						pos[1] = v
					case "z":
						pos[2] = v
					case "u", "s", "texture_u":
						uv[0] = v
						hasVertexUVs = true
					case "v", "t", "texture_v":
						uv[1] = v
						hasVertexUVs = true
					}
				}
				mesh.Vertices[i] = core.NewVec3(pos[0], pos[1], pos[2])
				vertexUVs[i] = core.NewVec2(uv[0], uv[1])
			}

		case "face":
			mesh.Faces = make([][]int, 0, elem.Count)
			faceUVs = make([][]core.Vec2, 0, elem.Count)
			for i := 0; i < elem.Count; i++ {
				var face []int
				var uvs []core.Vec2
				for _, prop := range elem.Properties {
					if !prop.IsList {
						if _, err := values.scalar(prop.Type); err != nil {
							return scene.MeshInput{}, plyReadError(elem.Name, i, err)
						}
						continue
					}
					list, err := values.list(prop)
					if err != nil {
						return scene.MeshInput{}, plyReadError(elem.Name, i, err)
					}
					switch prop.Name {
					case "vertex_indices", "vertex_index":
						face = make([]int, len(list))
						for k, idx := range list {
							face[k] = int(idx)
						}
					case "texcoord":
						hasFaceUVs = true
						for k := 0; k+1 < len(list); k += 2 {
							uvs = append(uvs, core.NewVec2(list[k], list[k+1]))
						}
					}
				}
				if len(face) < 3 {
					return scene.MeshInput{}, malformed("ply", 0, "face %d has %d vertices", i, len(face))
				}
				mesh.Faces = append(mesh.Faces, face)
				faceUVs = append(faceUVs, uvs)
			}

		default:
			for i := 0; i < elem.Count; i++ {
				for _, prop := range elem.Properties {
					var err error
					if prop.IsList {
						_, err = values.list(prop)
					} else {
						_, err = values.scalar(prop.Type)
					}
					if err != nil {
						return scene.MeshInput{}, plyReadError(elem.Name, i, err)
					}
				}
			}
		}
	}

	switch {
	case hasFaceUVs:
		mesh.FaceUVs = faceUVs
	case hasVertexUVs:
		mesh.FaceUVs = make([][]core.Vec2, len(mesh.Faces))
		for f, face := range mesh.Faces {
			uvs := make([]core.Vec2, len(face))
			for k, idx := range face {
				if idx >= 0 && idx < len(vertexUVs) {
					uvs[k] = vertexUVs[idx]
				}
			}
			mesh.FaceUVs[f] = uvs
		}
	}

	return mesh, nil
}

func plyReadError(element string, index int, err error) error {
	return fmt.Errorf("ply %s %d: %v: %w", element, index, err, ErrMalformedMesh)
}

// parsePLYHeader reads header lines up to and including end_header, leaving
// the reader positioned at the first data byte
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	var current *PLYElement

	for lineNum := 1; ; lineNum++ {
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, malformed("ply", lineNum, "header ended before end_header")
		}
		line = strings.TrimSpace(line)

		if lineNum == 1 {
			if line != "ply" {
				return nil, malformed("ply", lineNum, "missing ply magic")
			}
			continue
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, malformed("ply", lineNum, "invalid format line")
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
		case "element":
			if len(parts) < 3 {
				return nil, malformed("ply", lineNum, "invalid element line")
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, malformed("ply", lineNum, "invalid element count %q", parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
			current = &header.Elements[len(header.Elements)-1]
		case "property":
			if current == nil {
				return nil, malformed("ply", lineNum, "property outside element")
			}
			prop, err := parsePLYProperty(parts)
			if err != nil {
				return nil, malformed("ply", lineNum, "%v", err)
			}
			current.Properties = append(current.Properties, prop)
		default:
			return nil, malformed("ply", lineNum, "unknown header keyword %q", parts[0])
		}
	}

	if header.Format == "" {
		return nil, malformed("ply", 0, "missing format line")
	}
	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) >= 5 && parts[1] == "list" {
		prop := PLYProperty{
			Name:     parts[4],
			IsList:   true,
			ListType: parts[2],
			DataType: parts[3],
		}
		if getTypeSize(prop.ListType) == 0 || getTypeSize(prop.DataType) == 0 {
			return PLYProperty{}, fmt.Errorf("unsupported list types %s %s", prop.ListType, prop.DataType)
		}
		return prop, nil
	}
	if len(parts) >= 3 && parts[1] != "list" {
		if getTypeSize(parts[1]) == 0 {
			return PLYProperty{}, fmt.Errorf("unsupported data type %s", parts[1])
		}
		return PLYProperty{Name: parts[2], Type: parts[1]}, nil
	}
	return PLYProperty{}, fmt.Errorf("invalid property line")
}

// getTypeSize returns the size in bytes of a PLY scalar type, or 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

// plyValueReader reads property values in either encoding
type plyValueReader interface {
	scalar(dataType string) (float64, error)
	list(prop PLYProperty) ([]float64, error)
}

type plyBinaryReader struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *plyBinaryReader) scalar(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	data := b.buf[:size]
	if _, err := io.ReadFull(b.reader, data); err != nil {
		return 0, err
	}

	switch dataType {
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(data))), nil
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(data)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(data)), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(data)), nil
	case "char", "int8":
		return float64(int8(data[0])), nil
	default:
		return float64(data[0]), nil
	}
}

func (b *plyBinaryReader) list(prop PLYProperty) ([]float64, error) {
	return readPLYList(b, prop)
}

type plyASCIIReader struct {
	scanner *bufio.Scanner
}

func (a *plyASCIIReader) scalar(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(a.scanner.Text(), 64)
}

func (a *plyASCIIReader) list(prop PLYProperty) ([]float64, error) {
	return readPLYList(a, prop)
}

func readPLYList(values plyValueReader, prop PLYProperty) ([]float64, error) {
	n, err := values.scalar(prop.ListType)
	if err != nil {
		return nil, err
	}
	if n < 0 || n != math.Trunc(n) {
		return nil, fmt.Errorf("invalid list length %v", n)
	}

	list := make([]float64, int(n))
	for i := range list {
		if list[i], err = values.scalar(prop.DataType); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func newWordScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	return scanner
}
