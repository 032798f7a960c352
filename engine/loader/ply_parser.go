package loader

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-framework/engine/model"
)

// plyFormat identifies the body encoding declared in a PLY header.
type plyFormat int

const (
	plyFormatASCII plyFormat = iota
	plyFormatBinaryLE
	plyFormatBinaryBE
)

// plyScalar is a PLY property data type.
type plyScalar int

const (
	plyInvalid plyScalar = iota
	plyInt8
	plyUint8
	plyInt16
	plyUint16
	plyInt32
	plyUint32
	plyFloat32
	plyFloat64
)

// plyScalarNames maps both the classic and the sized PLY type names.
var plyScalarNames = map[string]plyScalar{
	"char": plyInt8, "int8": plyInt8,
	"uchar": plyUint8, "uint8": plyUint8,
	"short": plyInt16, "int16": plyInt16,
	"ushort": plyUint16, "uint16": plyUint16,
	"int": plyInt32, "int32": plyInt32,
	"uint": plyUint32, "uint32": plyUint32,
	"float": plyFloat32, "float32": plyFloat32,
	"double": plyFloat64, "float64": plyFloat64,
}

func (s plyScalar) size() int {
	switch s {
	case plyInt8, plyUint8:
		return 1
	case plyInt16, plyUint16:
		return 2
	case plyInt32, plyUint32, plyFloat32:
		return 4
	case plyFloat64:
		return 8
	default:
		return 0
	}
}

// plyProperty is one property of an element. List properties carry a count type.
type plyProperty struct {
	name      string
	scalar    plyScalar
	isList    bool
	countType plyScalar
}

// plyElement is a header element declaration.
type plyElement struct {
	name       string
	count      int
	properties []plyProperty
}

func (e *plyElement) index(names ...string) int {
	for i, p := range e.properties {
		for _, n := range names {
			if p.name == n {
				return i
			}
		}
	}
	return -1
}

// plyHeader is the decoded header of a PLY file.
type plyHeader struct {
	format   plyFormat
	elements []plyElement
}

// parsePLYHeader reads header lines up to and including end_header.
func parsePLYHeader(r *bufio.Reader) (*plyHeader, error) {
	line, err := r.ReadString('\n')
	if err != nil || strings.TrimSpace(line) != "ply" {
		return nil, malformed("missing ply magic")
	}

	h := &plyHeader{format: -1}
	for {
		line, err = r.ReadString('\n')
		if err != nil {
			return nil, malformed("unterminated header")
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "comment", "obj_info":
		case "format":
			if len(fields) < 2 {
				return nil, malformed("format line %q", strings.TrimSpace(line))
			}
			switch fields[1] {
			case "ascii":
				h.format = plyFormatASCII
			case "binary_little_endian":
				h.format = plyFormatBinaryLE
			case "binary_big_endian":
				h.format = plyFormatBinaryBE
			default:
				return nil, fmt.Errorf("%w: ply format %q", ErrUnsupportedFormat, fields[1])
			}
		case "element":
			if len(fields) != 3 {
				return nil, malformed("element line %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, malformed("element count %q", fields[2])
			}
			h.elements = append(h.elements, plyElement{name: fields[1], count: count})
		case "property":
			if len(h.elements) == 0 {
				return nil, malformed("property before any element")
			}
			prop, err := parsePLYProperty(fields[1:])
			if err != nil {
				return nil, err
			}
			el := &h.elements[len(h.elements)-1]
			el.properties = append(el.properties, prop)
		case "end_header":
			if h.format < 0 {
				return nil, malformed("header has no format line")
			}
			return h, nil
		default:
			return nil, malformed("unknown header keyword %q", fields[0])
		}
	}
}

func parsePLYProperty(fields []string) (plyProperty, error) {
	if len(fields) == 4 && fields[0] == "list" {
		count, item := plyScalarNames[fields[1]], plyScalarNames[fields[2]]
		if count == plyInvalid || item == plyInvalid {
			return plyProperty{}, malformed("list property types %q %q", fields[1], fields[2])
		}
		return plyProperty{name: fields[3], scalar: item, isList: true, countType: count}, nil
	}
	if len(fields) == 2 {
		s := plyScalarNames[fields[0]]
		if s == plyInvalid {
			return plyProperty{}, malformed("property type %q", fields[0])
		}
		return plyProperty{name: fields[1], scalar: s}, nil
	}
	return plyProperty{}, malformed("property line %q", strings.Join(fields, " "))
}

// plyValueReader yields successive body values regardless of encoding.
type plyValueReader interface {
	next(s plyScalar) (float64, error)
}

type plyASCIIReader struct {
	r *bufio.Reader
}

func (a *plyASCIIReader) next(plyScalar) (float64, error) {
	var sb strings.Builder
	for {
		b, err := a.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				break
			}
			return 0, err
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			if sb.Len() > 0 {
				break
			}
			continue
		}
		sb.WriteByte(b)
	}
	return strconv.ParseFloat(sb.String(), 64)
}

type plyBinaryReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *plyBinaryReader) next(s plyScalar) (float64, error) {
	n := s.size()
	if _, err := io.ReadFull(b.r, b.buf[:n]); err != nil {
		return 0, err
	}
	raw := b.buf[:n]
	switch s {
	case plyInt8:
		return float64(int8(raw[0])), nil
	case plyUint8:
		return float64(raw[0]), nil
	case plyInt16:
		return float64(int16(b.order.Uint16(raw))), nil
	case plyUint16:
		return float64(b.order.Uint16(raw)), nil
	case plyInt32:
		return float64(int32(b.order.Uint32(raw))), nil
	case plyUint32:
		return float64(b.order.Uint32(raw)), nil
	case plyFloat32:
		return float64(math.Float32frombits(b.order.Uint32(raw))), nil
	default:
		return math.Float64frombits(b.order.Uint64(raw)), nil
	}
}

// parsePLY decodes a PLY stream into a triangle mesh. Polygons are fan-triangulated.
// The second return reports whether the file supplied vertex normals.
func parsePLY(name string, src io.Reader) (*model.MeshData, bool, error) {
	br := bufio.NewReader(src)
	h, err := parsePLYHeader(br)
	if err != nil {
		return nil, false, err
	}

	var values plyValueReader
	switch h.format {
	case plyFormatASCII:
		values = &plyASCIIReader{r: br}
	case plyFormatBinaryLE:
		values = &plyBinaryReader{r: br, order: binary.LittleEndian}
	default:
		values = &plyBinaryReader{r: br, order: binary.BigEndian}
	}

	mesh := &model.MeshData{Name: name}
	hasNormals := false
	for ei := range h.elements {
		el := &h.elements[ei]
		switch el.name {
		case "vertex":
			hasNormals, err = readPLYVertices(values, el, mesh)
		case "face":
			err = readPLYFaces(values, el, mesh)
		default:
			err = skipPLYElement(values, el)
		}
		if err != nil {
			return nil, false, fmt.Errorf("%w: element %s: %v", ErrMalformed, el.name, err)
		}
	}

	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil, false, malformed("ply has no triangles")
	}
	for _, idx := range mesh.Indices {
		if int(idx) >= len(mesh.Vertices) {
			return nil, false, malformed("face index %d out of range for %d vertices", idx, len(mesh.Vertices))
		}
	}
	return mesh, hasNormals, nil
}

func readPLYVertices(values plyValueReader, el *plyElement, mesh *model.MeshData) (bool, error) {
	x, y, z := el.index("x"), el.index("y"), el.index("z")
	if x < 0 || y < 0 || z < 0 {
		return false, errors.New("vertex element lacks x, y or z")
	}
	nx, ny, nz := el.index("nx"), el.index("ny"), el.index("nz")
	hasNormals := nx >= 0 && ny >= 0 && nz >= 0
	u, v := el.index("u", "s", "texture_u"), el.index("v", "t", "texture_v")

	row := make([]float64, len(el.properties))
	mesh.Vertices = make([]model.Vertex, 0, el.count)
	for i := 0; i < el.count; i++ {
		for pi, prop := range el.properties {
			if prop.isList {
				if err := skipPLYList(values, prop); err != nil {
					return false, err
				}
				continue
			}
			val, err := values.next(prop.scalar)
			if err != nil {
				return false, fmt.Errorf("vertex %d: %w", i, err)
			}
			row[pi] = val
		}
		vert := model.Vertex{Position: [3]float32{float32(row[x]), float32(row[y]), float32(row[z])}}
		if hasNormals {
			vert.Normal = [3]float32{float32(row[nx]), float32(row[ny]), float32(row[nz])}
		}
		if u >= 0 && v >= 0 {
			vert.TexCoord = [2]float32{float32(row[u]), float32(row[v])}
		}
		mesh.Vertices = append(mesh.Vertices, vert)
	}
	return hasNormals, nil
}

func readPLYFaces(values plyValueReader, el *plyElement, mesh *model.MeshData) error {
	listIdx := el.index("vertex_indices", "vertex_index")
	if listIdx < 0 || !el.properties[listIdx].isList {
		return errors.New("face element lacks a vertex_indices list")
	}
	polygon := make([]uint32, 0, 4)
	for i := 0; i < el.count; i++ {
		for pi, prop := range el.properties {
			if pi != listIdx {
				if err := skipPLYProperty(values, prop); err != nil {
					return err
				}
				continue
			}
			count, err := values.next(prop.countType)
			if err != nil {
				return fmt.Errorf("face %d: %w", i, err)
			}
			polygon = polygon[:0]
			for k := 0; k < int(count); k++ {
				idx, err := values.next(prop.scalar)
				if err != nil {
					return fmt.Errorf("face %d: %w", i, err)
				}
				if idx < 0 {
					return fmt.Errorf("face %d: negative index", i)
				}
				polygon = append(polygon, uint32(idx))
			}
			for k := 1; k+1 < len(polygon); k++ {
				mesh.Indices = append(mesh.Indices, polygon[0], polygon[k], polygon[k+1])
			}
		}
	}
	return nil
}

func skipPLYElement(values plyValueReader, el *plyElement) error {
	for i := 0; i < el.count; i++ {
		for _, prop := range el.properties {
			if err := skipPLYProperty(values, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipPLYProperty(values plyValueReader, prop plyProperty) error {
	if prop.isList {
		return skipPLYList(values, prop)
	}
	_, err := values.next(prop.scalar)
	return err
}

func skipPLYList(values plyValueReader, prop plyProperty) error {
	count, err := values.next(prop.countType)
	if err != nil {
		return err
	}
	for k := 0; k < int(count); k++ {
		if _, err := values.next(prop.scalar); err != nil {
			return err
		}
	}
	return nil
}
