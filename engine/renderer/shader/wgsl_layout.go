package shader

import (
	"strconv"
	"strings"
)

// wgslTypeLayout holds the byte size and alignment of a WGSL type.
type wgslTypeLayout struct {
	size  uint64
	align uint64

	// fields is set for structs only.
	fields []UniformField
}

// wgslPrimitiveLayoutMap lists host-shareable scalar, vector and matrix layouts.
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslPrimitiveLayoutMap = map[string]wgslTypeLayout{
	"f32":  {size: 4, align: 4},
	"i32":  {size: 4, align: 4},
	"u32":  {size: 4, align: 4},
	"bool": {size: 4, align: 4},

	"vec2<f32>": {size: 8, align: 8},
	"vec2f":     {size: 8, align: 8},
	"vec3<f32>": {size: 12, align: 16},
	"vec3f":     {size: 12, align: 16},
	"vec4<f32>": {size: 16, align: 16},
	"vec4f":     {size: 16, align: 16},
	"vec2<i32>": {size: 8, align: 8},
	"vec2i":     {size: 8, align: 8},
	"vec3<i32>": {size: 12, align: 16},
	"vec3i":     {size: 12, align: 16},
	"vec4<i32>": {size: 16, align: 16},
	"vec4i":     {size: 16, align: 16},
	"vec2<u32>": {size: 8, align: 8},
	"vec2u":     {size: 8, align: 8},
	"vec3<u32>": {size: 12, align: 16},
	"vec3u":     {size: 12, align: 16},
	"vec4<u32>": {size: 16, align: 16},
	"vec4u":     {size: 16, align: 16},

	"mat3x3<f32>": {size: 48, align: 16},
	"mat3x3f":     {size: 48, align: 16},
	"mat4x4<f32>": {size: 64, align: 16},
	"mat4x4f":     {size: 64, align: 16},
}

// UniformField is one member of a uniform block.
type UniformField struct {
	// Name is the member name.
	Name string

	// Type is the WGSL type name.
	Type string

	// Offset is the byte offset of the member inside the block.
	Offset uint64

	// Size is the byte size of the member.
	Size uint64
}

// UniformLayout is the host-side layout of the struct bound as a uniform buffer.
type UniformLayout struct {
	// Group and Binding locate the block.
	Group, Binding int

	// VarName is the declared variable name.
	VarName string

	// TypeName is the struct type name.
	TypeName string

	// Size is the struct size rounded up to its alignment.
	Size uint64

	// Fields lists the members in declaration order.
	Fields []UniformField
}

// Field looks up a member by name.
//
// Parameters:
//   - name: the member name
//
// Returns:
//   - UniformField: the member
//   - bool: false if the block has no such member
func (u *UniformLayout) Field(name string) (UniformField, bool) {
	for _, f := range u.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return UniformField{}, false
}

// roundUpAlign rounds value up to the next multiple of a power-of-two alignment.
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// resolveTypeLayout resolves primitives, known structs and fixed-size arrays.
func resolveTypeLayout(typeName string, known map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	if layout, ok := wgslPrimitiveLayoutMap[typeName]; ok {
		return layout, true
	}
	if layout, ok := known[typeName]; ok {
		return layout, true
	}
	if strings.HasPrefix(typeName, "array<") && strings.HasSuffix(typeName, ">") {
		elemType, countStr, ok := strings.Cut(typeName[len("array<"):len(typeName)-1], ",")
		if !ok {
			return wgslTypeLayout{}, false
		}
		elem, ok := resolveTypeLayout(strings.TrimSpace(elemType), known)
		if !ok {
			return wgslTypeLayout{}, false
		}
		count, err := strconv.ParseUint(strings.TrimSpace(countStr), 10, 64)
		if err != nil {
			return wgslTypeLayout{}, false
		}
		stride := roundUpAlign(elem.align, elem.size)
		return wgslTypeLayout{size: count * stride, align: elem.align}, true
	}
	return wgslTypeLayout{}, false
}

// structLayout places each non-builtin field at its next aligned offset and rounds the total
// size up to the largest member alignment.
func structLayout(ps parsedStruct, known map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	offset := uint64(0)
	maxAlign := uint64(1)
	fields := make([]UniformField, 0, len(ps.fields))

	for _, f := range ps.fields {
		if f.isBuiltin {
			continue
		}
		fl, ok := resolveTypeLayout(f.typeName, known)
		if !ok {
			return wgslTypeLayout{}, false
		}
		offset = roundUpAlign(fl.align, offset)
		fields = append(fields, UniformField{Name: f.name, Type: f.typeName, Offset: offset, Size: fl.size})
		offset += fl.size
		maxAlign = max(maxAlign, fl.align)
	}
	return wgslTypeLayout{size: roundUpAlign(maxAlign, offset), align: maxAlign, fields: fields}, true
}

// computeStructLayouts resolves struct layouts iteratively so structs may nest in any order.
func computeStructLayouts(structs []parsedStruct) map[string]wgslTypeLayout {
	resolved := make(map[string]wgslTypeLayout, len(structs))
	remaining := append([]parsedStruct(nil), structs...)
	for len(remaining) > 0 {
		progress := false
		next := remaining[:0]
		for _, ps := range remaining {
			if layout, ok := structLayout(ps, resolved); ok {
				resolved[ps.name] = layout
				progress = true
			} else {
				next = append(next, ps)
			}
		}
		remaining = next
		if !progress {
			break
		}
	}
	return resolved
}

// parseUniformLayout returns the layout of the uniform struct declared at group/binding,
// or nil when none is declared there.
func parseUniformLayout(source string, group, binding int) *UniformLayout {
	cleaned := stripComments(source)
	layouts := computeStructLayouts(parseStructBlocks(cleaned))

	for _, match := range bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		g, _ := strconv.Atoi(match[1])
		b, _ := strconv.Atoi(match[2])
		if g != group || b != binding || strings.TrimSpace(match[3]) != "uniform" {
			continue
		}
		typeName := strings.TrimSpace(match[5])
		layout, ok := layouts[typeName]
		if !ok {
			return nil
		}
		return &UniformLayout{
			Group:    group,
			Binding:  binding,
			VarName:  strings.TrimSpace(match[4]),
			TypeName: typeName,
			Size:     layout.size,
			Fields:   layout.fields,
		}
	}
	return nil
}
