package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-framework/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser
}

// gltfMeshExtractor flattens the triangle primitives of a parsed document into one mesh.
type gltfMeshExtractor interface {
	// ExtractMerged walks the default scene (or every mesh when the document has no scenes),
	// bakes node transforms into the vertices and concatenates all triangle primitives.
	//
	// Parameters:
	//   - name: the name given to the merged mesh
	//
	// Returns:
	//   - *model.MeshData: the merged mesh
	//   - error: error if any primitive cannot be read or no triangles were found
	ExtractMerged(name string) (*model.MeshData, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser}
}

func (e *gltfMeshExtractorImpl) ExtractMerged(name string) (*model.MeshData, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, malformed("no document loaded")
	}

	out := &model.MeshData{Name: name}
	if len(doc.Scenes) == 0 {
		for i := range doc.Meshes {
			if err := e.appendMesh(out, i, mgl32.Ident4()); err != nil {
				return nil, err
			}
		}
	} else {
		sceneIdx := 0
		if doc.Scene != nil {
			sceneIdx = *doc.Scene
		}
		if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
			return nil, malformed("default scene %d out of range", sceneIdx)
		}
		for _, root := range doc.Scenes[sceneIdx].Nodes {
			if err := e.appendNode(out, root, mgl32.Ident4(), 0); err != nil {
				return nil, err
			}
		}
	}

	if len(out.Indices) < 3 {
		return nil, malformed("no triangle geometry")
	}
	return out, nil
}

// appendNode recursively bakes a node subtree into out.
func (e *gltfMeshExtractorImpl) appendNode(out *model.MeshData, nodeIdx int, parent mgl32.Mat4, depth int) error {
	doc := e.parser.Document()
	if nodeIdx < 0 || nodeIdx >= len(doc.Nodes) {
		return malformed("node %d out of range", nodeIdx)
	}
	if depth > len(doc.Nodes) {
		return malformed("node hierarchy contains a cycle")
	}
	node := &doc.Nodes[nodeIdx]
	world := parent.Mul4(gltfNodeTransform(node))

	if node.Mesh != nil {
		if err := e.appendMesh(out, *node.Mesh, world); err != nil {
			return err
		}
	}
	for _, child := range node.Children {
		if err := e.appendNode(out, child, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// appendMesh appends every triangle primitive of a mesh transformed by world.
func (e *gltfMeshExtractorImpl) appendMesh(out *model.MeshData, meshIdx int, world mgl32.Mat4) error {
	doc := e.parser.Document()
	if meshIdx < 0 || meshIdx >= len(doc.Meshes) {
		return malformed("mesh %d out of range", meshIdx)
	}
	normalMat := world.Mat3().Inv().Transpose()
	for primIdx := range doc.Meshes[meshIdx].Primitives {
		vertices, indices, err := e.extractPrimitive(&doc.Meshes[meshIdx].Primitives[primIdx])
		if err != nil {
			return fmt.Errorf("mesh %d primitive %d: %w", meshIdx, primIdx, err)
		}
		base := uint32(len(out.Vertices))
		for _, v := range vertices {
			p := world.Mul4x1(mgl32.Vec3(v.Position).Vec4(1)).Vec3()
			n := normalMat.Mul3x1(mgl32.Vec3(v.Normal)).Normalize()
			t := world.Mat3().Mul3x1(mgl32.Vec3(v.Tangent)).Normalize()
			v.Position, v.Normal, v.Tangent = p, n, t
			out.Vertices = append(out.Vertices, v)
		}
		for _, idx := range indices {
			out.Indices = append(out.Indices, idx+base)
		}
	}
	return nil
}

// extractPrimitive reads one triangle primitive, generating missing normals and tangents.
func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive) ([]model.Vertex, []uint32, error) {
	if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
		return nil, nil, fmt.Errorf("%w: primitive mode %d (only triangles supported)", ErrUnsupportedFormat, *prim.Mode)
	}

	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, nil, malformed("primitive has no POSITION attribute")
	}
	positions, err := e.parser.ReadFloats(posAccessor, gltfAccessorTypeVec3)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read positions: %w", err)
	}

	vertexCount := len(positions) / 3
	vertices := make([]model.Vertex, vertexCount)
	for i := range vertices {
		copy(vertices[i].Position[:], positions[3*i:3*i+3])
	}

	hasNormals := false
	if acc, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := e.parser.ReadFloats(acc, gltfAccessorTypeVec3)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read normals: %w", err)
		}
		for i := 0; i < vertexCount && 3*i+3 <= len(normals); i++ {
			copy(vertices[i].Normal[:], normals[3*i:3*i+3])
		}
		hasNormals = true
	}

	if acc, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := e.parser.ReadFloats(acc, gltfAccessorTypeVec2)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read texcoords: %w", err)
		}
		for i := 0; i < vertexCount && 2*i+2 <= len(uvs); i++ {
			copy(vertices[i].TexCoord[:], uvs[2*i:2*i+2])
		}
	}

	// TANGENT is VEC4; w carries handedness and is dropped.
	hasTangents := false
	if acc, ok := prim.Attributes["TANGENT"]; ok {
		tangents, err := e.parser.ReadFloats(acc, gltfAccessorTypeVec4)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read tangents: %w", err)
		}
		for i := 0; i < vertexCount && 4*i+4 <= len(tangents); i++ {
			copy(vertices[i].Tangent[:], tangents[4*i:4*i+3])
		}
		hasTangents = true
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = e.parser.ReadIndices(*prim.Indices)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		indices = make([]uint32, vertexCount)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, nil, malformed("index count %d is not a multiple of 3", len(indices))
	}
	for _, idx := range indices {
		if int(idx) >= vertexCount {
			return nil, nil, malformed("index %d out of range for %d vertices", idx, vertexCount)
		}
	}

	// Normals first: tangents are orthogonalized against them.
	if !hasNormals {
		generateNormals(vertices, indices)
	}
	if !hasTangents {
		generateTangents(vertices, indices)
	}
	return vertices, indices, nil
}

// gltfNodeTransform returns the local transform of a node: Matrix if present, otherwise T*R*S.
func gltfNodeTransform(node *gltfNode) mgl32.Mat4 {
	if node.Matrix != nil {
		return mgl32.Mat4(*node.Matrix)
	}
	m := mgl32.Ident4()
	if node.Translation != nil {
		t := node.Translation
		m = m.Mul4(mgl32.Translate3D(t[0], t[1], t[2]))
	}
	if node.Rotation != nil {
		r := node.Rotation
		m = m.Mul4(mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize().Mat4())
	}
	if node.Scale != nil {
		s := node.Scale
		m = m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	}
	return m
}

// generateNormals computes smooth area-weighted vertex normals from the triangle geometry.
// Vertices touched by no triangle get +z.
func generateNormals(vertices []model.Vertex, indices []uint32) {
	accum := make([]mgl32.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0 := mgl32.Vec3(vertices[i0].Position)
		face := mgl32.Vec3(vertices[i1].Position).Sub(p0).Cross(mgl32.Vec3(vertices[i2].Position).Sub(p0))
		accum[i0] = accum[i0].Add(face)
		accum[i1] = accum[i1].Add(face)
		accum[i2] = accum[i2].Add(face)
	}
	for i := range vertices {
		if accum[i].Len() < 1e-12 {
			vertices[i].Normal = [3]float32{0, 0, 1}
			continue
		}
		vertices[i].Normal = accum[i].Normalize()
	}
}

// generateTangents derives per-vertex tangents from texture coordinate gradients and
// orthonormalizes them against the vertex normal. Vertices without usable gradients get
// any unit vector perpendicular to the normal.
func generateTangents(vertices []model.Vertex, indices []uint32) {
	accum := make([]mgl32.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0 := mgl32.Vec3(vertices[i0].Position)
		e1 := mgl32.Vec3(vertices[i1].Position).Sub(p0)
		e2 := mgl32.Vec3(vertices[i2].Position).Sub(p0)
		uv0 := mgl32.Vec2(vertices[i0].TexCoord)
		d1 := mgl32.Vec2(vertices[i1].TexCoord).Sub(uv0)
		d2 := mgl32.Vec2(vertices[i2].TexCoord).Sub(uv0)

		det := d1[0]*d2[1] - d1[1]*d2[0]
		if det == 0 {
			continue
		}
		t := e1.Mul(d2[1]).Sub(e2.Mul(d1[1])).Mul(1 / det)
		accum[i0] = accum[i0].Add(t)
		accum[i1] = accum[i1].Add(t)
		accum[i2] = accum[i2].Add(t)
	}

	for i := range vertices {
		n := mgl32.Vec3(vertices[i].Normal)
		t := accum[i].Sub(n.Mul(n.Dot(accum[i])))
		if t.Len() < 1e-6 {
			t = perpendicular(n)
		}
		vertices[i].Tangent = t.Normalize()
	}
}

// perpendicular returns a vector orthogonal to n, built against the axis n is least aligned with.
func perpendicular(n mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	if abs(n[0]) > 0.9 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	return axis.Sub(n.Mul(n.Dot(axis)))
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
