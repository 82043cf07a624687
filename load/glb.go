// Copyright © 2024 Galvanized Logic Inc.

package load

// glb.go loads mesh geometry out of a binary glTF model: positions,
// normals (flat-shaded per-face if the asset carries none), and
// indices, flattened into the scene package's object-space Triangle
// list. Materials/textures are a non-goal (see SPEC_FULL.md) - only
// geometry is extracted.

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/scene"
)

// LoadGLTF opens a .glb/.gltf file and flattens every mesh primitive
// reachable from the document's default scene into a single object-space
// triangle list, positioned by each node's TRS transform. This mirrors
// what Glb used to do for the teacher's renderer - decode with the same
// kind of accessor/bufferView walk - but targets scene.Triangle instead
// of the teacher's interleaved vertex-buffer format, and drops the PBR
// material/texture extraction entirely (texture mapping is out of scope
// here).
func LoadGLTF(path string) ([]scene.Triangle, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load: gltf open %q: %w", path, err)
	}

	var roots []uint32
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		roots = doc.Scenes[*doc.Scene].Nodes
	} else {
		roots = allNodeIndices(doc)
	}

	var tris []scene.Triangle
	identity := lin.M3{}
	identity.SetQ(&lin.Q{W: 1})
	for _, idx := range roots {
		var err error
		tris, err = walkNode(doc, idx, &identity, lin.V3{}, tris)
		if err != nil {
			return nil, err
		}
	}
	return tris, nil
}

func allNodeIndices(doc *gltf.Document) []uint32 {
	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			hasParent[c] = true
		}
	}
	var out []uint32
	for i := range doc.Nodes {
		if !hasParent[i] {
			out = append(out, uint32(i))
		}
	}
	return out
}

// walkNode recursively flattens node nodeIdx and its children into tris,
// composing each node's translation+rotation+scale (linear, translate)
// with its parent's.
func walkNode(doc *gltf.Document, nodeIdx uint32, parentLinear *lin.M3, parentTranslate lin.V3, tris []scene.Triangle) ([]scene.Triangle, error) {
	n := doc.Nodes[nodeIdx]

	local := nodeLinear(n)
	var linear lin.M3
	linear.Mult(parentLinear, &local)

	t := n.TranslationOrDefault()
	localTranslate := lin.V3{X: float64(t[0]), Y: float64(t[1]), Z: float64(t[2])}
	var rotatedTranslate lin.V3
	rotatedTranslate.MultMv(parentLinear, &localTranslate)
	translate := lin.V3{
		X: parentTranslate.X + rotatedTranslate.X,
		Y: parentTranslate.Y + rotatedTranslate.Y,
		Z: parentTranslate.Z + rotatedTranslate.Z,
	}

	if n.Mesh != nil {
		var err error
		tris, err = appendMesh(doc, doc.Meshes[*n.Mesh], &linear, translate, tris)
		if err != nil {
			return nil, err
		}
	}

	for _, child := range n.Children {
		var err error
		tris, err = walkNode(doc, child, &linear, translate, tris)
		if err != nil {
			return nil, err
		}
	}
	return tris, nil
}

// nodeLinear builds a node's rotation*scale linear part from its TRS
// fields (glTF nodes are always TRS or a raw matrix; only TRS is
// supported here, matching what Blender exports).
func nodeLinear(n *gltf.Node) lin.M3 {
	r := n.RotationOrDefault()
	q := lin.Q{X: float64(r[0]), Y: float64(r[1]), Z: float64(r[2]), W: float64(r[3])}
	var rot lin.M3
	rot.SetQ(&q)

	s := n.ScaleOrDefault()
	scale := *lin.NewM3I()
	scale.ScaleS(float64(s[0]), float64(s[1]), float64(s[2]))

	var out lin.M3
	out.Mult(&rot, &scale)
	return out
}

// appendMesh flattens every primitive of a gltf.Mesh into world-ish
// space (relative to LoadGLTF's caller, who treats the whole result as
// one MESH geom's object space), appending to tris.
func appendMesh(doc *gltf.Document, m *gltf.Mesh, linear *lin.M3, translate lin.V3, tris []scene.Triangle) ([]scene.Triangle, error) {
	for _, prim := range m.Primitives {
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("load: gltf positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		}

		verts := make([]lin.V3, len(positions))
		norms := make([]lin.V3, len(positions))
		haveNormals := len(normals) == len(positions)
		for i, p := range positions {
			local := lin.V3{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
			var world lin.V3
			world.MultMv(linear, &local)
			world.X += translate.X
			world.Y += translate.Y
			world.Z += translate.Z
			verts[i] = world
			if haveNormals {
				nrm := normals[i]
				var wn lin.V3
				wn.MultMv(linear, &lin.V3{X: float64(nrm[0]), Y: float64(nrm[1]), Z: float64(nrm[2])})
				wn.Unit()
				norms[i] = wn
			}
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("load: gltf indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(verts))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
			tri := scene.Triangle{P0: verts[i0], P1: verts[i1], P2: verts[i2]}
			if haveNormals {
				tri.N0, tri.N1, tri.N2 = norms[i0], norms[i1], norms[i2]
			} else {
				var e1, e2, faceN lin.V3
				e1.Sub(&tri.P1, &tri.P0)
				e2.Sub(&tri.P2, &tri.P0)
				faceN.Cross(&e1, &e2)
				faceN.Unit()
				tri.N0, tri.N1, tri.N2 = faceN, faceN, faceN
			}
			tri.ComputeBounds()
			tris = append(tris, tri)
		}
	}
	return tris, nil
}
