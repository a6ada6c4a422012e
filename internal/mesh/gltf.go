package mesh

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ErrNoGeometry is returned when a glTF document has no triangle primitives.
var ErrNoGeometry = errors.New("gltf: no triangle geometry")

// LoadGLTF reads a .gltf or .glb file from fsys and merges the triangle
// primitives of its first mesh into one vertex/index list. External buffers
// are resolved relative to the file's directory.
func LoadGLTF(fsys fs.FS, name string) ([]Vertex, []uint32, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read model file: %w", err)
	}
	sub, err := fs.Sub(fsys, path.Dir(name))
	if err != nil {
		return nil, nil, err
	}

	doc := gltf.NewDocument()
	if err := gltf.NewDecoderFS(bytes.NewReader(data), sub).Decode(doc); err != nil {
		return nil, nil, fmt.Errorf("could not decode %s: %w", name, err)
	}
	return Geometry(doc)
}

// Geometry extracts the first mesh of doc.
func Geometry(doc *gltf.Document) ([]Vertex, []uint32, error) {
	if len(doc.Meshes) == 0 {
		return nil, nil, ErrNoGeometry
	}

	var (
		vertices []Vertex
		indices  []uint32
	)
	for _, prim := range doc.Meshes[0].Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, nil, err
		}

		base := uint32(len(vertices))
		for _, p := range positions {
			vertices = append(vertices, Vertex{Position: mgl32.Vec3(p), Color: white})
		}
		prims := vertices[base:]

		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
			if err != nil {
				return nil, nil, err
			}
			for i := range prims {
				if i < len(normals) {
					prims[i].Normal = mgl32.Vec3(normals[i])
				}
			}
		}
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
			if err != nil {
				return nil, nil, err
			}
			for i := range prims {
				if i < len(uvs) {
					// glTF puts the UV origin at the top left.
					prims[i].TexCoord = mgl32.Vec2{uvs[i][0], 1 - uvs[i][1]}
				}
			}
		}
		if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
			colors, err := modeler.ReadColor(doc, doc.Accessors[idx], nil)
			if err != nil {
				return nil, nil, err
			}
			for i := range prims {
				if i < len(colors) {
					prims[i].Color = colors[i]
				}
			}
		}

		if prim.Indices != nil {
			idx, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, nil, err
			}
			for _, i := range idx {
				indices = append(indices, base+i)
			}
		} else {
			for i := range prims {
				indices = append(indices, base+uint32(i))
			}
		}
	}

	if len(indices) == 0 {
		return nil, nil, ErrNoGeometry
	}
	return vertices, indices, nil
}
