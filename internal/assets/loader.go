package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"path"
	"strings"

	"runner3d/internal/gpu"
	"runner3d/internal/mesh"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotFound is returned when an asset file or name does not exist.
var ErrNotFound = errors.New("asset not found")

// Loader creates GPU resources from files in fsys.
type Loader struct {
	fsys fs.FS
	dev  gpu.Device
}

func NewLoader(fsys fs.FS, dev gpu.Device) *Loader {
	return &Loader{fsys: fsys, dev: dev}
}

// Device returns the device resources are created on.
func (l *Loader) Device() gpu.Device { return l.dev }

func (l *Loader) open(name string) (fs.File, error) {
	f, err := l.fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return f, err
}

// ShaderSource returns the text of a shader file.
func (l *Loader) ShaderSource(name string) (string, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read shader %s: %w", name, err)
	}
	return string(data), nil
}

// Program compiles and links a program from two shader files.
func (l *Loader) Program(vertexPath, fragmentPath string) (gpu.Program, error) {
	vs, err := l.ShaderSource(vertexPath)
	if err != nil {
		return nil, err
	}
	fsrc, err := l.ShaderSource(fragmentPath)
	if err != nil {
		return nil, err
	}
	p, err := l.dev.NewProgram(vs, fsrc)
	if err != nil {
		return nil, fmt.Errorf("%s + %s: %w", vertexPath, fragmentPath, err)
	}
	return p, nil
}

// Image decodes an image file into RGBA with the first row at the bottom,
// the order OpenGL expects texture rows in.
func (l *Loader) Image(name string) (*image.RGBA, error) {
	f, err := l.open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", name, err)
	}

	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	FlipRows(rgba)
	return rgba, nil
}

// FlipRows reverses the row order of img in place. Textures are stored
// bottom row first.
func FlipRows(img *image.RGBA) {
	h := img.Bounds().Dy()
	row := make([]byte, img.Stride)
	for top, bottom := 0, h-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := img.Pix[top*img.Stride : (top+1)*img.Stride]
		b := img.Pix[bottom*img.Stride : (bottom+1)*img.Stride]
		copy(row, a)
		copy(a, b)
		copy(b, row)
	}
}

// Texture loads an image file into an RGBA8 texture.
func (l *Loader) Texture(name string, mipmaps bool) (gpu.Texture, error) {
	img, err := l.Image(name)
	if err != nil {
		return nil, err
	}
	size := img.Bounds().Size()
	tex, err := l.dev.NewTexture2D(gpu.TextureDesc{
		Format:  gpu.RGBA8,
		Width:   size.X,
		Height:  size.Y,
		Mipmaps: mipmaps,
	}, img)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", name, err)
	}
	return tex, nil
}

// Procedural mesh names accepted by Mesh in place of a file path.
const (
	MeshSphere = "sphere"
	MeshPlane  = "plane"
	MeshCube   = "cube"
)

// Mesh uploads a procedural mesh or a glTF file (.gltf/.glb).
func (l *Loader) Mesh(name string) (gpu.Mesh, error) {
	vertices, indices, err := l.Geometry(name)
	if err != nil {
		return nil, err
	}
	m, err := l.dev.NewMesh(vertices, indices)
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", name, err)
	}
	return m, nil
}

// Geometry returns the CPU-side vertices and indices Mesh would upload.
func (l *Loader) Geometry(name string) ([]mesh.Vertex, []uint32, error) {
	switch name {
	case MeshSphere:
		v, i := mesh.Sphere([2]int{32, 16})
		return v, i, nil
	case MeshPlane:
		v, i := mesh.Plane()
		return v, i, nil
	case MeshCube:
		v, i := mesh.Cuboid()
		return v, i, nil
	}

	switch strings.ToLower(path.Ext(name)) {
	case ".gltf", ".glb":
		if _, err := fs.Stat(l.fsys, name); errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		v, i, err := mesh.LoadGLTF(l.fsys, name)
		if err != nil {
			return nil, nil, fmt.Errorf("mesh %s: %w", name, err)
		}
		return v, i, nil
	}
	return nil, nil, fmt.Errorf("mesh %s: unsupported format", name)
}
