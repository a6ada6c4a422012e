package assets

import (
	"fmt"
	"maps"
	"slices"

	"runner3d/internal/config"
	"runner3d/internal/gpu"
	"runner3d/internal/logger"
	"runner3d/internal/material"

	"go.uber.org/zap"
)

// Library holds the named assets of a scene. It owns every GPU object it
// created and releases them in Destroy.
type Library struct {
	shaders   map[string]gpu.Program
	textures  map[string]gpu.Texture
	samplers  map[string]gpu.Sampler
	meshes    map[string]gpu.Mesh
	materials map[string]*material.Material
}

func NewLibrary() *Library {
	return &Library{
		shaders:   make(map[string]gpu.Program),
		textures:  make(map[string]gpu.Texture),
		samplers:  make(map[string]gpu.Sampler),
		meshes:    make(map[string]gpu.Mesh),
		materials: make(map[string]*material.Material),
	}
}

// LoadLibrary creates everything listed in cfg. Materials are built last so
// they can refer to the other assets by name. On error, whatever was already
// created is released.
func LoadLibrary(l *Loader, cfg config.Assets) (*Library, error) {
	lib := NewLibrary()
	if err := lib.load(l, cfg); err != nil {
		lib.Destroy()
		return nil, err
	}
	logger.Log.Debug("Asset library loaded",
		zap.Int("shaders", len(lib.shaders)),
		zap.Int("textures", len(lib.textures)),
		zap.Int("samplers", len(lib.samplers)),
		zap.Int("meshes", len(lib.meshes)),
		zap.Int("materials", len(lib.materials)))
	return lib, nil
}

func (lib *Library) load(l *Loader, cfg config.Assets) error {
	for _, name := range slices.Sorted(maps.Keys(cfg.Shaders)) {
		s := cfg.Shaders[name]
		p, err := l.Program(s.Vertex, s.Fragment)
		if err != nil {
			return fmt.Errorf("shader %q: %w", name, err)
		}
		lib.shaders[name] = p
	}
	for _, name := range slices.Sorted(maps.Keys(cfg.Textures)) {
		t, err := l.Texture(cfg.Textures[name], true)
		if err != nil {
			return fmt.Errorf("texture %q: %w", name, err)
		}
		lib.textures[name] = t
	}
	for _, name := range slices.Sorted(maps.Keys(cfg.Samplers)) {
		lib.samplers[name] = l.dev.NewSampler(cfg.Samplers[name])
	}
	for _, name := range slices.Sorted(maps.Keys(cfg.Meshes)) {
		m, err := l.Mesh(cfg.Meshes[name])
		if err != nil {
			return fmt.Errorf("mesh %q: %w", name, err)
		}
		lib.meshes[name] = m
	}
	for _, name := range slices.Sorted(maps.Keys(cfg.Materials)) {
		mc := cfg.Materials[name]
		if mc.Shader != "" && lib.shaders[mc.Shader] == nil {
			return fmt.Errorf("material %q: shader %q: %w", name, mc.Shader, ErrNotFound)
		}
		lib.materials[name] = material.FromConfig(mc, lib)
	}
	return nil
}

func (lib *Library) Shader(name string) gpu.Program  { return lib.shaders[name] }
func (lib *Library) Texture(name string) gpu.Texture { return lib.textures[name] }
func (lib *Library) Sampler(name string) gpu.Sampler { return lib.samplers[name] }
func (lib *Library) Mesh(name string) gpu.Mesh       { return lib.meshes[name] }

func (lib *Library) Material(name string) *material.Material { return lib.materials[name] }

// Destroy deletes every GPU object and empties the library.
func (lib *Library) Destroy() {
	for _, p := range lib.shaders {
		p.Delete()
	}
	for _, t := range lib.textures {
		t.Delete()
	}
	for _, s := range lib.samplers {
		s.Delete()
	}
	for _, m := range lib.meshes {
		m.Delete()
	}
	clear(lib.shaders)
	clear(lib.textures)
	clear(lib.samplers)
	clear(lib.meshes)
	clear(lib.materials)
}
