package material

import (
	"strings"

	"runner3d/internal/config"
	"runner3d/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind selects which uniforms a material uploads in Setup.
type Kind int

const (
	Plain Kind = iota
	Tinted
	Textured
	Lit
)

func (k Kind) String() string {
	switch k {
	case Tinted:
		return "tinted"
	case Textured:
		return "textured"
	case Lit:
		return "lit"
	}
	return "plain"
}

// ParseKind maps a material type name to a Kind. Unknown names are Plain.
func ParseKind(name string) Kind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tinted":
		return Tinted
	case "textured":
		return Textured
	case "lit", "lighted":
		return Lit
	}
	return Plain
}

// Texture units used by lit materials.
const (
	AlbedoUnit = iota
	SpecularUnit
	AmbientOcclusionUnit
	RoughnessUnit
	EmissiveUnit
)

// Library resolves asset names referenced by a material description.
// Unknown names resolve to nil.
type Library interface {
	Shader(name string) gpu.Program
	Texture(name string) gpu.Texture
	Sampler(name string) gpu.Sampler
}

// Material describes how a mesh is drawn: the fixed-function state, the
// program, and the per-kind uniforms.
type Material struct {
	Kind        Kind
	Pipeline    gpu.PipelineState
	Shader      gpu.Program
	Transparent bool

	// Tinted and up
	Tint mgl32.Vec4

	// Textured and up
	Texture        gpu.Texture
	Sampler        gpu.Sampler
	AlphaThreshold float32

	// Lit
	Albedo           gpu.Texture
	Specular         gpu.Texture
	AmbientOcclusion gpu.Texture
	Roughness        gpu.Texture
	Emissive         gpu.Texture
}

// New returns a material of the given kind with default pipeline state and
// a white tint.
func New(kind Kind) *Material {
	return &Material{
		Kind:     kind,
		Pipeline: gpu.DefaultPipelineState(),
		Tint:     mgl32.Vec4{1, 1, 1, 1},
	}
}

// FromConfig creates a material whose kind comes from cfg.Type and
// deserializes the rest of cfg into it.
func FromConfig(cfg config.Material, lib Library) *Material {
	m := New(ParseKind(cfg.Type))
	m.Deserialize(cfg, lib)
	return m
}

// Setup makes the material current: pipeline state, program and uniforms.
func (m *Material) Setup(cache *gpu.StateCache) {
	cache.Apply(m.Pipeline)
	if m.Shader == nil {
		return
	}
	cache.UseProgram(m.Shader)

	switch m.Kind {
	case Tinted:
		m.Shader.SetVec4("tint", m.Tint)
	case Textured:
		m.Shader.SetVec4("tint", m.Tint)
		m.Shader.SetFloat("alphaThreshold", m.AlphaThreshold)
		bindUnit(0, m.Texture, m.Sampler)
		m.Shader.SetInt("tex", 0)
	case Lit:
		m.Shader.SetVec4("tint", m.Tint)
		m.Shader.SetFloat("alphaThreshold", m.AlphaThreshold)
		albedo := m.Albedo
		if albedo == nil {
			albedo = m.Texture
		}
		m.bindMap("material.albedo", AlbedoUnit, albedo)
		m.bindMap("material.specular", SpecularUnit, m.Specular)
		m.bindMap("material.ambient_occlusion", AmbientOcclusionUnit, m.AmbientOcclusion)
		m.bindMap("material.roughness", RoughnessUnit, m.Roughness)
		m.bindMap("material.emissive", EmissiveUnit, m.Emissive)
	}
}

func (m *Material) bindMap(uniform string, unit int, tex gpu.Texture) {
	bindUnit(unit, tex, m.Sampler)
	m.Shader.SetInt(uniform, int32(unit))
}

func bindUnit(unit int, tex gpu.Texture, sampler gpu.Sampler) {
	if tex != nil {
		tex.Bind(unit)
	}
	if sampler != nil {
		sampler.Bind(unit)
	}
}

// Deserialize reads the fields that apply to m.Kind from cfg. Fields absent
// from cfg keep their current values.
func (m *Material) Deserialize(cfg config.Material, lib Library) {
	if cfg.PipelineState != nil {
		m.Pipeline = *cfg.PipelineState
	}
	if cfg.Shader != "" && lib != nil {
		m.Shader = lib.Shader(cfg.Shader)
	}
	m.Transparent = cfg.Transparent

	if m.Kind == Plain {
		return
	}
	if cfg.Tint != nil {
		m.Tint = *cfg.Tint
	}

	if m.Kind == Tinted {
		return
	}
	if cfg.AlphaThreshold != nil {
		m.AlphaThreshold = *cfg.AlphaThreshold
	}
	if lib == nil {
		return
	}
	if cfg.Texture != "" {
		m.Texture = lib.Texture(cfg.Texture)
	}
	if cfg.Sampler != "" {
		m.Sampler = lib.Sampler(cfg.Sampler)
	}

	if m.Kind != Lit {
		return
	}
	for _, f := range []struct {
		name string
		dst  *gpu.Texture
	}{
		{cfg.Albedo, &m.Albedo},
		{cfg.Specular, &m.Specular},
		{cfg.AmbientOcclusion, &m.AmbientOcclusion},
		{cfg.Roughness, &m.Roughness},
		{cfg.Emissive, &m.Emissive},
	} {
		if f.name != "" {
			*f.dst = lib.Texture(f.name)
		}
	}
}
