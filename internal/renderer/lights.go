package renderer

import (
	"fmt"

	"runner3d/internal/ecs"
	"runner3d/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxLights is the size of the lights array in the lit shader.
const MaxLights = 8

type light struct {
	kind        ecs.LightType
	position    mgl32.Vec3
	direction   mgl32.Vec3
	diffuse     mgl32.Vec3
	specular    mgl32.Vec3
	attenuation mgl32.Vec3
	cone        mgl32.Vec2
}

func lightFrom(l *ecs.Light) light {
	return light{
		kind:        l.Type,
		position:    l.Owner().Position(),
		direction:   l.Direction(),
		diffuse:     l.Diffuse,
		specular:    l.Specular,
		attenuation: l.Attenuation,
		cone:        l.ConeAngles,
	}
}

type lightUniforms struct {
	kind, position, direction, diffuse, specular, attenuation, inner, outer string
}

var lightNames [MaxLights]lightUniforms

func init() {
	for i := range lightNames {
		p := fmt.Sprintf("lights[%d].", i)
		lightNames[i] = lightUniforms{
			kind:        p + "type",
			position:    p + "position",
			direction:   p + "direction",
			diffuse:     p + "diffuse",
			specular:    p + "specular",
			attenuation: p + "attenuation",
			inner:       p + "inner_angle",
			outer:       p + "outer_angle",
		}
	}
}

// uploadLighting sets the per-object and per-light uniforms of the lit shader.
func (r *ForwardRenderer) uploadLighting(p gpu.Program, model, vp mgl32.Mat4, eye mgl32.Vec3) {
	p.SetMat4("M", model)
	p.SetMat4("M_IT", model.Inv().Transpose())
	p.SetMat4("VP", vp)
	p.SetVec3("camera_position", eye)
	p.SetInt("light_count", int32(len(r.lights)))
	for i, l := range r.lights {
		n := lightNames[i]
		p.SetInt(n.kind, int32(l.kind))
		p.SetVec3(n.position, l.position)
		p.SetVec3(n.direction, l.direction)
		p.SetVec3(n.diffuse, l.diffuse)
		p.SetVec3(n.specular, l.specular)
		p.SetVec3(n.attenuation, l.attenuation)
		p.SetFloat(n.inner, l.cone.X())
		p.SetFloat(n.outer, l.cone.Y())
	}
}
