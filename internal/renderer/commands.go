package renderer

import (
	"sort"

	"runner3d/internal/ecs"
	"runner3d/internal/gpu"
	"runner3d/internal/material"

	"github.com/go-gl/mathgl/mgl32"
)

// Command is everything needed to draw one mesh renderer in a frame.
type Command struct {
	LocalToWorld mgl32.Mat4
	Center       mgl32.Vec3
	Mesh         gpu.Mesh
	Material     *material.Material
}

// gather rebuilds the command and light lists from the world and returns
// the first camera found, or nil.
func (r *ForwardRenderer) gather(world *ecs.World) *ecs.Camera {
	r.opaque = r.opaque[:0]
	r.transparent = r.transparent[:0]
	r.lights = r.lights[:0]

	var camera *ecs.Camera
	for _, e := range world.Entities() {
		if camera == nil {
			if c, ok := ecs.Get[*ecs.Camera](e); ok {
				camera = c
			}
		}
		if mr, ok := ecs.Get[*ecs.MeshRenderer](e); ok && mr.Mesh != nil && mr.Material != nil {
			m := e.LocalToWorld()
			cmd := Command{
				LocalToWorld: m,
				Center:       m.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3(),
				Mesh:         mr.Mesh,
				Material:     mr.Material,
			}
			if mr.Material.Transparent {
				r.transparent = append(r.transparent, cmd)
			} else {
				r.opaque = append(r.opaque, cmd)
			}
		}
		if l, ok := ecs.Get[*ecs.Light](e); ok && len(r.lights) < MaxLights {
			r.lights = append(r.lights, lightFrom(l))
		}
	}
	return camera
}

// sortBackToFront orders commands by how far their centers lie along the
// view direction, farthest first. Commands at equal depth keep their order.
func sortBackToFront(cmds []Command, forward mgl32.Vec3) {
	sort.SliceStable(cmds, func(i, j int) bool {
		return forward.Dot(cmds[i].Center) > forward.Dot(cmds[j].Center)
	})
}
