package systems

import "runner3d/internal/ecs"

// Movement advances every entity that has a Movement component.
type Movement struct{}

func (Movement) Update(world *ecs.World, dt float32) {
	for _, e := range world.Entities() {
		m, ok := ecs.Get[*ecs.Movement](e)
		if !ok {
			continue
		}
		e.Local.Position = e.Local.Position.Add(m.LinearVelocity.Mul(dt))
		e.Local.Rotation = e.Local.Rotation.Add(m.AngularVelocity.Mul(dt))
	}
}
