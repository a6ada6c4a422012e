package gpu

// StateCache applies PipelineState values to a device, issuing only the
// calls needed to move from the previously applied state to the new one.
type StateCache struct {
	dev     StateSetter
	current PipelineState
	valid   bool
	program Program
}

func NewStateCache(dev StateSetter) *StateCache {
	return &StateCache{dev: dev}
}

// Invalidate forgets the tracked state. The next Apply sets every field.
// Call it whenever something outside the cache may have touched GL state.
func (c *StateCache) Invalidate() {
	c.valid = false
	c.program = nil
}

// Current returns the last applied state and whether it is known.
func (c *StateCache) Current() (PipelineState, bool) {
	return c.current, c.valid
}

// Apply makes s the active pipeline state.
func (c *StateCache) Apply(s PipelineState) {
	if c.valid && c.current == s {
		return
	}
	full := !c.valid
	prev := c.current

	if full || prev.DepthTest.Enabled != s.DepthTest.Enabled {
		c.dev.SetDepthTest(s.DepthTest.Enabled)
	}
	if s.DepthTest.Enabled && (full || !prev.DepthTest.Enabled || prev.DepthTest.Func != s.DepthTest.Func) {
		c.dev.SetDepthFunc(s.DepthTest.Func)
	}

	if full || prev.FaceCulling.Enabled != s.FaceCulling.Enabled {
		c.dev.SetCulling(s.FaceCulling.Enabled)
	}
	if s.FaceCulling.Enabled {
		if full || !prev.FaceCulling.Enabled || prev.FaceCulling.CulledFace != s.FaceCulling.CulledFace {
			c.dev.SetCullFace(s.FaceCulling.CulledFace)
		}
		if full || !prev.FaceCulling.Enabled || prev.FaceCulling.FrontFace != s.FaceCulling.FrontFace {
			c.dev.SetFrontFace(s.FaceCulling.FrontFace)
		}
	}

	if full || prev.Blending.Enabled != s.Blending.Enabled {
		c.dev.SetBlending(s.Blending.Enabled)
	}
	if s.Blending.Enabled {
		pb := prev.Blending
		sb := s.Blending
		if full || !pb.Enabled || pb.Equation != sb.Equation {
			c.dev.SetBlendEquation(sb.Equation)
		}
		if full || !pb.Enabled || pb.Source != sb.Source || pb.Destination != sb.Destination {
			c.dev.SetBlendFunc(sb.Source, sb.Destination)
		}
		if full || !pb.Enabled || pb.Color != sb.Color {
			c.dev.SetBlendColor(sb.Color)
		}
	}

	if full || prev.ColorMask != s.ColorMask {
		c.dev.SetColorMask(s.ColorMask)
	}
	if full || prev.DepthMask != s.DepthMask {
		c.dev.SetDepthMask(s.DepthMask)
	}

	// Fields of disabled features are not pushed to the device, so only the
	// enable flags of those features are known to match.
	c.current = trackable(s, prev, full)
	c.valid = true
}

// SetWriteMasks forces color and depth writes without touching the rest of
// the tracked state.
func (c *StateCache) SetWriteMasks(color [4]bool, depth bool) {
	if !c.valid || c.current.ColorMask != color {
		c.dev.SetColorMask(color)
	}
	if !c.valid || c.current.DepthMask != depth {
		c.dev.SetDepthMask(depth)
	}
	if c.valid {
		c.current.ColorMask = color
		c.current.DepthMask = depth
	}
}

// UseProgram binds p unless it is already bound.
func (c *StateCache) UseProgram(p Program) {
	if p == nil || c.program == p {
		return
	}
	p.Use()
	c.program = p
}

// trackable returns the state the device is now known to be in. Parameters
// of a disabled feature keep whatever value the device had before.
func trackable(s, prev PipelineState, full bool) PipelineState {
	out := s
	if full {
		return out
	}
	if !s.DepthTest.Enabled {
		out.DepthTest.Func = prev.DepthTest.Func
	}
	if !s.FaceCulling.Enabled {
		out.FaceCulling.CulledFace = prev.FaceCulling.CulledFace
		out.FaceCulling.FrontFace = prev.FaceCulling.FrontFace
	}
	if !s.Blending.Enabled {
		b := prev.Blending
		b.Enabled = false
		out.Blending = b
	}
	return out
}
