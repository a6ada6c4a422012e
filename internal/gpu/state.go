package gpu

import (
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// DepthTest configures the depth comparison.
type DepthTest struct {
	Enabled bool        `yaml:"enabled"`
	Func    CompareFunc `yaml:"function"`
}

// FaceCulling configures which polygons are discarded by winding.
type FaceCulling struct {
	Enabled    bool    `yaml:"enabled"`
	CulledFace Face    `yaml:"culledFace"`
	FrontFace  Winding `yaml:"frontFace"`
}

// Blending configures color blending.
type Blending struct {
	Enabled     bool          `yaml:"enabled"`
	Equation    BlendEquation `yaml:"equation"`
	Source      BlendFactor   `yaml:"sourceFactor"`
	Destination BlendFactor   `yaml:"destinationFactor"`
	Color       mgl32.Vec4    `yaml:"constantColor"`
}

// PipelineState is the fixed-function state active during a draw.
// It is a plain value: two states are the same configuration iff they are ==.
type PipelineState struct {
	DepthTest   DepthTest   `yaml:"depthTesting"`
	FaceCulling FaceCulling `yaml:"faceCulling"`
	Blending    Blending    `yaml:"blending"`
	ColorMask   [4]bool     `yaml:"colorMask"`
	DepthMask   bool        `yaml:"depthMask"`
}

// DefaultPipelineState returns a state with no depth test, no culling, no
// blending and all writes enabled. Parameters of the disabled features are
// preset to the values most materials want once they enable them.
func DefaultPipelineState() PipelineState {
	return PipelineState{
		DepthTest: DepthTest{Func: LessOrEqual},
		FaceCulling: FaceCulling{
			CulledFace: Back,
			FrontFace:  CCW,
		},
		Blending: Blending{
			Equation:    FuncAdd,
			Source:      SrcAlpha,
			Destination: OneMinusSrcAlpha,
		},
		ColorMask: [4]bool{true, true, true, true},
		DepthMask: true,
	}
}

// UnmarshalYAML decodes a partial description on top of DefaultPipelineState.
func (s *PipelineState) UnmarshalYAML(n *yaml.Node) error {
	type plain PipelineState
	p := plain(DefaultPipelineState())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*s = PipelineState(p)
	return nil
}
