package gpu_test

import (
	"math/rand"
	"testing"

	"runner3d/internal/gpu"
	"runner3d/internal/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFirstApplySetsEverything(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	cache := gpu.NewStateCache(dev)

	cache.Apply(gpu.DefaultPipelineState())

	assert.Equal(t, []string{"SetDepthTest", "SetCulling", "SetBlending", "SetColorMask", "SetDepthMask"}, dev.Ops(),
		"parameters of disabled features are not pushed")
}

func TestApplyOnlyChangedFields(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	cache := gpu.NewStateCache(dev)
	s := gpu.DefaultPipelineState()
	s.DepthTest.Enabled = true
	cache.Apply(s)
	dev.ResetCalls()

	cache.Apply(s)
	assert.Empty(t, dev.Calls, "same state")

	s.DepthTest.Func = gpu.Less
	cache.Apply(s)
	assert.Equal(t, []string{"SetDepthFunc"}, dev.Ops())

	dev.ResetCalls()
	s.Blending.Enabled = true
	cache.Apply(s)
	assert.Equal(t, []string{"SetBlending", "SetBlendEquation", "SetBlendFunc", "SetBlendColor"}, dev.Ops(),
		"enabling a feature pushes its parameters")

	dev.ResetCalls()
	s.Blending.Enabled = false
	s.Blending.Source = gpu.One
	cache.Apply(s)
	assert.Equal(t, []string{"SetBlending"}, dev.Ops())
}

func TestInvalidateForcesFullApply(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	cache := gpu.NewStateCache(dev)
	s := gpu.DefaultPipelineState()
	cache.Apply(s)

	cache.Invalidate()
	_, known := cache.Current()
	assert.False(t, known)
	dev.ResetCalls()
	cache.Apply(s)

	assert.Len(t, dev.Calls, 5)
}

func TestSetWriteMasks(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	cache := gpu.NewStateCache(dev)
	s := gpu.DefaultPipelineState()
	s.DepthMask = false
	cache.Apply(s)
	dev.ResetCalls()

	cache.SetWriteMasks([4]bool{true, true, true, true}, true)
	assert.Equal(t, []string{"SetDepthMask"}, dev.Ops())

	dev.ResetCalls()
	cache.Apply(s)
	assert.Equal(t, []string{"SetDepthMask"}, dev.Ops(), "the forced mask is tracked")
}

func TestUseProgramSkipsRebind(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	cache := gpu.NewStateCache(dev)
	a, err := dev.NewProgram("", "")
	require.NoError(t, err)
	b, err := dev.NewProgram("", "")
	require.NoError(t, err)
	dev.ResetCalls()

	cache.UseProgram(a)
	cache.UseProgram(a)
	cache.UseProgram(b)
	cache.UseProgram(nil)
	cache.Invalidate()
	cache.UseProgram(b)

	assert.Equal(t, 3, dev.Count("UseProgram"))
}

// effective clears the parameters of disabled features.
func effective(s gpu.PipelineState) gpu.PipelineState {
	if !s.DepthTest.Enabled {
		s.DepthTest = gpu.DepthTest{}
	}
	if !s.FaceCulling.Enabled {
		s.FaceCulling = gpu.FaceCulling{}
	}
	if !s.Blending.Enabled {
		s.Blending = gpu.Blending{}
	}
	return s
}

func randomState(r *rand.Rand) gpu.PipelineState {
	return gpu.PipelineState{
		DepthTest: gpu.DepthTest{Enabled: r.Intn(2) == 0, Func: gpu.CompareFunc(r.Intn(3))},
		FaceCulling: gpu.FaceCulling{
			Enabled:    r.Intn(2) == 0,
			CulledFace: gpu.Face(r.Intn(2)),
			FrontFace:  gpu.Winding(r.Intn(2)),
		},
		Blending: gpu.Blending{
			Enabled:     r.Intn(2) == 0,
			Equation:    gpu.BlendEquation(r.Intn(2)),
			Source:      gpu.BlendFactor(r.Intn(3)),
			Destination: gpu.BlendFactor(r.Intn(3)),
			Color:       mgl32.Vec4{float32(r.Intn(2)), 0, 0, 0},
		},
		ColorMask: [4]bool{true, r.Intn(2) == 0, true, true},
		DepthMask: r.Intn(2) == 0,
	}
}

func TestApplyReachesRequestedState(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	dev := gputest.NewDevice(1, 1)
	cache := gpu.NewStateCache(dev)
	for i := 0; i < 500; i++ {
		if r.Intn(20) == 0 {
			cache.Invalidate()
		}
		s := randomState(r)
		cache.Apply(s)
		require.Equal(t, effective(s), effective(dev.State), "step %d", i)
	}
}

func TestPipelineStateYAMLDefaults(t *testing.T) {
	var s gpu.PipelineState
	require.NoError(t, yaml.Unmarshal([]byte(`
depthTesting: {enabled: true, function: GL_LESS}
blending: {enabled: true, sourceFactor: one, destinationFactor: one-minus-src-alpha}
`), &s))

	want := gpu.DefaultPipelineState()
	want.DepthTest = gpu.DepthTest{Enabled: true, Func: gpu.Less}
	want.Blending.Enabled = true
	want.Blending.Source = gpu.One
	want.Blending.Destination = gpu.OneMinusSrcAlpha
	assert.Equal(t, want, s)
}

func TestEnumNames(t *testing.T) {
	tests := []struct {
		text string
		got  interface{ UnmarshalText([]byte) error }
		want any
	}{
		{"less_equal", new(gpu.CompareFunc), gpu.LessOrEqual},
		{"GL_GEQUAL", new(gpu.CompareFunc), gpu.GreaterOrEqual},
		{"front_and_back", new(gpu.Face), gpu.FrontAndBack},
		{"CW", new(gpu.Winding), gpu.CW},
		{"reverse-subtract", new(gpu.BlendEquation), gpu.FuncReverseSubtract},
		{"GL_ONE_MINUS_CONSTANT_ALPHA", new(gpu.BlendFactor), gpu.OneMinusConstantAlpha},
		{"nearest", new(gpu.Filter), gpu.Nearest},
		{"clamp_to_edge", new(gpu.Wrap), gpu.ClampToEdge},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			require.NoError(t, tt.got.UnmarshalText([]byte(tt.text)))
			switch v := tt.got.(type) {
			case *gpu.CompareFunc:
				assert.Equal(t, tt.want, *v)
			case *gpu.Face:
				assert.Equal(t, tt.want, *v)
			case *gpu.Winding:
				assert.Equal(t, tt.want, *v)
			case *gpu.BlendEquation:
				assert.Equal(t, tt.want, *v)
			case *gpu.BlendFactor:
				assert.Equal(t, tt.want, *v)
			case *gpu.Filter:
				assert.Equal(t, tt.want, *v)
			case *gpu.Wrap:
				assert.Equal(t, tt.want, *v)
			}
		})
	}

	var f gpu.CompareFunc
	assert.Error(t, f.UnmarshalText([]byte("sometimes")))
}

func TestSamplerDescYAMLDefaults(t *testing.T) {
	var d gpu.SamplerDesc
	require.NoError(t, yaml.Unmarshal([]byte(`magFilter: nearest`), &d))

	want := gpu.DefaultSamplerDesc()
	want.MagFilter = gpu.Nearest
	assert.Equal(t, want, d)
}
