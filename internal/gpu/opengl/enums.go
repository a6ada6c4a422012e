package opengl

import (
	"runner3d/internal/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
)

func compareEnum(f gpu.CompareFunc) uint32 {
	switch f {
	case gpu.LessOrEqual:
		return gl.LEQUAL
	case gpu.Equal:
		return gl.EQUAL
	case gpu.Greater:
		return gl.GREATER
	case gpu.GreaterOrEqual:
		return gl.GEQUAL
	case gpu.NotEqual:
		return gl.NOTEQUAL
	case gpu.Always:
		return gl.ALWAYS
	case gpu.Never:
		return gl.NEVER
	}
	return gl.LESS
}

func faceEnum(f gpu.Face) uint32 {
	switch f {
	case gpu.Front:
		return gl.FRONT
	case gpu.FrontAndBack:
		return gl.FRONT_AND_BACK
	}
	return gl.BACK
}

func equationEnum(e gpu.BlendEquation) uint32 {
	switch e {
	case gpu.FuncSubtract:
		return gl.FUNC_SUBTRACT
	case gpu.FuncReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT
	case gpu.Min:
		return gl.MIN
	case gpu.Max:
		return gl.MAX
	}
	return gl.FUNC_ADD
}

var factorEnums = [...]uint32{
	gpu.Zero:                  gl.ZERO,
	gpu.One:                   gl.ONE,
	gpu.SrcColor:              gl.SRC_COLOR,
	gpu.OneMinusSrcColor:      gl.ONE_MINUS_SRC_COLOR,
	gpu.DstColor:              gl.DST_COLOR,
	gpu.OneMinusDstColor:      gl.ONE_MINUS_DST_COLOR,
	gpu.SrcAlpha:              gl.SRC_ALPHA,
	gpu.OneMinusSrcAlpha:      gl.ONE_MINUS_SRC_ALPHA,
	gpu.DstAlpha:              gl.DST_ALPHA,
	gpu.OneMinusDstAlpha:      gl.ONE_MINUS_DST_ALPHA,
	gpu.ConstantColor:         gl.CONSTANT_COLOR,
	gpu.OneMinusConstantColor: gl.ONE_MINUS_CONSTANT_COLOR,
	gpu.ConstantAlpha:         gl.CONSTANT_ALPHA,
	gpu.OneMinusConstantAlpha: gl.ONE_MINUS_CONSTANT_ALPHA,
}

func factorEnum(f gpu.BlendFactor) uint32 {
	if f < 0 || int(f) >= len(factorEnums) {
		return gl.ONE
	}
	return factorEnums[f]
}

func filterEnum(f gpu.Filter) int32 {
	switch f {
	case gpu.Nearest:
		return gl.NEAREST
	case gpu.LinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	case gpu.NearestMipmapNearest:
		return gl.NEAREST_MIPMAP_NEAREST
	}
	return gl.LINEAR
}

func wrapEnum(w gpu.Wrap) int32 {
	switch w {
	case gpu.ClampToEdge:
		return gl.CLAMP_TO_EDGE
	case gpu.MirroredRepeat:
		return gl.MIRRORED_REPEAT
	}
	return gl.REPEAT
}
