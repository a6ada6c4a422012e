package gpu

import (
	"fmt"
	"strings"
)

// CompareFunc is a depth comparison function.
type CompareFunc int

const (
	Less CompareFunc = iota
	LessOrEqual
	Equal
	Greater
	GreaterOrEqual
	NotEqual
	Always
	Never
)

var compareFuncNames = map[string]CompareFunc{
	"less":             Less,
	"less_equal":       LessOrEqual,
	"lequal":           LessOrEqual,
	"equal":            Equal,
	"greater":          Greater,
	"greater_equal":    GreaterOrEqual,
	"gequal":           GreaterOrEqual,
	"not_equal":        NotEqual,
	"always":           Always,
	"never":            Never,
	"gl_less":          Less,
	"gl_lequal":        LessOrEqual,
	"gl_equal":         Equal,
	"gl_greater":       Greater,
	"gl_gequal":        GreaterOrEqual,
	"gl_notequal":      NotEqual,
	"gl_always":        Always,
	"gl_never":         Never,
	"less_or_equal":    LessOrEqual,
	"greater_or_equal": GreaterOrEqual,
}

func (f *CompareFunc) UnmarshalText(text []byte) error {
	v, ok := compareFuncNames[normalizeName(text)]
	if !ok {
		return fmt.Errorf("unknown compare func %q", text)
	}
	*f = v
	return nil
}

// Face selects polygon faces for culling.
type Face int

const (
	Back Face = iota
	Front
	FrontAndBack
)

func (f *Face) UnmarshalText(text []byte) error {
	switch normalizeName(text) {
	case "back", "gl_back":
		*f = Back
	case "front", "gl_front":
		*f = Front
	case "front_and_back", "gl_front_and_back":
		*f = FrontAndBack
	default:
		return fmt.Errorf("unknown face %q", text)
	}
	return nil
}

// Winding is the vertex order that makes a polygon front facing.
type Winding int

const (
	CCW Winding = iota
	CW
)

func (w *Winding) UnmarshalText(text []byte) error {
	switch normalizeName(text) {
	case "ccw", "gl_ccw":
		*w = CCW
	case "cw", "gl_cw":
		*w = CW
	default:
		return fmt.Errorf("unknown winding %q", text)
	}
	return nil
}

// BlendEquation combines source and destination blend terms.
type BlendEquation int

const (
	FuncAdd BlendEquation = iota
	FuncSubtract
	FuncReverseSubtract
	Min
	Max
)

func (e *BlendEquation) UnmarshalText(text []byte) error {
	switch normalizeName(text) {
	case "add", "func_add", "gl_func_add":
		*e = FuncAdd
	case "subtract", "func_subtract", "gl_func_subtract":
		*e = FuncSubtract
	case "reverse_subtract", "func_reverse_subtract", "gl_func_reverse_subtract":
		*e = FuncReverseSubtract
	case "min", "gl_min":
		*e = Min
	case "max", "gl_max":
		*e = Max
	default:
		return fmt.Errorf("unknown blend equation %q", text)
	}
	return nil
}

// BlendFactor scales a blend term.
type BlendFactor int

const (
	Zero BlendFactor = iota
	One
	SrcColor
	OneMinusSrcColor
	DstColor
	OneMinusDstColor
	SrcAlpha
	OneMinusSrcAlpha
	DstAlpha
	OneMinusDstAlpha
	ConstantColor
	OneMinusConstantColor
	ConstantAlpha
	OneMinusConstantAlpha
)

var blendFactorNames = map[string]BlendFactor{
	"zero":                     Zero,
	"one":                      One,
	"src_color":                SrcColor,
	"one_minus_src_color":      OneMinusSrcColor,
	"dst_color":                DstColor,
	"one_minus_dst_color":      OneMinusDstColor,
	"src_alpha":                SrcAlpha,
	"one_minus_src_alpha":      OneMinusSrcAlpha,
	"dst_alpha":                DstAlpha,
	"one_minus_dst_alpha":      OneMinusDstAlpha,
	"constant_color":           ConstantColor,
	"one_minus_constant_color": OneMinusConstantColor,
	"constant_alpha":           ConstantAlpha,
	"one_minus_constant_alpha": OneMinusConstantAlpha,
}

func (f *BlendFactor) UnmarshalText(text []byte) error {
	v, ok := blendFactorNames[strings.TrimPrefix(normalizeName(text), "gl_")]
	if !ok {
		return fmt.Errorf("unknown blend factor %q", text)
	}
	*f = v
	return nil
}

// PixelFormat is the storage format of a texture.
type PixelFormat int

const (
	RGBA8 PixelFormat = iota
	Depth24
)

// Filter is a texture filtering mode.
type Filter int

const (
	Linear Filter = iota
	Nearest
	LinearMipmapLinear
	NearestMipmapNearest
)

func (f *Filter) UnmarshalText(text []byte) error {
	switch strings.TrimPrefix(normalizeName(text), "gl_") {
	case "linear":
		*f = Linear
	case "nearest":
		*f = Nearest
	case "linear_mipmap_linear":
		*f = LinearMipmapLinear
	case "nearest_mipmap_nearest":
		*f = NearestMipmapNearest
	default:
		return fmt.Errorf("unknown filter %q", text)
	}
	return nil
}

// Wrap is a texture coordinate wrapping mode.
type Wrap int

const (
	Repeat Wrap = iota
	ClampToEdge
	MirroredRepeat
)

func (w *Wrap) UnmarshalText(text []byte) error {
	switch strings.TrimPrefix(normalizeName(text), "gl_") {
	case "repeat":
		*w = Repeat
	case "clamp_to_edge":
		*w = ClampToEdge
	case "mirrored_repeat":
		*w = MirroredRepeat
	default:
		return fmt.Errorf("unknown wrap mode %q", text)
	}
	return nil
}

// ClearMask selects the buffers affected by Clear.
type ClearMask int

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
)

func normalizeName(text []byte) string {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	return strings.ReplaceAll(s, "-", "_")
}
