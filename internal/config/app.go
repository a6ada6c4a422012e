package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"runner3d/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for config files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// App is the top-level application configuration.
type App struct {
	StartScene  string      `yaml:"start-scene"`
	AssetsDir   string      `yaml:"assets-dir"`
	Window      Window      `yaml:"window"`
	FPSLimit    *int        `yaml:"fps-limit"`
	VSync       bool        `yaml:"vsync"`
	Renderer    Renderer    `yaml:"renderer"`
	Assets      Assets      `yaml:"assets"`
	World       []Entity    `yaml:"world"`
	Screenshots Screenshots `yaml:"screenshots"`
}

// Window describes the output window.
type Window struct {
	Title      string `yaml:"title"`
	Size       Size   `yaml:"size"`
	Fullscreen bool   `yaml:"fullscreen"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Renderer names the optional renderer features. Empty means disabled.
type Renderer struct {
	Sky         string `yaml:"sky"`
	PostProcess string `yaml:"postprocess"`
}

// Assets lists named assets referenced by materials and entities.
type Assets struct {
	Shaders   map[string]Shader          `yaml:"shaders"`
	Textures  map[string]string          `yaml:"textures"`
	Samplers  map[string]gpu.SamplerDesc `yaml:"samplers"`
	Meshes    map[string]string          `yaml:"meshes"`
	Materials map[string]Material        `yaml:"materials"`
}

// Shader is a vertex/fragment source pair.
type Shader struct {
	Vertex   string `yaml:"vs"`
	Fragment string `yaml:"fs"`
}

// Material describes a material by asset names.
type Material struct {
	Type           string             `yaml:"type"`
	Shader         string             `yaml:"shader"`
	PipelineState  *gpu.PipelineState `yaml:"pipelineState"`
	Transparent    bool               `yaml:"transparent"`
	Tint           *mgl32.Vec4        `yaml:"tint"`
	Texture        string             `yaml:"texture"`
	Sampler        string             `yaml:"sampler"`
	AlphaThreshold *float32           `yaml:"alphaThreshold"`

	Albedo           string `yaml:"albedo"`
	Specular         string `yaml:"specular"`
	AmbientOcclusion string `yaml:"ambient_occlusion"`
	Roughness        string `yaml:"roughness"`
	Emissive         string `yaml:"emissive"`
}

// Entity describes an entity and its children. Rotation is in degrees.
type Entity struct {
	Name       string      `yaml:"name"`
	Position   *mgl32.Vec3 `yaml:"position"`
	Rotation   *mgl32.Vec3 `yaml:"rotation"`
	Scale      *mgl32.Vec3 `yaml:"scale"`
	Components []Component `yaml:"components"`
	Children   []Entity    `yaml:"children"`
}

// Component is the union of all component descriptions; Type selects which
// fields apply.
type Component struct {
	Type string `yaml:"type"`

	// camera
	CameraType  string   `yaml:"cameraType"`
	FovY        *float32 `yaml:"fovY"`
	Near        *float32 `yaml:"near"`
	Far         *float32 `yaml:"far"`
	OrthoHeight *float32 `yaml:"orthoHeight"`

	// mesh renderer
	Mesh     string `yaml:"mesh"`
	Material string `yaml:"material"`

	// light
	LightType   string      `yaml:"lightType"`
	Diffuse     *mgl32.Vec3 `yaml:"diffuse"`
	SpecularRGB *mgl32.Vec3 `yaml:"specular"`
	Attenuation *mgl32.Vec3 `yaml:"attenuation"`
	ConeAngles  *mgl32.Vec2 `yaml:"coneAngles"`

	// movement
	LinearVelocity  *mgl32.Vec3 `yaml:"linearVelocity"`
	AngularVelocity *mgl32.Vec3 `yaml:"angularVelocity"`

	// free camera controller
	RotationSensitivity *float32    `yaml:"rotationSensitivity"`
	FovSensitivity      *float32    `yaml:"fovSensitivity"`
	PositionSensitivity *mgl32.Vec3 `yaml:"positionSensitivity"`
	SpeedupFactor       *float32    `yaml:"speedupFactor"`
}

// Screenshots lists frames to capture.
type Screenshots struct {
	Directory string              `yaml:"directory"`
	Requests  []ScreenshotRequest `yaml:"requests"`
}

// ScreenshotRequest saves the frame with the given index to File.
type ScreenshotRequest struct {
	Frame int    `yaml:"frame"`
	File  string `yaml:"file"`
}

// Defaults fills unset window and screenshot fields.
func (a *App) Defaults() {
	if a.Window.Title == "" {
		a.Window.Title = "runner3d"
	}
	if a.Window.Size.Width <= 0 {
		a.Window.Size.Width = 1280
	}
	if a.Window.Size.Height <= 0 {
		a.Window.Size.Height = 720
	}
	if a.AssetsDir == "" {
		a.AssetsDir = "assets"
	}
	if a.Screenshots.Directory == "" {
		a.Screenshots.Directory = "screenshots"
	}
}

// Load reads an application config. The decoder is picked from the file
// extension: .json/.yaml/.yml are decoded as YAML (JSON is a subset), .toml
// as TOML.
func Load(path string) (*App, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	cfg, err := Parse(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes config data in the format named by ext (".yaml", ".toml", ...).
func Parse(ext string, data []byte) (*App, error) {
	var cfg App
	if err := decode(ext, data, &cfg); err != nil {
		return nil, err
	}
	cfg.Defaults()
	return &cfg, nil
}

func decode(ext string, data []byte, out any) error {
	switch strings.ToLower(ext) {
	case ".json", ".yaml", ".yml":
		return decodeYAML(data, out)
	case ".toml":
		// TOML is normalized into a generic tree and re-encoded, so the
		// YAML unmarshal hooks (defaults, enum names) apply to both formats.
		var tree map[string]any
		if err := toml.Unmarshal(data, &tree); err != nil {
			return fmt.Errorf("could not parse toml: %w", err)
		}
		buf, err := yaml.Marshal(tree)
		if err != nil {
			return err
		}
		return decodeYAML(buf, out)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

func decodeYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("could not parse config: %w", err)
	}
	return nil
}
