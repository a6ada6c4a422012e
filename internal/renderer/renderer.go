// Package renderer draws a world with a single forward pass: opaque meshes,
// then an optional sky at the far plane, then transparent meshes sorted back
// to front, optionally through an offscreen post-process target.
package renderer

import (
	"fmt"

	"runner3d/internal/assets"
	"runner3d/internal/config"
	"runner3d/internal/ecs"
	"runner3d/internal/gpu"
	"runner3d/internal/logger"
	"runner3d/internal/material"
	"runner3d/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// ForwardRenderer draws a world in a single forward pass.
type ForwardRenderer struct {
	dev    gpu.Device
	loader *assets.Loader
	cache  *gpu.StateCache

	windowSize [2]int

	opaque      []Command
	transparent []Command
	lights      []light

	sky  *sky
	post *postProcess
}

// New returns a renderer drawing through dev. Call Initialize before Render.
func New(dev gpu.Device, loader *assets.Loader) *ForwardRenderer {
	return &ForwardRenderer{
		dev:    dev,
		loader: loader,
		cache:  gpu.NewStateCache(dev),
	}
}

// Initialize prepares the sky and post-process resources named in cfg for
// an output of windowSize pixels. Calling it again replaces the previous
// resources. On error the renderer is left without sky or post-process and
// WindowSize still reports the previous size.
func (r *ForwardRenderer) Initialize(windowSize [2]int, cfg config.Renderer) error {
	r.Destroy()

	if cfg.Sky != "" {
		s, err := newSky(r.loader, cfg.Sky)
		if err != nil {
			return fmt.Errorf("failed to create sky: %w", err)
		}
		r.sky = s
	}
	if cfg.PostProcess != "" {
		p, err := newPostProcess(r.loader, windowSize, cfg.PostProcess)
		if err != nil {
			r.Destroy()
			return fmt.Errorf("failed to create post-process target: %w", err)
		}
		r.post = p
	}
	r.windowSize = windowSize

	logger.Log.Info("Forward renderer initialized",
		zap.Int("width", windowSize[0]),
		zap.Int("height", windowSize[1]),
		zap.String("sky", cfg.Sky),
		zap.String("postprocess", cfg.PostProcess))
	return nil
}

// Destroy releases the sky and post-process resources. It is safe to call
// more than once.
func (r *ForwardRenderer) Destroy() {
	if r.sky != nil {
		r.sky.destroy()
		r.sky = nil
	}
	if r.post != nil {
		r.post.destroy()
		r.post = nil
	}
}

// Render draws one frame of world. Nothing is drawn, and the device is not
// touched, when the world has no camera.
func (r *ForwardRenderer) Render(world *ecs.World) {
	defer profiling.Track("renderer.Render")()

	stopGather := profiling.Track("renderer.gather")
	camera := r.gather(world)
	if camera == nil {
		stopGather()
		return
	}
	forward := camera.Forward()
	sortBackToFront(r.transparent, forward)
	stopGather()

	eye := camera.Eye()
	vp := camera.ProjectionMatrix(r.windowSize).Mul4(camera.ViewMatrix())

	// state may have been changed outside the renderer since the last frame
	r.cache.Invalidate()

	r.dev.SetViewport(0, 0, int32(r.windowSize[0]), int32(r.windowSize[1]))
	r.dev.SetClearColor(mgl32.Vec4{0, 0, 0, 1})
	r.dev.SetClearDepth(1)
	r.cache.SetWriteMasks([4]bool{true, true, true, true}, true)
	if r.post != nil {
		r.dev.BindFramebuffer(r.post.framebuffer)
	} else {
		r.dev.BindFramebuffer(nil)
	}
	r.dev.Clear(gpu.ClearColor | gpu.ClearDepth)

	r.drawCommands("renderer.opaque", r.opaque, vp, eye)

	if r.sky != nil {
		stop := profiling.Track("renderer.sky")
		r.sky.draw(r.cache, vp, eye)
		stop()
	}

	r.drawCommands("renderer.transparent", r.transparent, vp, eye)

	if r.post != nil {
		stop := profiling.Track("renderer.postprocess")
		r.post.resolve(r.dev, r.cache)
		stop()
	}
}

func (r *ForwardRenderer) drawCommands(phase string, cmds []Command, vp mgl32.Mat4, eye mgl32.Vec3) {
	defer profiling.Track(phase)()
	for i := range cmds {
		cmd := &cmds[i]
		cmd.Material.Setup(r.cache)
		shader := cmd.Material.Shader
		if shader == nil {
			continue
		}
		shader.SetMat4("transform", vp.Mul4(cmd.LocalToWorld))
		if cmd.Material.Kind == material.Lit {
			r.uploadLighting(shader, cmd.LocalToWorld, vp, eye)
		}
		cmd.Mesh.Draw()
	}
}

// WindowSize returns the output resolution set by Initialize.
func (r *ForwardRenderer) WindowSize() [2]int { return r.windowSize }
