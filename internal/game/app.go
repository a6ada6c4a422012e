package game

import (
	"fmt"
	"io/fs"
	"time"

	"runner3d/internal/assets"
	"runner3d/internal/config"
	"runner3d/internal/gpu"
	"runner3d/internal/input"
	"runner3d/internal/logger"
	"runner3d/internal/overlay"
	"runner3d/internal/profiling"
	"runner3d/internal/renderer"

	"go.uber.org/zap"
)

const (
	slowFrame   = 16 * time.Millisecond
	overlaySize = 24
)

// Window is the part of the platform window the app loop drives.
type Window interface {
	ShouldClose() bool
	SetShouldClose(value bool)
	SwapBuffers()
	GetFramebufferSize() (width, height int)
	PollEvents()
	LockCursor(locked bool)
}

type App struct {
	window       Window
	inputManager *input.InputManager
	dev          gpu.Device
	loader       *assets.Loader
	cfg          *config.App

	state   AppState
	session *Session

	renderer    *renderer.ForwardRenderer
	overlay     *overlay.Text
	screenshots *Screenshots

	showProfiling bool
	lastTop       []profiling.Entry

	frame      int
	fpsLimiter *FPSLimiter
	lastTime   time.Time
}

// NewApp loads the configured scene from fsys and prepares the renderer for
// the window's framebuffer.
func NewApp(window Window, im *input.InputManager, dev gpu.Device, fsys fs.FS, cfg *config.App) (*App, error) {
	ApplySettings(cfg)

	a := &App{
		window:       window,
		inputManager: im,
		dev:          dev,
		loader:       assets.NewLoader(fsys, dev),
		cfg:          cfg,
		state:        ParseState(cfg.StartScene),
		screenshots:  NewScreenshots(cfg.Screenshots),
		fpsLimiter:   NewFPSLimiter(),
		lastTime:     time.Now(),
	}

	w, h := window.GetFramebufferSize()
	a.renderer = renderer.New(dev, a.loader)
	if err := a.renderer.Initialize([2]int{w, h}, cfg.Renderer); err != nil {
		return nil, fmt.Errorf("initialize renderer: %w", err)
	}

	var err error
	if a.overlay, err = overlay.New(a.loader, overlaySize); err != nil {
		a.Close()
		return nil, fmt.Errorf("initialize overlay: %w", err)
	}
	if err := a.StartSession(); err != nil {
		a.Close()
		return nil, err
	}

	logger.Log.Info("App started",
		zap.Stringer("state", a.state),
		zap.Int("entities", a.session.World.Len()),
		zap.Int("width", w),
		zap.Int("height", h))
	return a, nil
}

// State returns the current application state.
func (a *App) State() AppState { return a.state }

// Session returns the running session.
func (a *App) Session() *Session { return a.session }

// Frame returns the number of frames completed.
func (a *App) Frame() int { return a.frame }

// Run ticks until the window is closed or maxFrames frames have been drawn.
// maxFrames <= 0 runs without a frame limit.
func (a *App) Run(maxFrames int) {
	for !a.window.ShouldClose() {
		if maxFrames > 0 && a.frame >= maxFrames {
			return
		}
		a.tick()
	}
}

func (a *App) tick() {
	a.lastTop = profiling.Top(5)
	profiling.ResetFrame()
	startTick := time.Now()
	now := time.Now()
	dt := float32(now.Sub(a.lastTime).Seconds())
	a.lastTime = now

	a.window.PollEvents()
	a.update(dt)
	a.render()

	if _, err := a.screenshots.Capture(a.dev, a.frame, a.renderer.WindowSize()); err != nil {
		logger.Log.Warn("Screenshot failed", zap.Int("frame", a.frame), zap.Error(err))
	}
	if a.inputManager.JustPressed(input.ActionScreenshot) {
		if _, err := a.screenshots.CaptureAt(a.dev, time.Now(), a.renderer.WindowSize()); err != nil {
			logger.Log.Warn("Screenshot failed", zap.Int("frame", a.frame), zap.Error(err))
		}
	}

	a.window.SwapBuffers()

	if took := time.Since(startTick); took > slowFrame {
		logger.Log.Debug("Slow frame", zap.Duration("took", took), zap.String("top", profiling.TopN(5)))
	}

	a.inputManager.PostUpdate()
	a.frame++

	if a.fpsLimiter != nil {
		a.fpsLimiter.Wait(a.state != StatePlaying)
	}
}

func (a *App) update(dt float32) {
	im := a.inputManager
	if im.JustPressed(input.ActionToggleProfiling) {
		a.showProfiling = !a.showProfiling
	}

	next, transition := Step(a.state, im.JustPressed(input.ActionConfirm), im.JustPressed(input.ActionBack))
	switch transition {
	case TransitionQuit:
		a.window.SetShouldClose(true)
	case TransitionEnd:
		a.session.Pause()
	case TransitionRestart:
		a.EndSession()
		if err := a.StartSession(); err != nil {
			logger.Log.Error("Could not reload scene", zap.Error(err))
			a.window.SetShouldClose(true)
			return
		}
	}
	if next != a.state {
		logger.Log.Info("State changed", zap.Stringer("from", a.state), zap.Stringer("to", next))
		a.state = next
	}

	if a.state == StatePlaying {
		a.session.Update(dt)
	}
	a.updateOverlay()
}

func (a *App) updateOverlay() {
	lines := banner(a.state)
	if a.showProfiling {
		for _, e := range a.lastTop {
			lines = append(lines, e.String())
		}
	}
	if err := a.overlay.SetLines(lines...); err != nil {
		logger.Log.Warn("Overlay update failed", zap.Error(err))
	}
}

func (a *App) render() {
	if a.session == nil {
		return
	}
	w, h := a.window.GetFramebufferSize()
	size := [2]int{w, h}
	if w > 0 && h > 0 && size != a.renderer.WindowSize() {
		if err := a.renderer.Initialize(size, a.cfg.Renderer); err != nil {
			logger.Log.Error("Could not resize renderer", zap.Error(err))
		}
	}

	a.renderer.Render(a.session.World)
	a.overlay.Draw(size)
}

// Refresh redraws the current frame without advancing the simulation, for
// window refresh callbacks.
func (a *App) Refresh() {
	a.render()
	a.window.SwapBuffers()
}

// StartSession loads the scene from the config.
func (a *App) StartSession() error {
	s, err := NewSession(a.loader, a.cfg, a.inputManager)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	s.SetCursorLock(a.window.LockCursor)
	a.session = s
	return nil
}

// EndSession releases the running scene.
func (a *App) EndSession() {
	if a.session != nil {
		a.session.Cleanup()
		a.session = nil
	}
	a.window.LockCursor(false)
}

// Close releases every resource the app created.
func (a *App) Close() {
	a.EndSession()
	if a.overlay != nil {
		a.overlay.Destroy()
		a.overlay = nil
	}
	a.renderer.Destroy()
}
