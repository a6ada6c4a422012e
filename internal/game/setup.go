package game

import (
	"runner3d/internal/config"
	"runner3d/internal/gpu/opengl"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// ApplySettings copies the runtime render settings of cfg into the config
// package globals.
func ApplySettings(cfg *config.App) {
	if cfg.FPSLimit != nil {
		config.SetFPSLimit(*cfg.FPSLimit)
	}
	config.SetVSync(cfg.VSync)
}

// SetupWindow creates the window and its OpenGL 4.1 core context, with the
// swap interval taken from config.GetVSync. glfw must already be initialized.
func SetupWindow(cfg config.Window) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	var monitor *glfw.Monitor
	if cfg.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}
	window, err := glfw.CreateWindow(cfg.Size.Width, cfg.Size.Height, cfg.Title, monitor, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	// Initialize OpenGL bindings
	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, err
	}

	if config.GetVSync() {
		glfw.SwapInterval(1)
	} else {
		// the FPS limiter paces frames
		glfw.SwapInterval(0)
	}
	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)

	return window, nil
}

// GLFWWindow adapts a glfw window to the app loop.
type GLFWWindow struct {
	*glfw.Window
}

func (w GLFWWindow) PollEvents() { glfw.PollEvents() }

// SwapBuffers reports GL errors raised during the frame before presenting it.
func (w GLFWWindow) SwapBuffers() {
	opengl.CheckError("frame")
	w.Window.SwapBuffers()
}

// LockCursor hides the cursor and keeps it in the window while locked.
func (w GLFWWindow) LockCursor(locked bool) {
	mode := glfw.CursorNormal
	if locked {
		mode = glfw.CursorDisabled
	}
	w.SetInputMode(glfw.CursorMode, mode)
}
