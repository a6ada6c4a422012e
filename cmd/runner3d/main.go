// Command runner3d runs the game described by a config file.
package main

import (
	"flag"
	"os"
	"runtime"

	"runner3d/internal/config"
	"runner3d/internal/game"
	"runner3d/internal/gpu/opengl"
	"runner3d/internal/input"
	"runner3d/internal/logger"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("c", "config/app.yaml", "config file (.yaml, .yml, .json or .toml)")
		frames     = flag.Int("f", 0, "stop after this many frames, 0 runs until the window is closed")
		debug      = flag.Bool("debug", false, "verbose development logging")
	)
	flag.Parse()

	if err := logger.Init(*debug); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Log

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Could not load config", zap.Error(err))
	}

	if err := glfw.Init(); err != nil {
		log.Fatal("Could not initialize glfw", zap.Error(err))
	}
	defer glfw.Terminate()

	game.ApplySettings(cfg)
	window, err := game.SetupWindow(cfg.Window)
	if err != nil {
		log.Fatal("Could not create window", zap.Error(err))
	}
	defer window.Destroy()

	im := input.NewInputManager()
	im.SetCallbacks(window)

	app, err := game.NewApp(game.GLFWWindow{Window: window}, im, opengl.NewDevice(), os.DirFS(cfg.AssetsDir), cfg)
	if err != nil {
		log.Fatal("Could not start", zap.Error(err))
	}
	defer app.Close()

	window.SetRefreshCallback(func(*glfw.Window) {
		app.Refresh()
	})

	app.Run(*frames)
	log.Info("Exiting", zap.Int("frames", app.Frame()))
}
