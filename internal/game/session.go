package game

import (
	"fmt"

	"runner3d/internal/assets"
	"runner3d/internal/config"
	"runner3d/internal/ecs"
	"runner3d/internal/profiling"
	"runner3d/internal/systems"
)

// Session is a loaded scene: the asset library, the world built from the
// config, and the systems that update it.
type Session struct {
	Library *assets.Library
	World   *ecs.World

	movement systems.Movement
	camera   *systems.FreeCameraController
}

// NewSession loads the scene's assets and deserializes its world. controls
// drive the free camera.
func NewSession(loader *assets.Loader, cfg *config.App, controls systems.Controls) (*Session, error) {
	defer profiling.Track("game.NewSession")()

	lib, err := assets.LoadLibrary(loader, cfg.Assets)
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}
	world := ecs.NewWorld()
	if err := world.Deserialize(cfg.World, nil, lib); err != nil {
		lib.Destroy()
		return nil, fmt.Errorf("load world: %w", err)
	}
	return &Session{
		Library: lib,
		World:   world,
		camera:  systems.NewFreeCameraController(controls),
	}, nil
}

// SetCursorLock installs the callback the free camera uses to capture the
// cursor while looking around.
func (s *Session) SetCursorLock(lock func(bool)) {
	s.camera.LockCursor = lock
}

// Update runs the systems for one frame.
func (s *Session) Update(dt float32) {
	defer profiling.Track("game.Update")()
	s.camera.Update(s.World, dt)
	s.movement.Update(s.World, dt)
	s.World.DeleteMarked()
}

// Pause releases anything the systems hold across frames, such as the cursor.
func (s *Session) Pause() {
	s.camera.Exit()
}

// Cleanup destroys the world and every asset the session created.
func (s *Session) Cleanup() {
	s.Pause()
	s.World.Clear()
	s.Library.Destroy()
	s.World = nil
	s.Library = nil
}
