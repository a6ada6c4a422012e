package config

import "sync"

// RenderSettings holds runtime render configuration
type RenderSettings struct {
	mu       sync.RWMutex
	fpsLimit int // 0 means unlimited
	vsync    bool
}

var globalRenderSettings = &RenderSettings{
	fpsLimit: 120, // default value
}

// GetFPSLimit returns the current frame rate cap, 0 when uncapped
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame rate cap. Values <= 0 remove the cap.
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	// Clamp to reasonable values
	if limit <= 0 {
		limit = 0
	} else if limit < 30 {
		limit = 30
	} else if limit > 1000 {
		limit = 1000
	}

	globalRenderSettings.fpsLimit = limit
}

// GetVSync returns whether buffer swaps wait for vertical sync
func GetVSync() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.vsync
}

// SetVSync enables or disables vertical sync
func SetVSync(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.vsync = enabled
}
