package game

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"runner3d/internal/config"
	"runner3d/internal/gpu"
	"runner3d/internal/logger"

	"go.uber.org/zap"
)

const screenshotTimeFormat = "2006-01-02-15-04-05"

// Screenshots saves the default framebuffer on the frames listed in the
// config, and on demand.
type Screenshots struct {
	dir      string
	requests map[int]string
}

func NewScreenshots(cfg config.Screenshots) *Screenshots {
	s := &Screenshots{dir: cfg.Directory, requests: make(map[int]string, len(cfg.Requests))}
	for _, r := range cfg.Requests {
		s.requests[r.Frame] = r.File
	}
	return s
}

// Pending reports how many requested frames have not been captured yet.
func (s *Screenshots) Pending() int { return len(s.requests) }

// Capture saves the current default framebuffer if frame was requested.
// It must run before the buffers are swapped.
func (s *Screenshots) Capture(dev gpu.Device, frame int, size [2]int) (string, error) {
	file, ok := s.requests[frame]
	if !ok {
		return "", nil
	}
	delete(s.requests, frame)
	return s.save(dev, file, size)
}

// CaptureAt saves the current default framebuffer under a name built from
// now, like screenshot-2006-01-02-15-04-05.png.
func (s *Screenshots) CaptureAt(dev gpu.Device, now time.Time, size [2]int) (string, error) {
	return s.save(dev, "screenshot-"+now.Format(screenshotTimeFormat)+".png", size)
}

func (s *Screenshots) save(dev gpu.Device, file string, size [2]int) (string, error) {
	dev.BindFramebuffer(nil)
	img := dev.ReadPixels(0, 0, size[0], size[1])

	path := filepath.Join(s.dir, file)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("screenshot %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("screenshot %s: %w", path, err)
	}
	// WriteFile reports close errors as well
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("screenshot %s: %w", path, err)
	}
	logger.Log.Info("saved screenshot", zap.String("path", path))
	return path, nil
}
