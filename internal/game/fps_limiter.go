package game

import (
	"time"

	"runner3d/internal/config"
)

// idleFPS caps the frame rate while nothing is simulated (menu, game over).
const idleFPS = 60

// FPSLimiter provides high-precision frame rate limiting
type FPSLimiter struct {
	next time.Time
}

// NewFPSLimiter creates a new FPS limiter
func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{}
}

// limit returns the frame cap in effect, 0 when uncapped.
func limit(idle bool) int {
	l := config.GetFPSLimit()
	if idle && (l <= 0 || l > idleFPS) {
		return idleFPS
	}
	return l
}

// Wait blocks until the next frame is due. Sleeping covers most of the
// interval and a short spin covers the rest.
func (f *FPSLimiter) Wait(idle bool) {
	effectiveLimit := limit(idle)
	if effectiveLimit <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(effectiveLimit)

	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
		if time.Until(f.next) <= 0 {
			break
		}
	}

	// resync after a hitch so we do not try to catch up
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
