package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name string, d time.Duration) {
	mu.Lock()
	frameTotals[name] += d
	mu.Unlock()
}

func TestTopOrdersByDuration(t *testing.T) {
	ResetFrame()
	record("renderer.sky", 1*time.Millisecond)
	record("renderer.opaque", 4200*time.Microsecond)
	record("renderer.transparent", 2*time.Millisecond)
	record("renderer.opaque", 0)

	top := Top(2)
	require.Len(t, top, 2)
	assert.Equal(t, "renderer.opaque", top[0].Name)
	assert.Equal(t, "renderer.transparent", top[1].Name)

	assert.Equal(t, "renderer.opaque:4.2ms, renderer.transparent:2ms", TopN(2))
	assert.Len(t, Top(10), 3)
}

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	Track("a")()
	Track("a")()

	snap := Snapshot()
	require.Contains(t, snap, "a")
	assert.GreaterOrEqual(t, snap["a"], time.Duration(0))

	ResetFrame()
	assert.Empty(t, Snapshot())
}
