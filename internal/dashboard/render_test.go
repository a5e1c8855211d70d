package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roiwatch/internal/status"
)

func TestRenderFullSnapshot(t *testing.T) {
	snap := status.Snapshot{
		Status:              "running",
		UptimeSeconds:       7200,
		FPS:                 12.5,
		AvgProcessingTimeMS: 80.2,
		TotalFrames:         1000,
		RecentPersonCount:   1.4,
		RecentVehicleCount:  0.2,
		RTSPURL:             "rtsp://cam/stream",
		ROIName:             "entrance",
	}

	out := Render(snap, nil, 5*time.Second)

	assert.Contains(t, out, "running")
	assert.Contains(t, out, "2.0h")
	assert.Contains(t, out, "12.5 fps")
	assert.Contains(t, out, "80.2 ms")
	assert.Contains(t, out, "1000")
	assert.Contains(t, out, "rtsp://cam/stream")
	assert.Contains(t, out, "entrance")
}

func TestRenderDefaults(t *testing.T) {
	// A snapshot decoded from an empty payload renders without error: zeros
	// and N/A everywhere.
	out := Render(status.Defaults(), nil, 5*time.Second)

	assert.Contains(t, out, "unknown")
	assert.Contains(t, out, "0.0h")
	assert.Contains(t, out, "0.0 fps")
	assert.Contains(t, out, "N/A")
}

func TestRenderLocalStats(t *testing.T) {
	local := &LocalStats{
		MemUsedMB:      512,
		MemUsedPercent: 42.3,
		CPUTempC:       51.2,
		HasCPUTemp:     true,
	}

	out := Render(status.Defaults(), local, 5*time.Second)

	assert.Contains(t, out, "512 MB (42.3%)")
	assert.Contains(t, out, "51.2°C")
}

func TestRenderLocalStatsWithoutTemp(t *testing.T) {
	out := Render(status.Defaults(), &LocalStats{MemUsedMB: 512}, 5*time.Second)

	assert.Contains(t, out, "512 MB")
	assert.NotContains(t, out, "°C")
}

func TestRenderUnreachable(t *testing.T) {
	url := "http://localhost:8080/status"
	out := RenderUnreachable(url)

	require.Contains(t, out, "cannot connect")
	assert.Contains(t, out, url)
}
