package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullPayload(t *testing.T) {
	body := []byte(`{
		"status": "running",
		"uptime": 7200,
		"timestamp": "2026-08-25T10:00:00",
		"performance": {
			"fps": 12.5,
			"avg_processing_time_ms": 80.2,
			"total_frames": 100,
			"recent_person_count": 1.4,
			"recent_vehicle_count": 0.2
		},
		"config": {
			"rtsp_url": "rtsp://cam/stream",
			"roi": {"x1": 0.2, "y1": 0.2, "x2": 0.8, "y2": 0.8, "name": "entrance"}
		}
	}`)

	snap, err := Parse(body)
	require.NoError(t, err)

	assert.Equal(t, "running", snap.Status)
	assert.Equal(t, 7200.0, snap.UptimeSeconds)
	assert.Equal(t, 12.5, snap.FPS)
	assert.Equal(t, 80.2, snap.AvgProcessingTimeMS)
	assert.Equal(t, int64(100), snap.TotalFrames)
	assert.Equal(t, 1.4, snap.RecentPersonCount)
	assert.Equal(t, 0.2, snap.RecentVehicleCount)
	assert.Equal(t, "rtsp://cam/stream", snap.RTSPURL)
	assert.Equal(t, "entrance", snap.ROIName)
}

func TestParsePartialPerformance(t *testing.T) {
	// Unspecified performance fields default to zero.
	body := []byte(`{"status":"running","uptime":7200,"performance":{"fps":12.5}}`)

	snap, err := Parse(body)
	require.NoError(t, err)

	assert.Equal(t, "running", snap.Status)
	assert.Equal(t, 7200.0, snap.UptimeSeconds)
	assert.Equal(t, 12.5, snap.FPS)
	assert.Zero(t, snap.AvgProcessingTimeMS)
	assert.Zero(t, snap.TotalFrames)
	assert.Zero(t, snap.RecentPersonCount)
	assert.Zero(t, snap.RecentVehicleCount)
	assert.Equal(t, "N/A", snap.RTSPURL)
	assert.Equal(t, "N/A", snap.ROIName)
}

func TestParseMissingObjects(t *testing.T) {
	snap, err := Parse([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, "unknown", snap.Status)
	assert.Zero(t, snap.UptimeSeconds)
	assert.Zero(t, snap.FPS)
	assert.Equal(t, "N/A", snap.RTSPURL)
	assert.Equal(t, "N/A", snap.ROIName)
}

func TestParseEmptyStrings(t *testing.T) {
	// Empty configured strings still display as N/A.
	snap, err := Parse([]byte(`{"config":{"rtsp_url":"","roi":{"name":""}}}`))
	require.NoError(t, err)

	assert.Equal(t, "N/A", snap.RTSPURL)
	assert.Equal(t, "N/A", snap.ROIName)
}

func TestParseNotJSON(t *testing.T) {
	_, err := Parse([]byte("<html>502 Bad Gateway</html>"))
	assert.ErrorIs(t, err, ErrNotJSON)

	_, err = Parse(nil)
	assert.ErrorIs(t, err, ErrNotJSON)
}

func TestParseNonObject(t *testing.T) {
	_, err := Parse([]byte(`[1,2,3]`))
	assert.ErrorIs(t, err, ErrNotJSON)
}
