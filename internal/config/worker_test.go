package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWorkerConfig(t *testing.T) {
	path := writeFile(t, "config.json", "{}")
	assert.NoError(t, ValidateWorkerConfig(path))

	err := ValidateWorkerConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrConfigNotFound)

	err = ValidateWorkerConfig(t.TempDir())
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestProbeWorkerConfig(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"rtsp_url": "rtsp://cam/stream",
		"hef_path": "/models/yolov6n.hef",
		"postprocess_so": "/opt/pp.so",
		"status_port": 8080
	}`)

	info, err := ProbeWorkerConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "rtsp://cam/stream", info.RTSPURL)
	assert.Equal(t, "/models/yolov6n.hef", info.HEFPath)
	assert.Equal(t, "/opt/pp.so", info.PostprocessSO)
	assert.Equal(t, int64(8080), info.StatusPort)
}

func TestProbeWorkerConfigPartial(t *testing.T) {
	info, err := ProbeWorkerConfig(writeFile(t, "config.json", `{"rtsp_url":"rtsp://cam"}`))
	require.NoError(t, err)

	assert.Equal(t, "rtsp://cam", info.RTSPURL)
	assert.Empty(t, info.HEFPath)
	assert.Zero(t, info.StatusPort)
}

func TestProbeWorkerConfigNotJSON(t *testing.T) {
	_, err := ProbeWorkerConfig(writeFile(t, "config.json", "rtsp_url = nope"))
	assert.Error(t, err)
}

func TestPreflightWarnings(t *testing.T) {
	hef := writeFile(t, "model.hef", "fake")

	// Present files produce no warnings.
	info := WorkerInfo{HEFPath: hef}
	assert.Empty(t, info.PreflightWarnings())

	// Missing files are warned about, not fatal.
	info = WorkerInfo{
		HEFPath:       "/nonexistent/model.hef",
		PostprocessSO: "/nonexistent/pp.so",
	}
	warnings := info.PreflightWarnings()
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "/nonexistent/model.hef")
	assert.Contains(t, warnings[1], "/nonexistent/pp.so")

	// Empty probe warns about nothing.
	assert.Empty(t, WorkerInfo{}.PreflightWarnings())
}
