package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roiwatch/internal/memsample"
	"roiwatch/internal/policy"
	"roiwatch/internal/supervisor"
)

type stubSource struct {
	snap supervisor.Snapshot
}

func (s stubSource) Snapshot() supervisor.Snapshot {
	return s.snap
}

func TestGetState(t *testing.T) {
	src := stubSource{snap: supervisor.Snapshot{
		State:         "running",
		PID:           4242,
		StartedAt:     time.Now(),
		UptimeSeconds: 12.5,
		LastSample:    memsample.Sample{ProcessResidentMB: 900, SystemUsedPercent: 55.1},
		Limits:        policy.DefaultLimits(),
	}}

	server := httptest.NewServer(NewRouter(src))
	defer server.Close()

	resp, err := http.Get(server.URL + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got supervisor.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "running", got.State)
	assert.Equal(t, 4242, got.PID)
	assert.Equal(t, uint64(900), got.LastSample.ProcessResidentMB)
	assert.Equal(t, uint64(1500), got.Limits.ProcessLimitMB)
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(NewRouter(stubSource{}))
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	server := httptest.NewServer(NewRouter(stubSource{}))
	defer server.Close()

	resp, err := http.Get(server.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
