// Package status defines the consumer side of the worker's /status contract.
// The worker serves a JSON snapshot of its health and throughput; every field
// is optional from our side and decodes to a defined default when absent.
package status

import (
	"errors"

	"github.com/tidwall/gjson"
)

var ErrNotJSON = errors.New("status body is not valid JSON")

// Snapshot is one decoded /status payload with defaults applied.
type Snapshot struct {
	Status        string
	UptimeSeconds float64
	Timestamp     string

	FPS                 float64
	AvgProcessingTimeMS float64
	TotalFrames         int64
	RecentPersonCount   float64
	RecentVehicleCount  float64

	RTSPURL string
	ROIName string
}

// Defaults returns the snapshot used when a field (or a whole object) is
// missing from the payload: numeric fields 0, status "unknown", configured
// strings "N/A".
func Defaults() Snapshot {
	return Snapshot{
		Status:  "unknown",
		RTSPURL: "N/A",
		ROIName: "N/A",
	}
}

// Parse decodes a /status body. It fails only for bodies that are not JSON at
// all (the caller renders those as unreachable); any missing or mistyped field
// falls back to its default so partial payloads never break rendering.
func Parse(body []byte) (Snapshot, error) {
	if !gjson.ValidBytes(body) {
		return Defaults(), ErrNotJSON
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return Defaults(), ErrNotJSON
	}

	snap := Defaults()

	if v := root.Get("status"); v.Exists() {
		snap.Status = v.String()
	}
	snap.UptimeSeconds = root.Get("uptime").Float()
	if v := root.Get("timestamp"); v.Exists() {
		snap.Timestamp = v.String()
	}

	snap.FPS = root.Get("performance.fps").Float()
	snap.AvgProcessingTimeMS = root.Get("performance.avg_processing_time_ms").Float()
	snap.TotalFrames = root.Get("performance.total_frames").Int()
	snap.RecentPersonCount = root.Get("performance.recent_person_count").Float()
	snap.RecentVehicleCount = root.Get("performance.recent_vehicle_count").Float()

	if v := root.Get("config.rtsp_url"); v.Exists() && v.String() != "" {
		snap.RTSPURL = v.String()
	}
	if v := root.Get("config.roi.name"); v.Exists() && v.String() != "" {
		snap.ROIName = v.String()
	}

	return snap, nil
}
