package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// ErrConfigNotFound reports a worker config path that does not reference an
// existing file. Fatal at startup; the worker is never spawned.
var ErrConfigNotFound = errors.New("worker config not found")

// Known install locations for the Hailo YOLO post-process library, checked
// when the configured path is missing.
var postprocessFallbacks = []string{
	"/usr/local/hailo/resources/so/libyolo_hailortpp_postprocess.so",
	"/usr/lib/aarch64-linux-gnu/hailo/tappas/post_processes/libyolo_hailortpp_postprocess.so",
}

// WorkerInfo is the subset of the worker's JSON config the watchdog cares
// about. The worker owns full validation of its own config; these fields are
// read tolerantly and only used for preflight warnings and display.
type WorkerInfo struct {
	RTSPURL       string
	HEFPath       string
	PostprocessSO string
	StatusPort    int64
}

// ValidateWorkerConfig checks that the worker config path references an
// existing regular file.
func ValidateWorkerConfig(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrConfigNotFound, path)
	}
	return nil
}

// ProbeWorkerConfig reads the fields of interest from the worker's config.
// Missing fields are left zero; only an unreadable or non-JSON file is an
// error.
func ProbeWorkerConfig(path string) (WorkerInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return WorkerInfo{}, fmt.Errorf("read worker config: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return WorkerInfo{}, fmt.Errorf("worker config %s is not valid JSON", path)
	}

	root := gjson.ParseBytes(data)
	return WorkerInfo{
		RTSPURL:       root.Get("rtsp_url").String(),
		HEFPath:       root.Get("hef_path").String(),
		PostprocessSO: root.Get("postprocess_so").String(),
		StatusPort:    root.Get("status_port").Int(),
	}, nil
}

// PreflightWarnings reports environment problems the worker will likely trip
// over: missing model file, missing post-process library. Warnings only, the
// worker performs its own hard validation on startup.
func (w WorkerInfo) PreflightWarnings() []string {
	var warnings []string

	if w.HEFPath != "" {
		if _, err := os.Stat(w.HEFPath); err != nil {
			warnings = append(warnings, fmt.Sprintf("model file not found: %s", w.HEFPath))
		}
	}

	if w.PostprocessSO != "" {
		if _, err := os.Stat(w.PostprocessSO); err != nil {
			found := false
			for _, p := range postprocessFallbacks {
				if _, err := os.Stat(p); err == nil {
					found = true
					break
				}
			}
			if !found {
				warnings = append(warnings, fmt.Sprintf("post-process library not found: %s (no fallback present)", w.PostprocessSO))
			}
		}
	}

	return warnings
}
