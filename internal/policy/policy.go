// Package policy decides whether a memory sample requires terminating the
// worker. Evaluation is pure: no I/O, deterministic for a given sample.
package policy

import "roiwatch/internal/memsample"

// Verdict is the outcome of evaluating one sample against the limits.
type Verdict int

const (
	NoBreach Verdict = iota
	ProcessMemoryExceeded
	SystemMemoryExceeded
)

func (v Verdict) String() string {
	switch v {
	case ProcessMemoryExceeded:
		return "process memory exceeded"
	case SystemMemoryExceeded:
		return "system memory exceeded"
	default:
		return "no breach"
	}
}

// Limits holds the configured memory ceilings. Loaded once at startup and
// never mutated.
type Limits struct {
	ProcessLimitMB     uint64  `json:"process_limit_mb"`
	SystemPercentLimit float64 `json:"system_percent_limit"`
}

const (
	DefaultProcessLimitMB     = 1500
	DefaultSystemPercentLimit = 95.0
)

func DefaultLimits() Limits {
	return Limits{
		ProcessLimitMB:     DefaultProcessLimitMB,
		SystemPercentLimit: DefaultSystemPercentLimit,
	}
}

// Evaluate checks a sample against the limits. Comparisons are strict: a
// reading exactly at the limit is not a breach. When both limits are exceeded
// in the same sample the process-level breach is reported; the resulting
// action is the same either way.
func Evaluate(s memsample.Sample, l Limits) Verdict {
	if s.ProcessResidentMB > l.ProcessLimitMB {
		return ProcessMemoryExceeded
	}
	if s.SystemUsedPercent > l.SystemPercentLimit {
		return SystemMemoryExceeded
	}
	return NoBreach
}
