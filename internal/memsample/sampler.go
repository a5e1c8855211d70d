package memsample

import (
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

const bytesPerMB = 1024 * 1024

// Sample is one point-in-time memory reading. Produced fresh on every
// supervision tick and never persisted.
type Sample struct {
	ProcessResidentMB uint64  `json:"process_resident_mb"`
	SystemUsedMB      uint64  `json:"system_used_mb"`
	SystemUsedPercent float64 `json:"system_used_percent"`
}

// Sampler reads process and host memory usage. Stateless; every call is a
// fresh OS query with no retries.
type Sampler struct{}

func New() *Sampler {
	return &Sampler{}
}

// Process returns the resident memory of pid in MB. A process that no longer
// exists (or cannot be read) reports 0 rather than an error; the caller acts
// on the next tick's reading.
func (s *Sampler) Process(pid int) uint64 {
	if pid <= 0 {
		return 0
	}

	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return 0
	}

	info, err := p.MemoryInfo()
	if err != nil || info == nil {
		return 0
	}

	return info.RSS / bytesPerMB
}

// System returns host-wide used memory in MB and as a percentage of total.
func (s *Sampler) System() (uint64, float64) {
	vm, err := mem.VirtualMemory()
	if err != nil || vm == nil {
		return 0, 0
	}

	return vm.Used / bytesPerMB, vm.UsedPercent
}

// Collect combines a process and a system reading into one Sample.
func (s *Sampler) Collect(pid int) Sample {
	usedMB, usedPercent := s.System()

	return Sample{
		ProcessResidentMB: s.Process(pid),
		SystemUsedMB:      usedMB,
		SystemUsedPercent: usedPercent,
	}
}

const thermalZonePath = "/sys/class/thermal/thermal_zone0/temp"

// CPUTemperature reads the SoC temperature in degrees Celsius. Returns
// ok=false on hosts without the standard thermal sysfs node.
func CPUTemperature() (float64, bool) {
	data, err := os.ReadFile(thermalZonePath)
	if err != nil {
		return 0, false
	}

	milli, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false
	}

	return float64(milli) / 1000.0, true
}
