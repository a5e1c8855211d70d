// Package supervisor owns the worker process lifecycle: spawn, periodic
// memory sampling, threshold-triggered termination, signal handling and exit
// code relay.
package supervisor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"roiwatch/internal/config"
	"roiwatch/internal/memsample"
	"roiwatch/internal/policy"
)

// State tracks where the supervisor is in the worker's lifecycle. All
// transitions happen sequentially inside the control loop.
type State int

const (
	StateStarting State = iota
	StateRunning
	StateGracefulShutdown
	StateForcedShutdown
	StateExited
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateGracefulShutdown:
		return "graceful_shutdown"
	case StateForcedShutdown:
		return "forced_shutdown"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Supervisor exit codes. Anything else is the worker's own exit code relayed
// verbatim.
const (
	ExitCleanShutdown  = 0
	ExitResourceBreach = 1
)

// MemorySampler produces one memory sample per supervision tick.
type MemorySampler interface {
	Collect(pid int) memsample.Sample
}

// Supervisor drives exactly one worker process. Single control loop; the
// mutex only guards the snapshot read by the introspection API.
type Supervisor struct {
	cfg              *config.Config
	workerConfigPath string
	sampler          MemorySampler
	logger           zerolog.Logger

	mu         sync.Mutex
	state      State
	worker     *Worker
	lastSample memsample.Sample
}

func New(cfg *config.Config, workerConfigPath string, sampler MemorySampler, logger zerolog.Logger) *Supervisor {
	return &Supervisor{
		cfg:              cfg,
		workerConfigPath: workerConfigPath,
		sampler:          sampler,
		logger:           logger,
		state:            StateStarting,
	}
}

// Run spawns the worker and supervises it until it exits, a memory limit is
// breached, or ctx is canceled by an external signal. The return value is the
// watchdog's process exit code: 0 for a signal-initiated clean stop or a clean
// worker exit, 1 for a resource breach or spawn failure, otherwise the
// worker's own non-zero exit code.
func (s *Supervisor) Run(ctx context.Context) int {
	limits := s.cfg.Limits.Policy()

	s.logger.Info().
		Str("worker_config", s.workerConfigPath).
		Uint64("process_limit_mb", limits.ProcessLimitMB).
		Float64("system_percent_limit", limits.SystemPercentLimit).
		Msg("starting worker")

	worker, err := StartWorker(s.cfg.Worker.Command, s.cfg.Worker.Args, s.workerConfigPath, s.cfg.Worker.LogFile)
	if err != nil {
		// Spawn failure is a configuration-class error: report and stop.
		s.logger.Error().Err(err).Str("command", s.cfg.Worker.Command).Msg("failed to start worker")
		s.setState(StateExited)
		return ExitResourceBreach
	}

	s.setWorker(worker)
	s.setState(StateRunning)
	s.logger.Info().Int("pid", worker.PID()).Msg("worker running")

	ticker := time.NewTicker(s.cfg.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("termination signal received, stopping worker")
			s.shutdown(worker)
			return ExitCleanShutdown

		case <-worker.Done():
			return s.relayExit(worker)

		case <-ticker.C:
			if !worker.IsAlive() {
				return s.relayExit(worker)
			}

			sample := s.sampler.Collect(worker.PID())
			s.setLastSample(sample)
			s.logger.Info().
				Uint64("resident_mb", sample.ProcessResidentMB).
				Uint64("system_used_mb", sample.SystemUsedMB).
				Float64("system_used_percent", sample.SystemUsedPercent).
				Msg("memory sample")

			verdict := policy.Evaluate(sample, limits)
			if verdict == policy.NoBreach {
				continue
			}

			s.logBreach(verdict, sample, limits)
			s.shutdown(worker)

			if ctx.Err() != nil {
				// An external signal arrived while the breach shutdown was
				// in flight; the signal path wins.
				return ExitCleanShutdown
			}
			return ExitResourceBreach
		}
	}
}

// relayExit handles a worker that exited on its own: relay its exit code.
func (s *Supervisor) relayExit(w *Worker) int {
	code := w.Wait()
	s.setState(StateExited)

	if code < 0 {
		// Killed by a signal we did not send; nothing verbatim to relay.
		s.logger.Warn().Msg("worker killed by external signal")
		return ExitResourceBreach
	}
	if code == 0 {
		s.logger.Info().Msg("worker exited cleanly")
	} else {
		s.logger.Warn().Int("exit_code", code).Msg("worker exited with error")
	}
	return code
}

// shutdown runs the graceful-then-forced termination protocol. Safe to reach
// more than once; all termination requests against an exited worker are
// no-ops.
func (s *Supervisor) shutdown(w *Worker) {
	s.setState(StateGracefulShutdown)
	s.logger.Info().Dur("grace_period", s.cfg.GracePeriod).Msg("requesting graceful shutdown")
	w.SendGraceful()

	if !w.WaitTimeout(s.cfg.GracePeriod) {
		s.setState(StateForcedShutdown)
		s.logger.Warn().Msg("worker did not stop within grace period, killing")
		w.Kill()
		w.Wait()
	}

	s.setState(StateExited)
	s.logger.Info().Msg("worker stopped")
}

func (s *Supervisor) logBreach(v policy.Verdict, sample memsample.Sample, limits policy.Limits) {
	switch v {
	case policy.ProcessMemoryExceeded:
		s.logger.Warn().
			Uint64("resident_mb", sample.ProcessResidentMB).
			Uint64("limit_mb", limits.ProcessLimitMB).
			Msg("worker memory limit exceeded, terminating")
	case policy.SystemMemoryExceeded:
		s.logger.Warn().
			Float64("system_used_percent", sample.SystemUsedPercent).
			Float64("limit_percent", limits.SystemPercentLimit).
			Msg("system memory limit exceeded, terminating")
	}
}

func (s *Supervisor) setState(st State) {
	s.mu.Lock()
	prev := s.state
	s.state = st
	s.mu.Unlock()

	if prev != st {
		s.logger.Info().Str("from", prev.String()).Str("to", st.String()).Msg("state transition")
	}
}

func (s *Supervisor) setWorker(w *Worker) {
	s.mu.Lock()
	s.worker = w
	s.mu.Unlock()
}

func (s *Supervisor) setLastSample(sample memsample.Sample) {
	s.mu.Lock()
	s.lastSample = sample
	s.mu.Unlock()
}

// Snapshot is a point-in-time view of the supervisor for the introspection
// API.
type Snapshot struct {
	State         string           `json:"state"`
	PID           int              `json:"pid"`
	StartedAt     time.Time        `json:"started_at"`
	UptimeSeconds float64          `json:"uptime_seconds"`
	LastSample    memsample.Sample `json:"last_sample"`
	Limits        policy.Limits    `json:"limits"`
}

func (s *Supervisor) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:      s.state.String(),
		Limits:     s.cfg.Limits.Policy(),
		LastSample: s.lastSample,
	}
	if s.worker != nil {
		snap.PID = s.worker.cmd.Process.Pid
		snap.StartedAt = s.worker.startedAt
		if s.state != StateExited {
			snap.UptimeSeconds = time.Since(s.worker.startedAt).Seconds()
		}
	}
	return snap
}
