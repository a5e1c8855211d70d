package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"roiwatch/internal/logging"
	"roiwatch/internal/policy"
)

// DefaultConfigPaths lists where the watchdog's own config file is searched,
// first hit wins. The file is optional; defaults plus env vars are enough to
// run.
var DefaultConfigPaths = []string{
	"watchdog.yaml",
	"/etc/roiwatch/watchdog.yaml",
}

// envPrefix scopes environment overrides, e.g. WATCHDOG_PROCESS_LIMIT_MB=2000.
const envPrefix = "WATCHDOG_"

// envMappings routes environment variables to config keys. Variables outside
// this map are ignored.
var envMappings = map[string]string{
	"worker_command":       "worker.command",
	"worker_log_file":      "worker.log_file",
	"process_limit_mb":     "limits.process_mb",
	"system_percent_limit": "limits.system_percent",
	"sample_interval":      "sample_interval",
	"grace_period":         "grace_period",
	"log_level":            "log.level",
	"log_file":             "log.file",
	"api_enabled":          "api.enabled",
	"api_address":          "api.address",
}

type Config struct {
	Worker         WorkerConfig   `koanf:"worker"`
	Limits         LimitsConfig   `koanf:"limits"`
	SampleInterval time.Duration  `koanf:"sample_interval"`
	GracePeriod    time.Duration  `koanf:"grace_period"`
	Log            logging.Config `koanf:"log"`
	API            APIConfig      `koanf:"api"`
}

// WorkerConfig describes how the worker process is launched. The worker's own
// config file path is appended as the single positional argument.
type WorkerConfig struct {
	Command string   `koanf:"command"`
	Args    []string `koanf:"args"`

	// LogFile receives the worker's stdout and stderr, separate from the
	// watchdog's own log.
	LogFile string `koanf:"log_file"`
}

type LimitsConfig struct {
	ProcessMB     uint64  `koanf:"process_mb"`
	SystemPercent float64 `koanf:"system_percent"`
}

func (l LimitsConfig) Policy() policy.Limits {
	return policy.Limits{
		ProcessLimitMB:     l.ProcessMB,
		SystemPercentLimit: l.SystemPercent,
	}
}

// APIConfig controls the optional introspection HTTP endpoint.
type APIConfig struct {
	Enabled bool   `koanf:"enabled"`
	Address string `koanf:"address"`
}

func defaultConfig() *Config {
	return &Config{
		Worker: WorkerConfig{
			Command: "rtsp-roi-counter",
			LogFile: "/var/log/roiwatch-worker.log",
		},
		Limits: LimitsConfig{
			ProcessMB:     policy.DefaultProcessLimitMB,
			SystemPercent: policy.DefaultSystemPercentLimit,
		},
		SampleInterval: 30 * time.Second,
		GracePeriod:    5 * time.Second,
		Log: logging.Config{
			Level: "info",
			File:  "/var/log/roiwatch.log",
		},
		API: APIConfig{
			Enabled: false,
			Address: ":9091",
		},
	}
}

// Load builds the watchdog configuration: defaults, then the first existing
// config file (or the explicit path when non-empty), then WATCHDOG_* env vars.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	candidates := DefaultConfigPaths
	if path != "" {
		candidates = []string{path}
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err != nil {
			if path != "" {
				return nil, fmt.Errorf("config file %s: %w", p, err)
			}
			continue
		}
		if err := k.Load(file.Provider(p), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		break
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return envMappings[strings.ToLower(strings.TrimPrefix(s, envPrefix))]
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Worker.Command == "" {
		return errors.New("worker.command must not be empty")
	}
	if c.Limits.ProcessMB == 0 {
		return errors.New("limits.process_mb must be > 0")
	}
	if c.Limits.SystemPercent <= 0 || c.Limits.SystemPercent > 100 {
		return errors.New("limits.system_percent must be in (0,100]")
	}
	if c.SampleInterval <= 0 {
		return errors.New("sample_interval must be > 0")
	}
	if c.GracePeriod <= 0 {
		return errors.New("grace_period must be > 0")
	}
	return nil
}
