package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"roiwatch/internal/api"
	"roiwatch/internal/config"
	"roiwatch/internal/logging"
	"roiwatch/internal/memsample"
	"roiwatch/internal/supervisor"
)

const exampleWorkerConfig = `{
  "rtsp_url": "rtsp://192.168.1.100:8554/stream",
  "hef_path": "/path/to/yolov6n.hef",
  "postprocess_so": "/path/to/libyolo_hailortpp_postprocess.so",
  "roi": {"x1": 0.2, "y1": 0.2, "x2": 0.8, "y2": 0.8, "name": "entrance"},
  "enable_http_status": true,
  "status_port": 8080
}`

func main() {
	// Run's result is the process exit code; cobra errors (bad args, missing
	// config) are themselves exit 1.
	exitCode := supervisor.ExitCleanShutdown
	var configFile string

	root := &cobra.Command{
		Use:   "watchdog <worker-config.json> [memory-limit-mb]",
		Short: "Supervise the rtsp-roi-counter worker under a hard memory limit",
		Long: `Spawns the rtsp-roi-counter worker and samples its resident memory every
sampling interval. When the worker exceeds its memory limit, or system memory
crosses the configured percentage, the worker is asked to stop and killed if
it does not comply within the grace period. The service manager restarts the
watchdog afterwards.

Example worker config:
` + exampleWorkerConfig,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			workerConfig := args[0]
			if err := config.ValidateWorkerConfig(workerConfig); err != nil {
				return err
			}

			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			if len(args) == 2 {
				limit, err := strconv.ParseUint(args[1], 10, 64)
				if err != nil || limit == 0 {
					return fmt.Errorf("invalid memory limit %q", args[1])
				}
				cfg.Limits.ProcessMB = limit
			}

			logger, cleanup, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			defer cleanup()

			if info, err := config.ProbeWorkerConfig(workerConfig); err != nil {
				logger.Warn().Err(err).Msg("could not probe worker config")
			} else {
				for _, warning := range info.PreflightWarnings() {
					logger.Warn().Msg(warning)
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sup := supervisor.New(cfg, workerConfig, memsample.New(), logger)

			if cfg.API.Enabled {
				srv := &http.Server{
					Addr:         cfg.API.Address,
					Handler:      api.NewRouter(sup),
					ReadTimeout:  15 * time.Second,
					WriteTimeout: 15 * time.Second,
				}
				go func() {
					logger.Info().Str("address", cfg.API.Address).Msg("introspection API listening")
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						logger.Error().Err(err).Msg("introspection API failed")
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					srv.Shutdown(shutdownCtx)
				}()
			}

			exitCode = sup.Run(ctx)
			return nil
		},
	}

	root.Flags().StringVar(&configFile, "config", "", "watchdog config file (default: watchdog.yaml if present)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}
