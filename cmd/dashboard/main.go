package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"roiwatch/internal/dashboard"
)

func main() {
	var intervalSecs int

	root := &cobra.Command{
		Use:   "dashboard [host] [port]",
		Short: "Live terminal view of the rtsp-roi-counter status endpoint",
		Long: `Polls http://<host>:<port>/status and redraws a status view every refresh
interval. An unreachable endpoint is expected while the worker restarts; the
dashboard shows a degraded view and keeps polling.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			host := "localhost"
			port := 8080

			if len(args) >= 1 {
				host = args[0]
			}
			if len(args) == 2 {
				p, err := strconv.Atoi(args[1])
				if err != nil || p <= 0 || p > 65535 {
					return fmt.Errorf("invalid port %q", args[1])
				}
				port = p
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			poller := dashboard.New(host, port, time.Duration(intervalSecs)*time.Second, os.Stdout)
			poller.Run(ctx)
			return nil
		},
	}

	root.Flags().IntVarP(&intervalSecs, "interval", "n", 5, "refresh interval in seconds")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
