// Package dashboard polls the worker's /status endpoint and renders a live
// terminal view. It shares nothing with the supervisor but the JSON contract.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"roiwatch/internal/memsample"
	"roiwatch/internal/status"
)

const (
	connectTimeout  = 5 * time.Second
	DefaultInterval = 5 * time.Second
	maxBodySize     = 1 << 20
)

// Poller runs the sequential fetch, render, sleep cycle. One request in
// flight at a time; the previous view is fully replaced each cycle.
type Poller struct {
	url      string
	client   *http.Client
	interval time.Duration
	local    bool
	out      io.Writer
}

func New(host string, port int, interval time.Duration, out io.Writer) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if out == nil {
		out = os.Stdout
	}

	return &Poller{
		url:      fmt.Sprintf("http://%s/status", net.JoinHostPort(host, strconv.Itoa(port))),
		client:   &http.Client{Timeout: connectTimeout},
		interval: interval,
		local:    isLocalHost(host),
		out:      out,
	}
}

func (p *Poller) URL() string {
	return p.url
}

// Run polls until ctx is canceled. An unreachable endpoint is an expected
// condition (the worker may be mid-restart): it renders the degraded view and
// the loop keeps going.
func (p *Poller) Run(ctx context.Context) {
	for {
		p.cycle(ctx)

		select {
		case <-ctx.Done():
			fmt.Fprintln(p.out, "dashboard stopped")
			return
		case <-time.After(p.interval):
		}
	}
}

func (p *Poller) cycle(ctx context.Context) {
	var view string

	snap, err := p.fetch(ctx)
	if err != nil {
		view = RenderUnreachable(p.url)
	} else {
		view = Render(snap, p.localStats(), p.interval)
	}

	// Full redraw: clear screen, home cursor, reprint.
	fmt.Fprint(p.out, "\033[H\033[2J"+view)
}

func (p *Poller) fetch(ctx context.Context) (status.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return status.Defaults(), err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return status.Defaults(), err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return status.Defaults(), fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return status.Defaults(), err
	}

	return status.Parse(body)
}

// localStats gathers host-side readings, shown only when polling the local
// machine.
func (p *Poller) localStats() *LocalStats {
	if !p.local {
		return nil
	}

	sampler := memsample.New()
	usedMB, usedPercent := sampler.System()

	stats := &LocalStats{
		MemUsedMB:      usedMB,
		MemUsedPercent: usedPercent,
	}
	if temp, ok := memsample.CPUTemperature(); ok {
		stats.CPUTempC = temp
		stats.HasCPUTemp = true
	}
	return stats
}

func isLocalHost(host string) bool {
	switch host {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	if name, err := os.Hostname(); err == nil && host == name {
		return true
	}
	return false
}
