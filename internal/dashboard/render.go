package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"roiwatch/internal/status"
)

// LocalStats are host-side readings, only available when polling localhost.
type LocalStats struct {
	MemUsedMB      uint64
	MemUsedPercent float64
	CPUTempC       float64
	HasCPUTemp     bool
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(16)
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	downStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

// Render formats one status snapshot. Every field already has a default, so a
// partial payload renders the same way as a complete one.
func Render(snap status.Snapshot, local *LocalStats, interval time.Duration) string {
	indicator := downStyle.Render("● " + snap.Status)
	if snap.Status == "running" {
		indicator = okStyle.Render("● running")
	}

	lines := []string{
		titleStyle.Render("RTSP ROI Counter"),
		"",
		row("Status", indicator),
		row("Uptime", fmt.Sprintf("%.1fh", snap.UptimeSeconds/3600)),
		row("FPS", fmt.Sprintf("%.1f fps", snap.FPS)),
		row("Frame interval", fmt.Sprintf("%.1f ms", snap.AvgProcessingTimeMS)),
		row("Total frames", fmt.Sprintf("%d", snap.TotalFrames)),
		row("Persons (recent)", fmt.Sprintf("%.1f", snap.RecentPersonCount)),
		row("Vehicles (recent)", fmt.Sprintf("%.1f", snap.RecentVehicleCount)),
		"",
		row("Source", snap.RTSPURL),
		row("ROI", snap.ROIName),
	}

	if local != nil {
		lines = append(lines,
			"",
			row("Host memory", fmt.Sprintf("%d MB (%.1f%%)", local.MemUsedMB, local.MemUsedPercent)),
		)
		if local.HasCPUTemp {
			lines = append(lines, row("CPU temp", fmt.Sprintf("%.1f°C", local.CPUTempC)))
		}
	}

	footer := dimStyle.Render(fmt.Sprintf("updated %s · refresh %s · ctrl-c to quit",
		time.Now().Format("15:04:05"), interval))

	return boxStyle.Render(strings.Join(lines, "\n")) + "\n" + footer + "\n"
}

// RenderUnreachable is the degraded view shown while the endpoint cannot be
// reached.
func RenderUnreachable(url string) string {
	lines := []string{
		titleStyle.Render("RTSP ROI Counter"),
		"",
		downStyle.Render("● cannot connect"),
		"",
		row("Endpoint", url),
		dimStyle.Render("worker may be starting or restarting, retrying..."),
	}
	return boxStyle.Render(strings.Join(lines, "\n")) + "\n"
}
