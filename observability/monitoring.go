package observability

import (
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Snapshot aggregates the process-level figures served by the diagnostics
// endpoint. Connections comes from the fan-out registry; the rest is
// sampled from the Go runtime and the OS.
type Snapshot struct {
	Connections   int     `json:"connections"`
	Goroutines    int     `json:"goroutines"`
	AllocMemMB    uint64  `json:"alloc_mem_mb"`
	RSSMemMB      uint64  `json:"rss_mem_mb"`
	CPUPercent    float64 `json:"cpu_percent"`
	NumGC         uint32  `json:"num_gc"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Monitor keeps the latest snapshot behind a read lock so the diagnostics
// handler never pays the sampling cost itself; the telemetry worker
// refreshes it on its own interval.
type Monitor struct {
	mu      sync.RWMutex
	log     *slog.Logger
	started time.Time
	proc    *process.Process
	latest  Snapshot
}

func NewMonitor(log *slog.Logger) (*Monitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Monitor{log: log, started: time.Now(), proc: proc}, nil
}

// Sample refreshes the snapshot. OS-level probes failing (restricted
// containers) degrade to zero values instead of breaking diagnostics.
func (m *Monitor) Sample(connections int) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	snapshot := Snapshot{
		Connections:   connections,
		Goroutines:    runtime.NumGoroutine(),
		AllocMemMB:    memStats.Alloc / 1024 / 1024,
		NumGC:         memStats.NumGC,
		UptimeSeconds: time.Since(m.started).Seconds(),
	}

	if memInfo, err := m.proc.MemoryInfo(); err == nil {
		snapshot.RSSMemMB = memInfo.RSS / 1024 / 1024
	} else {
		m.log.Debug("process memory probe failed", "error", err)
	}
	if cpu, err := m.proc.Percent(0); err == nil {
		snapshot.CPUPercent = cpu
	} else {
		m.log.Debug("process cpu probe failed", "error", err)
	}

	m.mu.Lock()
	m.latest = snapshot
	m.mu.Unlock()
}

func (m *Monitor) Latest() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}
