package workers

import (
	"context"
	"log/slog"
	"time"

	"chatline/contract"
	"chatline/observability"
)

// Telemetry periodically refreshes the diagnostics snapshot and mirrors the
// connection count into prometheus.
type Telemetry struct {
	log      *slog.Logger
	monitor  *observability.Monitor
	metrics  *observability.Metrics
	registry contract.IRegistry
	interval time.Duration
}

func NewTelemetry(log *slog.Logger, monitor *observability.Monitor,
	metrics *observability.Metrics, registry contract.IRegistry,
	interval time.Duration) *Telemetry {
	return &Telemetry{
		log:      log,
		monitor:  monitor,
		metrics:  metrics,
		registry: registry,
		interval: interval,
	}
}

func (w *Telemetry) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			connections := w.registry.Count()
			w.monitor.Sample(connections)
			w.metrics.ActiveConnections.Set(float64(connections))
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		}
	}
}
