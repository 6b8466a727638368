package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"github.com/Harshmalhotra78898/LiveInteract/observability"
)

// StatsProvider returns the current relay counters and gauges.
type StatsProvider func() observability.RelayStats

// TelemetryWorker periodically logs process health (RSS, CPU) together with
// the relay counters. Sampling is read-only, so it never interferes with the
// join/relay hot path.
type TelemetryWorker struct {
	log      *slog.Logger
	interval time.Duration
	stats    StatsProvider
}

func NewTelemetryWorker(log *slog.Logger, interval time.Duration, stats StatsProvider) *TelemetryWorker {
	return &TelemetryWorker{log: log, interval: interval, stats: stats}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	w.log.Info("Starting relay telemetry worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			s := w.stats()
			w.log.Info("relay telemetry",
				"live_sessions", s.LiveSessions,
				"live_participants", s.LiveParticipants,
				"sessions_created", s.SessionsCreated,
				"sessions_expired", s.SessionsExpired,
				"messages_relayed", s.MessagesRelayed,
				"messages_dropped", s.MessagesDropped,
				"ram_bytes", rss,
				"cpu_percent", cpu,
			)
		}
	}
}

// selfStats retrieves memory and CPU usage for the given process.
func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
