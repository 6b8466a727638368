package observability

import (
	"sync/atomic"
	"time"
)

// RelayStats aggregates the relay counters for the stats endpoint and the
// telemetry worker. Gauges coming from the registry are filled in by the
// caller; everything here is cumulative since process start.
type RelayStats struct {
	SessionsCreated   uint64 `json:"sessions_created"`
	SessionsActivated uint64 `json:"sessions_activated"`
	SessionsExpired   uint64 `json:"sessions_expired"`
	SessionsEmptied   uint64 `json:"sessions_emptied"`
	JoinsRejected     uint64 `json:"joins_rejected"`
	MessagesRelayed   uint64 `json:"messages_relayed"`
	MessagesDropped   uint64 `json:"messages_dropped"`

	LiveSessions     int   `json:"live_sessions"`
	LiveParticipants int   `json:"live_participants"`
	UptimeSeconds    int64 `json:"uptime_seconds"`
}

// Monitor counts relay activity with atomics so the hot path never takes a lock.
type Monitor struct {
	sessionsCreated   atomic.Uint64
	sessionsActivated atomic.Uint64
	sessionsExpired   atomic.Uint64
	sessionsEmptied   atomic.Uint64
	joinsRejected     atomic.Uint64
	messagesRelayed   atomic.Uint64
	messagesDropped   atomic.Uint64
	startedAt         time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{startedAt: time.Now()}
}

func (m *Monitor) SessionCreated()   { m.sessionsCreated.Add(1) }
func (m *Monitor) SessionActivated() { m.sessionsActivated.Add(1) }
func (m *Monitor) SessionExpired()   { m.sessionsExpired.Add(1) }
func (m *Monitor) SessionEmptied()   { m.sessionsEmptied.Add(1) }
func (m *Monitor) JoinRejected()     { m.joinsRejected.Add(1) }
func (m *Monitor) MessageRelayed()   { m.messagesRelayed.Add(1) }
func (m *Monitor) MessageDropped()   { m.messagesDropped.Add(1) }

// Snapshot returns the counters with the provided registry gauges merged in.
func (m *Monitor) Snapshot(liveSessions, liveParticipants int) RelayStats {
	return RelayStats{
		SessionsCreated:   m.sessionsCreated.Load(),
		SessionsActivated: m.sessionsActivated.Load(),
		SessionsExpired:   m.sessionsExpired.Load(),
		SessionsEmptied:   m.sessionsEmptied.Load(),
		JoinsRejected:     m.joinsRejected.Load(),
		MessagesRelayed:   m.messagesRelayed.Load(),
		MessagesDropped:   m.messagesDropped.Load(),
		LiveSessions:      liveSessions,
		LiveParticipants:  liveParticipants,
		UptimeSeconds:     int64(time.Since(m.startedAt).Seconds()),
	}
}
