package health

import (
	"context"
	"sync"
	"time"
)

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) error

// StreamStat reports the subscriber count of a stream.
type StreamStat interface {
	Name() string
	Subscribers() int
}

type check struct {
	name     string
	fn       CheckFunc
	critical bool
}

// Monitor aggregates health status from the registered dependencies.
type Monitor struct {
	checks     []check
	streams    []StreamStat
	timeout    time.Duration
	cacheTTL   time.Duration
	lastCheck  time.Time
	lastReport *HealthReport
	mu         sync.Mutex
}

// NewMonitor creates a monitor. Reports are cached for cacheTTL.
func NewMonitor(cacheTTL time.Duration) *Monitor {
	return &Monitor{
		timeout:  2 * time.Second,
		cacheTTL: cacheTTL,
	}
}

// AddCheck registers a dependency. A failing critical dependency makes the
// whole system critical; any other failure only degrades it.
func (m *Monitor) AddCheck(name string, fn CheckFunc, critical bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks = append(m.checks, check{name: name, fn: fn, critical: critical})
	m.lastReport = nil
}

// AddStream includes a stream's subscriber count in reports.
func (m *Monitor) AddStream(s StreamStat) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streams = append(m.streams, s)
}

// CheckHealth runs every check, or returns the cached report.
func (m *Monitor) CheckHealth(ctx context.Context) HealthReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Rate limit checks to avoid hammering the database
	if m.lastReport != nil && time.Since(m.lastCheck) < m.cacheTTL {
		return m.withStreams(*m.lastReport)
	}

	report := HealthReport{
		SystemStatus: StatusHealthy,
		Components:   make(map[string]ComponentHealth, len(m.checks)),
	}

	for _, c := range m.checks {
		health := ComponentHealth{Name: c.name, Status: StatusHealthy}

		checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
		err := c.fn(checkCtx)
		cancel()

		if err != nil {
			health.Error = err.Error()
			health.Status = StatusDegraded
			if c.critical {
				health.Status = StatusCritical
			}
		}

		// Worst case wins
		if health.Status == StatusCritical {
			report.SystemStatus = StatusCritical
		} else if health.Status == StatusDegraded && report.SystemStatus == StatusHealthy {
			report.SystemStatus = StatusDegraded
		}

		report.Components[c.name] = health
	}

	m.lastCheck = time.Now()
	m.lastReport = &report
	return m.withStreams(report)
}

func (m *Monitor) withStreams(report HealthReport) HealthReport {
	if len(m.streams) == 0 {
		return report
	}
	report.Streams = make([]StreamHealth, 0, len(m.streams))
	for _, s := range m.streams {
		report.Streams = append(report.Streams, StreamHealth{Name: s.Name(), Subscribers: s.Subscribers()})
	}
	return report
}
