package service

import (
	"sync"
	"time"
)

// APIMetrics keeps per-route request counters in process memory. Counters
// reset on restart; they exist for the health endpoint, not for durable
// telemetry.
type APIMetrics struct {
	mu     sync.Mutex
	routes map[string]*routeCounters
}

type routeCounters struct {
	requests int64
	errors   int64
	duration time.Duration
}

// RouteSnapshot is a point-in-time view of one route's counters.
type RouteSnapshot struct {
	Requests  int64   `json:"requests"`
	Errors    int64   `json:"errors"`
	AvgMillis float64 `json:"avgMillis"`
}

// NewAPIMetrics creates an empty metrics registry.
func NewAPIMetrics() *APIMetrics {
	return &APIMetrics{routes: make(map[string]*routeCounters)}
}

// Record counts one request against a route. Statuses of 400 and above
// count as errors.
func (m *APIMetrics) Record(route string, status int, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.routes[route]
	if !ok {
		c = &routeCounters{}
		m.routes[route] = c
	}

	c.requests++
	c.duration += elapsed
	if status >= 400 {
		c.errors++
	}
}

// Snapshot returns a copy of every route's counters.
func (m *APIMetrics) Snapshot() map[string]RouteSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]RouteSnapshot, len(m.routes))
	for route, c := range m.routes {
		snap := RouteSnapshot{Requests: c.requests, Errors: c.errors}
		if c.requests > 0 {
			snap.AvgMillis = float64(c.duration.Milliseconds()) / float64(c.requests)
		}
		out[route] = snap
	}
	return out
}
