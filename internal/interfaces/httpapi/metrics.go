package httpapi

import (
	"sort"
	"sync"
	"time"
)

// Metrics counts requests per route and status class.
type Metrics struct {
	mu            sync.RWMutex
	startTime     time.Time
	requests      map[string]uint64
	serverErrors  map[string]uint64
	clientErrors  map[string]uint64
	totalDuration map[string]time.Duration
	mappingErrors uint64
}

type RouteSnapshot struct {
	Route         string
	Requests      uint64
	ClientErrors  uint64
	ServerErrors  uint64
	TotalDuration time.Duration
}

type MetricsSnapshot struct {
	StartTime     time.Time
	MappingErrors uint64
	Routes        []RouteSnapshot
}

func NewMetrics() *Metrics {
	return &Metrics{
		startTime:     time.Now(),
		requests:      make(map[string]uint64),
		serverErrors:  make(map[string]uint64),
		clientErrors:  make(map[string]uint64),
		totalDuration: make(map[string]time.Duration),
	}
}

func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[route]++
	m.totalDuration[route] += elapsed
	switch {
	case status >= 500:
		m.serverErrors[route]++
	case status >= 400:
		m.clientErrors[route]++
	}
}

func (m *Metrics) OnMappingError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mappingErrors++
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	routes := make([]RouteSnapshot, 0, len(m.requests))
	for route, count := range m.requests {
		routes = append(routes, RouteSnapshot{
			Route:         route,
			Requests:      count,
			ClientErrors:  m.clientErrors[route],
			ServerErrors:  m.serverErrors[route],
			TotalDuration: m.totalDuration[route],
		})
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Route < routes[j].Route })
	return MetricsSnapshot{
		StartTime:     m.startTime,
		MappingErrors: m.mappingErrors,
		Routes:        routes,
	}
}
