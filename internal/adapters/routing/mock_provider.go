package routing

import (
	"context"
	"sync"

	"travel-time-service/internal/domain"
	"travel-time-service/internal/ports"
)

// MockRouteProvider returns canned results for sensor tests.
type MockRouteProvider struct {
	sync.Mutex
	Result domain.RouteResult
	Err    error
	Calls  int
}

func (m *MockRouteProvider) Route(_ context.Context, req ports.RouteRequest) (domain.RouteResult, error) {
	m.Lock()
	defer m.Unlock()

	m.Calls++
	if m.Err != nil {
		return domain.RouteResult{}, m.Err
	}

	r := m.Result
	r.Origin = req.Origin
	r.Destination = req.Destination
	r.HasTraffic = req.TrafficAware
	return r, nil
}
