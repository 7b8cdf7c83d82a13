package optimizer

import (
	"context"
	"sync"

	"route-visualizer/internal/domain"
	"route-visualizer/internal/ports"
)

// MockOptimizer returns a canned result (or error) and records every
// request it receives.
type MockOptimizer struct {
	mu       sync.Mutex
	result   *domain.OptimizationResult
	err      error
	requests []domain.OptimizationRequest
}

var _ ports.Optimizer = (*MockOptimizer)(nil)

func NewMockOptimizer(result *domain.OptimizationResult) *MockOptimizer {
	return &MockOptimizer{result: result}
}

// NewFailingOptimizer returns a mock whose every Submit fails with err.
func NewFailingOptimizer(err error) *MockOptimizer {
	return &MockOptimizer{err: err}
}

func (m *MockOptimizer) Submit(ctx context.Context, req *domain.OptimizationRequest) (*domain.OptimizationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if req != nil {
		m.requests = append(m.requests, *req)
	}

	if err := ctx.Err(); err != nil {
		return nil, &domain.OptimizationError{Op: "submit", Message: err.Error(), Err: err}
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return nil, &domain.OptimizationError{Op: "submit", Message: "no canned result"}
	}

	return cloneResult(m.result), nil
}

// Requests returns the requests received so far.
func (m *MockOptimizer) Requests() []domain.OptimizationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.OptimizationRequest(nil), m.requests...)
}

func cloneResult(r *domain.OptimizationResult) *domain.OptimizationResult {
	out := *r
	out.Routes = make([]domain.Route, len(r.Routes))
	for i, rt := range r.Routes {
		rt.Stops = append([]int(nil), rt.Stops...)
		out.Routes[i] = rt
	}
	return &out
}
