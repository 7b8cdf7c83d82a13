package ports

import (
	"context"
	"route-visualizer/internal/domain"
)

// Contract for the external route-optimization service.
type Optimizer interface {
	// Perform one round trip. On failure the error is a *domain.OptimizationError.
	// Implementations never retry.
	Submit(ctx context.Context, req *domain.OptimizationRequest) (*domain.OptimizationResult, error)
}
