package ports

import (
	"context"

	"go.trai.ch/robcache/internal/core/domain"
)

// ReadoutServer exposes recorded events to remote gateways.
//
//go:generate go run go.uber.org/mock/mockgen -source=readout.go -destination=mocks/mock_readout.go -package=mocks
type ReadoutServer interface {
	// Serve answers fragment requests on addr until ctx is cancelled.
	Serve(ctx context.Context, addr string, events []domain.Event) error
}
