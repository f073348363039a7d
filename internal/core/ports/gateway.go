// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/robcache/internal/core/domain"
)

// FetchGateway retrieves fragments that are not yet cached from the readout system.
//
//go:generate go run go.uber.org/mock/mockgen -source=gateway.go -destination=mocks/mock_gateway.go -package=mocks
type FetchGateway interface {
	// Fetch blocks for the network round-trip and returns whatever it could resolve.
	//
	// A returned error means the transport failed; callers treat every wanted id
	// as still missing. Implementations do not deduplicate concurrent requests.
	Fetch(ctx context.Context, req domain.FetchRequest) (domain.FetchResult, error)
}

// GatewayFactory builds the configured FetchGateway variant.
type GatewayFactory interface {
	// NewGateway creates a gateway for cfg. Replay gateways answer from events.
	NewGateway(cfg domain.GatewayConfig, events []domain.Event) (FetchGateway, error)
}
