package readout

import (
	"net/http"

	"go.trai.ch/robcache/internal/core/domain"
	"go.trai.ch/robcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// Factory implements ports.GatewayFactory.
type Factory struct {
	client *http.Client
}

// NewFactory creates a Factory. HTTP gateways use client, or
// http.DefaultClient when client is nil.
func NewFactory(client *http.Client) *Factory {
	return &Factory{client: client}
}

var _ ports.GatewayFactory = (*Factory)(nil)

// NewGateway creates the gateway selected by cfg.Kind.
func (f *Factory) NewGateway(cfg domain.GatewayConfig, events []domain.Event) (ports.FetchGateway, error) {
	switch cfg.Kind {
	case domain.GatewayEmulator, "":
		return NewEmulator(cfg), nil
	case domain.GatewayReplay:
		return NewReplay(events), nil
	case domain.GatewayHTTP:
		return NewHTTPGateway(cfg, f.client), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownGatewayKind, "cannot build gateway"), "kind", string(cfg.Kind))
	}
}
