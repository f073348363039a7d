package readout

import (
	"context"
	"net"

	"go.trai.ch/robcache/internal/core/domain"
)

// ServeListener exposes serve so tests can bind an ephemeral port first.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener, events []domain.Event) error {
	return s.serve(ctx, ln, events)
}
