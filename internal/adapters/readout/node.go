package readout

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/robcache/internal/adapters/logger"
	"go.trai.ch/robcache/internal/core/ports"
)

const (
	// FactoryNodeID is the unique identifier for the gateway factory Graft node.
	FactoryNodeID graft.ID = "adapter.readout.factory"
	// EventLoaderNodeID is the unique identifier for the event loader Graft node.
	EventLoaderNodeID graft.ID = "adapter.readout.events"
	// ServerNodeID is the unique identifier for the readout server Graft node.
	ServerNodeID graft.ID = "adapter.readout.server"
)

func init() {
	graft.Register(graft.Node[ports.GatewayFactory]{
		ID:        FactoryNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.GatewayFactory, error) {
			return NewFactory(nil), nil
		},
	})

	graft.Register(graft.Node[ports.EventLoader]{
		ID:        EventLoaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.EventLoader, error) {
			return NewFileLoader(), nil
		},
	})

	graft.Register(graft.Node[ports.ReadoutServer]{
		ID:        ServerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ReadoutServer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewServer(log), nil
		},
	})
}
