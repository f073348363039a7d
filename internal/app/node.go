package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/robcache/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/robcache/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/robcache/internal/adapters/readout" //nolint:depguard // Wired in app layer
	"go.trai.ch/robcache/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			readout.EventLoaderNodeID,
			readout.FactoryNodeID,
			readout.ServerNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	events, err := graft.Dep[ports.EventLoader](ctx)
	if err != nil {
		return nil, err
	}

	factory, err := graft.Dep[ports.GatewayFactory](ctx)
	if err != nil {
		return nil, err
	}

	server, err := graft.Dep[ports.ReadoutServer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, events, factory, server, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
	}, nil
}
