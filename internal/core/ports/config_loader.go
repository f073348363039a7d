package ports

import "go.trai.ch/robcache/internal/core/domain"

// ConfigLoader defines the interface for loading the service configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads and validates the configuration file at path.
	Load(path string) (*domain.Config, error)
}

// EventLoader defines the interface for reading recorded events.
type EventLoader interface {
	// LoadEvents reads the event log at path, in recorded order.
	LoadEvents(path string) ([]domain.Event, error)
}
