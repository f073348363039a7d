// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/robcache/internal/adapters/config"
	_ "go.trai.ch/robcache/internal/adapters/logger"
	_ "go.trai.ch/robcache/internal/adapters/readout"
	// Register app nodes.
	_ "go.trai.ch/robcache/internal/app"
)
