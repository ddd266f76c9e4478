// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/modsync/internal/adapters/config"
	_ "go.trai.ch/modsync/internal/adapters/fs"
	_ "go.trai.ch/modsync/internal/adapters/inventory"
	_ "go.trai.ch/modsync/internal/adapters/logger"
	_ "go.trai.ch/modsync/internal/adapters/modrinth"
	_ "go.trai.ch/modsync/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/modsync/internal/app"
	_ "go.trai.ch/modsync/internal/engine/reconciler"
)
