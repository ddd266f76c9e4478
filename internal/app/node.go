package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modsync/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/modsync/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/modsync/internal/adapters/inventory" //nolint:depguard // Wired in app layer
	"go.trai.ch/modsync/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/modsync/internal/adapters/modrinth"  //nolint:depguard // Wired in app layer
	"go.trai.ch/modsync/internal/core/ports"
	"go.trai.ch/modsync/internal/engine/reconciler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds what the command line needs to run.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			modrinth.NodeID,
			inventory.NodeID,
			fs.NodeID,
			reconciler.NodeID,
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
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	catalog, err := graft.Dep[ports.Catalog](ctx)
	if err != nil {
		return nil, err
	}

	scanner, err := graft.Dep[ports.InventoryScanner](ctx)
	if err != nil {
		return nil, err
	}

	filesystem, err := graft.Dep[ports.Filesystem](ctx)
	if err != nil {
		return nil, err
	}

	engine, err := graft.Dep[*reconciler.Engine](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, catalog, scanner, filesystem, engine, log), nil
}
