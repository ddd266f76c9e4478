package reconciler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modsync/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/modsync/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/modsync/internal/adapters/modrinth"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/modsync/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/modsync/internal/core/ports"
)

// NodeID is the unique identifier for the reconciler Graft node.
const NodeID graft.ID = "engine.reconciler"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			modrinth.NodeID,
			fs.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			catalog, err := graft.Dep[ports.Catalog](ctx)
			if err != nil {
				return nil, err
			}

			filesystem, err := graft.Dep[ports.Filesystem](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return New(catalog, filesystem, log, tracer), nil
		},
	})
}
