package modrinth

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/modsync/internal/adapters/logger"
	"go.trai.ch/modsync/internal/core/ports"
)

// NodeID is the unique identifier for the catalog client Graft node.
const NodeID graft.ID = "adapter.modrinth"

func init() {
	graft.Register(graft.Node[ports.Catalog]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Catalog, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewClient(log,
				WithBaseURL(os.Getenv(EnvBaseURL)),
				WithToken(os.Getenv(EnvToken)),
			), nil
		},
	})
}
