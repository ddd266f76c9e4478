package inventory

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modsync/internal/adapters/logger"
	"go.trai.ch/modsync/internal/core/ports"
)

// NodeID is the unique identifier for the inventory scanner Graft node.
const NodeID graft.ID = "adapter.inventory"

func init() {
	graft.Register(graft.Node[ports.InventoryScanner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.InventoryScanner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewScanner(log), nil
		},
	})
}
