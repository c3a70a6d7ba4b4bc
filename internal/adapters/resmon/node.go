package resmon

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/wfops/wfops/internal/adapters/config"
	"github.com/wfops/wfops/internal/adapters/logger"
	"github.com/wfops/wfops/internal/core/ports"
)

// NodeID is the unique identifier for the resource monitor Graft node.
const NodeID graft.ID = "adapter.resource_monitor"

func init() {
	graft.Register(graft.Node[ports.ResourceMonitor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ResourceMonitor, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewMonitor(log, cfg.MemoryLimitPercent, cfg.CPULimitPercent), nil
		},
	})
}
