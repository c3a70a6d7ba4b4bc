package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/wfops/wfops/internal/adapters/config"
	"github.com/wfops/wfops/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.Logger, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}

			lg, _ := New().(*Logger)
			lg.SetLevel(cfg.LogLevel)
			if cfg.LogFormat == "json" {
				lg.SetJSON(true)
			}

			return lg, nil
		},
	})
}
