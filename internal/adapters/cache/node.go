package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/wfops/wfops/internal/adapters/config"
	"github.com/wfops/wfops/internal/core/ports"
)

// NodeID is the unique identifier for the cache store Graft node.
const NodeID graft.ID = "adapter.cache_store"

func init() {
	graft.Register(graft.Node[ports.CacheStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.CacheStore, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}

			return NewStore(cfg.CacheDir)
		},
	})
}
