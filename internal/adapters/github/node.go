package github

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/wfops/wfops/internal/adapters/cache"
	"github.com/wfops/wfops/internal/adapters/config"
	"github.com/wfops/wfops/internal/adapters/logger"
	"github.com/wfops/wfops/internal/adapters/metrics"
	"github.com/wfops/wfops/internal/core/ports"
)

// RunnerNodeID is the unique identifier for the gh runner Graft node.
const RunnerNodeID graft.ID = "adapter.gh_runner"

// ClientNodeID is the unique identifier for the API client Graft node.
const ClientNodeID graft.ID = "adapter.api_client"

func init() {
	graft.Register(graft.Node[ports.Runner]{
		ID:        RunnerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Runner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewRunner(log)
		},
	})

	graft.Register(graft.Node[ports.APIClient]{
		ID:        ClientNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID, cache.NodeID, metrics.NodeID, RunnerNodeID},
		Run: func(ctx context.Context) (ports.APIClient, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}
			collector, err := graft.Dep[*metrics.Collector](ctx)
			if err != nil {
				return nil, err
			}
			runner, err := graft.Dep[ports.Runner](ctx)
			if err != nil {
				return nil, err
			}

			return NewClient(runner, store, log, collector, ClientOptions{
				CacheEnabled: cfg.CacheEnabled,
				CacheTTL:     cfg.CacheTTL,
				Buffer:       cfg.RateLimitBuffer,
				Floor:        cfg.RateLimitFloor,
				MaxSleep:     cfg.RateLimitMaxSleep,
			}), nil
		},
	})
}
