package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/wfops/wfops/internal/adapters/cache"
	"github.com/wfops/wfops/internal/adapters/config"
	"github.com/wfops/wfops/internal/adapters/github"
	"github.com/wfops/wfops/internal/adapters/logger"
	"github.com/wfops/wfops/internal/adapters/metrics"
	"github.com/wfops/wfops/internal/adapters/resmon"
	"github.com/wfops/wfops/internal/adapters/watcher"
	"github.com/wfops/wfops/internal/adapters/workflows"
	"github.com/wfops/wfops/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			resmon.NodeID,
			github.ClientNodeID,
			cache.NodeID,
			workflows.SourceNodeID,
			workflows.ValidatorNodeID,
			workflows.HasherNodeID,
			metrics.NodeID,
			watcher.WatcherNodeID,
			watcher.ChangeFilterNodeID,
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
		Run: runComponentsNode,
	})
}

//nolint:cyclop // one clause per resolved dependency
func runAppNode(ctx context.Context) (*App, error) {
	cfg, err := graft.Dep[*config.Config](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	monitor, err := graft.Dep[ports.ResourceMonitor](ctx)
	if err != nil {
		return nil, err
	}
	client, err := graft.Dep[ports.APIClient](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.CacheStore](ctx)
	if err != nil {
		return nil, err
	}
	source, err := graft.Dep[ports.WorkflowSource](ctx)
	if err != nil {
		return nil, err
	}
	validator, err := graft.Dep[ports.WorkflowValidator](ctx)
	if err != nil {
		return nil, err
	}
	hasher, err := graft.Dep[ports.FileHasher](ctx)
	if err != nil {
		return nil, err
	}
	collector, err := graft.Dep[*metrics.Collector](ctx)
	if err != nil {
		return nil, err
	}
	watch, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	changes, err := graft.Dep[*watcher.ChangeFilter](ctx)
	if err != nil {
		return nil, err
	}

	return New(cfg, log, monitor, client, store, source, validator, hasher, collector, watch, changes)
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    application,
		Logger: log,
	}, nil
}
