package watcher

import (
	"context"
	"time"

	"github.com/grindlemire/graft"
	"github.com/wfops/wfops/internal/adapters/logger"
	"github.com/wfops/wfops/internal/adapters/workflows"
	"github.com/wfops/wfops/internal/core/ports"
)

// WatcherNodeID is the unique identifier for the file watcher Graft node.
const WatcherNodeID graft.ID = "adapter.watcher"

// ChangeFilterNodeID is the unique identifier for the change filter Graft node.
const ChangeFilterNodeID graft.ID = "adapter.change_filter"

// DefaultDebounceWindow is the quiet period applied to file events
// before a batch is delivered.
const DefaultDebounceWindow = 50 * time.Millisecond

func init() {
	graft.Register(graft.Node[ports.Watcher]{
		ID:        WatcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Watcher, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewWatcher(log)
		},
	})

	graft.Register(graft.Node[*ChangeFilter]{
		ID:        ChangeFilterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{workflows.HasherNodeID},
		Run: func(ctx context.Context) (*ChangeFilter, error) {
			hasher, err := graft.Dep[ports.FileHasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewChangeFilter(hasher), nil
		},
	})
}
