package workflows

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/wfops/wfops/internal/adapters/logger"
	"github.com/wfops/wfops/internal/core/ports"
)

// HasherNodeID is the unique identifier for the file hasher Graft node.
const HasherNodeID graft.ID = "adapter.file_hasher"

// SourceNodeID is the unique identifier for the workflow source Graft node.
const SourceNodeID graft.ID = "adapter.workflow_source"

// ValidatorNodeID is the unique identifier for the workflow validator Graft node.
const ValidatorNodeID graft.ID = "adapter.workflow_validator"

func init() {
	graft.Register(graft.Node[ports.FileHasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.FileHasher, error) {
			return NewHasher(), nil
		},
	})

	graft.Register(graft.Node[ports.WorkflowSource]{
		ID:        SourceNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{HasherNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.WorkflowSource, error) {
			hasher, err := graft.Dep[ports.FileHasher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewSource(hasher, log), nil
		},
	})

	graft.Register(graft.Node[ports.WorkflowValidator]{
		ID:        ValidatorNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.WorkflowValidator, error) {
			return NewValidator(), nil
		},
	})
}
