package ports

import "github.com/wfops/wfops/internal/core/domain"

// WorkflowSource discovers workflow definition files.
//
//go:generate mockgen -source=workflows.go -destination=mocks/mock_workflows.go -package=mocks
type WorkflowSource interface {
	// Discover walks root and returns every workflow file found,
	// content digests included. An unreadable root is an error; an
	// empty result is domain.ErrNoWorkflows.
	Discover(root string) ([]domain.WorkflowFile, error)
}

// WorkflowValidator runs the structural rules over one workflow file.
type WorkflowValidator interface {
	// Validate parses the file and returns one finding per violated
	// rule. Findings are not errors: the error return is reserved for
	// files that cannot be read or are not YAML at all.
	Validate(path string) ([]domain.Finding, error)
}

// FileHasher digests file contents for cache keys and change detection.
type FileHasher interface {
	// Digest returns the 16 hex character content digest of the file.
	Digest(path string) (string, error)
}
