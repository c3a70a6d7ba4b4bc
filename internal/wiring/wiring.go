// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/wfops/wfops/internal/adapters/cache"
	_ "github.com/wfops/wfops/internal/adapters/config"
	_ "github.com/wfops/wfops/internal/adapters/github"
	_ "github.com/wfops/wfops/internal/adapters/logger"
	_ "github.com/wfops/wfops/internal/adapters/metrics"
	_ "github.com/wfops/wfops/internal/adapters/resmon"
	_ "github.com/wfops/wfops/internal/adapters/watcher"
	_ "github.com/wfops/wfops/internal/adapters/workflows"
	// Register app nodes.
	_ "github.com/wfops/wfops/internal/app"
)
