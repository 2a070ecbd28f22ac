// Package emptycontext registers the strategies for dynamic-require
// contexts the compiler found no files for.
package emptycontext

import (
	"github.com/specialistvlad/workerpack/internal/chunkgraph"
	"github.com/specialistvlad/workerpack/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the strategies with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterContextStrategy("host-require", chunkgraph.HostRequireContext{})
	r.RegisterContextStrategy("throw", chunkgraph.ThrowingContext{})
}
