// Package archives registers the formats a packaged worker directory can be
// archived in.
package archives

import (
	"github.com/specialistvlad/workerpack/internal/archive"
	"github.com/specialistvlad/workerpack/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the archive formats with the engine.
func (m *Module) Register(r *registry.Registry) {
	for _, f := range []archive.Format{archive.Zstd{}, archive.LZ4{}, archive.Tar{}} {
		r.RegisterArchiveFormat(f.Name(), f)
	}
}
