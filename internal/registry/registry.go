package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/workerpack/internal/archive"
	"github.com/specialistvlad/workerpack/internal/chunkgraph"
)

// Module is implemented by anything that contributes named strategies.
type Module interface {
	Register(r *Registry)
}

// Registry holds the named strategies a worker configuration can refer to.
type Registry struct {
	ContextStrategies map[string]chunkgraph.EmptyContextStrategy
	HashFunctions     map[string]chunkgraph.HashFunc
	ArchiveFormats    map[string]archive.Format
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		ContextStrategies: make(map[string]chunkgraph.EmptyContextStrategy),
		HashFunctions:     make(map[string]chunkgraph.HashFunc),
		ArchiveFormats:    make(map[string]archive.Format),
	}
}

// RegisterContextStrategy registers an empty-context strategy.
func (r *Registry) RegisterContextStrategy(name string, s chunkgraph.EmptyContextStrategy) {
	if _, exists := r.ContextStrategies[name]; exists {
		panic(fmt.Sprintf("empty-context strategy with name '%s' already registered", name))
	}
	slog.Debug("Registering empty-context strategy.", "name", name)
	r.ContextStrategies[name] = s
}

// RegisterHashFunction registers a hash function used to fill missing hashes.
func (r *Registry) RegisterHashFunction(name string, fn chunkgraph.HashFunc) {
	if _, exists := r.HashFunctions[name]; exists {
		panic(fmt.Sprintf("hash function with name '%s' already registered", name))
	}
	slog.Debug("Registering hash function.", "name", name)
	r.HashFunctions[name] = fn
}

// RegisterArchiveFormat registers an archive format.
func (r *Registry) RegisterArchiveFormat(name string, f archive.Format) {
	if _, exists := r.ArchiveFormats[name]; exists {
		panic(fmt.Sprintf("archive format with name '%s' already registered", name))
	}
	slog.Debug("Registering archive format.", "name", name)
	r.ArchiveFormats[name] = f
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
