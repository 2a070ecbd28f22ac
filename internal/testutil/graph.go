package testutil

import (
	"testing"

	"github.com/specialistvlad/workerpack/internal/chunkgraph"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Graph builds chunk graph manifests for tests.
type Graph struct {
	m chunkgraph.Manifest
}

// NewGraph starts a manifest with the given build hash, which may be empty.
func NewGraph(hash string) *Graph {
	return &Graph{m: chunkgraph.Manifest{Hash: hash}}
}

// Module adds a normal module.
func (g *Graph) Module(id, code string) *Graph {
	g.m.Modules = append(g.m.Modules, chunkgraph.ModuleEntry{ID: id, Code: code})
	return g
}

// EmptyContext adds an empty-context module.
func (g *Graph) EmptyContext(id string) *Graph {
	g.m.Modules = append(g.m.Modules, chunkgraph.ModuleEntry{ID: id, Kind: chunkgraph.KindEmptyContext})
	return g
}

// Chunk adds a chunk.
func (g *Graph) Chunk(c chunkgraph.ChunkEntry) *Graph {
	g.m.Chunks = append(g.m.Chunks, c)
	return g
}

// Group adds a chunk group.
func (g *Graph) Group(name string, chunks []string, children ...string) *Graph {
	g.m.Groups = append(g.m.Groups, chunkgraph.GroupEntry{Name: name, Chunks: chunks, Children: children})
	return g
}

// YAML renders the manifest the way the compiler writes it.
func (g *Graph) YAML(t *testing.T) string {
	t.Helper()
	out, err := yaml.Marshal(&g.m)
	require.NoError(t, err)
	return string(out)
}
