package emitter

import (
	"testing"

	"github.com/specialistvlad/workerpack/internal/chunkgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(name string, chunk *chunkgraph.Chunk, groups ...*chunkgraph.ChunkGroup) *chunkgraph.Entry {
	chunk.Groups = groups
	return &chunkgraph.Entry{Name: name, Chunk: chunk}
}

func TestEmit_EntryWithoutDependencies(t *testing.T) {
	main := &chunkgraph.Chunk{ID: "main-id", EntryModule: &chunkgraph.Module{ID: "42"}}
	g := &chunkgraph.ChunkGroup{Name: "main", Chunks: []*chunkgraph.Chunk{main}}

	got, err := Emit([]*chunkgraph.Entry{entry("main", main, g)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"42"}, got[0].List())
	assert.Empty(t, got[0].ChunkIDs)
}

func TestEmit_PreservesOrder(t *testing.T) {
	vendors := &chunkgraph.Chunk{ID: "vendors"}
	runtime := &chunkgraph.Chunk{ID: "runtime"}
	a := &chunkgraph.Chunk{ID: "a", EntryModule: &chunkgraph.Module{ID: "1"}}
	b := &chunkgraph.Chunk{ID: "b", EntryModule: &chunkgraph.Module{ID: "2"}}

	ga := &chunkgraph.ChunkGroup{Name: "a", Chunks: []*chunkgraph.Chunk{runtime, a, vendors}}
	gb := &chunkgraph.ChunkGroup{Name: "b", Chunks: []*chunkgraph.Chunk{vendors, b}}
	other := &chunkgraph.ChunkGroup{Name: "other", Chunks: []*chunkgraph.Chunk{b, runtime}}

	got, err := Emit([]*chunkgraph.Entry{
		entry("b", b, gb, other),
		entry("a", a, ga),
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"2", "vendors"}, got[0].List(), "only the first group counts")
	assert.Equal(t, []string{"1", "runtime", "vendors"}, got[1].List())
}

func TestEmit_Errors(t *testing.T) {
	_, err := Emit([]*chunkgraph.Entry{{Name: "x"}})
	assert.ErrorContains(t, err, "entry has no chunk")

	noModule := &chunkgraph.Chunk{ID: "c"}
	_, err = Emit([]*chunkgraph.Entry{entry("x", noModule, &chunkgraph.ChunkGroup{})})
	assert.ErrorContains(t, err, "has no entry module")

	noGroup := &chunkgraph.Chunk{ID: "c", EntryModule: &chunkgraph.Module{ID: "1"}}
	_, err = Emit([]*chunkgraph.Entry{entry("x", noGroup)})
	assert.ErrorContains(t, err, "belongs to no chunk group")
}
