package chunkmaps

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/workerpack/internal/chunkgraph"
	"github.com/stretchr/testify/assert"
)

func testChunks() []*chunkgraph.Chunk {
	return []*chunkgraph.Chunk{
		{
			ID: "main-id", Name: "main", Hash: "abcd1234", RenderedHash: "abcd",
			ContentHash: map[string]string{"javascript": "c0ffee00", "css": "0123"},
		},
		{
			ID: "b1", Name: "worker", Hash: "deadbeef", RenderedHash: "dead",
			ContentHash: map[string]string{"javascript": "feedface"},
		},
		{
			ID: "anon", Hash: "", RenderedHash: "",
			ContentHash: map[string]string{"javascript": ""},
		},
	}
}

func TestBuild_FullHash(t *testing.T) {
	idx := Build(testChunks(), true)

	want := &Index{
		Hash: Table{"main-id": "abcd1234", "b1": "deadbeef"},
		ContentHash: map[string]Table{
			"javascript": {"main-id": "c0ffee00", "b1": "feedface"},
			"css":        {"main-id": "0123"},
		},
		Name: Table{"main-id": "main", "b1": "worker"},
	}
	if diff := cmp.Diff(want, idx); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_RenderedHash(t *testing.T) {
	idx := Build(testChunks(), false)
	assert.Equal(t, Table{"main-id": "abcd", "b1": "dead"}, idx.Hash)
}

func TestBuild_SingleEntryChunk(t *testing.T) {
	idx := Build([]*chunkgraph.Chunk{{ID: "main-id", Name: "main", Hash: "abcd1234"}}, true)
	assert.Equal(t, Table{"main-id": "abcd1234"}, idx.Hash)
	assert.Equal(t, Table{"main-id": "main"}, idx.Name)
	assert.Empty(t, idx.ContentHash)
}

func TestIndex_ContentHashes(t *testing.T) {
	idx := Build(testChunks(), true)
	assert.Equal(t, Table{"main-id": "0123"}, idx.ContentHashes("css"))
	assert.Equal(t, Table{}, idx.ContentHashes("wasm"))
}

func TestTable_Truncate(t *testing.T) {
	tbl := Table{"a": "deadbeef", "b": "abc"}

	assert.Equal(t, Table{"a": "dead", "b": "abc"}, tbl.Truncate(4))
	assert.Equal(t, Table{"a": "deadbeef", "b": "abc"}, tbl.Truncate(8))
	assert.Equal(t, Table{"a": "deadbeef", "b": "abc"}, tbl.Truncate(100))
	assert.Equal(t, "deadbeef", tbl["a"], "receiver is not modified")
}
