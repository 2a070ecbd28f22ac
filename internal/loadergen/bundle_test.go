package loadergen

import (
	"testing"

	"github.com/specialistvlad/workerpack/internal/chunkgraph"
	"github.com/specialistvlad/workerpack/internal/emitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryBundle_RunsEntryAfterLoadingChunks(t *testing.T) {
	lazy := &chunkgraph.Chunk{ID: "b1", Modules: []*chunkgraph.Module{
		{ID: "2", Code: "module.exports = function(x) {\n\treturn `twice:\n` + (x * 2);\n};"},
	}}
	entryModules := []*chunkgraph.Module{
		{ID: "0", Code: `module.exports = __require__("1")(__require__("2")(21));`},
		{ID: "1", Code: `module.exports = function(s) { return s.toUpperCase(); };`},
	}

	h := newHost(t, map[string]string{"/pkg/b1.js": ChunkFile(lazy)})
	loader := Loader(scriptSrc(t, "[id].js"), []emitter.Deferred{{EntryModuleID: "0", ChunkIDs: []string{"b1"}}})
	h.files["/pkg/main.js"] = EntryBundle(entryModules, "0", loader)

	v, err := h.load("/pkg/main.js")
	require.NoError(t, err)
	assert.Equal(t, "TWICE:\n42", v.String(), "multi-line template literal must survive rendering")
}

func TestEntryBundle_EnsureLoadsAsyncChunk(t *testing.T) {
	async := &chunkgraph.Chunk{ID: "a1", Modules: []*chunkgraph.Module{
		{ID: "9", Code: `module.exports = "from async";`},
	}}
	h := newHost(t, map[string]string{"/pkg/a1.js": ChunkFile(async)})
	loader := Loader(scriptSrc(t, "[id].js"), []emitter.Deferred{{EntryModuleID: "0", ChunkIDs: []string{}}})
	h.files["/pkg/main.js"] = EntryBundle([]*chunkgraph.Module{
		{ID: "0", Code: `__require__.e("a1"); module.exports = __require__("9");`},
	}, "0", loader)

	v, err := h.load("/pkg/main.js")
	require.NoError(t, err)
	assert.Equal(t, "from async", v.String())
}

func TestEntryBundle_UnknownModule(t *testing.T) {
	h := newHost(t, map[string]string{})
	loader := Loader(scriptSrc(t, "[id].js"), nil)
	h.files["/pkg/main.js"] = EntryBundle([]*chunkgraph.Module{
		{ID: "0", Code: `module.exports = __require__("404");`},
	}, "0", loader)

	_, err := h.load("/pkg/main.js")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot find module 404")
}

func TestChunkFile(t *testing.T) {
	got := ChunkFile(&chunkgraph.Chunk{ID: "b1", Modules: []*chunkgraph.Module{
		{ID: "7", Code: "module.exports = 7;"},
		{ID: "8", Code: "module.exports = 8;"},
	}})
	want := `exports.ids = ["b1"];
exports.modules = {
"7": (function(module, exports, __require__) {
module.exports = 7;
}),
"8": (function(module, exports, __require__) {
module.exports = 8;
})
};
`
	assert.Equal(t, want, got)

	empty := ChunkFile(&chunkgraph.Chunk{ID: "e"})
	assert.Equal(t, "exports.ids = [\"e\"];\nexports.modules = {};\n", empty)
}
