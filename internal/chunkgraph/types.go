package chunkgraph

// ModuleKind distinguishes ordinary modules from placeholders whose source
// is generated at build time.
type ModuleKind string

const (
	// KindNormal is a module whose code was supplied by the compiler.
	KindNormal ModuleKind = "normal"
	// KindEmptyContext is a dynamic-require context that matched no files.
	KindEmptyContext ModuleKind = "empty-context"
)

// Module is a unit of compiled code.
type Module struct {
	ID   string
	Code string
	Kind ModuleKind
}

// Chunk is a bundle of modules that is written to, and loaded from, a
// single file.
type Chunk struct {
	ID           string
	Name         string
	Hash         string
	RenderedHash string
	// ContentHash maps a content category (e.g. "javascript") to the hash
	// of this chunk's own content in that category.
	ContentHash map[string]string
	Modules     []*Module
	// Groups lists every group containing this chunk, in manifest order.
	Groups []*ChunkGroup
	// EntryModule is set for entry chunks only.
	EntryModule *Module
}

// IsEntry reports whether the chunk starts a worker.
func (c *Chunk) IsEntry() bool {
	return c.EntryModule != nil
}

// ChunkGroup is a node of the dynamic-load graph.
type ChunkGroup struct {
	Name     string
	Chunks   []*Chunk
	Children []*ChunkGroup
	Parents  []*ChunkGroup
}

// Contains reports whether c is one of the group's chunks.
func (g *ChunkGroup) Contains(c *Chunk) bool {
	for _, member := range g.Chunks {
		if member == c {
			return true
		}
	}
	return false
}

// Entry is a designated starting chunk of a packaged worker.
type Entry struct {
	Name  string
	Chunk *Chunk
}

// Compilation is the complete, validated graph for one worker.
type Compilation struct {
	Hash    string
	Modules []*Module
	Chunks  []*Chunk
	Groups  []*ChunkGroup
	Entries []*Entry

	chunksByID map[string]*Chunk
}

// Chunk looks up a chunk by id.
func (c *Compilation) Chunk(id string) (*Chunk, bool) {
	chunk, ok := c.chunksByID[id]
	return chunk, ok
}

// Entry looks up an entry by name.
func (c *Compilation) Entry(name string) (*Entry, bool) {
	for _, e := range c.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}
