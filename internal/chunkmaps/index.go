// Package chunkmaps builds the per-chunk lookup tables that output path
// templates are resolved against.
package chunkmaps

import "github.com/specialistvlad/workerpack/internal/chunkgraph"

// Table maps a chunk id to a value.
type Table map[string]string

// Index holds the lookup tables for a set of chunks.
type Index struct {
	// Hash maps chunk id to the full or the rendered chunk hash.
	Hash Table
	// ContentHash maps content category, then chunk id, to a content hash.
	ContentHash map[string]Table
	// Name maps chunk id to the chunk's name. Unnamed chunks are absent.
	Name Table
}

// Build indexes chunks. useFullHash selects Chunk.Hash (changes with any
// chunk of the build) over Chunk.RenderedHash (this chunk only). Chunks
// without a computed hash are left out of the corresponding table.
func Build(chunks []*chunkgraph.Chunk, useFullHash bool) *Index {
	idx := &Index{
		Hash:        Table{},
		ContentHash: map[string]Table{},
		Name:        Table{},
	}
	for _, c := range chunks {
		h := c.RenderedHash
		if useFullHash {
			h = c.Hash
		}
		if h != "" {
			idx.Hash[c.ID] = h
		}
		for category, contentHash := range c.ContentHash {
			if idx.ContentHash[category] == nil {
				idx.ContentHash[category] = Table{}
			}
			if contentHash != "" {
				idx.ContentHash[category][c.ID] = contentHash
			}
		}
		if c.Name != "" {
			idx.Name[c.ID] = c.Name
		}
	}
	return idx
}

// ContentHashes returns the table for category, which is empty when no
// chunk declares that category.
func (idx *Index) ContentHashes(category string) Table {
	if t, ok := idx.ContentHash[category]; ok {
		return t
	}
	return Table{}
}

// Truncate returns a copy of t whose values are cut to at most n
// characters. Values shorter than n are kept whole.
func (t Table) Truncate(n int) Table {
	out := make(Table, len(t))
	for id, v := range t {
		if len(v) > n {
			v = v[:n]
		}
		out[id] = v
	}
	return out
}
