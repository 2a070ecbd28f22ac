// Package emitter computes, for each entry, the chunk ids that must be
// loaded before the entry's top-level module may run.
package emitter

import (
	"fmt"

	"github.com/specialistvlad/workerpack/internal/chunkgraph"
)

// Deferred is the startup dependency list of one entry.
type Deferred struct {
	EntryModuleID string
	// ChunkIDs are the other chunks of the entry's first group, in group
	// order.
	ChunkIDs []string
}

// List returns the entry module id followed by the chunk ids, which is the
// form embedded in generated loaders.
func (d Deferred) List() []string {
	return append([]string{d.EntryModuleID}, d.ChunkIDs...)
}

// Emit returns one Deferred per entry, preserving entry order.
func Emit(entries []*chunkgraph.Entry) ([]Deferred, error) {
	out := make([]Deferred, 0, len(entries))
	for _, e := range entries {
		d, err := ForEntry(e)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// ForEntry computes the list for a single entry.
func ForEntry(e *chunkgraph.Entry) (Deferred, error) {
	if e == nil || e.Chunk == nil {
		return Deferred{}, fmt.Errorf("emitter: entry has no chunk")
	}
	chunk := e.Chunk
	if chunk.EntryModule == nil {
		return Deferred{}, fmt.Errorf("emitter: entry %q: chunk %q has no entry module", e.Name, chunk.ID)
	}
	if len(chunk.Groups) == 0 {
		return Deferred{}, fmt.Errorf("emitter: entry %q: chunk %q belongs to no chunk group", e.Name, chunk.ID)
	}

	d := Deferred{EntryModuleID: chunk.EntryModule.ID, ChunkIDs: []string{}}
	for _, c := range chunk.Groups[0].Chunks {
		if c != chunk {
			d.ChunkIDs = append(d.ChunkIDs, c.ID)
		}
	}
	return d, nil
}
