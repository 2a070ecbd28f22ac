// Package collector finds the chunks an entry may need beyond its own
// synchronous load: every chunk reachable through a dynamic-load edge.
package collector

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/workerpack/internal/chunkgraph"
)

// ErrNoGroups is returned when the traversal has no starting point.
var ErrNoGroups = errors.New("collector: no top-level chunk groups")

// Result holds the chunk sets found for one set of top-level groups. Every
// slice is deduplicated and in discovery order.
type Result struct {
	// Initial chunks are contained in every top-level group and so are
	// always loaded synchronously.
	Initial []*chunkgraph.Chunk
	// Deferred chunks are reachable through a dynamic-load edge and are
	// not initial.
	Deferred []*chunkgraph.Chunk
	// All is Deferred followed by the chunks of the first top-level group.
	// The entry's own group is part of the index even though its chunks
	// are never deferred.
	All []*chunkgraph.Chunk
}

// Collect walks the chunk group graph below groups breadth first.
// Each group is visited at most once, so cyclic graphs terminate.
func Collect(groups []*chunkgraph.ChunkGroup) (*Result, error) {
	if len(groups) == 0 {
		return nil, ErrNoGroups
	}
	for i, g := range groups {
		if g == nil {
			return nil, fmt.Errorf("collector: top-level chunk group %d is nil", i)
		}
	}

	res := &Result{}
	initial := intersect(groups)
	inInitial := make(map[*chunkgraph.Chunk]bool, len(initial))
	for _, c := range initial {
		inInitial[c] = true
	}
	res.Initial = initial

	var queue []*chunkgraph.ChunkGroup
	visited := make(map[*chunkgraph.ChunkGroup]bool)
	enqueue := func(g *chunkgraph.ChunkGroup) {
		if !visited[g] {
			visited[g] = true
			queue = append(queue, g)
		}
	}
	for _, g := range groups {
		for _, child := range g.Children {
			enqueue(child)
		}
	}

	all := newChunkSet()
	for len(queue) > 0 {
		g := queue[0]
		queue = queue[1:]

		for _, c := range g.Chunks {
			if c == nil {
				return nil, fmt.Errorf("collector: chunk group %q holds a nil chunk", g.Name)
			}
			if !inInitial[c] {
				all.add(c)
			}
		}
		for _, child := range g.Children {
			enqueue(child)
		}
	}
	res.Deferred = append([]*chunkgraph.Chunk(nil), all.items...)

	for _, c := range groups[0].Chunks {
		if c == nil {
			return nil, fmt.Errorf("collector: chunk group %q holds a nil chunk", groups[0].Name)
		}
		all.add(c)
	}
	res.All = all.items

	return res, nil
}

// ForEntry collects from the groups that contain the entry's chunk.
func ForEntry(e *chunkgraph.Entry) (*Result, error) {
	if e == nil || e.Chunk == nil {
		return nil, fmt.Errorf("collector: entry has no chunk")
	}
	res, err := Collect(e.Chunk.Groups)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", e.Name, err)
	}
	return res, nil
}

// intersect returns the chunks present in every group, in the order of the
// first group.
func intersect(groups []*chunkgraph.ChunkGroup) []*chunkgraph.Chunk {
	var out []*chunkgraph.Chunk
	seen := make(map[*chunkgraph.Chunk]bool)
	for _, c := range groups[0].Chunks {
		if seen[c] {
			continue
		}
		seen[c] = true
		inAll := true
		for _, g := range groups[1:] {
			if !g.Contains(c) {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, c)
		}
	}
	return out
}

type chunkSet struct {
	items []*chunkgraph.Chunk
	index map[*chunkgraph.Chunk]bool
}

func newChunkSet() *chunkSet {
	return &chunkSet{index: make(map[*chunkgraph.Chunk]bool)}
}

func (s *chunkSet) add(c *chunkgraph.Chunk) {
	if s.index[c] {
		return
	}
	s.index[c] = true
	s.items = append(s.items, c)
}
