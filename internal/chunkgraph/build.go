package chunkgraph

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/workerpack/internal/ctxlog"
)

// ErrInvalidGraph is wrapped by every error Build returns for a manifest
// that does not describe a usable graph.
var ErrInvalidGraph = errors.New("chunkgraph: invalid graph")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidGraph, fmt.Sprintf(format, args...))
}

// Options controls the derived parts of a Compilation.
type Options struct {
	// EmptyContext renders empty-context modules. Required only when the
	// manifest contains such modules.
	EmptyContext EmptyContextStrategy
	// Hash, when set, fills every hash the manifest left empty.
	Hash HashFunc
	// ContentHashType is the content category filled by Hash.
	ContentHashType string
}

// Build resolves the references of a manifest into a linked Compilation.
func Build(ctx context.Context, m *Manifest, opts Options) (*Compilation, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting chunk graph construction.",
		"modules", len(m.Modules), "chunks", len(m.Chunks), "groups", len(m.Groups))

	c := &Compilation{
		Hash:       m.Hash,
		chunksByID: make(map[string]*Chunk, len(m.Chunks)),
	}

	modules, err := buildModules(c, m, opts)
	if err != nil {
		return nil, err
	}
	if err := buildChunks(c, m, modules); err != nil {
		return nil, err
	}
	if err := buildGroups(c, m); err != nil {
		return nil, err
	}
	logger.Debug("Build: References resolved.")

	for _, chunk := range c.Chunks {
		if !chunk.IsEntry() {
			continue
		}
		if len(chunk.Groups) == 0 {
			return nil, invalidf("entry chunk %q belongs to no chunk group", chunk.ID)
		}
		name := chunk.Name
		if name == "" {
			name = chunk.ID
		}
		c.Entries = append(c.Entries, &Entry{Name: name, Chunk: chunk})
	}
	if len(c.Entries) == 0 {
		return nil, invalidf("no entry chunks")
	}

	if err := c.detectCycles(); err != nil {
		// Cycles are legal; traversals guard against them with visited sets.
		logger.Debug("Build: Chunk group graph contains a cycle.", "detail", err)
	}

	if opts.Hash != nil {
		fillHashes(c, opts.Hash, opts.ContentHashType)
		logger.Debug("Build: Missing hashes filled.", "build_hash", c.Hash)
	}

	logger.Debug("Build: Chunk graph construction successful.", "entries", len(c.Entries))
	return c, nil
}

func buildModules(c *Compilation, m *Manifest, opts Options) (map[string]*Module, error) {
	modules := make(map[string]*Module, len(m.Modules))
	for _, me := range m.Modules {
		if me.ID == "" {
			return nil, invalidf("module without id")
		}
		if _, dup := modules[me.ID]; dup {
			return nil, invalidf("duplicate module id %q", me.ID)
		}

		mod := &Module{ID: me.ID, Code: me.Code, Kind: me.Kind}
		switch mod.Kind {
		case "", KindNormal:
			mod.Kind = KindNormal
		case KindEmptyContext:
			if opts.EmptyContext == nil {
				return nil, invalidf("module %q is an empty context but no empty-context strategy is configured", me.ID)
			}
			mod.Code = opts.EmptyContext.Source(me.ID)
		default:
			return nil, invalidf("module %q has unknown kind %q", me.ID, me.Kind)
		}

		modules[me.ID] = mod
		c.Modules = append(c.Modules, mod)
	}
	return modules, nil
}

func buildChunks(c *Compilation, m *Manifest, modules map[string]*Module) error {
	for _, ce := range m.Chunks {
		if ce.ID == "" {
			return invalidf("chunk without id")
		}
		if _, dup := c.chunksByID[ce.ID]; dup {
			return invalidf("duplicate chunk id %q", ce.ID)
		}

		chunk := &Chunk{
			ID:           ce.ID,
			Name:         ce.Name,
			Hash:         ce.Hash,
			RenderedHash: ce.RenderedHash,
			ContentHash:  make(map[string]string, len(ce.ContentHash)),
		}
		for k, v := range ce.ContentHash {
			chunk.ContentHash[k] = v
		}
		for _, id := range ce.Modules {
			mod, ok := modules[id]
			if !ok {
				return invalidf("chunk %q references unknown module %q", ce.ID, id)
			}
			chunk.Modules = append(chunk.Modules, mod)
		}
		if ce.EntryModule != "" {
			mod, ok := modules[ce.EntryModule]
			if !ok {
				return invalidf("chunk %q has unknown entry module %q", ce.ID, ce.EntryModule)
			}
			chunk.EntryModule = mod
		}

		c.chunksByID[ce.ID] = chunk
		c.Chunks = append(c.Chunks, chunk)
	}
	return nil
}

func buildGroups(c *Compilation, m *Manifest) error {
	groups := make(map[string]*ChunkGroup, len(m.Groups))
	for _, ge := range m.Groups {
		if ge.Name == "" {
			return invalidf("chunk group without name")
		}
		if _, dup := groups[ge.Name]; dup {
			return invalidf("duplicate chunk group %q", ge.Name)
		}
		g := &ChunkGroup{Name: ge.Name}
		for _, id := range ge.Chunks {
			chunk, ok := c.chunksByID[id]
			if !ok {
				return invalidf("chunk group %q references unknown chunk %q", ge.Name, id)
			}
			if g.Contains(chunk) {
				return invalidf("chunk group %q lists chunk %q twice", ge.Name, id)
			}
			g.Chunks = append(g.Chunks, chunk)
			chunk.Groups = append(chunk.Groups, g)
		}
		groups[ge.Name] = g
		c.Groups = append(c.Groups, g)
	}

	// Second pass: children may be declared after their parents.
	for _, ge := range m.Groups {
		parent := groups[ge.Name]
		for _, name := range ge.Children {
			child, ok := groups[name]
			if !ok {
				return invalidf("chunk group %q has unknown child %q", ge.Name, name)
			}
			parent.Children = append(parent.Children, child)
			child.Parents = append(child.Parents, parent)
		}
	}
	return nil
}

// detectCycles reports the first group found on a cycle of child edges.
func (c *Compilation) detectCycles() error {
	visiting := make(map[*ChunkGroup]bool)
	visited := make(map[*ChunkGroup]bool)

	var visit func(g *ChunkGroup) error
	visit = func(g *ChunkGroup) error {
		visiting[g] = true
		for _, child := range g.Children {
			if visiting[child] {
				return fmt.Errorf("cycle detected involving chunk group '%s'", child.Name)
			}
			if !visited[child] {
				if err := visit(child); err != nil {
					return err
				}
			}
		}
		delete(visiting, g)
		visited[g] = true
		return nil
	}

	for _, g := range c.Groups {
		if !visited[g] {
			if err := visit(g); err != nil {
				return err
			}
		}
	}
	return nil
}
