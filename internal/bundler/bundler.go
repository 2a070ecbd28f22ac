package bundler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/specialistvlad/workerpack/internal/chunkgraph"
	"github.com/specialistvlad/workerpack/internal/chunkmaps"
	"github.com/specialistvlad/workerpack/internal/collector"
	"github.com/specialistvlad/workerpack/internal/config"
	"github.com/specialistvlad/workerpack/internal/ctxlog"
	"github.com/specialistvlad/workerpack/internal/emitter"
	"github.com/specialistvlad/workerpack/internal/loadergen"
	"github.com/specialistvlad/workerpack/internal/pathtemplate"
)

// Strategies are the pluggable parts of a build, resolved from the registry
// by the caller.
type Strategies struct {
	EmptyContext chunkgraph.EmptyContextStrategy
	// Hash is nil unless the worker fills missing hashes.
	Hash chunkgraph.HashFunc
}

// Result describes what a build wrote.
type Result struct {
	Worker string
	Dir    string
	// Entries maps entry names to their bundle path relative to Dir.
	Entries map[string]string
	// Files lists every written path relative to Dir, sorted.
	Files []string
}

// Build packages w into w.OutputPath.
func Build(ctx context.Context, w *config.Worker, s Strategies) (*Result, error) {
	ctx = ctxlog.With(ctx, "worker", w.Name)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Bundler: Reading chunk graph.", "path", w.GraphPath)

	manifest, err := chunkgraph.ReadManifestFile(w.GraphPath)
	if err != nil {
		return nil, err
	}
	comp, err := chunkgraph.Build(ctx, manifest, chunkgraph.Options{
		EmptyContext:    s.EmptyContext,
		Hash:            s.Hash,
		ContentHashType: w.ContentHashType,
	})
	if err != nil {
		return nil, fmt.Errorf("worker '%s': %w", w.Name, err)
	}

	entries, err := selectEntries(comp, w.Entries)
	if err != nil {
		return nil, fmt.Errorf("worker '%s': %w", w.Name, err)
	}

	out := newOutput()
	res := &Result{Worker: w.Name, Dir: w.OutputPath, Entries: make(map[string]string, len(entries))}
	for _, e := range entries {
		path, err := renderEntry(ctx, comp, e, w, out)
		if err != nil {
			return nil, fmt.Errorf("worker '%s': entry %q: %w", w.Name, e.Name, err)
		}
		res.Entries[e.Name] = path
	}

	if w.Minify {
		logger.Debug("Bundler: Minifying output.", "files", len(out.files))
		if err := out.minify(); err != nil {
			return nil, fmt.Errorf("worker '%s': %w", w.Name, err)
		}
	}

	if err := out.write(w.OutputPath); err != nil {
		return nil, fmt.Errorf("worker '%s': %w", w.Name, err)
	}
	res.Files = out.paths()
	logger.Debug("Bundler: Output written.", "dir", w.OutputPath, "files", len(res.Files))
	return res, nil
}

// selectEntries filters the compilation's entries by name. An empty names
// keeps all of them.
func selectEntries(comp *chunkgraph.Compilation, names []string) ([]*chunkgraph.Entry, error) {
	if len(names) == 0 {
		return comp.Entries, nil
	}
	out := make([]*chunkgraph.Entry, 0, len(names))
	for _, name := range names {
		e, ok := comp.Entry(name)
		if !ok {
			return nil, fmt.Errorf("unknown entry %q", name)
		}
		out = append(out, e)
	}
	return out, nil
}

// renderEntry renders the entry bundle of e and every chunk its loader or
// its async imports can reach, and returns the bundle's path.
func renderEntry(ctx context.Context, comp *chunkgraph.Compilation, e *chunkgraph.Entry, w *config.Worker, out *output) (string, error) {
	logger := ctxlog.FromContext(ctx)

	collected, err := collector.ForEntry(e)
	if err != nil {
		return "", err
	}
	logger.Debug("Bundler: Collected chunks.", "entry", e.Name,
		"initial", len(collected.Initial), "deferred", len(collected.Deferred))

	tctx := pathtemplate.Context{
		BuildHash:       comp.Hash,
		Index:           chunkmaps.Build(collected.All, w.RealHash),
		ContentHashType: w.ContentHashType,
	}
	chunkName, err := pathtemplate.Compile(w.ChunkFilename, tctx)
	if err != nil {
		return "", fmt.Errorf("chunk_filename: %w", err)
	}
	fileName, err := pathtemplate.Compile(w.Filename, tctx)
	if err != nil {
		return "", fmt.Errorf("filename: %w", err)
	}

	deferred, err := emitter.ForEntry(e)
	if err != nil {
		return "", err
	}
	loader := loadergen.Loader(chunkName, []emitter.Deferred{deferred})

	entryPath, err := resolve(fileName, e.Chunk.ID)
	if err != nil {
		return "", fmt.Errorf("filename: %w", err)
	}
	bundle := loadergen.EntryBundle(e.Chunk.Modules, deferred.EntryModuleID, loader)
	if err := out.add(entryPath, bundle); err != nil {
		return "", err
	}

	for _, c := range collected.All {
		if c == e.Chunk {
			continue
		}
		p, err := resolve(chunkName, c.ID)
		if err != nil {
			return "", fmt.Errorf("chunk_filename: %w", err)
		}
		if err := out.add(p, loadergen.ChunkFile(c)); err != nil {
			return "", err
		}
	}
	return entryPath, nil
}

// resolve evaluates expr for a chunk id and rejects paths the runtime
// could not load: incomplete ones and ones leaving the output directory.
func resolve(expr *pathtemplate.Expr, id string) (string, error) {
	p, ok := expr.Resolve(id)
	if !ok {
		return "", fmt.Errorf("pattern %q has no value for chunk %q (resolved to %q)", expr.Pattern(), id, p)
	}
	if !filepath.IsLocal(filepath.FromSlash(p)) {
		return "", fmt.Errorf("pattern %q resolves chunk %q outside the output directory: %q", expr.Pattern(), id, p)
	}
	return p, nil
}

// output collects rendered files before anything touches the disk, so a
// failing entry leaves the output directory unchanged.
type output struct {
	files map[string]string
}

func newOutput() *output {
	return &output{files: make(map[string]string)}
}

func (o *output) add(path, content string) error {
	if prev, ok := o.files[path]; ok && prev != content {
		return fmt.Errorf("two different files render to %q", path)
	}
	o.files[path] = content
	return nil
}

func (o *output) paths() []string {
	out := make([]string, 0, len(o.files))
	for p := range o.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (o *output) write(dir string) error {
	for _, p := range o.paths() {
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", p, err)
		}
		if err := os.WriteFile(full, []byte(o.files[p]), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", p, err)
		}
	}
	return nil
}
