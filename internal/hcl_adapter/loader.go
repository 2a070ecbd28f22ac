package hcl_adapter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/workerpack/internal/config"
	"github.com/specialistvlad/workerpack/internal/ctxlog"
	"github.com/specialistvlad/workerpack/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths and translates the worker
// blocks into the model. Worker names must be unique across all files.
func (l *Loader) Load(ctx context.Context, vars map[string]string, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	evalCtx := evalContext(vars)
	model := &config.Model{}
	declared := make(map[string]string)

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Workers {
			if prev, ok := declared[block.Name]; ok {
				return nil, fmt.Errorf("worker '%s' declared in %s is already declared in %s", block.Name, file, prev)
			}
			declared[block.Name] = file

			w := translateWorker(block, file)
			if err := w.Validate(); err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			logger.Debug("Translated worker.", "worker", w.Name, "graph", w.GraphPath, "output", w.OutputPath)
			model.Workers = append(model.Workers, w)
		}
	}

	if len(model.Workers) == 0 {
		return nil, fmt.Errorf("no worker blocks found in %v", hclFiles)
	}
	logger.Debug("HCL loading complete.", "workers", len(model.Workers))
	return model, nil
}

// translateWorker applies defaults and resolves relative paths against the
// directory of the declaring file.
func translateWorker(b *workerBlock, file string) *config.Worker {
	dir := filepath.Dir(file)
	return &config.Worker{
		Name:            b.Name,
		GraphPath:       resolvePath(dir, b.Graph),
		OutputPath:      resolvePath(dir, b.OutputPath),
		Filename:        stringOr(b.Filename, config.DefaultFilename),
		ChunkFilename:   stringOr(b.ChunkFilename, config.DefaultChunkFilename),
		ContentHashType: stringOr(b.ContentHashType, config.DefaultContentHashType),
		RealHash:        boolOr(b.RealHash, false),
		Entries:         b.Entries,
		Minify:          boolOr(b.Minify, false),
		Archive:         stringOr(b.Archive, config.ArchiveNone),
		EmptyContext:    stringOr(b.EmptyContext, config.DefaultEmptyContext),
		FillHashes:      boolOr(b.FillHashes, false),
		HashFunction:    stringOr(b.HashFunction, config.DefaultHashFunction),
		Source:          file,
	}
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func stringOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
