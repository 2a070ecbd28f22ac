package config

import (
	"fmt"
	"sort"
)

// Defaults applied by loaders to attributes the configuration omits.
const (
	DefaultFilename        = "[name].js"
	DefaultChunkFilename   = "[id].js"
	DefaultContentHashType = "javascript"
	DefaultEmptyContext    = "host-require"
	DefaultHashFunction    = "blake3"

	// ArchiveNone disables archiving.
	ArchiveNone = "none"
)

// Model is the unified representation of the packaging configuration.
type Model struct {
	Workers []*Worker
}

// Worker describes how one worker program is packaged.
type Worker struct {
	Name string
	// GraphPath is the compiler's chunk graph manifest.
	GraphPath string
	// OutputPath is the directory receiving the entry bundles and chunks.
	OutputPath string
	// Filename names entry bundles; ChunkFilename names chunk files.
	Filename        string
	ChunkFilename   string
	ContentHashType string
	// RealHash indexes full chunk hashes instead of rendered hashes.
	RealHash bool
	// Entries restricts packaging to the named entries. Empty means all.
	Entries      []string
	Minify       bool
	Archive      string
	EmptyContext string
	FillHashes   bool
	HashFunction string
	// Source is where the worker was declared, for error messages.
	Source string
}

// Validate checks the fields every worker needs.
func (w *Worker) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("worker without name")
	}
	if w.GraphPath == "" {
		return fmt.Errorf("worker '%s': graph is required", w.Name)
	}
	if w.OutputPath == "" {
		return fmt.Errorf("worker '%s': output_path is required", w.Name)
	}
	if w.Filename == "" || w.ChunkFilename == "" {
		return fmt.Errorf("worker '%s': filename and chunk_filename must not be empty", w.Name)
	}
	return nil
}

// Worker looks up a worker by name.
func (m *Model) Worker(name string) (*Worker, bool) {
	for _, w := range m.Workers {
		if w.Name == name {
			return w, true
		}
	}
	return nil, false
}

// Select returns the workers named in names, in model order. An empty
// names selects every worker.
func (m *Model) Select(names []string) ([]*Worker, error) {
	if len(names) == 0 {
		return m.Workers, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := m.Worker(n); !ok {
			return nil, fmt.Errorf("unknown worker %q (configured: %v)", n, m.names())
		}
		wanted[n] = true
	}
	var out []*Worker
	for _, w := range m.Workers {
		if wanted[w.Name] {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *Model) names() []string {
	out := make([]string, 0, len(m.Workers))
	for _, w := range m.Workers {
		out = append(out, w.Name)
	}
	sort.Strings(out)
	return out
}
