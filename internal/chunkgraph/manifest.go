package chunkgraph

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the serialized graph written by the compiler. YAML is a
// superset of JSON, so either encoding is accepted.
type Manifest struct {
	Hash    string        `yaml:"hash"`
	Modules []ModuleEntry `yaml:"modules"`
	Chunks  []ChunkEntry  `yaml:"chunks"`
	Groups  []GroupEntry  `yaml:"groups"`
}

// ModuleEntry is the manifest form of a Module.
type ModuleEntry struct {
	ID   string     `yaml:"id"`
	Code string     `yaml:"code"`
	Kind ModuleKind `yaml:"kind"`
}

// ChunkEntry is the manifest form of a Chunk. Modules and EntryModule are
// module ids.
type ChunkEntry struct {
	ID           string            `yaml:"id"`
	Name         string            `yaml:"name"`
	Hash         string            `yaml:"hash"`
	RenderedHash string            `yaml:"renderedHash"`
	ContentHash  map[string]string `yaml:"contentHash"`
	Modules      []string          `yaml:"modules"`
	EntryModule  string            `yaml:"entryModule"`
}

// GroupEntry is the manifest form of a ChunkGroup. Chunks are chunk ids and
// Children are group names.
type GroupEntry struct {
	Name     string   `yaml:"name"`
	Chunks   []string `yaml:"chunks"`
	Children []string `yaml:"children"`
}

// DecodeManifest reads a manifest from r.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("manifest is empty")
		}
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil
}

// ReadManifestFile decodes the manifest stored at path.
func ReadManifestFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
