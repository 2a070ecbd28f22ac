// Package chunkgraph is the in-memory model of a compiled module graph:
// modules grouped into chunks, chunks grouped into chunk groups, and chunk
// groups linked to their children by dynamic-load edges.
//
// A Compilation is built once per worker from the manifest the compiler
// writes (see DecodeManifest and Build) and is read-only afterwards. Chunks
// are shared by pointer between every group that lists them, so identity
// comparisons (==) are meaningful across the whole graph.
//
// Build is the only place that derives data: empty-context modules get their
// source from the configured EmptyContextStrategy, and missing hashes are
// filled when a HashFunc is supplied.
package chunkgraph
