// Package bundler packages one worker: it reads the worker's chunk graph,
// renders an entry bundle per entry together with the chunk files the
// entry's loader needs, and writes the result to the worker's output
// directory.
//
// The pipeline for each entry is explicit:
//
//	collector.ForEntry -> chunkmaps.Build -> pathtemplate.Compile
//	  -> emitter.ForEntry -> loadergen.Loader -> loadergen.EntryBundle
//
// Chunks shared by several entries are written once.
package bundler
