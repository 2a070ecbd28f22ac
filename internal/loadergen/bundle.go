package loadergen

import (
	"github.com/specialistvlad/workerpack/internal/chunkgraph"
)

// RequireVar is the in-bundle require function passed to every module.
const RequireVar = "__require__"

// EntryBundle renders the file that starts a worker: a bootstrap owning the
// module table, the loader, and the call into the entry module. The entry
// module's exports become the file's module.exports.
//
// The loader must define loadDeferred; it is exposed as __require__.e so
// module code can pull in an async chunk synchronously before requiring
// one of its modules.
func EntryBundle(modules []*chunkgraph.Module, entryModuleID, loader string) string {
	return asString(
		"module.exports =",
		"(function(modules) { // bootstrap",
		indent(
			"var installedModules = {};",
			"function "+RequireVar+"(moduleId) {",
			indent(
				"if (installedModules[moduleId]) {",
				indent("return installedModules[moduleId].exports;"),
				"}",
				"var fn = modules[moduleId];",
				"if (typeof fn !== 'function') {",
				indent(`throw new Error("Cannot find module " + moduleId);`),
				"}",
				"var module = installedModules[moduleId] = { id: moduleId, loaded: false, exports: {} };",
				"fn.call(module.exports, module, module.exports, "+RequireVar+");",
				"module.loaded = true;",
				"return module.exports;",
			),
			"}",
			RequireVar+".m = modules;",
			RequireVar+".c = installedModules;",
			"",
			loader,
			RequireVar+".e = loadDeferred;",
			"",
			"return "+RequireVar+"("+RequireVar+".s = "+jsString(entryModuleID)+");",
		),
		"})("+moduleTable(modules)+");",
		"",
	)
}

// ChunkFile renders a file that exports the ids of the chunk it represents
// and the chunk's modules, in the shape the loader merges.
func ChunkFile(chunk *chunkgraph.Chunk) string {
	return asString(
		"exports.ids = "+jsString([]string{chunk.ID})+";",
		"exports.modules = "+moduleTable(chunk.Modules)+";",
		"",
	)
}

func moduleTable(modules []*chunkgraph.Module) string {
	if len(modules) == 0 {
		return "{}"
	}
	entries := make([]string, 0, len(modules))
	for i, m := range modules {
		sep := ","
		if i == len(modules)-1 {
			sep = ""
		}
		entries = append(entries, asString(
			jsString(m.ID)+": (function(module, exports, "+RequireVar+") {",
			// Not indented: the code may contain multi-line string literals.
			m.Code,
			"})"+sep,
		))
	}
	return asString("{", entries, "}")
}
