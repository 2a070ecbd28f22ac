// Package loadergen renders the JavaScript that packaged workers run: the
// startup loader that merges dependency chunks into the module table, the
// entry bundle that embeds it, and the chunk files it loads.
package loadergen

import (
	"strings"

	"github.com/specialistvlad/workerpack/internal/emitter"
	"github.com/specialistvlad/workerpack/internal/pathtemplate"
)

// ChunkIDVar is the loader's variable holding the requested chunk id.
const ChunkIDVar = "chunkId"

// Loader renders the deferred-chunk loader. It expects `modules` (the
// module table), `require` and `__dirname` in scope, and runs every load
// synchronously when evaluated.
//
// A chunk that cannot be required aborts evaluation with an Error whose
// chunkId property names the chunk. Loading the same chunk twice
// overwrites the table entries it set the first time.
func Loader(scriptSrc *pathtemplate.Expr, deferred []emitter.Deferred) string {
	lists := make([]string, 0, len(deferred))
	for _, d := range deferred {
		lists = append(lists, jsString(d.List()))
	}

	return asString(
		"// Load deferred chunks",
		"function scriptSrc("+ChunkIDVar+") {",
		indent("return "+scriptSrc.JS(ChunkIDVar)+";"),
		"}",
		"function chunkLoadError("+ChunkIDVar+", src, reason) {",
		indent(
			`var err = new Error("Loading chunk " + `+ChunkIDVar+` + " failed (" + src + "): " + reason);`,
			"err.chunkId = "+ChunkIDVar+";",
			"return err;",
		),
		"}",
		"function loadDeferred("+ChunkIDVar+") {",
		indent(
			"var src = scriptSrc("+ChunkIDVar+");",
			"var chunk;",
			"try {",
			indent("chunk = require(__dirname + '/' + src);"),
			"} catch (e) {",
			indent("throw chunkLoadError("+ChunkIDVar+", src, e && e.message ? e.message : e);"),
			"}",
			"if (!chunk || typeof chunk.modules !== 'object') {",
			indent("throw chunkLoadError("+ChunkIDVar+", src, 'no modules exported');"),
			"}",
			"var moreModules = chunk.modules;",
			"for (var moduleId in moreModules) {",
			indent(
				"if (Object.prototype.hasOwnProperty.call(moreModules, moduleId)) {",
				indent("modules[moduleId] = moreModules[moduleId];"),
				"}",
			),
			"}",
		),
		"}",
		"var deferredModules = [",
		indent(strings.Join(lists, ",\n")),
		"];",
		"for (var i = 0; i < deferredModules.length; ++i) {",
		indent(
			"var deferredModule = deferredModules[i];",
			"for (var j = 1; j < deferredModule.length; ++j) {",
			indent("loadDeferred(deferredModule[j]);"),
			"}",
		),
		"}",
	)
}
