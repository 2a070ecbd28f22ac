package chunkgraph

import (
	"encoding/json"
	"fmt"
)

// EmptyContextStrategy produces the source of a dynamic-require context
// that matched no files at compile time.
type EmptyContextStrategy interface {
	Source(moduleID string) string
}

// HostRequireContext resolves every request through the host's own
// require, so dependencies that the compiler could not see are still found
// at run time next to the packaged worker.
type HostRequireContext struct{}

// Source implements EmptyContextStrategy.
func (HostRequireContext) Source(moduleID string) string {
	return fmt.Sprintf(`function emptyContext(req) {
	return require(req);
}
emptyContext.keys = function() { return []; };
emptyContext.resolve = function(req) { return req; };
module.exports = emptyContext;
emptyContext.id = %s;`, quote(moduleID))
}

// ThrowingContext fails every request with a "Cannot find module" error.
type ThrowingContext struct{}

// Source implements EmptyContextStrategy.
func (ThrowingContext) Source(moduleID string) string {
	return fmt.Sprintf(`function emptyContext(req) {
	var e = new Error("Cannot find module '" + req + "'");
	e.code = 'MODULE_NOT_FOUND';
	throw e;
}
emptyContext.keys = function() { return []; };
emptyContext.resolve = emptyContext;
module.exports = emptyContext;
emptyContext.id = %s;`, quote(moduleID))
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
