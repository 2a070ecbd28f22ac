package app

import (
	"github.com/specialistvlad/workerpack/internal/registry"
	"github.com/specialistvlad/workerpack/modules/archives"
	"github.com/specialistvlad/workerpack/modules/emptycontext"
	"github.com/specialistvlad/workerpack/modules/hashing"
)

// coreModules is the definitive list of all modules that are compiled into
// the workerpack binary.
var coreModules = []registry.Module{
	&emptycontext.Module{},
	&hashing.Module{},
	&archives.Module{},
}
