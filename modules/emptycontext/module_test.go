package emptycontext

import (
	"testing"

	"github.com/specialistvlad/workerpack/internal/chunkgraph"
	"github.com/specialistvlad/workerpack/internal/registry"
	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)

	assert.Equal(t, chunkgraph.HostRequireContext{}, r.ContextStrategies["host-require"])
	assert.Equal(t, chunkgraph.ThrowingContext{}, r.ContextStrategies["throw"])
}
