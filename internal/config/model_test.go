package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_Select(t *testing.T) {
	m := &Model{Workers: []*Worker{{Name: "LSP-CSS"}, {Name: "LSP-JSON"}, {Name: "LSP-PHP"}}}

	all, err := m.Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := m.Select([]string{"LSP-PHP", "LSP-CSS"})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "LSP-CSS", some[0].Name, "model order wins")
	assert.Equal(t, "LSP-PHP", some[1].Name)

	_, err = m.Select([]string{"LSP-Rust"})
	assert.ErrorContains(t, err, `unknown worker "LSP-Rust" (configured: [LSP-CSS LSP-JSON LSP-PHP])`)
}

func TestWorker_Validate(t *testing.T) {
	valid := Worker{Name: "w", GraphPath: "g.yaml", OutputPath: "dist", Filename: DefaultFilename, ChunkFilename: DefaultChunkFilename}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(w *Worker)
		want   string
	}{
		{"name", func(w *Worker) { w.Name = "" }, "worker without name"},
		{"graph", func(w *Worker) { w.GraphPath = "" }, "graph is required"},
		{"output", func(w *Worker) { w.OutputPath = "" }, "output_path is required"},
		{"filename", func(w *Worker) { w.ChunkFilename = "" }, "must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := valid
			tt.mutate(&w)
			assert.ErrorContains(t, w.Validate(), tt.want)
		})
	}
}
