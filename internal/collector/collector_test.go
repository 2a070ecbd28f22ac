package collector

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/specialistvlad/workerpack/internal/chunkgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(id string) *chunkgraph.Chunk {
	return &chunkgraph.Chunk{ID: id}
}

func group(name string, chunks ...*chunkgraph.Chunk) *chunkgraph.ChunkGroup {
	g := &chunkgraph.ChunkGroup{Name: name, Chunks: chunks}
	for _, c := range chunks {
		c.Groups = append(c.Groups, g)
	}
	return g
}

func link(parent *chunkgraph.ChunkGroup, children ...*chunkgraph.ChunkGroup) {
	for _, child := range children {
		parent.Children = append(parent.Children, child)
		child.Parents = append(child.Parents, parent)
	}
}

func ids(chunks []*chunkgraph.Chunk) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, c.ID)
	}
	return out
}

func TestCollect_SingleGroupWithoutChildren(t *testing.T) {
	main := chunk("main")
	a := group("a", main)

	res, err := Collect([]*chunkgraph.ChunkGroup{a})
	require.NoError(t, err)

	assert.Equal(t, []string{"main"}, ids(res.All))
	assert.Empty(t, res.Deferred)
	assert.Equal(t, []string{"main"}, ids(res.Initial))
}

func TestCollect_ChildGroupIsDeferred(t *testing.T) {
	main, b1 := chunk("main"), chunk("b1")
	a := group("a", main)
	b := group("b", b1)
	link(a, b)

	res, err := Collect([]*chunkgraph.ChunkGroup{a})
	require.NoError(t, err)

	assert.Equal(t, []string{"b1"}, ids(res.Deferred))
	assert.Equal(t, []string{"b1", "main"}, ids(res.All))
}

func TestCollect_InitialChunkReachableAsyncIsNotDeferred(t *testing.T) {
	main, shared, lazy := chunk("main"), chunk("shared"), chunk("lazy")
	a := group("a", main, shared)
	b := group("b", shared, lazy)
	link(a, b)

	res, err := Collect([]*chunkgraph.ChunkGroup{a})
	require.NoError(t, err)

	assert.Equal(t, []string{"lazy"}, ids(res.Deferred), "shared is initial and must be subtracted")
	assert.Equal(t, []string{"main", "shared"}, ids(res.Initial))
	assert.Equal(t, []string{"lazy", "main", "shared"}, ids(res.All))
}

func TestCollect_InitialIsIntersectionOfTopLevelGroups(t *testing.T) {
	main, onlyA, onlyB, lazy := chunk("main"), chunk("onlyA"), chunk("onlyB"), chunk("lazy")
	a := group("a", main, onlyA)
	b := group("b", main, onlyB)
	c := group("c", onlyA, onlyB, lazy)
	link(a, c)

	res, err := Collect([]*chunkgraph.ChunkGroup{a, b})
	require.NoError(t, err)

	assert.Equal(t, []string{"main"}, ids(res.Initial))
	assert.Equal(t, []string{"onlyA", "onlyB", "lazy"}, ids(res.Deferred))
	// The first group's chunks are appended; onlyA is already present.
	assert.Equal(t, []string{"onlyA", "onlyB", "lazy", "main"}, ids(res.All))
}

func TestCollect_TransitiveAndSharedChildren(t *testing.T) {
	main := chunk("main")
	x, y, z := chunk("x"), chunk("y"), chunk("z")
	a := group("a", main)
	b := group("b", x)
	c := group("c", y)
	d := group("d", z)
	link(a, b, c)
	link(b, d)
	link(c, d)

	res, err := Collect([]*chunkgraph.ChunkGroup{a})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z", "main"}, ids(res.All))
}

func TestCollect_CyclesTerminate(t *testing.T) {
	main, x := chunk("main"), chunk("x")
	a := group("a", main)
	b := group("b", x)
	link(a, b)
	link(b, a)
	link(b, b)

	res, err := Collect([]*chunkgraph.ChunkGroup{a})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, ids(res.Deferred))
	assert.Equal(t, []string{"x", "main"}, ids(res.All))
}

func TestCollect_Errors(t *testing.T) {
	_, err := Collect(nil)
	assert.ErrorIs(t, err, ErrNoGroups)

	_, err = Collect([]*chunkgraph.ChunkGroup{nil})
	assert.ErrorContains(t, err, "is nil")

	a := group("a", chunk("main"))
	link(a, &chunkgraph.ChunkGroup{Name: "broken", Chunks: []*chunkgraph.Chunk{nil}})
	_, err = Collect([]*chunkgraph.ChunkGroup{a})
	assert.ErrorContains(t, err, `chunk group "broken" holds a nil chunk`)

	_, err = ForEntry(&chunkgraph.Entry{Name: "e", Chunk: chunk("lonely")})
	assert.ErrorContains(t, err, `entry "e"`)
	assert.ErrorIs(t, err, ErrNoGroups)
}

// TestCollect_RandomGraphs checks that every collected chunk is either in
// the first group or reachable through at least one dynamic edge, that no
// deferred chunk is initial, and that collecting is repeatable.
func TestCollect_RandomGraphs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for n := 0; n < 50; n++ {
		t.Run(fmt.Sprintf("graph_%d", n), func(t *testing.T) {
			chunks := make([]*chunkgraph.Chunk, 8)
			for i := range chunks {
				chunks[i] = chunk(fmt.Sprintf("c%d", i))
			}
			groups := make([]*chunkgraph.ChunkGroup, 6)
			for i := range groups {
				var members []*chunkgraph.Chunk
				for _, c := range chunks {
					if rng.Intn(3) == 0 {
						members = append(members, c)
					}
				}
				groups[i] = group(fmt.Sprintf("g%d", i), members...)
			}
			for _, g := range groups {
				for _, other := range groups {
					if rng.Intn(4) == 0 {
						link(g, other)
					}
				}
			}
			top := groups[:1+rng.Intn(2)]

			res, err := Collect(top)
			require.NoError(t, err)

			asyncReachable := map[*chunkgraph.Chunk]bool{}
			seen := map[*chunkgraph.ChunkGroup]bool{}
			var walk func(g *chunkgraph.ChunkGroup)
			walk = func(g *chunkgraph.ChunkGroup) {
				if seen[g] {
					return
				}
				seen[g] = true
				for _, c := range g.Chunks {
					asyncReachable[c] = true
				}
				for _, child := range g.Children {
					walk(child)
				}
			}
			for _, g := range top {
				for _, child := range g.Children {
					walk(child)
				}
			}

			initial := map[*chunkgraph.Chunk]bool{}
			for _, c := range res.Initial {
				initial[c] = true
			}
			for _, c := range res.Deferred {
				assert.True(t, asyncReachable[c], "deferred chunk %s must be async reachable", c.ID)
				assert.False(t, initial[c], "deferred chunk %s must not be initial", c.ID)
			}
			for _, c := range res.All {
				assert.True(t, asyncReachable[c] || top[0].Contains(c), "chunk %s has no justification", c.ID)
			}

			again, err := Collect(top)
			require.NoError(t, err)
			assert.Equal(t, ids(res.All), ids(again.All))
		})
	}
}
