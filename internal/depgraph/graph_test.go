// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package depgraph

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/openie-engine/internal/depgraph/depgraphtest"
	"github.com/pdiddy/openie-engine/pkg/types"
)

func TestPositionOrdering(t *testing.T) {
	p := At(5)
	want := []Position{
		At(4),
		p.Before(2),
		p.Before(1).Before(2),
		p.Before(1).Before(1),
		p.Before(1),
		p,
		At(6),
	}

	got := append([]Position(nil), want...)
	// Shuffle deterministically, then sort.
	got[0], got[6] = got[6], got[0]
	got[2], got[4] = got[4], got[2]
	sort.Slice(got, func(i, j int) bool { return got[i].Less(got[j]) })

	assert.Equal(t, want, got)
	for i := 1; i < len(want); i++ {
		assert.True(t, want[i-1].Less(want[i]), "%s < %s", want[i-1], want[i])
		assert.NotEqual(t, want[i-1], want[i])
	}
}

func TestPositionDeepSplicingNeverCollides(t *testing.T) {
	seen := map[Position]bool{}
	p := At(3)
	for depth := 0; depth < 200; depth++ {
		p = p.Before(1)
		require.False(t, seen[p], "collision at depth %d", depth)
		seen[p] = true
		assert.True(t, p.Less(At(3)))
		assert.True(t, At(2).Less(p))
	}
}

func TestFromSentence(t *testing.T) {
	g, err := FromSentence(depgraphtest.HappyCat())
	require.NoError(t, err)

	assert.Equal(t, 7, g.Size())
	root := g.Root()
	require.NotNil(t, root)
	assert.Equal(t, "animal", root.Word)
	assert.Len(t, g.Outgoing(root), 5)
}

func TestFromSentenceIDsFollowPosition(t *testing.T) {
	s := depgraphtest.HappyCat()
	for i := range s.Tokens {
		s.Tokens[i].Index = 0
	}

	g, err := FromSentence(s)
	require.NoError(t, err)
	for _, n := range g.Vertices() {
		assert.Equal(t, types.TokenID{Sentence: 0, Index: n.Pos.Index()}, n.ID, n.Word)
	}
}

func TestFromSentenceFallsBackToBasic(t *testing.T) {
	s := depgraphtest.HappyCat()
	s.Basic, s.Enhanced = s.Enhanced, nil

	g, err := FromSentence(s)
	require.NoError(t, err)
	assert.Equal(t, "animal", g.Root().Word)
}

func TestFromSentenceWithoutParse(t *testing.T) {
	s := depgraphtest.HappyCat()
	s.Enhanced = nil

	_, err := FromSentence(s)
	assert.ErrorIs(t, err, ErrNoDependencies)
}

func TestFromSentenceTokenOutOfRange(t *testing.T) {
	s := depgraphtest.HappyCat()
	s.Enhanced = append(s.Enhanced, types.Dependency{Relation: "dep", Governor: 6, Dependent: 42})

	_, err := FromSentence(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestRemoveVertexRemovesEdges(t *testing.T) {
	g, err := FromSentence(depgraphtest.HappyCat())
	require.NoError(t, err)

	cat, ok := g.Node(At(2))
	require.True(t, ok)
	require.True(t, g.RemoveVertex(cat))

	for _, e := range g.Edges() {
		assert.NotEqual(t, cat.Pos, e.Gov.Pos)
		assert.NotEqual(t, cat.Pos, e.Dep.Pos)
	}
	// The determiner of "cat" survives as an isolated vertex.
	_, ok = g.Node(At(1))
	assert.True(t, ok)
	assert.False(t, g.RemoveVertex(cat))
}

func TestAddEdgeAddsMissingEndpoints(t *testing.T) {
	g := New()
	a := &Node{Word: "a", Pos: At(1)}
	b := &Node{Word: "b", Pos: At(2)}

	e := g.AddEdge(a, b, "dep", 1.0, false)
	assert.Equal(t, 2, g.Size())
	assert.Same(t, e, g.AddEdge(a, b, "dep", 0.5, true))
	assert.Len(t, g.Edges(), 1)
}

func TestCopyDoesNotAlias(t *testing.T) {
	g, err := FromSentence(depgraphtest.HappyCat())
	require.NoError(t, err)
	before := g.Key()

	c := g.Copy()
	require.True(t, c.Equal(g))

	animal, _ := c.Node(At(6))
	animal.Word = "beast"
	happy, _ := c.Node(At(5))
	c.RemoveVertex(happy)
	c.AddEdge(animal, &Node{Word: "very", Pos: At(5).Before(1)}, "advmod", 1.0, false)

	assert.Equal(t, before, g.Key())
	orig, _ := g.Node(At(6))
	assert.Equal(t, "animal", orig.Word)
	assert.False(t, c.Equal(g))
}

func TestClean(t *testing.T) {
	g, err := FromSentence(depgraphtest.HappyCat())
	require.NoError(t, err)

	a, _ := g.Node(At(6))
	g.AddEdge(a, a, "dep", 1.0, false)
	cat, _ := g.Node(At(2))
	g.AddEdge(a, cat, "nsubj:xsubj", 1.0, true)

	Clean(g)

	_, hasPunct := g.Node(At(7))
	assert.False(t, hasPunct, "isolated punctuation is removed")
	for _, e := range g.Edges() {
		assert.NotEqual(t, e.Gov.Pos, e.Dep.Pos, "self loop survived")
	}
	var toCat []string
	for _, e := range g.Incoming(cat) {
		toCat = append(toCat, e.Rel)
	}
	assert.Equal(t, []string{"nsubj"}, toCat)
	assert.Equal(t, "The cat is a happy animal", g.Text())
}

func TestCleanAssignsRoot(t *testing.T) {
	g := New()
	gov := &Node{Word: "runs", Pos: At(2)}
	dep := &Node{Word: "dog", Pos: At(1)}
	g.AddEdge(gov, dep, "nsubj", 1.0, false)

	Clean(g)
	require.NotNil(t, g.Root())
	assert.Equal(t, "runs", g.Root().Word)
}

func TestDescendants(t *testing.T) {
	g, err := FromSentence(depgraphtest.HappyCat())
	require.NoError(t, err)
	cat, _ := g.Node(At(2))

	var words []string
	for _, n := range g.Descendants(cat) {
		words = append(words, n.Word)
	}
	assert.Equal(t, []string{"The", "cat"}, words)
}

func TestParsePolarity(t *testing.T) {
	assert.Equal(t, PolarityUp, ParsePolarity("up"))
	assert.Equal(t, PolarityDown, ParsePolarity("DOWN"))
	assert.Equal(t, PolarityFlat, ParsePolarity("flat"))
	assert.Equal(t, PolarityUnknown, ParsePolarity(""))
	assert.True(t, PolarityUp.IsUpwards())
	assert.False(t, PolarityFlat.IsUpwards())
}
