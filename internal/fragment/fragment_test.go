// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fragment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/openie-engine/internal/depgraph"
	"github.com/pdiddy/openie-engine/internal/depgraph/depgraphtest"
)

func catGraph(t *testing.T) *depgraph.Graph {
	t.Helper()
	g, err := depgraph.FromSentence(depgraphtest.HappyCat())
	require.NoError(t, err)
	return depgraph.Clean(g)
}

func TestSetDeduplicatesIgnoringScore(t *testing.T) {
	s := NewSet()
	a := New(catGraph(t), true, true).WithScore(0.9)
	b := New(catGraph(t), true, false).WithScore(0.2)

	assert.True(t, s.Add(a))
	assert.False(t, s.Add(b))
	require.Equal(t, 1, s.Len())
	assert.Equal(t, 0.9, s.Items()[0].Score)
}

func TestSetDistinguishesTruth(t *testing.T) {
	s := NewSet()
	s.Add(New(catGraph(t), true, false))
	s.Add(New(catGraph(t), false, false))
	assert.Equal(t, 2, s.Len())
}

func TestSetDistinguishesStructure(t *testing.T) {
	g := catGraph(t)
	shorter := g.Copy()
	happy, ok := shorter.Node(depgraph.At(5))
	require.True(t, ok)
	shorter.RemoveVertex(happy)

	s := NewSet()
	s.AddAll([]Fragment{New(g, true, true), New(shorter, true, false)})
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(New(shorter.Copy(), true, false)))
	assert.Equal(t, "The cat is a animal", s.Items()[1].String())
}

func TestEqual(t *testing.T) {
	a := New(catGraph(t), true, true)
	assert.True(t, a.Equal(New(catGraph(t), true, false).WithScore(0.1)))
	assert.False(t, a.Equal(New(catGraph(t), false, true)))
}
