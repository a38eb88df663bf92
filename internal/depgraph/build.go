// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package depgraph

import (
	"errors"
	"fmt"

	"github.com/pdiddy/openie-engine/pkg/types"
)

// ErrNoDependencies is returned when a sentence carries neither an enhanced
// nor a basic dependency parse. Extraction cannot proceed without one.
var ErrNoDependencies = errors.New("depgraph: sentence has no dependency parse")

// RootRelation labels arcs whose governor is the virtual root.
const RootRelation = "root"

// FromSentence builds the dependency graph of a sentence. The enhanced
// (collapsed) dependencies are preferred; the basic tree is the fallback.
func FromSentence(s *types.Sentence) (*Graph, error) {
	deps := s.Enhanced
	if len(deps) == 0 {
		deps = s.Basic
	}
	if len(deps) == 0 {
		return nil, fmt.Errorf("sentence %d: %w", s.Index, ErrNoDependencies)
	}

	g := New()
	node := func(index int) (*Node, error) {
		if n, ok := g.nodes[At(index)]; ok {
			return n, nil
		}
		tok, ok := s.Token(index)
		if !ok {
			return nil, fmt.Errorf("sentence %d: token %d out of range (%d tokens)", s.Index, index, len(s.Tokens))
		}
		n := NewNode(s.Index, tok, At(index))
		n.ID.Index = index
		g.AddVertex(n)
		return n, nil
	}

	for _, d := range deps {
		dep, err := node(d.Dependent)
		if err != nil {
			return nil, err
		}
		if d.Governor == 0 || d.Relation == RootRelation {
			g.AddRoot(dep)
			continue
		}
		gov, err := node(d.Governor)
		if err != nil {
			return nil, err
		}
		g.AddEdge(gov, dep, d.Relation, WeightCertain, d.Extra)
	}
	return g, nil
}
