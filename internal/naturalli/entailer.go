// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package naturalli

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/pdiddy/openie-engine/internal/depgraph"
	"github.com/pdiddy/openie-engine/internal/fragment"
)

// DefaultAffinityProbabilityCap bounds the probability that a prepositional
// or clausal attachment is required by its governor.
const DefaultAffinityProbabilityCap = 1.0 / 3.0

// Modifiers whose deletion generalizes the governor.
var modifierRelations = mapset.NewThreadUnsafeSet[string](
	"amod", "advmod", "nummod", "num", "appos", "quantmod",
)

// Attachments whose deletion may drop something the governor needs.
var attachmentRelations = mapset.NewThreadUnsafeSet[string](
	"acl", "acl:relcl", "rcmod", "vmod", "partmod", "infmod", "advcl",
)

// DeletionEntailer shortens a clause by deleting modifier subtrees whose
// governor sits in an upward-monotone context. Each deletion is a natural
// logic forward entailment: "the happy cat sleeps" entails "the cat sleeps".
type DeletionEntailer struct {
	// IgnoreAffinity scores every deletion as certain.
	IgnoreAffinity bool
	// AffinityProbabilityCap is the probability ceiling that a prepositional
	// or clausal attachment is required; deleting one scales the score by
	// one minus this value.
	AffinityProbabilityCap float64
}

// NewDeletionEntailer returns an entailer with the default affinity cap.
func NewDeletionEntailer() DeletionEntailer {
	return DeletionEntailer{AffinityProbabilityCap: DefaultAffinityProbabilityCap}
}

func (d DeletionEntailer) deletionScore(e *depgraph.Edge) (float64, bool) {
	if !e.Gov.Polarity.IsUpwards() {
		return 0, false
	}
	switch {
	case e.Rel == relAdjMod && IsPrivative(e.Dep.Word):
		return 0, false
	case modifierRelations.Contains(e.Rel):
		return 1, true
	case IsPrepositional(e.Rel) || attachmentRelations.Contains(e.Rel):
		if d.IgnoreAffinity {
			return 1, true
		}
		return 1 - d.AffinityProbabilityCap, true
	}
	return 0, false
}

type shortening struct {
	graph *depgraph.Graph
	score float64
}

// Shorten searches breadth first over modifier deletions from g and returns
// up to budget distinct shortened fragments, never including g itself.
func (d DeletionEntailer) Shorten(g *depgraph.Graph, assumedTruth bool, budget int) ([]fragment.Fragment, error) {
	if g == nil || g.IsEmpty() || budget <= 0 {
		return nil, nil
	}

	seen := mapset.NewThreadUnsafeSet[string](g.Key())
	queue := []shortening{{graph: g, score: 1}}
	var out []fragment.Fragment
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range cur.graph.Edges() {
			if cur.graph.IsRoot(e.Dep) {
				continue
			}
			factor, ok := d.deletionScore(e)
			if !ok {
				continue
			}
			next := cur.graph.Without(e.Dep)
			if next.IsEmpty() || !seen.Add(next.Key()) {
				continue
			}
			score := cur.score * factor
			out = append(out, fragment.New(next, assumedTruth, false).WithScore(score))
			if len(out) >= budget {
				return out, nil
			}
			queue = append(queue, shortening{graph: next, score: score})
		}
	}
	return out, nil
}
