// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment turns the dependency graph of a clause into a
// (subject; relation; object) triple using fixed structural rules, and
// extracts nominal relations ("Obama's wife", "Obama, the president")
// directly from a sentence graph.
package segment

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/pdiddy/openie-engine/internal/depgraph"
	"github.com/pdiddy/openie-engine/internal/naturalli"
	"github.com/pdiddy/openie-engine/pkg/types"
)

var (
	subjectRelations = mapset.NewThreadUnsafeSet[string](
		"nsubj", "nsubjpass", "nsubj:pass", "csubj", "csubjpass", "csubj:pass")
	auxiliaryRelations = mapset.NewThreadUnsafeSet[string](
		"aux", "auxpass", "aux:pass", "neg", "prt", "compound:prt")
	objectRelations = mapset.NewThreadUnsafeSet[string](
		"dobj", "obj", "iobj")
	complementRelations = mapset.NewThreadUnsafeSet[string](
		"xcomp", "acomp", "ccomp")
	nominalModifiers = mapset.NewThreadUnsafeSet[string](
		"compound", "nn", "amod", "nummod", "num")
	possessiveRelations = mapset.NewThreadUnsafeSet[string](
		"poss", "nmod:poss")
	copulaRelations = mapset.NewThreadUnsafeSet[string]("cop")
)

const (
	relCase     = "case"
	relAppos    = "appos"
	verbHas     = "has"
	verbIs      = "is"
	nominalConf = 1.0
)

// RuleSegmenter is the default triple segmenter.
type RuleSegmenter struct {
	// AllNominals extracts nominal relations even when neither side is a
	// named entity.
	AllNominals bool
}

// consumption tracks which vertices a triple has claimed.
type consumption map[depgraph.Position]bool

// take claims n and its unclaimed descendants and returns them in position
// order.
func (c consumption) take(g *depgraph.Graph, n *depgraph.Node) []*depgraph.Node {
	var out []*depgraph.Node
	var walk func(*depgraph.Node)
	walk = func(cur *depgraph.Node) {
		if c[cur.Pos] {
			return
		}
		c[cur.Pos] = true
		out = append(out, cur)
		for _, e := range g.Outgoing(cur) {
			walk(e.Dep)
		}
	}
	walk(n)
	return sortByPosition(out)
}

func sortByPosition(nodes []*depgraph.Node) []*depgraph.Node {
	for i := 1; i < len(nodes); i++ {
		for j := i; j > 0 && nodes[j].Pos.Less(nodes[j-1].Pos); j-- {
			nodes[j], nodes[j-1] = nodes[j-1], nodes[j]
		}
	}
	return nodes
}

func words(nodes []*depgraph.Node) []types.Word {
	out := make([]types.Word, len(nodes))
	for i, n := range sortByPosition(nodes) {
		out[i] = n.AsWord()
	}
	return out
}

func firstChild(g *depgraph.Graph, n *depgraph.Node, rels mapset.Set[string]) *depgraph.Edge {
	for _, e := range g.Outgoing(n) {
		if rels.Contains(e.Rel) {
			return e
		}
	}
	return nil
}

func prepositionalChild(g *depgraph.Graph, n *depgraph.Node) *depgraph.Edge {
	for _, e := range g.Outgoing(n) {
		if naturalli.IsPrepositional(e.Rel) {
			return e
		}
	}
	return nil
}

// prepositionWords consumes the case marker of a prepositional object when
// the parse has one; otherwise the preposition is read off the relation label.
func prepositionWords(g *depgraph.Graph, c consumption, e *depgraph.Edge) []types.Word {
	for _, ce := range g.Outgoing(e.Dep) {
		if ce.Rel == relCase && !c[ce.Dep.Pos] {
			return words(c.take(g, ce.Dep))
		}
	}
	return []types.Word{{Index: e.Dep.Pos.Index(), Text: naturalli.PrepositionWord(e.Rel)}}
}

// Segment reads a triple off the clause rooted at g's root. Copular
// clauses put the predicate nominal in the object ("cat; is; happy") or,
// with a prepositional complement, in the relation ("Obama; is president
// of; France"). Verbal clauses take a direct object, a prepositional object
// or a complement. In strict mode every vertex of g must be part of the
// triple.
func (s RuleSegmenter) Segment(g *depgraph.Graph, score float64, strict bool) (types.RelationTriple, bool) {
	if g == nil || g.IsEmpty() {
		return types.RelationTriple{}, false
	}
	root := g.Root()
	if root == nil {
		return types.RelationTriple{}, false
	}
	subjEdge := firstChild(g, root, subjectRelations)
	if subjEdge == nil {
		return types.RelationTriple{}, false
	}

	c := consumption{root.Pos: true}
	subject := c.take(g, subjEdge.Dep)

	relation := []*depgraph.Node{root}
	for _, e := range g.Outgoing(root) {
		if auxiliaryRelations.Contains(e.Rel) {
			relation = append(relation, c.take(g, e.Dep)...)
		}
	}

	var (
		object   []*depgraph.Node
		prepWord []types.Word
	)
	if cop := firstChild(g, root, copulaRelations); cop != nil {
		relation = append(relation, c.take(g, cop.Dep)...)
		if p := prepositionalChild(g, root); p != nil {
			prepWord = prepositionWords(g, c, p)
			object = c.take(g, p.Dep)
			for _, e := range g.Outgoing(root) {
				relation = append(relation, c.take(g, e.Dep)...)
			}
		} else {
			relation = relation[1:]
			delete(c, root.Pos)
			object = c.take(g, root)
		}
	} else {
		switch {
		case firstChild(g, root, objectRelations) != nil:
			object = c.take(g, firstChild(g, root, objectRelations).Dep)
		case prepositionalChild(g, root) != nil:
			p := prepositionalChild(g, root)
			prepWord = prepositionWords(g, c, p)
			object = c.take(g, p.Dep)
		case firstChild(g, root, complementRelations) != nil:
			object = c.take(g, firstChild(g, root, complementRelations).Dep)
		default:
			return types.RelationTriple{}, false
		}
	}

	if strict && len(c) != g.Size() {
		return types.RelationTriple{}, false
	}
	if len(subject) == 0 || len(object) == 0 {
		return types.RelationTriple{}, false
	}

	return types.RelationTriple{
		Subject:    words(subject),
		Relation:   append(words(relation), prepWord...),
		Object:     words(object),
		Confidence: score,
	}, true
}

// Extract returns the triples read directly off a sentence graph: the
// whole-sentence triple in non-strict mode, then the nominal relations.
func (s RuleSegmenter) Extract(g *depgraph.Graph) []types.RelationTriple {
	if g == nil || g.IsEmpty() {
		return nil
	}
	var out []types.RelationTriple
	if t, ok := s.Segment(g, nominalConf, false); ok {
		out = append(out, t)
	}
	return append(out, s.nominals(g)...)
}

func isEntity(n *depgraph.Node) bool {
	return n.NER != "" && n.NER != types.NEROutside
}

// phrase returns n with its compound and adjectival modifiers.
func phrase(g *depgraph.Graph, n *depgraph.Node) []*depgraph.Node {
	out := []*depgraph.Node{n}
	for _, e := range g.Outgoing(n) {
		if nominalModifiers.Contains(e.Rel) {
			out = append(out, phrase(g, e.Dep)...)
		}
	}
	return out
}

func (s RuleSegmenter) nominals(g *depgraph.Graph) []types.RelationTriple {
	var out []types.RelationTriple
	for _, e := range g.Edges() {
		switch {
		case possessiveRelations.Contains(e.Rel):
			owner, owned := e.Dep, e.Gov
			if !s.AllNominals && !isEntity(owner) {
				continue
			}
			out = append(out, types.RelationTriple{
				Subject:    words(phrase(g, owner)),
				Relation:   []types.Word{{Index: owned.Pos.Index(), Text: verbHas}},
				Object:     words(phrase(g, owned)),
				Confidence: nominalConf,
			})
		case e.Rel == relAppos:
			head, desc := e.Gov, e.Dep
			if !s.AllNominals && !isEntity(head) {
				continue
			}
			out = append(out, types.RelationTriple{
				Subject:    words(phrase(g, head)),
				Relation:   []types.Word{{Index: desc.Pos.Index(), Text: verbIs}},
				Object:     words(phrase(g, desc)),
				Confidence: nominalConf,
			})
		}
	}
	return out
}
