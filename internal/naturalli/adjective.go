// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package naturalli produces entailed fragments from a clause: the
// copula-adjective shortcut ("the cat is a happy animal" entails "the cat
// is happy") and the default clause splitter and forward entailer used when
// no statistical models are configured.
package naturalli

import (
	"errors"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/pdiddy/openie-engine/internal/depgraph"
	"github.com/pdiddy/openie-engine/internal/fragment"
)

// ErrPatternInconsistency is returned when a pattern match refers to a node
// that is not part of the fragment's graph.
var ErrPatternInconsistency = errors.New("naturalli: pattern match outside graph")

const (
	relSubject  = "nsubj"
	relCopula   = "cop"
	relDet      = "det"
	relAdjMod   = "amod"
	prepPrefix  = "prep_"
	nmodPrefix  = "nmod:"
	indefiniteA = "a"
)

// Typed nominal modifiers that are not prepositional phrases.
var nonPrepositional = mapset.NewThreadUnsafeSet[string]("nmod:poss", "nmod:tmod", "nmod:npmod")

// IsPrepositional reports whether rel attaches a prepositional object, in
// either the collapsed (prep_of) or the typed universal (nmod:of) scheme.
func IsPrepositional(rel string) bool {
	if strings.HasPrefix(rel, prepPrefix) {
		return true
	}
	return strings.HasPrefix(rel, nmodPrefix) && !nonPrepositional.Contains(rel)
}

// PrepositionWord returns the preposition carried by a prepositional
// relation label ("prep_of" and "nmod:of" both give "of").
func PrepositionWord(rel string) string {
	switch {
	case strings.HasPrefix(rel, prepPrefix):
		return strings.ReplaceAll(strings.TrimPrefix(rel, prepPrefix), "_", " ")
	case strings.HasPrefix(rel, nmodPrefix):
		return strings.ReplaceAll(strings.TrimPrefix(rel, nmodPrefix), "_", " ")
	}
	return ""
}

func isIndefinite(word string) bool {
	w := strings.ToLower(word)
	return w == indefiniteA || w == "an"
}

// adjectiveMatch is one binding of the copula-adjective pattern.
type adjectiveMatch struct {
	obj, subj, be, adj *depgraph.Node
	prep               *depgraph.Edge
}

// matchAdjectives finds every binding of: obj with an nsubj, a cop, an
// indefinite determiner, an amod, and optionally a prepositional object.
func matchAdjectives(g *depgraph.Graph) []adjectiveMatch {
	var matches []adjectiveMatch
	for _, obj := range g.Vertices() {
		var subjs, bes, adjs, preps []*depgraph.Edge
		indefinite := false
		for _, e := range g.Outgoing(obj) {
			switch {
			case e.Rel == relSubject:
				subjs = append(subjs, e)
			case e.Rel == relCopula:
				bes = append(bes, e)
			case e.Rel == relDet && isIndefinite(e.Dep.Word):
				indefinite = true
			case e.Rel == relAdjMod:
				adjs = append(adjs, e)
			case IsPrepositional(e.Rel):
				preps = append(preps, e)
			}
		}
		if !indefinite || len(subjs) == 0 || len(bes) == 0 || len(adjs) == 0 {
			continue
		}
		if len(preps) == 0 {
			preps = []*depgraph.Edge{nil}
		}
		for _, s := range subjs {
			for _, b := range bes {
				for _, a := range adjs {
					for _, p := range preps {
						matches = append(matches, adjectiveMatch{obj: obj, subj: s.Dep, be: b.Dep, adj: a.Dep, prep: p})
					}
				}
			}
		}
	}
	return matches
}

// vetoed reports whether a privative adjective modifies obj at or before adj.
func vetoed(g *depgraph.Graph, m adjectiveMatch) bool {
	for _, e := range g.Outgoing(m.obj) {
		if e.Rel != relAdjMod {
			continue
		}
		if e.Dep.Pos.Compare(m.adj.Pos) <= 0 && IsPrivative(e.Dep.Word) {
			return true
		}
	}
	return false
}

// ExtractAdjectiveEntailments returns "subj be adj [prep pobj]" fragments for
// every copula-adjective construction in f. Each result is a fresh graph
// rooted at the adjective; it inherits f's assumed truth and is never a whole
// sentence.
func ExtractAdjectiveEntailments(f fragment.Fragment) ([]fragment.Fragment, error) {
	g := f.Graph
	if g == nil || g.IsEmpty() {
		return nil, nil
	}

	var out []fragment.Fragment
	for _, m := range matchAdjectives(g) {
		if vetoed(g, m) {
			continue
		}
		if !m.adj.Polarity.IsUpwards() || !m.be.Polarity.IsUpwards() {
			continue
		}

		af, err := adjectiveFragment(g, m, f.AssumedTruth)
		if err != nil {
			return nil, err
		}
		out = append(out, af)
	}
	return out, nil
}

// adjectiveFragment builds the "subj be adj [prep pobj]" graph of one match.
// matchAdjectives binds only nodes reached through g's own edges, so a bound
// node missing from g means the matcher is broken.
func adjectiveFragment(g *depgraph.Graph, m adjectiveMatch, assumedTruth bool) (fragment.Fragment, error) {
	bound := []*depgraph.Node{m.subj, m.be, m.adj}
	if m.prep != nil {
		bound = append(bound, m.prep.Dep)
	}
	for _, n := range bound {
		if !g.Contains(n) {
			return fragment.Fragment{}, fmt.Errorf("adjective %s: bound node %s: %w", m.adj, n, ErrPatternInconsistency)
		}
	}

	tree := depgraph.New()
	adj := m.adj.Clone()
	tree.AddRoot(adj)
	tree.AddEdge(adj, m.be.Clone(), relCopula, depgraph.WeightCertain, false)
	tree.AddEdge(adj, m.subj.Clone(), relSubject, depgraph.WeightCertain, false)
	if m.prep != nil {
		tree.AddEdge(adj, m.prep.Dep.Clone(), m.prep.Rel, depgraph.WeightCertain, false)
	}
	return fragment.New(tree, assumedTruth, false), nil
}
