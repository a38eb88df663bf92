// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openie

import (
	"fmt"

	"github.com/pdiddy/openie-engine/internal/depgraph"
	"github.com/pdiddy/openie-engine/internal/fragment"
	"github.com/pdiddy/openie-engine/internal/naturalli"
	"github.com/pdiddy/openie-engine/pkg/types"
)

// ClausesInSentence returns the clauses of a sentence graph scored at or
// above the configured threshold. It returns nothing when splitting is
// disabled.
func (a *Annotator) ClausesInSentence(g *depgraph.Graph, assumedTruth bool) ([]fragment.Fragment, error) {
	if a.cfg.SplitterDisable {
		return nil, nil
	}
	clauses, err := a.splitter.Split(g, assumedTruth, a.cfg.SplitterThreshold)
	if err != nil {
		return nil, fmt.Errorf("splitting clauses: %w", err)
	}
	return clauses, nil
}

// EntailmentsFromClause returns the fragments a clause entails: its forward
// entailments, the clause itself, and its copula-adjective shortenings.
// Derived fragments are scored relative to the clause, since an entailment
// is only as certain as its premise. Structurally equal fragments are kept
// once, first occurrence wins.
func (a *Annotator) EntailmentsFromClause(clause fragment.Fragment) ([]fragment.Fragment, error) {
	if clause.Graph == nil || clause.Graph.IsEmpty() {
		return nil, nil
	}

	set := fragment.NewSet()
	if a.cfg.EntailmentsPerSentence > 0 {
		shortened, err := a.entailer.Shorten(clause.Graph, clause.AssumedTruth, a.cfg.EntailmentsPerSentence)
		if err != nil {
			return nil, fmt.Errorf("shortening clause %q: %w", clause, err)
		}
		for _, f := range shortened {
			set.Add(f.WithScore(f.Score * clause.Score))
		}
	}

	set.Add(clause)

	adjectives, err := naturalli.ExtractAdjectiveEntailments(clause)
	if err != nil {
		return nil, fmt.Errorf("adjective entailments of %q: %w", clause, err)
	}
	for _, f := range adjectives {
		set.Add(f.WithScore(f.Score * clause.Score))
	}
	return set.Items(), nil
}

// EntailmentsFromClauses returns the deduplicated entailments of every clause.
func (a *Annotator) EntailmentsFromClauses(clauses []fragment.Fragment) ([]fragment.Fragment, error) {
	set := fragment.NewSet()
	for _, clause := range clauses {
		fs, err := a.EntailmentsFromClause(clause)
		if err != nil {
			return nil, err
		}
		set.AddAll(fs)
	}
	return set.Items(), nil
}

// RelationInFragment segments a single fragment, scored by the fragment's score.
func (a *Annotator) RelationInFragment(f fragment.Fragment) (types.RelationTriple, bool) {
	return a.segmenter.Segment(f.Graph, f.Score, a.cfg.Strict)
}

// RelationsInFragments segments every fragment that yields a triple.
func (a *Annotator) RelationsInFragments(fs []fragment.Fragment) []types.RelationTriple {
	var out []types.RelationTriple
	for _, f := range fs {
		if t, ok := a.RelationInFragment(f); ok {
			out = append(out, t)
		}
	}
	return out
}

// RelationsInClause returns the triples of every fragment a clause entails.
func (a *Annotator) RelationsInClause(clause fragment.Fragment) ([]types.RelationTriple, error) {
	fs, err := a.EntailmentsFromClause(clause)
	if err != nil {
		return nil, err
	}
	return a.RelationsInFragments(fs), nil
}

// RelationsInSentence splits a sentence graph into clauses, entails
// fragments from them and returns the fragments' triples.
func (a *Annotator) RelationsInSentence(g *depgraph.Graph) ([]types.RelationTriple, error) {
	clauses, err := a.ClausesInSentence(g, true)
	if err != nil {
		return nil, err
	}
	fs, err := a.EntailmentsFromClauses(clauses)
	if err != nil {
		return nil, err
	}
	return a.RelationsInFragments(fs), nil
}

// uniqueTriples drops triples whose words repeat an earlier triple's.
func uniqueTriples(triples []types.RelationTriple) []types.RelationTriple {
	seen := make(map[string]bool, len(triples))
	out := make([]types.RelationTriple, 0, len(triples))
	for _, t := range triples {
		k := t.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	return out
}
