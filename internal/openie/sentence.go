// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openie

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/openie-engine/internal/coref"
	"github.com/pdiddy/openie-engine/internal/depgraph"
	"github.com/pdiddy/openie-engine/internal/fragment"
	"github.com/pdiddy/openie-engine/pkg/types"
)

// minTokens is the shortest sentence worth extracting from.
const minTokens = 2

// SentenceResult holds what the annotator found in one sentence.
type SentenceResult struct {
	// Entailed holds the distinct fragments generated from the sentence's clauses.
	Entailed []fragment.Fragment

	// Triples holds the distinct triples from the raw graph and the fragments.
	Triples []types.RelationTriple
}

// Extraction converts r into its stored form for sentence s.
func (r SentenceResult) Extraction(s *types.Sentence) types.SentenceExtraction {
	out := types.SentenceExtraction{
		Index:   s.Index,
		Text:    s.Gloss(),
		Triples: r.Triples,
	}
	if out.Triples == nil {
		out.Triples = []types.RelationTriple{}
	}
	for _, f := range r.Entailed {
		out.Entailed = append(out.Entailed, f.String())
	}
	return out
}

// AnnotateSentence extracts entailed fragments and triples from s. When
// coreference resolution is enabled and mentions is non-empty, clauses are
// taken from a copy of the graph with pronouns replaced by their canonical
// mentions; the raw graph is still segmented directly so extractions that
// only work without the rewrite are kept.
func (a *Annotator) AnnotateSentence(s *types.Sentence, mentions coref.MentionMap) (SentenceResult, error) {
	if len(s.Tokens) < minTokens {
		return SentenceResult{}, nil
	}

	start := time.Now()
	defer func() { annotateDuration.Observe(time.Since(start).Seconds()) }()

	g, err := depgraph.FromSentence(s)
	if err != nil {
		return SentenceResult{}, err
	}
	g = depgraph.Clean(g)

	canonical := g
	if a.cfg.ResolveCoref && mentions.Len() > 0 {
		canonical = coref.Canonicalize(g, mentions)
	}

	clauses, err := a.ClausesInSentence(canonical, true)
	if err != nil {
		return SentenceResult{}, fmt.Errorf("sentence %d: %w", s.Index, err)
	}
	entailed, err := a.EntailmentsFromClauses(clauses)
	if err != nil {
		return SentenceResult{}, fmt.Errorf("sentence %d: %w", s.Index, err)
	}

	triples := a.segmenter.Extract(g)
	triples = append(triples, a.RelationsInFragments(entailed)...)
	triples = uniqueTriples(triples)

	sentencesAnnotated.Inc()
	clausesFound.Add(float64(len(clauses)))
	fragmentsEntailed.Add(float64(len(entailed)))
	triplesExtracted.Add(float64(len(triples)))

	a.log.WithFields(logrus.Fields{
		"sentence":  s.Index,
		"clauses":   len(clauses),
		"fragments": len(entailed),
		"triples":   len(triples),
	}).Debug("annotated sentence")

	return SentenceResult{Entailed: entailed, Triples: triples}, nil
}
