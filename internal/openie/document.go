// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openie

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/openie-engine/internal/coref"
	"github.com/pdiddy/openie-engine/pkg/types"
)

// Mentions builds the canonical mention map of doc, or an empty map when
// coreference resolution is off.
func (a *Annotator) Mentions(doc *types.Document) (coref.MentionMap, error) {
	if !a.cfg.ResolveCoref || len(doc.Coref) == 0 {
		return coref.NewMentionMap(), nil
	}
	mm, err := coref.Select(doc)
	if err != nil {
		return coref.MentionMap{}, fmt.Errorf("selecting canonical mentions: %w", err)
	}
	return mm, nil
}

// AnnotateDocument extracts triples from every sentence of doc. The mention
// map is built from the whole document before any sentence is annotated;
// sentences are then annotated concurrently and reported in order. The
// first sentence error aborts the document.
func (a *Annotator) AnnotateDocument(ctx context.Context, doc *types.Document) (*types.ExtractionResult, error) {
	mentions, err := a.Mentions(doc)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", doc.ID, err)
	}

	results := make([]types.SentenceExtraction, len(doc.Sentences))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range doc.Sentences {
		s := &doc.Sentences[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := a.AnnotateSentence(s, mentions)
			if err != nil {
				return err
			}
			results[i] = r.Extraction(s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("document %s: %w", doc.ID, err)
	}

	return &types.ExtractionResult{DocID: doc.ID, Sentences: results}, nil
}
