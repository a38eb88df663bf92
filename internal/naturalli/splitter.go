// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package naturalli

import (
	"github.com/pdiddy/openie-engine/internal/depgraph"
	"github.com/pdiddy/openie-engine/internal/fragment"
)

// wholeClauseScore is the confidence of the sentence taken as its own clause.
const wholeClauseScore = 1.0

// WholeClauseSplitter treats the whole sentence as its only clause. It is
// the splitter used when no clause model is configured.
type WholeClauseSplitter struct{}

// Split returns a copy of g as a single whole-sentence clause, or nothing
// when g is empty or the clause scores below threshold.
func (WholeClauseSplitter) Split(g *depgraph.Graph, assumedTruth bool, threshold float64) ([]fragment.Fragment, error) {
	if g == nil || g.IsEmpty() || wholeClauseScore < threshold {
		return nil, nil
	}
	return []fragment.Fragment{fragment.New(g.Copy(), assumedTruth, true).WithScore(wholeClauseScore)}, nil
}
