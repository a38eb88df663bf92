// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openie extracts relation triples from parsed sentences. A
// sentence graph is split into clauses, each clause is shortened into the
// fragments it entails, and each fragment is segmented into a
// (subject; relation; object) triple. Triples read directly off the
// uncanonicalized sentence graph are merged in.
package openie

import (
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/openie-engine/internal/depgraph"
	"github.com/pdiddy/openie-engine/internal/fragment"
	"github.com/pdiddy/openie-engine/internal/naturalli"
	"github.com/pdiddy/openie-engine/internal/segment"
	"github.com/pdiddy/openie-engine/pkg/types"
)

// ClauseSplitter breaks a sentence graph into candidate clauses, dropping
// those scored below threshold. Implementations must not modify g.
type ClauseSplitter interface {
	Split(g *depgraph.Graph, assumedTruth bool, threshold float64) ([]fragment.Fragment, error)
}

// ForwardEntailer shortens a clause into fragments it entails, returning at
// most budget results. Implementations must not modify g.
type ForwardEntailer interface {
	Shorten(g *depgraph.Graph, assumedTruth bool, budget int) ([]fragment.Fragment, error)
}

// Segmenter converts graphs into relation triples.
type Segmenter interface {
	// Segment reads a triple off a fragment graph. In strict mode the
	// triple must account for every vertex of g.
	Segment(g *depgraph.Graph, score float64, strict bool) (types.RelationTriple, bool)

	// Extract reads the triples available directly from a sentence graph.
	Extract(g *depgraph.Graph) []types.RelationTriple
}

// Annotator runs extraction over sentences and documents. Its collaborators
// are fixed at construction and shared read-only, so one Annotator may
// serve many goroutines.
type Annotator struct {
	cfg       types.OpenIEConfig
	splitter  ClauseSplitter
	entailer  ForwardEntailer
	segmenter Segmenter
	log       *logrus.Logger
}

// Option customizes an Annotator.
type Option func(*Annotator)

// WithSplitter replaces the clause splitter.
func WithSplitter(s ClauseSplitter) Option { return func(a *Annotator) { a.splitter = s } }

// WithEntailer replaces the forward entailer.
func WithEntailer(e ForwardEntailer) Option { return func(a *Annotator) { a.entailer = e } }

// WithSegmenter replaces the triple segmenter.
func WithSegmenter(s Segmenter) Option { return func(a *Annotator) { a.segmenter = s } }

// WithLogger sets the logger.
func WithLogger(l *logrus.Logger) Option { return func(a *Annotator) { a.log = l } }

// New returns an Annotator configured by cfg. Without options it uses the
// whole-sentence splitter, the deletion entailer and the rule segmenter.
func New(cfg types.OpenIEConfig, opts ...Option) *Annotator {
	a := &Annotator{
		cfg:      cfg,
		splitter: naturalli.WholeClauseSplitter{},
		entailer: naturalli.DeletionEntailer{
			IgnoreAffinity:         cfg.IgnoreAffinity,
			AffinityProbabilityCap: cfg.AffinityProbabilityCap,
		},
		segmenter: segment.RuleSegmenter{AllNominals: cfg.AllNominals},
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns the settings the annotator was built with.
func (a *Annotator) Config() types.OpenIEConfig { return a.cfg }
