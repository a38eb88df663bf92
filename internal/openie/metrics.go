// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openie

import "github.com/prometheus/client_golang/prometheus"

var (
	annotateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "openie_sentence_annotate_duration_seconds",
		Help:    "Time spent annotating one sentence",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	sentencesAnnotated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "openie_sentences_annotated_total",
		Help: "Number of sentences annotated",
	})

	clausesFound = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "openie_clauses_total",
		Help: "Number of clauses produced by the clause splitter",
	})

	fragmentsEntailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "openie_fragments_entailed_total",
		Help: "Number of distinct entailed fragments",
	})

	triplesExtracted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "openie_triples_extracted_total",
		Help: "Number of distinct relation triples",
	})

	documentsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openie_documents_processed_total",
			Help: "Number of documents processed by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(annotateDuration)
	prometheus.MustRegister(sentencesAnnotated)
	prometheus.MustRegister(clausesFound)
	prometheus.MustRegister(fragmentsEntailed)
	prometheus.MustRegister(triplesExtracted)
	prometheus.MustRegister(documentsProcessed)
}
