// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// StoredTriple is a relation triple as held by the knowledge base, with the
// provenance needed to trace it back to its sentence.
type StoredTriple struct {
	// ID is stable across re-ingestion of the same extraction.
	ID string `json:"id" yaml:"id"`

	DocID         string `json:"doc_id" yaml:"doc_id"`
	SentenceIndex int    `json:"sentence" yaml:"sentence"`

	Subject    string  `json:"subject" yaml:"subject"`
	Relation   string  `json:"relation" yaml:"relation"`
	Object     string  `json:"object" yaml:"object"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

func (t StoredTriple) String() string {
	return fmt.Sprintf("%.3f: (%s; %s; %s)", t.Confidence, t.Subject, t.Relation, t.Object)
}
