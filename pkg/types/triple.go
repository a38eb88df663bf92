// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Word is a token as it appears inside a relation triple. Index is the
// sentence position the word was drawn from.
type Word struct {
	Index int    `json:"index" yaml:"index"`
	Text  string `json:"text" yaml:"text"`
}

// RelationTriple is a (subject; relation; object) extraction with a confidence.
type RelationTriple struct {
	Subject    []Word  `json:"subject" yaml:"subject"`
	Relation   []Word  `json:"relation" yaml:"relation"`
	Object     []Word  `json:"object" yaml:"object"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

func gloss(words []Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// SubjectGloss returns the subject words joined by spaces.
func (t RelationTriple) SubjectGloss() string { return gloss(t.Subject) }

// RelationGloss returns the relation words joined by spaces.
func (t RelationTriple) RelationGloss() string { return gloss(t.Relation) }

// ObjectGloss returns the object words joined by spaces.
func (t RelationTriple) ObjectGloss() string { return gloss(t.Object) }

// ConfidenceGloss formats the confidence with three decimals.
func (t RelationTriple) ConfidenceGloss() string {
	return fmt.Sprintf("%.3f", t.Confidence)
}

// Key is the value identity of a triple: the words of each slot together
// with their sentence positions. Two triples with the same Key describe the
// same extraction regardless of confidence.
func (t RelationTriple) Key() string {
	var b strings.Builder
	for i, slot := range [][]Word{t.Subject, t.Relation, t.Object} {
		if i > 0 {
			b.WriteByte('|')
		}
		for j, w := range slot {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d:%s", w.Index, w.Text)
		}
	}
	return b.String()
}

func (t RelationTriple) String() string {
	return fmt.Sprintf("%s\t%s\t%s\t%s", t.ConfidenceGloss(), t.SubjectGloss(), t.RelationGloss(), t.ObjectGloss())
}

// OllieString formats the triple as "conf: (subject; relation; object)".
func (t RelationTriple) OllieString() string {
	return fmt.Sprintf("%s: (%s; %s; %s)", t.ConfidenceGloss(), t.SubjectGloss(), t.RelationGloss(), t.ObjectGloss())
}

// span returns the zero-based [start, end) token range covered by words.
func span(words []Word) (int, int) {
	if len(words) == 0 {
		return 0, 0
	}
	start, end := words[0].Index, words[0].Index
	for _, w := range words[1:] {
		if w.Index < start {
			start = w.Index
		}
		if w.Index > end {
			end = w.Index
		}
	}
	return start - 1, end
}

// ReverbString formats the triple in the tab-separated ReVerb layout:
// doc id, sentence index, the three glosses, their token spans, the
// confidence, and the sentence text.
func (t RelationTriple) ReverbString(docID string, sentence *Sentence) string {
	ss, se := span(t.Subject)
	rs, re := span(t.Relation)
	os, oe := span(t.Object)
	return fmt.Sprintf("%s\t%d\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\t%s",
		docID, sentence.Index,
		t.SubjectGloss(), t.RelationGloss(), t.ObjectGloss(),
		ss, se, rs, re, os, oe,
		t.ConfidenceGloss(), sentence.Gloss())
}

// SentenceExtraction is the stored result of annotating one sentence.
type SentenceExtraction struct {
	Index int    `json:"index" yaml:"index"`
	Text  string `json:"text" yaml:"text"`

	// Entailed lists the glosses of the entailed sentence fragments.
	Entailed []string `json:"entailed,omitempty" yaml:"entailed,omitempty"`

	Triples []RelationTriple `json:"triples" yaml:"triples"`
}

// ExtractionResult holds the output of running the extractor over one document.
type ExtractionResult struct {
	DocID     string               `json:"doc_id" yaml:"doc_id"`
	Sentences []SentenceExtraction `json:"sentences" yaml:"sentences"`

	// Error records an extraction failure message. Empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// TripleCount returns the number of triples across all sentences.
func (r *ExtractionResult) TripleCount() int {
	n := 0
	for _, s := range r.Sentences {
		n += len(s.Triples)
	}
	return n
}
