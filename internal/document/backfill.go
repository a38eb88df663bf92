// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/openie-engine/pkg/types"
)

// entityLabels maps prose entity labels onto the tag set the extractor uses.
var entityLabels = map[string]string{
	"GPE":    "LOCATION",
	"PERSON": "PERSON",
	"ORG":    "ORGANIZATION",
}

func normalizeLabel(label string) string {
	if label == "" || label == types.NEROutside {
		return types.NEROutside
	}
	if i := strings.IndexByte(label, '-'); i >= 0 {
		label = label[i+1:]
	}
	if mapped, ok := entityLabels[label]; ok {
		return mapped
	}
	return label
}

func needsTags(s *types.Sentence) bool {
	for _, t := range s.Tokens {
		if t.Tag == "" || t.NER == "" {
			return true
		}
	}
	return false
}

// Backfill tags every sentence of doc that has tokens without a
// part-of-speech or entity tag, keeping tags that are already present.
// Sentences whose tokenization disagrees with the tagger are left alone
// and logged. It returns the number of sentences tagged.
func Backfill(doc *types.Document, log *logrus.Logger) (int, error) {
	tagged := 0
	for i := range doc.Sentences {
		s := &doc.Sentences[i]
		if len(s.Tokens) == 0 || !needsTags(s) {
			continue
		}

		words := make([]string, len(s.Tokens))
		for j, t := range s.Tokens {
			words[j] = t.Word
		}
		pd, err := prose.NewDocument(strings.Join(words, " "), prose.WithSegmentation(false))
		if err != nil {
			return tagged, fmt.Errorf("tagging sentence %d of %s: %w", s.Index, doc.ID, err)
		}
		toks := pd.Tokens()
		if len(toks) != len(s.Tokens) {
			log.WithFields(logrus.Fields{
				"doc":      doc.ID,
				"sentence": s.Index,
				"tokens":   len(s.Tokens),
				"tagger":   len(toks),
			}).Warn("tokenization mismatch, sentence not tagged")
			continue
		}

		for j := range s.Tokens {
			t := &s.Tokens[j]
			if t.Tag == "" {
				t.Tag = toks[j].Tag
			}
			if t.NER == "" {
				t.NER = normalizeLabel(toks[j].Label)
			}
			if t.Lemma == "" {
				t.Lemma = strings.ToLower(t.Word)
			}
		}
		tagged++
	}
	return tagged, nil
}
