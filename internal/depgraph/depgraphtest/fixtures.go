// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package depgraphtest provides parsed sentences and documents for tests.
package depgraphtest

import (
	"strings"

	"github.com/pdiddy/openie-engine/pkg/types"
)

// Tok is a compact token literal: word, tag, ner.
type Tok struct {
	Word, Tag, NER string
}

// Dep is a compact dependency literal.
type Dep struct {
	Rel      string
	Gov, Dep int
}

// Sentence builds a sentence whose tokens are all upward-polarity.
func Sentence(index int, toks []Tok, deps []Dep) *types.Sentence {
	s := &types.Sentence{Index: index}
	words := make([]string, len(toks))
	for i, t := range toks {
		ner := t.NER
		if ner == "" {
			ner = types.NEROutside
		}
		s.Tokens = append(s.Tokens, types.Token{
			Index:    i + 1,
			Word:     t.Word,
			Lemma:    strings.ToLower(t.Word),
			Tag:      t.Tag,
			NER:      ner,
			Polarity: types.PolarityUp,
		})
		words[i] = t.Word
	}
	s.Text = strings.Join(words, " ")
	for _, d := range deps {
		s.Enhanced = append(s.Enhanced, types.Dependency{Relation: d.Rel, Governor: d.Gov, Dependent: d.Dep})
	}
	return s
}

// HappyCat is "The cat is a happy animal ."
func HappyCat() *types.Sentence {
	return Sentence(0,
		[]Tok{{"The", "DT", ""}, {"cat", "NN", ""}, {"is", "VBZ", ""}, {"a", "DT", ""},
			{"happy", "JJ", ""}, {"animal", "NN", ""}, {".", ".", ""}},
		[]Dep{{"root", 0, 6}, {"det", 2, 1}, {"nsubj", 6, 2}, {"cop", 6, 3}, {"det", 6, 4},
			{"amod", 6, 5}, {"punct", 6, 7}})
}

// FormerPresident is "He is a former president of France ."
func FormerPresident() *types.Sentence {
	return Sentence(0,
		[]Tok{{"He", "PRP", ""}, {"is", "VBZ", ""}, {"a", "DT", ""}, {"former", "JJ", ""},
			{"president", "NN", ""}, {"of", "IN", ""}, {"France", "NNP", "LOCATION"}, {".", ".", ""}},
		[]Dep{{"root", 0, 5}, {"nsubj", 5, 1}, {"cop", 5, 2}, {"det", 5, 3}, {"amod", 5, 4},
			{"prep_of", 5, 7}, {"punct", 5, 8}})
}

// HappyPresident is "Obama is a happy president of France ."
func HappyPresident() *types.Sentence {
	return Sentence(0,
		[]Tok{{"Obama", "NNP", "PERSON"}, {"is", "VBZ", ""}, {"a", "DT", ""}, {"happy", "JJ", ""},
			{"president", "NN", ""}, {"of", "IN", ""}, {"France", "NNP", "LOCATION"}, {".", ".", ""}},
		[]Dep{{"root", 0, 5}, {"nsubj", 5, 1}, {"cop", 5, 2}, {"det", 5, 3}, {"amod", 5, 4},
			{"prep_of", 5, 7}, {"punct", 5, 8}})
}

// ApplePhones is a two-sentence document: "Apple Inc. makes phones ." and
// "It sells them ." with a coreference chain linking "It" to "Apple Inc.".
func ApplePhones() *types.Document {
	s0 := Sentence(0,
		[]Tok{{"Apple", "NNP", "ORGANIZATION"}, {"Inc.", "NNP", "ORGANIZATION"}, {"makes", "VBZ", ""},
			{"phones", "NNS", ""}, {".", ".", ""}},
		[]Dep{{"root", 0, 3}, {"compound", 2, 1}, {"nsubj", 3, 2}, {"dobj", 3, 4}, {"punct", 3, 5}})
	s1 := Sentence(1,
		[]Tok{{"It", "PRP", ""}, {"sells", "VBZ", ""}, {"phones", "NNS", ""}, {".", ".", ""}},
		[]Dep{{"root", 0, 2}, {"nsubj", 2, 1}, {"dobj", 2, 3}, {"punct", 2, 4}})
	return &types.Document{
		ID:        "apple",
		Sentences: []types.Sentence{*s0, *s1},
		Coref: []types.CorefChain{{
			ID: 1,
			Mentions: []types.CorefMention{
				{Sentence: 0, Start: 1, End: 3, Representative: true},
				{Sentence: 1, Start: 1, End: 2},
			},
		}},
	}
}
