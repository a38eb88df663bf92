// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the openie-engine pipeline:
// parsed documents as they arrive from a parser, the relation triples the
// extractor produces, and the configuration of every stage.
package types

import (
	"fmt"
	"strings"
)

// NEROutside is the named-entity tag for tokens outside any entity.
const NEROutside = "O"

// Polarity values attached to tokens by the upstream natural logic annotator.
const (
	PolarityUp   = "up"
	PolarityDown = "down"
	PolarityFlat = "flat"
)

// TokenID identifies a token uniquely within a document. Sentence is the
// zero-based sentence index; Index is the one-based token index inside that
// sentence, matching dependency governor/dependent numbering.
type TokenID struct {
	Sentence int `json:"sentence" yaml:"sentence"`
	Index    int `json:"index" yaml:"index"`
}

func (id TokenID) String() string {
	return fmt.Sprintf("%d:%d", id.Sentence, id.Index)
}

// Token is a single word of a parsed sentence.
type Token struct {
	// Index is the one-based position of the token in its sentence.
	Index int `json:"index" yaml:"index"`

	// Word is the surface form.
	Word string `json:"word" yaml:"word"`

	Lemma string `json:"lemma,omitempty" yaml:"lemma,omitempty"`

	// Tag is the Penn Treebank part-of-speech tag (e.g. "PRP", "NN").
	Tag string `json:"pos,omitempty" yaml:"pos,omitempty"`

	// NER is the named-entity tag, "O" when the token is not part of an entity.
	NER string `json:"ner,omitempty" yaml:"ner,omitempty"`

	// Polarity is "up", "down" or "flat". Empty means the annotator did not run.
	Polarity string `json:"polarity,omitempty" yaml:"polarity,omitempty"`
}

// Dependency is a labeled arc between two tokens of a sentence. A Governor
// of 0 marks the dependent as the root.
type Dependency struct {
	Relation  string `json:"dep" yaml:"dep"`
	Governor  int    `json:"governor" yaml:"governor"`
	Dependent int    `json:"dependent" yaml:"dependent"`

	// Extra marks a secondary (collapsed or propagated) dependency.
	Extra bool `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Sentence holds the tokens of one sentence and its dependency parses.
type Sentence struct {
	// Index is the zero-based sentence index within the document.
	Index int `json:"index" yaml:"index"`

	Text   string  `json:"text,omitempty" yaml:"text,omitempty"`
	Tokens []Token `json:"tokens" yaml:"tokens"`

	// Enhanced holds the collapsed / enhanced dependencies. Preferred when present.
	Enhanced []Dependency `json:"enhanced_dependencies,omitempty" yaml:"enhanced_dependencies,omitempty"`

	// Basic holds the basic tree dependencies.
	Basic []Dependency `json:"basic_dependencies,omitempty" yaml:"basic_dependencies,omitempty"`
}

// Token returns the token at the given one-based index, or false when the
// index is out of range.
func (s *Sentence) Token(index int) (Token, bool) {
	if index < 1 || index > len(s.Tokens) {
		return Token{}, false
	}
	return s.Tokens[index-1], true
}

// Gloss returns the sentence text, rebuilding it from tokens when Text is empty.
func (s *Sentence) Gloss() string {
	if s.Text != "" {
		return s.Text
	}
	words := make([]string, len(s.Tokens))
	for i, tok := range s.Tokens {
		words[i] = tok.Word
	}
	return strings.Join(words, " ")
}

// CorefMention is a span of tokens referring to an entity. Start is the
// one-based index of the first token and End is exclusive.
type CorefMention struct {
	Sentence int `json:"sentence" yaml:"sentence"`
	Start    int `json:"start" yaml:"start"`
	End      int `json:"end" yaml:"end"`

	// Representative marks the chain's designated representative mention.
	Representative bool `json:"representative,omitempty" yaml:"representative,omitempty"`
}

// CorefChain lists mentions of the same entity in textual order.
type CorefChain struct {
	ID       int            `json:"id" yaml:"id"`
	Mentions []CorefMention `json:"mentions" yaml:"mentions"`
}

// Document is a parsed text: sentences plus the coreference chains that link
// mentions across them.
type Document struct {
	ID        string       `json:"id" yaml:"id"`
	Sentences []Sentence   `json:"sentences" yaml:"sentences"`
	Coref     []CorefChain `json:"coref,omitempty" yaml:"coref,omitempty"`
}

// MentionTokens returns the tokens covered by a mention. It reports an error
// when the mention points outside the document.
func (d *Document) MentionTokens(m CorefMention) ([]Token, error) {
	if m.Sentence < 0 || m.Sentence >= len(d.Sentences) {
		return nil, fmt.Errorf("mention sentence %d out of range (document has %d)", m.Sentence, len(d.Sentences))
	}
	tokens := d.Sentences[m.Sentence].Tokens
	if m.Start < 1 || m.End <= m.Start || m.End-1 > len(tokens) {
		return nil, fmt.Errorf("mention span [%d,%d) out of range in sentence %d (%d tokens)",
			m.Start, m.End, m.Sentence, len(tokens))
	}
	return tokens[m.Start-1 : m.End-1], nil
}
