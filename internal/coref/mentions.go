// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package coref turns coreference chains into canonical mentions and splices
// those mentions into dependency graphs in place of pronouns.
package coref

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/openie-engine/pkg/types"
)

// ErrInconsistentChain is returned when a chain that passed the size check
// produces no canonical mention.
var ErrInconsistentChain = errors.New("coref: chain has no canonical mention")

// representativeBonus is added to the score of a chain's representative mention.
const representativeBonus = 1.0

// Mention is a canonical mention: the tokens of a span and the sentence they
// come from.
type Mention struct {
	Sentence int
	Tokens   []types.Token
}

// Gloss returns the mention's words joined by spaces.
func (m Mention) Gloss() string {
	words := make([]string, len(m.Tokens))
	for i, t := range m.Tokens {
		words[i] = t.Word
	}
	return strings.Join(words, " ")
}

// MentionMap maps single tokens, by document-unique id, to the canonical
// mention that should replace them. It is built once per document and only
// read afterwards, so it is safe to share between goroutines.
type MentionMap struct {
	m map[types.TokenID]Mention
}

// NewMentionMap returns an empty map.
func NewMentionMap() MentionMap {
	return MentionMap{m: make(map[types.TokenID]Mention)}
}

// Get returns the canonical mention registered for id.
func (mm MentionMap) Get(id types.TokenID) (Mention, bool) {
	m, ok := mm.m[id]
	return m, ok
}

// Set registers m as the canonical mention for id.
func (mm MentionMap) Set(id types.TokenID, m Mention) {
	mm.m[id] = m
}

// Len returns the number of registered tokens.
func (mm MentionMap) Len() int { return len(mm.m) }

// nerScore rewards short, uniformly typed entity mentions: the squared count
// of the most frequent entity tag divided by the mention length.
func nerScore(tokens []types.Token) float64 {
	if len(tokens) == 0 {
		return 0
	}
	votes := make(map[string]int)
	best := 0
	for _, t := range tokens {
		if t.NER == "" || t.NER == types.NEROutside {
			continue
		}
		votes[t.NER]++
		if votes[t.NER] > best {
			best = votes[t.NER]
		}
	}
	return float64(best*best) / float64(len(tokens))
}

// hasEntityHead reports whether a mention's first token carries an entity tag.
func hasEntityHead(m Mention) bool {
	if len(m.Tokens) == 0 {
		return false
	}
	ner := m.Tokens[0].NER
	return ner != "" && ner != types.NEROutside
}

// spanTokens copies the tokens of a span, numbering them from start so their
// ids follow the span's place in the sentence.
func spanTokens(tokens []types.Token, start int) []types.Token {
	out := make([]types.Token, len(tokens))
	for i, t := range tokens {
		t.Index = start + i
		out[i] = t
	}
	return out
}

// Select picks a canonical mention for every chain of doc and registers it
// for each single-token mention of the chain. Chains are visited in id order.
// A token already mapped to a mention that starts with an entity-tagged
// token keeps its mapping.
func Select(doc *types.Document) (MentionMap, error) {
	mm := NewMentionMap()

	chains := append([]types.CorefChain(nil), doc.Coref...)
	sort.SliceStable(chains, func(i, j int) bool { return chains[i].ID < chains[j].ID })

	for _, chain := range chains {
		if len(chain.Mentions) < 2 {
			continue
		}

		var (
			canonical *Mention
			bestScore = math.Inf(-1)
			toMark    []types.TokenID
		)
		for i, mention := range chain.Mentions {
			tokens, err := doc.MentionTokens(mention)
			if err != nil {
				return MentionMap{}, fmt.Errorf("chain %d: %w", chain.ID, err)
			}
			score := nerScore(tokens) + float64(i)/float64(len(chain.Mentions))
			if mention.Representative {
				score += representativeBonus
			}
			if canonical == nil || score > bestScore {
				canonical = &Mention{Sentence: mention.Sentence, Tokens: spanTokens(tokens, mention.Start)}
				bestScore = score
			}
			if len(tokens) == 1 {
				toMark = append(toMark, types.TokenID{Sentence: mention.Sentence, Index: mention.Start})
			}
		}
		if canonical == nil {
			return MentionMap{}, fmt.Errorf("chain %d: %w", chain.ID, ErrInconsistentChain)
		}

		for _, id := range toMark {
			if existing, ok := mm.Get(id); ok && hasEntityHead(existing) {
				continue
			}
			mm.Set(id, *canonical)
		}
	}
	return mm, nil
}
