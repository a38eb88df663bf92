// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/openie-engine/pkg/types"
)

// ErrEmptyOutput is returned when a parser produced no sentences.
var ErrEmptyOutput = errors.New("parser produced no sentences")

type coreNLPToken struct {
	Index        int    `json:"index"`
	Word         string `json:"word"`
	OriginalText string `json:"originalText"`
	Lemma        string `json:"lemma"`
	POS          string `json:"pos"`
	NER          string `json:"ner"`
	Polarity     string `json:"polarity"`
	PolarityDir  string `json:"polarity_dir"`
	After        string `json:"after"`
}

type coreNLPDependency struct {
	Dep       string `json:"dep"`
	Governor  int    `json:"governor"`
	Dependent int    `json:"dependent"`
}

type coreNLPSentence struct {
	Index                int                 `json:"index"`
	Tokens               []coreNLPToken      `json:"tokens"`
	Basic                []coreNLPDependency `json:"basicDependencies"`
	Enhanced             []coreNLPDependency `json:"enhancedDependencies"`
	EnhancedPlusPlus     []coreNLPDependency `json:"enhancedPlusPlusDependencies"`
	CollapsedCCProcessed []coreNLPDependency `json:"collapsed-ccprocessed-dependencies"`
}

type coreNLPMention struct {
	SentNum          int  `json:"sentNum"`
	StartIndex       int  `json:"startIndex"`
	EndIndex         int  `json:"endIndex"`
	IsRepresentative bool `json:"isRepresentativeMention"`
}

type coreNLPOutput struct {
	Sentences []coreNLPSentence           `json:"sentences"`
	Corefs    map[string][]coreNLPMention `json:"corefs"`
}

// DecodeCoreNLP converts CoreNLP JSON output into a Document with the given id.
// Enhanced++ dependencies are preferred over enhanced and collapsed ones.
// Coreference sentence numbers are converted to zero-based indices.
func DecodeCoreNLP(id string, data []byte) (*types.Document, error) {
	var out coreNLPOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding CoreNLP output: %w", err)
	}
	if len(out.Sentences) == 0 {
		return nil, ErrEmptyOutput
	}

	doc := &types.Document{ID: id, Sentences: make([]types.Sentence, len(out.Sentences))}
	for i, s := range out.Sentences {
		doc.Sentences[i] = convertSentence(i, s)
	}

	chains, err := convertCorefs(out.Corefs)
	if err != nil {
		return nil, err
	}
	doc.Coref = chains
	return doc, nil
}

func convertSentence(index int, s coreNLPSentence) types.Sentence {
	sent := types.Sentence{Index: index, Tokens: make([]types.Token, len(s.Tokens))}
	var text strings.Builder
	for i, t := range s.Tokens {
		sent.Tokens[i] = types.Token{
			Index:    t.Index,
			Word:     t.Word,
			Lemma:    t.Lemma,
			Tag:      t.POS,
			NER:      t.NER,
			Polarity: polarity(t),
		}
		orig := t.OriginalText
		if orig == "" {
			orig = t.Word
		}
		text.WriteString(orig)
		if i < len(s.Tokens)-1 {
			text.WriteString(t.After)
		}
	}
	sent.Text = text.String()
	sent.Basic = convertDependencies(s.Basic)

	enhanced := s.EnhancedPlusPlus
	if len(enhanced) == 0 {
		enhanced = s.Enhanced
	}
	if len(enhanced) == 0 {
		enhanced = s.CollapsedCCProcessed
	}
	sent.Enhanced = convertDependencies(enhanced)
	return sent
}

func polarity(t coreNLPToken) string {
	for _, p := range []string{t.PolarityDir, t.Polarity} {
		switch strings.ToLower(p) {
		case types.PolarityUp, types.PolarityDown, types.PolarityFlat:
			return strings.ToLower(p)
		}
	}
	return ""
}

func convertDependencies(deps []coreNLPDependency) []types.Dependency {
	if len(deps) == 0 {
		return nil
	}
	out := make([]types.Dependency, len(deps))
	for i, d := range deps {
		rel := d.Dep
		if rel == "ROOT" {
			rel = "root"
		}
		out[i] = types.Dependency{Relation: rel, Governor: d.Governor, Dependent: d.Dependent}
	}
	return out
}

func convertCorefs(corefs map[string][]coreNLPMention) ([]types.CorefChain, error) {
	if len(corefs) == 0 {
		return nil, nil
	}
	chains := make([]types.CorefChain, 0, len(corefs))
	for key, mentions := range corefs {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("coref chain id %q: %w", key, err)
		}
		chain := types.CorefChain{ID: id, Mentions: make([]types.CorefMention, len(mentions))}
		for i, m := range mentions {
			chain.Mentions[i] = types.CorefMention{
				Sentence:       m.SentNum - 1,
				Start:          m.StartIndex,
				End:            m.EndIndex,
				Representative: m.IsRepresentative,
			}
		}
		chains = append(chains, chain)
	}
	sort.Slice(chains, func(i, j int) bool { return chains[i].ID < chains[j].ID })
	return chains, nil
}
